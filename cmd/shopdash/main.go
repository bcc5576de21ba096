// shopdash renders an e-commerce analytics dashboard from pre-aggregated CSV
// exports.
//
// Usage:
//
//	shopdash --data ./data
//	shopdash --data ./data --format json | jq .
//	shopdash --data ./data --format html --out dashboard.html --png-dir charts
//
// The data directory must hold orders.csv, orders_customers.csv,
// total_order_by_payment_type.csv and total_revenue_per_category.csv.
//
// Output modes (auto-detected):
//
//	terminal  styled Unicode output (default when TTY)
//	llm       terse plain text for AI consumption (default when piped)
//	json      structured JSON for automation
//	html      standalone echarts page
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/dkoosis/shopdash/internal/config"
	"github.com/dkoosis/shopdash/internal/logger"
	"github.com/dkoosis/shopdash/internal/source"
	"github.com/dkoosis/shopdash/internal/version"
	"github.com/dkoosis/shopdash/pkg/mapper"
	"github.com/dkoosis/shopdash/pkg/pattern"
	"github.com/dkoosis/shopdash/pkg/render"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags, showVersion, err := parseFlags(args, stderr)
	if err != nil {
		return 2
	}
	if showVersion {
		fmt.Fprintln(stdout, version.String())
		return 0
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(stderr, "shopdash: loading .env: %v\n", err)
		return 2
	}

	cfg, err := config.Resolve(flags)
	if err != nil {
		fmt.Fprintf(stderr, "shopdash: %v\n", err)
		return 2
	}

	log, err := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
		MaxAge: cfg.Log.MaxAge,
		Output: stderr,
	})
	if err != nil {
		fmt.Fprintf(stderr, "shopdash: %v\n", err)
		return 2
	}
	defer func() { _ = log.Close() }()

	runID := uuid.NewString()
	clog := log.WithComponent("cli").WithFields(logger.Fields{"run_id": runID})
	clog.WithFields(logger.Fields{
		"config_file": cfg.ConfigFile,
		"data_dir":    cfg.DataDir,
		"format":      cfg.Format,
		"theme":       cfg.Theme,
	}).Debug("configuration resolved")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	patterns, err := buildDashboard(ctx, cfg, log)
	if err != nil {
		clog.WithError(err).Error("building dashboard")
		fmt.Fprintf(stderr, "shopdash: %v\n", err)
		return 1
	}

	theme := render.ThemeByName(cfg.Theme).WithPalette(render.Palette{
		Highlight: cfg.Palette.Highlight,
		Neutral:   cfg.Palette.Neutral,
		Good:      cfg.Palette.Good,
		Bad:       cfg.Palette.Bad,
	})

	out := stdout
	var f *os.File
	if cfg.Out != "" {
		if f, err = os.Create(cfg.Out); err != nil {
			clog.WithError(err).Error("opening output")
			fmt.Fprintf(stderr, "shopdash: %v\n", err)
			return 1
		}
		out = f
	}

	mode := resolveFormat(cfg.Format, cfg.Out, out)
	r := selectRenderer(mode, theme, runID, cfg.Title, out)
	_, err = io.WriteString(out, r.Render(patterns))
	if f != nil {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		clog.WithError(err).Error("writing output")
		fmt.Fprintf(stderr, "shopdash: writing output: %v\n", err)
		return 1
	}
	clog.WithFields(logger.Fields{"mode": mode, "patterns": len(patterns)}).Debug("rendered")

	if cfg.PNGDir != "" {
		paths, err := render.NewPNG(theme.Palette).WriteDir(cfg.PNGDir, patterns)
		if err != nil {
			clog.WithError(err).Error("exporting charts")
			fmt.Fprintf(stderr, "shopdash: %v\n", err)
			return 1
		}
		clog.WithFields(logger.Fields{"dir": cfg.PNGDir, "files": len(paths)}).Info("charts exported")
	}
	return 0
}

// parseFlags maps the command line onto config.CliFlags, marking every flag
// the user actually passed.
func parseFlags(args []string, stderr io.Writer) (config.CliFlags, bool, error) {
	var f config.CliFlags
	fs := flag.NewFlagSet("shopdash", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.ConfigFile, "config", "", "Config file (default: ./.shopdash.yaml, then user config dir)")
	fs.StringVar(&f.DataDir, "data", config.DefaultDataDir, "Directory holding the CSV exports")
	fs.StringVar(&f.Format, "format", config.DefaultFormat, "Output format: auto, terminal, llm, json, html")
	fs.StringVar(&f.Theme, "theme", config.DefaultTheme, "Theme: default, orca, mono")
	fs.IntVar(&f.TopN, "top", config.DefaultTopN, "Bars per category leaderboard")
	fs.StringVar(&f.Title, "title", config.DefaultTitle, "Dashboard title")
	fs.StringVar(&f.Out, "out", "", "Write output to this file instead of stdout")
	fs.StringVar(&f.PNGDir, "png-dir", "", "Also export every chart as PNG into this directory")
	fs.StringVar(&f.LogLevel, "log-level", config.DefaultLogLevel, "Log level: debug, info, warn, error")
	fs.BoolVar(&f.NoColor, "no-color", false, "Disable colors (same as --theme mono)")
	showVersion := fs.Bool("version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return f, false, err
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "shopdash: unexpected argument %q\n", fs.Arg(0))
		fs.Usage()
		return f, false, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "data":
			f.DataDirSet = true
		case "format":
			f.FormatSet = true
		case "theme":
			f.ThemeSet = true
		case "top":
			f.TopNSet = true
		case "title":
			f.TitleSet = true
		case "out":
			f.OutSet = true
		case "png-dir":
			f.PNGDirSet = true
		case "log-level":
			f.LogLevelSet = true
		case "no-color":
			f.NoColorSet = true
		}
	})
	return f, *showVersion, nil
}

func buildDashboard(ctx context.Context, cfg *config.ResolvedConfig, log *logger.Log) ([]pattern.Pattern, error) {
	srcLog := log.WithComponent("source")
	ds, err := source.LoadDir(ctx, cfg.DataDir)
	if err != nil {
		return nil, err
	}
	srcLog.WithFields(logger.Fields{
		"orders":        ds.Orders.Len(),
		"customers":     ds.OrdersCustomers.Len(),
		"payment_types": ds.PaymentTypes.Len(),
		"categories":    ds.CategoryRevenue.Len(),
		"data_dir":      cfg.DataDir,
	}).Debug("dataset loaded")

	patterns, err := mapper.FromDataset(ds, mapper.Options{Title: cfg.Title, TopN: cfg.TopN})
	if err != nil {
		return nil, fmt.Errorf("computing dashboard: %w", err)
	}
	log.WithComponent("mapper").WithFields(logger.Fields{"patterns": len(patterns)}).Debug("dashboard computed")
	return patterns, nil
}

func selectRenderer(mode string, theme render.Theme, runID, title string, w io.Writer) render.Renderer {
	switch mode {
	case "json":
		return render.NewJSON(runID)
	case "llm":
		return render.NewLLM()
	case "html":
		return render.NewHTML(title, theme.Palette)
	default:
		return render.NewTerminal(theme, termWidth(w))
	}
}

// resolveFormat picks a concrete mode for "auto": the --out extension when
// writing to a file, otherwise TTY = terminal, piped = llm.
func resolveFormat(format, outPath string, w io.Writer) string {
	if format != "auto" {
		return format
	}
	if outPath != "" {
		switch strings.ToLower(filepath.Ext(outPath)) {
		case ".html", ".htm":
			return "html"
		case ".json":
			return "json"
		default:
			return "llm"
		}
	}
	if isTTYWriter(w) {
		return "terminal"
	}
	return "llm"
}

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// termWidth returns the terminal width for w, defaulting to 80.
func termWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 0 {
			return tw
		}
	}
	return 80
}
