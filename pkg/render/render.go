// Package render provides output renderers for the dashboard's chart patterns.
package render

import "github.com/dkoosis/shopdash/pkg/pattern"

// Renderer converts patterns to formatted output.
type Renderer interface {
	Render(patterns []pattern.Pattern) string
}
