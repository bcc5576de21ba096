package render

import (
	"strings"
	"testing"
)

func TestLLM_Render(t *testing.T) {
	out := NewLLM().Render(samplePatterns())

	for _, want := range []string{
		"SCOPE: Sales Dashboard\n",
		"Orders: 10 | Customers: 9\n",
		"## Payment Types\n",
		"Max Total Order: 76,795\n",
		"Total Order by Payment Type [total_order, highest first, 4 of 4]\n",
		" *1. Credit Card 76,795\n",
		"  2. Boleto 19,784\n",
		"  On Time 70.0% (7)\n",
		"  Late 30.0% (3)\n",
		"### Recency\n",
		"By Recency (days) [recency, lowest first, 3 of 9]\n",
		"  1. c1 2\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("LLM output must not contain ANSI escapes")
	}
}
