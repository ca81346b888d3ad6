package config

import (
	"strings"
	"testing"

	"github.com/wudi/hovacui/position"
	"github.com/wudi/hovacui/textarea"
)

func TestParseFileUpdatesRecognizedDirectives(t *testing.T) {
	input := `
# a comment, ignored
mode b
fit v
minwidth 250
order c
distance 9
aspect 4:3
scroll 0.5
fontsize 12
margin 5
device /dev/fb0
immediate
notutorial
totalpages
noinitlabels
`
	cfg, err := ParseFile(Default(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if cfg.Mode != textarea.ViewBBox {
		t.Fatalf("Mode = %v, want ViewBBox", cfg.Mode)
	}
	if cfg.Fit != position.FitV {
		t.Fatalf("Fit = %v, want FitV", cfg.Fit)
	}
	if cfg.MinWidth != 250 {
		t.Fatalf("MinWidth = %v, want 250", cfg.MinWidth)
	}
	if cfg.Order != OrderChar {
		t.Fatalf("Order = %v, want OrderChar", cfg.Order)
	}
	if cfg.Distance != 9 {
		t.Fatalf("Distance = %v, want 9", cfg.Distance)
	}
	if cfg.Aspect != 4.0/3.0 {
		t.Fatalf("Aspect = %v, want %v", cfg.Aspect, 4.0/3.0)
	}
	if cfg.Scroll != 0.5 {
		t.Fatalf("Scroll = %v, want 0.5", cfg.Scroll)
	}
	if cfg.FontSize != 12 {
		t.Fatalf("FontSize = %v, want 12", cfg.FontSize)
	}
	if cfg.Margin != 5 {
		t.Fatalf("Margin = %v, want 5", cfg.Margin)
	}
	if cfg.Device != "/dev/fb0" {
		t.Fatalf("Device = %q, want /dev/fb0", cfg.Device)
	}
	if !cfg.Immediate || !cfg.NoTutorial || !cfg.TotalPages || !cfg.NoInitLabels {
		t.Fatal("expected all four boolean directives to be set")
	}
}

func TestParseFileIgnoresUnrecognizedLinesWithoutAborting(t *testing.T) {
	input := "bogus directive\nmode t\nanother nonsense line\n"
	cfg, err := ParseFile(Default(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if cfg.Mode != textarea.ViewText {
		t.Fatalf("Mode = %v, want ViewText (recognized directive after garbage)", cfg.Mode)
	}
}

func TestParseFileLeavesUnsetFieldsAtTheirStartingValue(t *testing.T) {
	start := Default()
	cfg, err := ParseFile(start, strings.NewReader("mode p\n"))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if cfg.Fit != start.Fit {
		t.Fatalf("Fit changed to %v despite no fit directive", cfg.Fit)
	}
	if cfg.Distance != start.Distance {
		t.Fatalf("Distance changed to %v despite no distance directive", cfg.Distance)
	}
}

func TestParseAspectAcceptsColonSlashAndBareFloat(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"16:9", 16.0 / 9.0},
		{"4/3", 4.0 / 3.0},
		{"1.5", 1.5},
	}
	for _, c := range cases {
		cfg, err := ParseFile(Default(), strings.NewReader("aspect "+c.in+"\n"))
		if err != nil {
			t.Fatalf("ParseFile(%q): %v", c.in, err)
		}
		if cfg.Aspect != c.want {
			t.Fatalf("aspect %q = %v, want %v", c.in, cfg.Aspect, c.want)
		}
	}
}

func TestDefaultMatchesTheOriginalsBuiltins(t *testing.T) {
	cfg := Default()
	if cfg.Mode != textarea.ViewAuto {
		t.Fatalf("default Mode = %v, want ViewAuto", cfg.Mode)
	}
	if cfg.Fit != position.FitH {
		t.Fatalf("default Fit = %v, want FitH", cfg.Fit)
	}
	if cfg.MinWidth != position.DefaultMinWidth {
		t.Fatalf("default MinWidth = %v, want %v", cfg.MinWidth, position.DefaultMinWidth)
	}
	if cfg.Order != OrderTwoStep {
		t.Fatalf("default Order = %v, want OrderTwoStep", cfg.Order)
	}
}
