// Package config holds the viewer's tunable parameters and the two
// ways spec.md §6 lets a user set them: command-line flags (parsed by
// cmd/hovacui with the standard library flag package, grounded on
// cmd/extract/main.go's parseFlags) and the conf-file directives read
// from $HOME/.config/hovacui/hovacui.conf, one directive per line.
// Grounded on the option/config-file handling in
// _examples/original_source/hovacui.c (struct output's defaults and
// the configline/getopt parsing around it).
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/wudi/hovacui/position"
	"github.com/wudi/hovacui/textarea"
)

// Order selects the reading-order sort (rect.SortQuick, rect.SortTwoStep
// or rect.SortChar) the viewer applies to the decomposition it
// navigates, mirroring the "qtc" index in
// the original's -o option and order directive.
type Order int

const (
	OrderQuick Order = iota
	OrderTwoStep
	OrderChar
)

// Config is the full set of viewer parameters, populated from
// Default, then overridden by a conf file, then by command-line flags
// (highest precedence), matching the original's configuration layering.
type Config struct {
	Mode     textarea.ViewMode
	Fit      position.Fit
	MinWidth float64
	Order    Order
	// Distance is the text-area block-distance threshold in points; a
	// negative value requests textarea.Decompose's adaptive default.
	Distance float64
	// Aspect is the screen pixel aspect ratio; a negative value makes
	// the viewer use 1 (square pixels).
	Aspect float64
	Scroll float64
	// FontSize is the label/status font size in points; -1 requests
	// deriving it from the device's screen height (screenheight/25).
	FontSize float64
	Margin   float64
	Device   string

	Immediate    bool
	NoTutorial   bool
	TotalPages   bool
	NoInitLabels bool
}

// Default returns the built-in defaults, matching the original's
// struct output initialization before any config file or flag is
// applied.
func Default() Config {
	return Config{
		Mode:     textarea.ViewAuto,
		Fit:      position.FitH,
		MinWidth: position.DefaultMinWidth,
		Order:    OrderTwoStep,
		Distance: 15.0,
		Aspect:   -1,
		Scroll:   0.25,
		FontSize: -1,
		Margin:   10.0,
	}
}

// Path returns $HOME/.config/hovacui/hovacui.conf, or an error if the
// home directory cannot be determined.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, ".config", "hovacui", "hovacui.conf"), nil
}

// Load reads the conf file at Path into cfg, starting from the values
// already in cfg (normally Default()). A missing file is not an
// error: the viewer runs on defaults, per spec.md §7 "no exception-like
// escape".
func Load(cfg Config) (Config, error) {
	path, err := Path()
	if err != nil {
		return cfg, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ParseFile(cfg, f)
}

// ParseFile applies every recognized directive in r to cfg and
// returns the result. Parsing is total (spec.md §8 "Config/CLI"):
// unrecognized or malformed lines are ignored rather than aborting
// the scan.
func ParseFile(cfg Config, r io.Reader) (Config, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		applyLine(&cfg, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	return cfg, nil
}

// applyLine parses one conf-file line, updating at most one field of
// cfg. Comments start with '#'; blank lines are ignored.
func applyLine(cfg *Config, line string) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}
	directive, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch directive {
	case "mode":
		if m, ok := modeFromLetter(arg); ok {
			cfg.Mode = m
		}
	case "fit":
		if f, ok := fitFromLetter(arg); ok {
			cfg.Fit = f
		}
	case "minwidth":
		if v, ok := parseFloat(arg); ok {
			cfg.MinWidth = v
		}
	case "order":
		if o, ok := orderFromLetter(arg); ok {
			cfg.Order = o
		}
	case "distance":
		if v, ok := parseFloat(arg); ok {
			cfg.Distance = v
		}
	case "aspect":
		if v, ok := parseAspect(arg); ok {
			cfg.Aspect = v
		}
	case "scroll":
		if v, ok := parseFloat(arg); ok {
			cfg.Scroll = v
		}
	case "fontsize":
		if v, ok := parseFloat(arg); ok {
			cfg.FontSize = v
		}
	case "margin":
		if v, ok := parseFloat(arg); ok {
			cfg.Margin = v
		}
	case "device":
		if arg != "" {
			cfg.Device = arg
		}
	case "immediate":
		cfg.Immediate = true
	case "notutorial":
		cfg.NoTutorial = true
	case "totalpages":
		cfg.TotalPages = true
	case "noinitlabels":
		cfg.NoInitLabels = true
	}
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

// parseAspect accepts "W:H", "W/H" or a bare float, matching the -s
// option's three accepted forms.
func parseAspect(s string) (float64, bool) {
	for _, sep := range []string{":", "/"} {
		if w, h, ok := strings.Cut(s, sep); ok {
			wv, werr := strconv.ParseFloat(w, 64)
			hv, herr := strconv.ParseFloat(h, 64)
			if werr == nil && herr == nil && hv != 0 {
				return wv / hv, true
			}
		}
	}
	return parseFloat(s)
}

// ModeLetters is the original's "atbp" index string for -m/mode.
const ModeLetters = "atbp"

// FitLetters is the original's "nhvb" index string for -f/fit.
const FitLetters = "nhvb"

// OrderLetters is the original's "qtc" index string for -o/order.
const OrderLetters = "qtc"

func modeFromLetter(s string) (textarea.ViewMode, bool) {
	switch letterIndex(ModeLetters, s) {
	case 0:
		return textarea.ViewAuto, true
	case 1:
		return textarea.ViewText, true
	case 2:
		return textarea.ViewBBox, true
	case 3:
		return textarea.ViewPage, true
	}
	return 0, false
}

func fitFromLetter(s string) (position.Fit, bool) {
	switch letterIndex(FitLetters, s) {
	case 0:
		return position.FitNone, true
	case 1:
		return position.FitH, true
	case 2:
		return position.FitV, true
	case 3:
		return position.FitBoth, true
	}
	return 0, false
}

func orderFromLetter(s string) (Order, bool) {
	switch letterIndex(OrderLetters, s) {
	case 0:
		return OrderQuick, true
	case 1:
		return OrderTwoStep, true
	case 2:
		return OrderChar, true
	}
	return 0, false
}

// letterIndex returns the index of s's first byte within letters, or
// -1 if s is empty or its first byte is not one of letters — the same
// optindex() helper the original uses for every letter-coded option.
func letterIndex(letters, s string) int {
	if s == "" {
		return -1
	}
	return strings.IndexByte(letters, s[0])
}
