// Package cli provides shared formatting helpers for the nmconn commands.
package cli

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"
)

// colorEnabled is false when NO_COLOR env var is set (per no-color.org).
var colorEnabled = os.Getenv("NO_COLOR") == ""

const reset = "\033[0m"

func paint(code, s string) string {
	if !colorEnabled {
		return s
	}
	return code + s + reset
}

// Green, Yellow, Red, Bold, and Dim wrap s in the matching ANSI style.
// They return s unchanged when NO_COLOR is set.
func Green(s string) string  { return paint("\033[32m", s) }
func Yellow(s string) string { return paint("\033[33m", s) }
func Red(s string) string    { return paint("\033[31m", s) }
func Bold(s string) string   { return paint("\033[1m", s) }
func Dim(s string) string    { return paint("\033[2m", s) }

var ansiEscape = regexp.MustCompile(`\033\[[0-9;]*m`)

// visibleWidth counts the runes of s a terminal displays.
func visibleWidth(s string) int {
	return utf8.RuneCountInString(ansiEscape.ReplaceAllString(s, ""))
}

// DotPad pads name with dots to the given visible width, ignoring color
// codes in name.
// Example: DotPad("eth0", 12) → "eth0 ......."
func DotPad(name string, width int) string {
	n := visibleWidth(name)
	if width <= 0 || n >= width-1 {
		return name
	}
	return name + " " + strings.Repeat(".", width-n-1)
}

// Value renders a setting value the way nmcli prints it: "--" for unset,
// lists comma-joined.
func Value(v any) string {
	switch x := v.(type) {
	case nil:
		return "--"
	case string:
		if x == "" {
			return "--"
		}
		return x
	case []string:
		if len(x) == 0 {
			return "--"
		}
		return strings.Join(x, ",")
	case bool:
		if x {
			return "yes"
		}
		return "no"
	}
	return fmt.Sprint(v)
}

// Status renders the outcome of one reconciliation.
func Status(changed, dryRun bool, err error) string {
	switch {
	case err != nil:
		return Red("failed")
	case changed && dryRun:
		return Yellow("would change")
	case changed:
		return Yellow("changed")
	}
	return Green("ok")
}
