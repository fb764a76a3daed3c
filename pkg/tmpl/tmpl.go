// Package tmpl provides template rendering utilities for chat replies.
package tmpl

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
	"unicode/utf8"
)

var funcs = template.FuncMap{
	"join":    strings.Join,
	"pad":     pad,
	"plural":  plural,
	"minutes": minutes,
}

// pad right-pads s with spaces to width runes.
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// plural picks the singular form when n is exactly one.
func plural(n any, singular, pluralForm string) string {
	switch v := n.(type) {
	case int:
		if v == 1 {
			return singular
		}
	case int64:
		if v == 1 {
			return singular
		}
	}
	return pluralForm
}

// minutes returns the whole minutes in d.
func minutes(d time.Duration) int64 {
	return int64(d / time.Minute)
}

func parse(tmpl string) (*template.Template, error) {
	t, err := template.New("").Funcs(funcs).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	return t, nil
}

// Render executes a Go template string with the given data.
// Returns an error if the template is invalid or references undefined keys.
//
// Available template functions:
//   - join: Join string slice with separator (e.g., join .Args " ")
//   - pad: Right-pad a string to a width (e.g., pad .Text 20)
//   - plural: Choose a word form by count (e.g., plural .N "task" "tasks")
//   - minutes: Whole minutes of a duration
func Render(tmpl string, data any) (string, error) {
	t, err := parse(tmpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}

// Validate checks template syntax without executing it.
func Validate(tmpl string) error {
	_, err := parse(tmpl)
	return err
}
