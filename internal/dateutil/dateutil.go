// Package dateutil turns human date patterns such as "DD/MM/YYYY" into Go
// time layouts.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates a pattern that cannot be turned into a layout.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits pattern length.
const MaxDateFormatLength = 64

// DefaultDateFormat is used for an empty pattern.
const DefaultDateFormat = "YYYY-MM-DD"

// Longest tokens first so "MMMM" wins over "MM".
var dateTokens = []struct {
	token  string
	layout string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"dddd", "Monday"},
	{"MMM", "Jan"},
	{"ddd", "Mon"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"HH", "15"},
	{"hh", "03"},
	{"mm", "04"},
	{"ss", "05"},
	{"A", "PM"},
	{"M", "1"},
	{"D", "2"},
}

// Presets are named shortcuts accepted wherever a pattern is.
var Presets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
	"datetime": "YYYY-MM-DD HH:mm",
}

// Layout converts a pattern to a Go time layout. Text inside square
// brackets is copied literally, as is any character that is not a token.
// Preset names are expanded first; an empty pattern selects DefaultDateFormat.
func Layout(format string) (string, error) {
	if format == "" {
		format = DefaultDateFormat
	}
	if preset, ok := Presets[strings.ToLower(format)]; ok {
		format = preset
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: longer than %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var sb strings.Builder
	sb.Grow(len(format) + 8)
	for i := 0; i < len(format); {
		if format[i] == '[' {
			end := strings.IndexByte(format[i+1:], ']')
			if end < 0 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			sb.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}
		n := writeToken(&sb, format[i:])
		if n == 0 {
			sb.WriteByte(format[i])
			n = 1
		}
		i += n
	}
	return sb.String(), nil
}

// writeToken writes the layout for the token at the start of s and returns
// its length, or 0 when s does not start with a token.
func writeToken(sb *strings.Builder, s string) int {
	for _, t := range dateTokens {
		if strings.HasPrefix(s, t.token) {
			sb.WriteString(t.layout)
			return len(t.token)
		}
	}
	return 0
}

// Format renders t with a pattern or preset name.
func Format(t time.Time, format string) (string, error) {
	layout, err := Layout(format)
	if err != nil {
		return "", err
	}
	return t.Format(layout), nil
}
