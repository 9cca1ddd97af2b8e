package dateutil

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLayout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  string
		want    string
		wantErr error
	}{
		{name: "empty selects default", format: "", want: "2006-01-02"},
		{name: "full year", format: "YYYY", want: "2006"},
		{name: "short year", format: "YY", want: "06"},
		{name: "month name beats month number", format: "MMMM", want: "January"},
		{name: "short month name", format: "MMM", want: "Jan"},
		{name: "padded and bare month", format: "MM M", want: "01 1"},
		{name: "padded and bare day", format: "DD D", want: "02 2"},
		{name: "weekday names", format: "dddd ddd", want: "Monday Mon"},
		{name: "clock", format: "HH:mm:ss", want: "15:04:05"},
		{name: "twelve hour clock", format: "hh:mm A", want: "03:04 PM"},
		{name: "separators kept", format: "DD/MM/YYYY", want: "02/01/2006"},
		{name: "bracketed text is literal", format: "[Day] D", want: "Day 2"},
		{name: "preset", format: "long", want: "January 2, 2006"},
		{name: "preset is case-insensitive", format: "EUROPEAN", want: "02/01/2006"},
		{name: "unclosed bracket", format: "[Day D", wantErr: ErrInvalidDateFormat},
		{name: "too long", format: strings.Repeat("Y", MaxDateFormatLength+1), wantErr: ErrInvalidDateFormat},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Layout(tt.format)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Layout(%q) error = %v, want %v", tt.format, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Layout(%q) unexpected error: %v", tt.format, err)
			}
			if got != tt.want {
				t.Errorf("Layout(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2024, time.March, 5, 14, 7, 0, 0, time.UTC)

	tests := []struct {
		format string
		want   string
	}{
		{"", "2024-03-05"},
		{"iso", "2024-03-05"},
		{"us", "03/05/2024"},
		{"long", "March 5, 2024"},
		{"datetime", "2024-03-05 14:07"},
		{"[Week of] MMM D", "Week of Mar 5"},
	}

	for _, tt := range tests {
		got, err := Format(fixed, tt.format)
		if err != nil {
			t.Fatalf("Format(%q) unexpected error: %v", tt.format, err)
		}
		if got != tt.want {
			t.Errorf("Format(%q) = %q, want %q", tt.format, got, tt.want)
		}
	}

	if _, err := Format(fixed, "[oops"); !errors.Is(err, ErrInvalidDateFormat) {
		t.Errorf("expected ErrInvalidDateFormat, got %v", err)
	}
}
