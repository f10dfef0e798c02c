package stars

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/multierr"
)

// NumDays is the number of puzzle days in one year.
const NumDays = 25

// Star is the completion status of a single day.
type Star uint8

// see Star
const (
	None   Star = iota // unsolved
	Silver             // part one solved
	Gold               // both parts solved
)

// Valid returns true if the star is one of None, Silver, or Gold.
func (s Star) Valid() bool {
	return s <= Gold
}

// Points returns the number of stars earned for the day.
func (s Star) Points() int {
	if !s.Valid() {
		return 0
	}
	return int(s)
}

func (s Star) String() string {
	switch s {
	case None:
		return "none"
	case Silver:
		return "silver"
	case Gold:
		return "gold"
	}
	return fmt.Sprintf("Star(%d)", uint8(s))
}

// Year holds the results of a single year. Days[0] is the first day.
type Year struct {
	Year int
	Days [NumDays]Star
}

// Total returns the number of stars earned in the year.
func (y Year) Total() int {
	n := 0
	for _, day := range y.Days {
		n += day.Points()
	}
	return n
}

// Data is a parsed star document. Years are kept in input order, including duplicates.
type Data struct {
	Years []Year
}

// Len returns the number of years.
func (d *Data) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Years)
}

// Total returns the number of stars earned over all years.
func (d *Data) Total() int {
	if d == nil {
		return 0
	}
	n := 0
	for _, y := range d.Years {
		n += y.Total()
	}
	return n
}

// Writer can write the star data to a writer, such as an SVG or PNG encoder.
type Writer func(io.Writer, *Data) error

// WriteFile writes the star data to a file using the given writer.
func (d *Data) WriteFile(filename string, w Writer) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	return w(f, d)
}

// Theme is the fallback color scheme used when the viewer has no preference.
type Theme int

// see Theme
const (
	Light Theme = iota
	Dark
)

func (t Theme) String() string {
	switch t {
	case Light:
		return "light"
	case Dark:
		return "dark"
	}
	return fmt.Sprintf("Theme(%d)", int(t))
}

// ParseTheme parses "light" or "dark", the empty string is Light.
func ParseTheme(s string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "light":
		return Light, nil
	case "dark":
		return Dark, nil
	}
	return Light, fmt.Errorf("unknown theme: %s", s)
}
