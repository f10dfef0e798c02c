package svg

import (
	"bytes"
	"compress/gzip"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	minifySVG "github.com/tdewolff/minify/v2/svg"
	"github.com/tdewolff/stars"
	"github.com/tdewolff/stars/layout"
)

// MimeType is the media type of the output.
const MimeType = "image/svg+xml"

type Options struct {
	Theme       stars.Theme // default colors for viewers without a color scheme preference
	Minify      bool
	Compression int // gzip compression level, zero disables
}

var DefaultOptions = Options{
	Theme: stars.Light,
}

// SVG is a scalable vector graphics renderer for star calendars.
type SVG struct {
	w             io.Writer
	rows          int
	width, height float64
	opts          *Options
}

// New returns an SVG renderer for a calendar of the given number of rows and writes the document header and style sheet.
func New(w io.Writer, rows int, opts *Options) *SVG {
	if opts == nil {
		defaultOptions := DefaultOptions
		opts = &defaultOptions
	}

	width, height := layout.Size(rows)
	fmt.Fprintf(w, `<svg xmlns="http://www.w3.org/2000/svg" width="%v" height="%v" viewBox="0 0 %v %v">`, dec(width), dec(height), dec(width), dec(height))
	writeStyle(w, opts.Theme)
	return &SVG{
		w:      w,
		rows:   rows,
		width:  width,
		height: height,
		opts:   opts,
	}
}

// Size returns the size of the canvas in pixels.
func (r *SVG) Size() (float64, float64) {
	return r.width, r.height
}

// DrawGrid draws the matrix border, the grid lines, and the day labels.
func (r *SVG) DrawGrid() {
	border := layout.Border(r.rows)
	fmt.Fprintf(r.w, `<rect x="%v" y="%v" width="%v" height="%v" class="matrix-border"/>`, dec(border.X), dec(border.Y), dec(border.W), dec(border.H))
	for _, l := range layout.GridLines(r.rows) {
		fmt.Fprintf(r.w, `<line x1="%v" y1="%v" x2="%v" y2="%v" class="grid-line"/>`, dec(l.X1), dec(l.Y1), dec(l.X2), dec(l.Y2))
	}
	for _, label := range layout.DayLabels() {
		r.writeLabel(label)
	}
}

// DrawYear draws the label, the day cells, and the total of a year on the given row.
func (r *SVG) DrawYear(row int, year stars.Year) {
	r.writeLabel(layout.YearLabelAt(row, year.Year))
	for day, star := range year.Days {
		c := layout.Cell(row, day)
		fmt.Fprintf(r.w, `<rect x="%v" y="%v" width="%v" height="%v" rx="2" class="cell %v"/>`, dec(c.X), dec(c.Y), dec(c.W), dec(c.H), star)
	}
	r.writeLabel(layout.TotalLabelAt(row, year.Total()))
}

// DrawGrandTotal draws the sum of all stars below the matrix.
func (r *SVG) DrawGrandTotal(total int) {
	r.writeLabel(layout.GrandTotalLabelAt(r.rows, total))
}

// Close finishes the SVG.
func (r *SVG) Close() error {
	_, err := fmt.Fprintf(r.w, "</svg>")
	return err
}

func (r *SVG) writeLabel(label layout.Label) {
	anchor := "start"
	switch label.Align {
	case layout.Right:
		anchor = "end"
	case layout.Center:
		anchor = "middle"
	}
	class := "text"
	switch label.Kind {
	case layout.YearLabel:
		class = "year-label text"
	case layout.DayLabel:
		class = "day-label text"
	case layout.TotalLabel:
		class = "total-label text"
	case layout.GrandTotalLabel:
		class = "grand-total text"
	}
	fmt.Fprintf(r.w, `<text x="%v" y="%v" class="%s" text-anchor="%s">`, dec(label.X), dec(label.Y), class, anchor)
	xml.EscapeText(r.w, []byte(label.Text))
	fmt.Fprintf(r.w, "</text>")
}

func writeStyle(w io.Writer, theme stars.Theme) {
	fmt.Fprintf(w, "<style>\n")
	writePalette(w, "", theme.Palette())
	fmt.Fprintf(w, "@media (prefers-color-scheme: light) {\n")
	writePalette(w, "  ", stars.LightPalette)
	fmt.Fprintf(w, "}\n@media (prefers-color-scheme: dark) {\n")
	writePalette(w, "  ", stars.DarkPalette)
	fmt.Fprintf(w, "}\n")
	fmt.Fprintf(w, ".matrix-border { fill: none; stroke-width: 1; }\n")
	fmt.Fprintf(w, ".grid-line { stroke-width: 0.5; stroke-opacity: 0.1; }\n")
	fmt.Fprintf(w, ".text { font-family: Arial, sans-serif; }\n")
	fmt.Fprintf(w, ".year-label, .day-label, .total-label { font-size: %vpx; }\n", dec(layout.FontSize))
	fmt.Fprintf(w, ".total-label { font-weight: bold; }\n")
	fmt.Fprintf(w, ".grand-total { font-size: %vpx; font-weight: bold; }\n", dec(layout.TotalFontSize))
	fmt.Fprintf(w, "</style>")
}

func writePalette(w io.Writer, indent string, p stars.Palette) {
	fmt.Fprintf(w, "%s.text { fill: %s; }\n", indent, stars.CSSColor(p.Text))
	fmt.Fprintf(w, "%s.grid-line { stroke: %s; }\n", indent, stars.CSSColor(p.Grid))
	fmt.Fprintf(w, "%s.matrix-border { stroke: %s; }\n", indent, stars.CSSColor(p.Border))
	fmt.Fprintf(w, "%s.%v { fill: %s; }\n", indent, stars.None, stars.CSSColor(p.None))
	fmt.Fprintf(w, "%s.%v { fill: %s; }\n", indent, stars.Silver, stars.CSSColor(p.Silver))
	fmt.Fprintf(w, "%s.%v { fill: %s; }\n", indent, stars.Gold, stars.CSSColor(p.Gold))
}

// Write writes the star calendar as an SVG document. Identical data and options always produce identical output.
func Write(w io.Writer, data *stars.Data, opts *Options) error {
	if opts == nil {
		defaultOptions := DefaultOptions
		opts = &defaultOptions
	}

	buf := &bytes.Buffer{}
	r := New(buf, data.Len(), opts)
	if 0 < data.Len() {
		r.DrawGrid()
		for row, year := range data.Years {
			r.DrawYear(row, year)
		}
		r.DrawGrandTotal(data.Total())
	}
	if err := r.Close(); err != nil {
		return err
	}

	b := buf.Bytes()
	if opts.Minify {
		m := minify.New()
		m.AddFunc("text/css", css.Minify)
		m.AddFunc(MimeType, minifySVG.Minify)
		var err error
		if b, err = m.Bytes(MimeType, b); err != nil {
			return fmt.Errorf("minify svg: %w", err)
		}
	}

	if opts.Compression != 0 {
		level := opts.Compression
		if level < gzip.HuffmanOnly || gzip.BestCompression < level {
			level = gzip.DefaultCompression
		}
		gz, err := gzip.NewWriterLevel(w, level)
		if err != nil {
			return err
		}
		if _, err := gz.Write(b); err != nil {
			return err
		}
		return gz.Close() // does not close underlying writer
	}
	_, err := w.Write(b)
	return err
}

// Writer returns a writer that encodes star data as SVG.
func Writer(opts *Options) stars.Writer {
	return func(w io.Writer, data *stars.Data) error {
		return Write(w, data, opts)
	}
}

// Render returns the SVG document for the star data using the given fallback theme. It panics if rendering fails, which cannot happen without minification or compression.
func Render(data *stars.Data, theme stars.Theme) []byte {
	buf := &bytes.Buffer{}
	if err := Write(buf, data, &Options{Theme: theme}); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
