package rasterizer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/srwiley/rasterx"
	"github.com/tdewolff/stars"
	"github.com/tdewolff/stars/layout"
	"golang.org/x/image/font"
	"golang.org/x/image/tiff"
)

// Resolution is the number of pixels per SVG user unit.
type Resolution float64

// MaxResolution is the largest resolution accepted by Draw, it bounds the image to 4800 pixels wide.
const MaxResolution = 8.0

// gridOpacity matches the stroke opacity of grid lines in SVG output.
const gridOpacity = 0.1

// PNGWriter writes the star calendar as a PNG file.
func PNGWriter(theme stars.Theme, resolution Resolution) stars.Writer {
	return func(w io.Writer, data *stars.Data) error {
		img, err := Draw(data, theme, resolution)
		if err != nil {
			return err
		}
		return png.Encode(w, img)
	}
}

// JPGWriter writes the star calendar as a JPG file.
func JPGWriter(theme stars.Theme, resolution Resolution, opts *jpeg.Options) stars.Writer {
	return func(w io.Writer, data *stars.Data) error {
		img, err := Draw(data, theme, resolution)
		if err != nil {
			return err
		}
		return jpeg.Encode(w, img, opts)
	}
}

// GIFWriter writes the star calendar as a GIF file.
func GIFWriter(theme stars.Theme, resolution Resolution, opts *gif.Options) stars.Writer {
	return func(w io.Writer, data *stars.Data) error {
		img, err := Draw(data, theme, resolution)
		if err != nil {
			return err
		}
		return gif.Encode(w, img, opts)
	}
}

// TIFFWriter writes the star calendar as a TIFF file.
func TIFFWriter(theme stars.Theme, resolution Resolution, opts *tiff.Options) stars.Writer {
	return func(w io.Writer, data *stars.Data) error {
		img, err := Draw(data, theme, resolution)
		if err != nil {
			return err
		}
		return tiff.Encode(w, img, opts)
	}
}

// Draw draws the star calendar on a new image using the theme's palette. Higher resolution will result in larger images.
func Draw(data *stars.Data, theme stars.Theme, resolution Resolution) (*image.RGBA, error) {
	if resolution <= 0.0 {
		resolution = 1.0
	} else if !(resolution <= MaxResolution) {
		return nil, fmt.Errorf("resolution %v exceeds maximum of %v", float64(resolution), MaxResolution)
	}
	w, h := layout.Size(data.Len())
	img := image.NewRGBA(image.Rect(0, 0, int(w*float64(resolution)+0.5), int(h*float64(resolution)+0.5)))
	ras, err := New(img, theme.Palette(), resolution)
	if err != nil {
		return nil, err
	}
	ras.DrawBackground()
	if 0 < data.Len() {
		ras.DrawGrid(data.Len())
		for row, year := range data.Years {
			ras.DrawYear(row, year)
		}
		ras.DrawGrandTotal(data.Len(), data.Total())
	}
	return img, nil
}

// Rasterizer draws star calendars to a raster image.
type Rasterizer struct {
	img        *image.RGBA
	resolution Resolution
	palette    stars.Palette
	filler     *rasterx.Filler

	regular, bold, total font.Face
}

// New returns a rasterizer that draws to img.
func New(img *image.RGBA, palette stars.Palette, resolution Resolution) (*Rasterizer, error) {
	fonts, err := loadFonts()
	if err != nil {
		return nil, err
	}
	res := float64(resolution)
	regular, err := fonts.face(false, layout.FontSize*res)
	if err != nil {
		return nil, err
	}
	bold, err := fonts.face(true, layout.FontSize*res)
	if err != nil {
		return nil, err
	}
	total, err := fonts.face(true, layout.TotalFontSize*res)
	if err != nil {
		return nil, err
	}

	size := img.Bounds().Size()
	scanner := rasterx.NewScannerGV(size.X, size.Y, img, img.Bounds())
	return &Rasterizer{
		img:        img,
		resolution: resolution,
		palette:    palette,
		filler:     rasterx.NewFiller(size.X, size.Y, scanner),
		regular:    regular,
		bold:       bold,
		total:      total,
	}, nil
}

// DrawBackground fills the image with the background color.
func (r *Rasterizer) DrawBackground() {
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(r.palette.Background), image.Point{}, draw.Src)
}

// DrawGrid draws the matrix border, the grid lines, and the day labels.
func (r *Rasterizer) DrawGrid(rows int) {
	grid := color.NRGBA{r.palette.Grid.R, r.palette.Grid.G, r.palette.Grid.B, uint8(gridOpacity*255.0 + 0.5)}
	for _, l := range layout.GridLines(rows) {
		r.line(l, 0.5, grid)
	}

	b := layout.Border(rows)
	x0, y0, x1, y1 := b.X, b.Y, b.X+b.W, b.Y+b.H
	for _, l := range []layout.Line{{X1: x0, Y1: y0, X2: x1, Y2: y0}, {X1: x1, Y1: y0, X2: x1, Y2: y1}, {X1: x1, Y1: y1, X2: x0, Y2: y1}, {X1: x0, Y1: y1, X2: x0, Y2: y0}} {
		r.line(l, layout.BorderWidth, r.palette.Border)
	}

	for _, label := range layout.DayLabels() {
		r.label(label)
	}
}

// DrawYear draws the label, the day cells, and the total of a year on the given row.
func (r *Rasterizer) DrawYear(row int, year stars.Year) {
	r.label(layout.YearLabelAt(row, year.Year))
	for day, star := range year.Days {
		r.rect(layout.Cell(row, day), r.palette.Star(star))
	}
	r.label(layout.TotalLabelAt(row, year.Total()))
}

// DrawGrandTotal draws the sum of all stars below the matrix.
func (r *Rasterizer) DrawGrandTotal(rows, total int) {
	r.label(layout.GrandTotalLabelAt(rows, total))
}

func (r *Rasterizer) rect(rect layout.Rect, c color.Color) {
	res := float64(r.resolution)
	r.filler.Clear()
	r.filler.SetColor(c)
	rasterx.AddRect(rect.X*res, rect.Y*res, (rect.X+rect.W)*res, (rect.Y+rect.H)*res, 0.0, r.filler)
	r.filler.Draw()
}

// line draws an axis-aligned line as a rectangle centered on the line.
func (r *Rasterizer) line(l layout.Line, width float64, c color.Color) {
	x0, x1 := min(l.X1, l.X2), max(l.X1, l.X2)
	y0, y1 := min(l.Y1, l.Y2), max(l.Y1, l.Y2)
	half := width / 2.0
	r.rect(layout.Rect{X: x0 - half, Y: y0 - half, W: x1 - x0 + width, H: y1 - y0 + width}, c)
}

func (r *Rasterizer) label(label layout.Label) {
	res := float64(r.resolution)
	face := r.regular
	switch label.Kind {
	case layout.TotalLabel:
		face = r.bold
	case layout.GrandTotalLabel:
		face = r.total
	}

	d := &font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(r.palette.Text),
		Face: face,
	}
	x := toFixed(label.X * res)
	switch label.Align {
	case layout.Right:
		x -= d.MeasureString(label.Text)
	case layout.Center:
		x -= d.MeasureString(label.Text) / 2
	}
	d.Dot.X = x
	d.Dot.Y = toFixed(label.Y * res)
	d.DrawString(label.Text)
}
