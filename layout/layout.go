// Package layout computes the fixed geometry of the star calendar. All sizes are in SVG user units (pixels) with the origin at the top-left and depend only on the number of rows, never on their content.
package layout

import (
	"fmt"
	"strconv"

	"github.com/tdewolff/stars"
)

// Geometry constants.
const (
	CellSize      = 20.0
	CellInset     = 1.0 // gap between a cell and its grid lines
	FontSize      = 12.0
	TotalFontSize = 14.0
	XOffset       = 40.0 // width of the year label area
	YOffset       = 60.0 // height of the day label area
	YearYOffset   = 5.0
	Padding       = 20.0
	BorderWidth   = 1.0
	Columns       = stars.NumDays + 1 // days plus the totals column
)

// Point is a coordinate.
type Point struct {
	X, Y float64
}

func (p Point) String() string {
	return fmt.Sprintf("[%g; %g]", p.X, p.Y)
}

// Rect is a rectangle with its top-left corner at (X,Y).
type Rect struct {
	X, Y, W, H float64
}

// Contains returns true if the point lies within the rectangle.
func (r Rect) Contains(p Point) bool {
	return r.X <= p.X && p.X < r.X+r.W && r.Y <= p.Y && p.Y < r.Y+r.H
}

func (r Rect) String() string {
	return fmt.Sprintf("[%g; %g]--[%g; %g]", r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// Line is a straight line segment.
type Line struct {
	X1, Y1, X2, Y2 float64
}

// TextAlign is the horizontal alignment of a label relative to its anchor point.
type TextAlign int

// see TextAlign
const (
	Left TextAlign = iota
	Right
	Center
)

func (ta TextAlign) String() string {
	switch ta {
	case Left:
		return "Left"
	case Right:
		return "Right"
	case Center:
		return "Center"
	}
	return "Invalid(" + strconv.Itoa(int(ta)) + ")"
}

// LabelKind identifies what a label shows, renderers use it to pick a font.
type LabelKind int

// see LabelKind
const (
	YearLabel LabelKind = iota
	DayLabel
	TotalLabel
	GrandTotalLabel
)

// Label is a text anchored on its baseline.
type Label struct {
	Point
	Kind  LabelKind
	Align TextAlign
	Text  string
}

// Size returns the width and height of the canvas for the given number of rows.
func Size(rows int) (float64, float64) {
	m := Matrix(rows)
	return XOffset + m.W + Padding*2.0, YOffset + m.H + Padding*4.0
}

// Matrix returns the area covered by the day cells and the totals column.
func Matrix(rows int) Rect {
	return Rect{XOffset, YOffset, Columns * CellSize, float64(rows) * CellSize}
}

// Border returns the rectangle drawn around the matrix.
func Border(rows int) Rect {
	m := Matrix(rows)
	return Rect{m.X - BorderWidth, m.Y - BorderWidth, m.W + BorderWidth*2.0, m.H + BorderWidth*2.0}
}

// GridLines returns the vertical lines followed by the horizontal lines of the matrix.
func GridLines(rows int) []Line {
	m := Matrix(rows)
	lines := make([]Line, 0, Columns+1+rows+1)
	for i := 0; i <= Columns; i++ {
		x := m.X + float64(i)*CellSize
		lines = append(lines, Line{x, m.Y, x, m.Y + m.H})
	}
	for i := 0; i <= rows; i++ {
		y := m.Y + float64(i)*CellSize
		lines = append(lines, Line{m.X, y, m.X + m.W, y})
	}
	return lines
}

// Cell returns the rectangle of a day cell, day is zero-based.
func Cell(row, day int) Rect {
	x := XOffset + float64(day)*CellSize
	y := YOffset + float64(row)*CellSize
	return Rect{x + CellInset, y + CellInset, CellSize - CellInset*2.0, CellSize - CellInset*2.0}
}

// DayLabels returns the labels above each day column. Two-digit days are stacked with the tens on top.
func DayLabels() []Label {
	labels := make([]Label, 0, stars.NumDays+stars.NumDays-9)
	for day := 0; day < stars.NumDays; day++ {
		x := XOffset + float64(day)*CellSize + CellSize/2.0
		n := day + 1
		if 10 <= n {
			labels = append(labels, Label{Point{x, YOffset - Padding - 2.0}, DayLabel, Center, strconv.Itoa(n / 10)})
		}
		labels = append(labels, Label{Point{x, YOffset - Padding/4.0}, DayLabel, Center, strconv.Itoa(n % 10)})
	}
	return labels
}

// YearLabelAt returns the label left of the given row.
func YearLabelAt(row, year int) Label {
	y := YOffset + YearYOffset + float64(row)*CellSize + CellSize/2.0
	return Label{Point{XOffset - Padding/2.0, y}, YearLabel, Right, strconv.Itoa(year)}
}

// TotalLabelAt returns the label in the totals column of the given row.
func TotalLabelAt(row, total int) Label {
	x := XOffset + stars.NumDays*CellSize + CellSize/2.0
	y := YOffset + float64(row)*CellSize + CellSize/2.0 + FontSize/3.0
	return Label{Point{x, y}, TotalLabel, Center, strconv.Itoa(total)}
}

// GrandTotalLabelAt returns the label below the matrix.
func GrandTotalLabelAt(rows, total int) Label {
	m := Matrix(rows)
	return Label{Point{m.X + m.W/2.0, m.Y + m.H + Padding*2.0}, GrandTotalLabel, Center, fmt.Sprintf("Total stars: %d", total)}
}
