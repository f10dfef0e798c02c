package layout

import (
	"testing"

	"github.com/tdewolff/stars"
	"github.com/tdewolff/test"
)

func TestSize(t *testing.T) {
	var tests = []struct {
		rows int
		w, h float64
	}{
		{0, 600.0, 140.0},
		{1, 600.0, 160.0},
		{3, 600.0, 200.0},
		{10, 600.0, 340.0},
	}
	for _, tt := range tests {
		w, h := Size(tt.rows)
		test.Float(t, w, tt.w)
		test.Float(t, h, tt.h)
	}
}

func TestCell(t *testing.T) {
	test.T(t, Cell(0, 0), Rect{41.0, 61.0, 18.0, 18.0})
	test.T(t, Cell(2, 24), Rect{521.0, 101.0, 18.0, 18.0})

	m := Matrix(3)
	for row := 0; row < 3; row++ {
		for day := 0; day < stars.NumDays; day++ {
			c := Cell(row, day)
			test.That(t, m.Contains(Point{c.X, c.Y}), row, day)
			test.That(t, m.Contains(Point{c.X + c.W, c.Y + c.H}), row, day)
		}
	}
}

func TestGridLines(t *testing.T) {
	lines := GridLines(2)
	test.T(t, len(lines), Columns+1+3)
	test.T(t, lines[0], Line{40.0, 60.0, 40.0, 100.0})
	test.T(t, lines[Columns], Line{560.0, 60.0, 560.0, 100.0})
	test.T(t, lines[len(lines)-1], Line{40.0, 100.0, 560.0, 100.0})
}

func TestBorder(t *testing.T) {
	test.T(t, Border(1), Rect{39.0, 59.0, 522.0, 22.0})
}

func TestDayLabels(t *testing.T) {
	labels := DayLabels()
	test.T(t, len(labels), 41)
	test.String(t, labels[0].Text, "1")
	test.T(t, labels[0].Point, Point{50.0, 55.0})
	test.String(t, labels[9].Text, "1") // tens of day 10
	test.T(t, labels[9].Point, Point{230.0, 38.0})
	test.String(t, labels[10].Text, "0")
	test.String(t, labels[len(labels)-1].Text, "5")
	for _, label := range labels {
		test.T(t, label.Kind, DayLabel)
		test.T(t, label.Align, Center)
	}
}

func TestLabels(t *testing.T) {
	test.T(t, YearLabelAt(1, 2018), Label{Point{30.0, 95.0}, YearLabel, Right, "2018"})
	test.T(t, TotalLabelAt(0, 14), Label{Point{550.0, 74.0}, TotalLabel, Center, "14"})
	test.T(t, GrandTotalLabelAt(2, 64), Label{Point{300.0, 140.0}, GrandTotalLabel, Center, "Total stars: 64"})
	test.String(t, Right.String(), "Right")
	test.String(t, TextAlign(9).String(), "Invalid(9)")
}
