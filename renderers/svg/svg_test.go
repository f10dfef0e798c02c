package svg

import (
	"bytes"
	"compress/gzip"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/xml"
	"github.com/tdewolff/stars"
	"github.com/tdewolff/test"
)

func days(s string) string {
	return strings.TrimSuffix(strings.Repeat(s+",", stars.NumDays), ",")
}

// wellFormed checks that all tags are balanced.
func wellFormed(t *testing.T, b []byte) {
	t.Helper()
	tags := []string{}
	l := xml.NewLexer(parse.NewInputBytes(b))
	for {
		tt, _ := l.Next()
		switch tt {
		case xml.ErrorToken:
			test.T(t, l.Err(), io.EOF)
			test.T(t, len(tags), 0, "unclosed tags", tags)
			return
		case xml.StartTagToken:
			tags = append(tags, string(l.Text()))
		case xml.StartTagCloseVoidToken:
			tags = tags[:len(tags)-1]
		case xml.EndTagToken:
			test.That(t, 0 < len(tags), "unexpected end tag", string(l.Text()))
			test.String(t, string(l.Text()), tags[len(tags)-1])
			tags = tags[:len(tags)-1]
		}
	}
}

var cellRE = regexp.MustCompile(`cell (none|silver|gold)`)

func cells(b []byte) []string {
	matches := cellRE.FindAllSubmatch(b, -1)
	classes := make([]string, 0, len(matches))
	for _, m := range matches {
		classes = append(classes, string(m[1]))
	}
	return classes
}

func TestSVG(t *testing.T) {
	data := stars.MustParseString("2024: 2,2,2,2,2,2,2,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0")
	b := Render(data, stars.Light)
	wellFormed(t, b)

	s := string(b)
	test.That(t, strings.HasPrefix(s, `<svg xmlns="http://www.w3.org/2000/svg" width="600" height="160" viewBox="0 0 600 160">`))
	test.That(t, strings.HasSuffix(s, "</svg>"))
	test.T(t, strings.Count(s, `class="year-label text"`), 1)
	test.That(t, strings.Contains(s, `<text x="30" y="75" class="year-label text" text-anchor="end">2024</text>`))
	test.That(t, strings.Contains(s, `>Total stars: 14</text>`))

	classes := cells(b)
	test.T(t, len(classes), stars.NumDays)
	for i, class := range classes {
		if i < 7 {
			test.String(t, class, "gold", i)
		} else {
			test.String(t, class, "none", i)
		}
	}
	test.That(t, strings.Contains(s, `<rect x="41" y="61" width="18" height="18" rx="2" class="cell gold"/>`))
}

func TestSVGEmpty(t *testing.T) {
	b := Render(&stars.Data{}, stars.Light)
	wellFormed(t, b)

	s := string(b)
	test.That(t, strings.HasPrefix(s, `<svg xmlns="http://www.w3.org/2000/svg" width="600" height="140" viewBox="0 0 600 140">`))
	test.That(t, strings.HasSuffix(s, "</style></svg>"))
	test.T(t, len(cells(b)), 0)
	test.That(t, !strings.Contains(s, "<text"))
	test.That(t, !strings.Contains(s, "<rect"))

	// nil data renders the same empty canvas
	test.String(t, string(Render(nil, stars.Light)), s)
}

func TestSVGOrder(t *testing.T) {
	data := stars.MustParseString("2024: " + days("1") + "\n2018: " + days("2") + "\n2024: " + days("0"))
	b := Render(data, stars.Dark)
	wellFormed(t, b)

	s := string(b)
	test.That(t, strings.Contains(s, `height="200"`))
	test.T(t, strings.Count(s, `class="year-label text"`), 3)
	first := strings.Index(s, ">2024</text>")
	second := strings.Index(s, ">2018</text>")
	third := strings.LastIndex(s, ">2024</text>")
	test.That(t, 0 < first && first < second && second < third, first, second, third)

	classes := cells(b)
	test.T(t, len(classes), 3*stars.NumDays)
	test.String(t, classes[0], "silver")
	test.String(t, classes[stars.NumDays], "gold")
	test.String(t, classes[2*stars.NumDays], "none")
	test.That(t, strings.Contains(s, ">Total stars: 75</text>"))
}

func TestSVGDeterministic(t *testing.T) {
	in := "2023: 2,2,2,2,2,2,2,2,2,2,2,2,2,2,2,2,2,2,2,1,0,0,0,0,0\n2024: 2,2,2,2,2,2,2,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0"
	a := Render(stars.MustParseString(in), stars.Dark)
	b := Render(stars.MustParseString(in), stars.Dark)
	test.T(t, a, b)
}

func TestRender(t *testing.T) {
	data := stars.MustParseString("2024: " + days("2"))
	buf := &bytes.Buffer{}
	test.Error(t, Write(buf, data, &Options{Theme: stars.Dark}))
	test.T(t, Render(data, stars.Dark), buf.Bytes())
}

func TestSVGStyle(t *testing.T) {
	data := stars.MustParseString("2023: " + days("0"))
	light := string(Render(data, stars.Light))
	dark := string(Render(data, stars.Dark))
	for _, s := range []string{light, dark} {
		test.That(t, strings.Contains(s, "<style>"))
		test.That(t, strings.Contains(s, "@media (prefers-color-scheme: light) {"))
		test.That(t, strings.Contains(s, "@media (prefers-color-scheme: dark) {"))
		test.That(t, strings.Contains(s, "  .gold { fill: #fbbf24; }"))
		test.That(t, strings.Contains(s, "  .gold { fill: #f59e0b; }"))
		test.That(t, strings.Contains(s, "  .silver {"))
		test.That(t, strings.Contains(s, "  .none {"))
	}

	// the fallback block comes first and only differs by theme
	test.That(t, strings.HasPrefix(light[strings.Index(light, "<style>"):], "<style>\n.text { fill: #24292f; }"))
	test.That(t, strings.HasPrefix(dark[strings.Index(dark, "<style>"):], "<style>\n.text { fill: #c9d1d9; }"))
	test.That(t, light != dark)
	test.T(t, strings.Count(light, "<rect"), strings.Count(dark, "<rect"))
}

func TestSVGMinify(t *testing.T) {
	data := stars.MustParseString("2024: " + days("2") + "\n2023: " + days("1"))
	buf := &bytes.Buffer{}
	err := Write(buf, data, &Options{Minify: true})
	test.Error(t, err)

	b := buf.Bytes()
	test.That(t, len(b) < len(Render(data, stars.Light)))
	test.That(t, bytes.Contains(b, []byte("prefers-color-scheme")))
	test.T(t, len(cells(b)), 2*stars.NumDays)
}

func TestSVGCompression(t *testing.T) {
	data := stars.MustParseString("2024: " + days("2"))
	buf := &bytes.Buffer{}
	err := Writer(&Options{Compression: 9})(buf, data)
	test.Error(t, err)

	r, err := gzip.NewReader(buf)
	test.Error(t, err)
	b, err := io.ReadAll(r)
	test.Error(t, err)
	test.T(t, b, Render(data, stars.Light))
}

func TestDec(t *testing.T) {
	test.String(t, dec(40.0).String(), "40")
	test.String(t, dec(12.5).String(), "12.5")
}
