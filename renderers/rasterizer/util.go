package rasterizer

import (
	"fmt"
	"sync"

	"github.com/go-fonts/latin-modern/lmsans10bold"
	"github.com/go-fonts/latin-modern/lmsans10regular"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

type fontSet struct {
	regular, bold *opentype.Font
}

// loadFonts parses the embedded Latin Modern Sans fonts once, the parsed fonts are read-only. The fonts have CFF outlines.
var loadFonts = sync.OnceValues(func() (*fontSet, error) {
	regular, err := opentype.Parse(lmsans10regular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := opentype.Parse(lmsans10bold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	return &fontSet{regular, bold}, nil
})

// face returns a font face where size is in pixels.
func (fs *fontSet) face(bold bool, size float64) (font.Face, error) {
	f := fs.regular
	if bold {
		f = fs.bold
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72.0, // one point per pixel
		Hinting: font.HintingFull,
	})
}

func toFixed(f float64) fixed.Int26_6 {
	return fixed.Int26_6(f*64.0 + 0.5)
}
