package stars

import (
	"encoding/hex"
	"image/color"
)

// Palette holds the colors of each drawing role for a theme. Background is only used by raster output, SVG output is transparent.
type Palette struct {
	Background color.RGBA
	Text       color.RGBA
	Grid       color.RGBA
	Border     color.RGBA
	None       color.RGBA
	Silver     color.RGBA
	Gold       color.RGBA
}

// Star returns the fill color for a day's status. The mapping is the same in every theme.
func (p Palette) Star(s Star) color.RGBA {
	switch s {
	case Silver:
		return p.Silver
	case Gold:
		return p.Gold
	}
	return p.None
}

// LightPalette is the palette for light backgrounds.
var LightPalette = Palette{
	Background: Hex("#ffffff"),
	Text:       Hex("#24292f"),
	Grid:       Hex("#24292f"),
	Border:     Hex("#24292f"),
	None:       Hex("#ebedf0"),
	Silver:     Hex("#9ca3af"),
	Gold:       Hex("#f59e0b"),
}

// DarkPalette is the palette for dark backgrounds.
var DarkPalette = Palette{
	Background: Hex("#0d1117"),
	Text:       Hex("#c9d1d9"),
	Grid:       Hex("#c9d1d9"),
	Border:     Hex("#c9d1d9"),
	None:       Hex("#161b22"),
	Silver:     Hex("#6b7280"),
	Gold:       Hex("#fbbf24"),
}

// Palette returns the palette of the theme.
func (t Theme) Palette() Palette {
	if t == Dark {
		return DarkPalette
	}
	return LightPalette
}

// Hex parses a CSS hexadecimal color such as e.g. #ff0000 or F00. Invalid input returns opaque black.
func Hex(s string) color.RGBA {
	if 0 < len(s) && s[0] == '#' {
		s = s[1:]
	}
	h := make([]uint8, len(s))
	for i, c := range s {
		if '0' <= c && c <= '9' {
			h[i] = uint8(c - '0')
		} else if 'a' <= c && c <= 'f' {
			h[i] = 10 + uint8(c-'a')
		} else if 'A' <= c && c <= 'F' {
			h[i] = 10 + uint8(c-'A')
		} else {
			return color.RGBA{0, 0, 0, 0xff}
		}
	}
	if len(s) == 3 {
		return color.RGBA{h[0]*16 + h[0], h[1]*16 + h[1], h[2]*16 + h[2], 0xff}
	} else if len(s) == 6 {
		return color.RGBA{h[0]*16 + h[1], h[2]*16 + h[3], h[4]*16 + h[5], 0xff}
	}
	return color.RGBA{0, 0, 0, 0xff}
}

// CSSColor returns the color in the #rrggbb notation, alpha is ignored.
func CSSColor(c color.RGBA) string {
	buf := make([]byte, 7)
	buf[0] = '#'
	hex.Encode(buf[1:], []byte{c.R, c.G, c.B})
	return string(buf)
}
