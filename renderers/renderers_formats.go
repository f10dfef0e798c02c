//go:build formats

package renderers

import (
	"io"

	"github.com/Kagami/go-avif"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
	"github.com/tdewolff/stars"
	"github.com/tdewolff/stars/renderers/rasterizer"
)

// WebP returns a lossless WebP writer that uses libwebp.
func WebP(theme stars.Theme, resolution rasterizer.Resolution) stars.Writer {
	return func(w io.Writer, data *stars.Data) error {
		img, err := rasterizer.Draw(data, theme, resolution)
		if err != nil {
			return err
		}
		options, err := encoder.NewLosslessEncoderOptions(encoder.PresetDefault, 6)
		if err != nil {
			return err
		}
		return webp.Encode(w, img, options)
	}
}

// AVIF returns an AVIF writer that uses libaom.
func AVIF(theme stars.Theme, resolution rasterizer.Resolution) stars.Writer {
	return func(w io.Writer, data *stars.Data) error {
		img, err := rasterizer.Draw(data, theme, resolution)
		if err != nil {
			return err
		}
		return avif.Encode(w, img, nil)
	}
}
