//go:build !formats

package renderers

import (
	"fmt"

	"github.com/tdewolff/stars"
	"github.com/tdewolff/stars/renderers/rasterizer"
)

// WebP returns a WebP writer that uses libwebp.
func WebP(theme stars.Theme, resolution rasterizer.Resolution) stars.Writer {
	return errorWriter(fmt.Errorf("unsupported WebP: build with the formats tag and CGO enabled"))
}

// AVIF returns an AVIF writer that uses libaom.
func AVIF(theme stars.Theme, resolution rasterizer.Resolution) stars.Writer {
	return errorWriter(fmt.Errorf("unsupported AVIF: build with the formats tag and CGO enabled"))
}
