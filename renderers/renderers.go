package renderers

import (
	"fmt"
	"image/gif"
	"image/jpeg"
	"io"
	"path/filepath"
	"strings"

	"github.com/tdewolff/stars"
	"github.com/tdewolff/stars/renderers/rasterizer"
	"github.com/tdewolff/stars/renderers/svg"
	"golang.org/x/image/tiff"
)

type Options struct {
	stars.Theme
	rasterizer.Resolution
	JPG  *jpeg.Options
	GIF  *gif.Options
	TIFF *tiff.Options
	SVG  *svg.Options
}

func parseOptions(opts []interface{}) (Options, error) {
	options := Options{
		Resolution: 1.0,
	}
	for _, opt := range opts {
		switch o := opt.(type) {
		case stars.Theme:
			options.Theme = o
		case rasterizer.Resolution:
			options.Resolution = o
		case *jpeg.Options:
			options.JPG = o
		case *gif.Options:
			options.GIF = o
		case *tiff.Options:
			options.TIFF = o
		case *svg.Options:
			options.SVG = o
		default:
			return Options{}, fmt.Errorf("unknown option: %T(%v)", opt, opt)
		}
	}
	return options, nil
}

// Writer returns the writer for a file extension such as ".png". It accepts the following options: stars.Theme, rasterizer.Resolution, *jpeg.Options, *gif.Options, *tiff.Options, *svg.Options. The theme of *svg.Options takes precedence over stars.Theme.
func Writer(ext string, opts ...interface{}) (stars.Writer, error) {
	options, err := parseOptions(opts)
	if err != nil {
		return nil, err
	}

	switch ext = strings.ToLower(ext); ext {
	case ".svg", ".svgz":
		svgOptions := svg.Options{Theme: options.Theme}
		if options.SVG != nil {
			svgOptions = *options.SVG
		}
		if ext == ".svgz" && svgOptions.Compression == 0 {
			svgOptions.Compression = -1
		}
		return svg.Writer(&svgOptions), nil
	case ".png":
		return rasterizer.PNGWriter(options.Theme, options.Resolution), nil
	case ".jpg", ".jpeg":
		return rasterizer.JPGWriter(options.Theme, options.Resolution, options.JPG), nil
	case ".gif":
		return rasterizer.GIFWriter(options.Theme, options.Resolution, options.GIF), nil
	case ".tif", ".tiff":
		return rasterizer.TIFFWriter(options.Theme, options.Resolution, options.TIFF), nil
	case ".webp":
		return WebP(options.Theme, options.Resolution), nil
	case ".avif":
		return AVIF(options.Theme, options.Resolution), nil
	}
	return nil, fmt.Errorf("unknown file extension: %v", ext)
}

// Write writes the star data to a file, the format is chosen by the file extension. See Writer for the options.
func Write(filename string, data *stars.Data, opts ...interface{}) error {
	w, err := Writer(filepath.Ext(filename), opts...)
	if err != nil {
		return err
	}
	return data.WriteFile(filename, w)
}

func errorWriter(err error) stars.Writer {
	return func(io.Writer, *stars.Data) error {
		return err
	}
}
