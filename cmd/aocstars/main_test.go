package main

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tdewolff/stars"
	"github.com/tdewolff/test"
)

const input = "2023: 2,2,2,2,2,2,2,2,2,2,2,2,2,2,2,2,2,2,2,1,0,0,0,0,0\n" +
	"2024: 2,2,2,2,2,2,2,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0\n"

func writeInput(t *testing.T, content string) string {
	filename := filepath.Join(t.TempDir(), "stars.txt")
	test.Error(t, os.WriteFile(filename, []byte(content), 0644))
	return filename
}

func TestRenderStdout(t *testing.T) {
	cmd := &Render{Theme: "dark", Resolution: 1, Input: writeInput(t, input)}
	w := &bytes.Buffer{}
	test.Error(t, cmd.render(nil, w))
	test.That(t, strings.HasPrefix(w.String(), "<svg"), w.String())
	test.That(t, strings.Contains(w.String(), "Total stars: 53"), "missing grand total")
}

func TestRenderStdin(t *testing.T) {
	cmd := &Render{Theme: "light", Resolution: 1, Input: "-"}
	w := &bytes.Buffer{}
	test.Error(t, cmd.render(strings.NewReader(input), w))
	test.T(t, strings.Count(w.String(), `class="cell `), 2*stars.NumDays)
}

func TestRenderMinify(t *testing.T) {
	w := &bytes.Buffer{}
	test.Error(t, (&Render{Theme: "light", Input: "-"}).render(strings.NewReader(input), w))
	wMin := &bytes.Buffer{}
	test.Error(t, (&Render{Theme: "light", Minify: true, Input: "-"}).render(strings.NewReader(input), wMin))
	test.That(t, wMin.Len() < w.Len(), "minified output is not smaller")
}

func TestRenderOutput(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"stars.svg", "stars.png"} {
		t.Run(name, func(t *testing.T) {
			output := filepath.Join(dir, name)
			cmd := &Render{Theme: "light", Resolution: 2, Output: output, Input: writeInput(t, input)}
			w := &bytes.Buffer{}
			test.Error(t, cmd.render(nil, w))
			test.String(t, w.String(), "Star calendar written to "+output+"\n")

			b, err := os.ReadFile(output)
			test.Error(t, err)
			if filepath.Ext(name) == ".png" {
				img, err := png.Decode(bytes.NewReader(b))
				test.Error(t, err)
				test.T(t, img.Bounds().Dx(), 1200)
				test.T(t, img.Bounds().Dy(), 360)
			} else {
				test.That(t, bytes.HasPrefix(b, []byte("<svg")), string(b))
			}
		})
	}
}

func TestRenderErrors(t *testing.T) {
	var perr *stars.ParseError
	err := (&Render{Theme: "light", Input: writeInput(t, "invalid format")}).render(nil, &bytes.Buffer{})
	test.That(t, errors.As(err, &perr), err)
	test.That(t, errors.Is(err, stars.ErrMissingColon), err)

	err = (&Render{Theme: "light", Input: filepath.Join(t.TempDir(), "nonexistent.txt")}).render(nil, &bytes.Buffer{})
	test.That(t, errors.Is(err, os.ErrNotExist), err)

	err = (&Render{Theme: "sepia", Input: "-"}).render(strings.NewReader(input), &bytes.Buffer{})
	test.That(t, err != nil, "expected theme error")

	err = (&Render{Theme: "light", Output: filepath.Join(t.TempDir(), "stars.bmp"), Input: "-"}).render(strings.NewReader(input), &bytes.Buffer{})
	test.That(t, err != nil, "expected extension error")

	err = (&Render{Theme: "light", Resolution: 1e6, Output: filepath.Join(t.TempDir(), "stars.png"), Input: "-"}).render(strings.NewReader(input), &bytes.Buffer{})
	test.That(t, err != nil, "expected resolution error")
}

func TestServeConfig(t *testing.T) {
	for _, name := range []string{"HOST", "PORT", "CACHE_TTL_SECS", "HTTP_TIMEOUT_SECS", "MAX_CACHE_SIZE", "ERROR_CACHE_TTL_SECS", "RATE_LIMIT_WINDOW_SECS", "RATE_LIMIT_MAX_REQUESTS", "GH_PAT"} {
		t.Setenv(name, "")
	}
	t.Setenv("GH_PAT", "from-env")

	cfg, err := (&Serve{Port: 8080, Debug: true}).config()
	test.Error(t, err)
	test.String(t, cfg.Addr(), "127.0.0.1:8080")
	test.String(t, cfg.GitHubToken, "from-env")
	test.That(t, cfg.Debug, "debug not set")

	cfg, err = (&Serve{Host: "0.0.0.0", Token: "from-flag"}).config()
	test.Error(t, err)
	test.String(t, cfg.Addr(), "0.0.0.0:3000")
	test.String(t, cfg.GitHubToken, "from-flag")

	t.Setenv("RATE_LIMIT_MAX_REQUESTS", "0")
	_, err = (&Serve{}).config()
	test.That(t, err != nil, "expected invalid configuration")
}
