package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/browser"
	"github.com/tdewolff/argp"
	"github.com/tdewolff/stars"
	"github.com/tdewolff/stars/github"
	"github.com/tdewolff/stars/renderers"
	"github.com/tdewolff/stars/renderers/rasterizer"
	"github.com/tdewolff/stars/renderers/svg"
	"github.com/tdewolff/stars/server"
	"go.uber.org/zap"
)

type Render struct {
	Theme      string  `short:"t" default:"light" desc:"Fallback theme, light or dark"`
	Minify     bool    `short:"m" desc:"Minify SVG output"`
	Resolution float64 `short:"r" default:"1" desc:"Pixels per unit for raster output, at most 8"`
	Output     string  `short:"o" desc:"Output file, its extension selects the format (default: SVG to stdout)"`
	Open       bool    `desc:"Open the output file with the default application"`
	Input      string  `index:"0" desc:"Input file with one line per year, e.g. 2024: 2,2,1,0,...,0"`
}

type Serve struct {
	Config string `short:"c" desc:"YAML configuration file"`
	Host   string `desc:"Host to listen on"`
	Port   int    `short:"p" desc:"Port to listen on"`
	Token  string `desc:"GitHub personal access token"`
	Debug  bool   `desc:"Enable debug logging"`
}

func main() {
	root := argp.NewCmd(&Render{}, "Advent of Code star calendar generator")
	root.AddCmd(&Serve{}, "serve", "Serve star calendars of files hosted on GitHub")
	root.Parse()
	root.PrintHelp()
}

func (cmd *Render) Run() error {
	if cmd.Input == "" {
		return argp.ShowUsage
	}
	return cmd.render(os.Stdin, os.Stdout)
}

// render reads the input file, or r if the input is "-", and writes SVG to w if there is no output file.
func (cmd *Render) render(r io.Reader, w io.Writer) error {
	theme, err := stars.ParseTheme(cmd.Theme)
	if err != nil {
		return err
	}

	if cmd.Input != "-" {
		f, err := os.Open(cmd.Input)
		if err != nil {
			return fmt.Errorf("read input file: %w", err)
		}
		defer f.Close()
		r = f
	}
	data, err := stars.Parse(r)
	if err != nil {
		return err
	}

	svgOptions := &svg.Options{Theme: theme, Minify: cmd.Minify}
	if cmd.Output == "" || cmd.Output == "-" {
		return svg.Write(w, data, svgOptions)
	}
	if err := renderers.Write(cmd.Output, data, theme, rasterizer.Resolution(cmd.Resolution), svgOptions); err != nil {
		return err
	}
	fmt.Fprintf(w, "Star calendar written to %s\n", cmd.Output)
	if cmd.Open {
		return browser.OpenFile(cmd.Output)
	}
	return nil
}

func (cmd *Serve) Run() error {
	cfg, err := cmd.config()
	if err != nil {
		return err
	}

	logger, err := server.NewLogger(cfg.Debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.GitHubToken == "" {
		logger.Warn("running without GitHub token, rate limits will apply")
	} else {
		logger.Info("GitHub API authentication enabled")
	}
	logger.Info("starting server",
		zap.String("addr", cfg.Addr()),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_cache_size", cfg.MaxCacheSize),
	)

	client := github.NewClient(cfg.GitHubToken, cfg.HTTPTimeout, logger)
	client.MaxSize = cfg.MaxFileSize

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.New(cfg, client, logger).ListenAndServe(ctx)
}

// config loads the configuration file and environment, flags override both.
func (cmd *Serve) config() (server.Config, error) {
	cfg, err := server.LoadConfig(cmd.Config)
	if err != nil {
		return server.Config{}, err
	}
	if cmd.Host != "" {
		cfg.Host = cmd.Host
	}
	if cmd.Port != 0 {
		cfg.Port = cmd.Port
	}
	if cmd.Token != "" {
		cfg.GitHubToken = cmd.Token
	}
	if cmd.Debug {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		return server.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
