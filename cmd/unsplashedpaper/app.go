package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"github.com/dixieflatline76/UnsplashedPaper/config"
	"github.com/dixieflatline76/UnsplashedPaper/pkg/unsplash"
	"github.com/dixieflatline76/UnsplashedPaper/pkg/wallpaper"
	"github.com/urfave/cli"
)

// env holds what the commands need from the outside world.
type env struct {
	out    io.Writer
	prefs  func() fyne.Preferences
	os     func() wallpaper.OS
	client func() *unsplash.Client
}

func defaultEnv() env {
	return env{
		out: os.Stdout,
		prefs: func() fyne.Preferences {
			return fyneapp.NewWithID(config.AppID).Preferences()
		},
		os:     wallpaper.DefaultOS,
		client: func() *unsplash.Client { return unsplash.NewClient() },
	}
}

var overrideFlags = []cli.Flag{
	cli.IntFlag{
		Name:  "interval",
		Usage: "seconds between refreshes",
	},
	cli.StringFlag{
		Name:  "collection, c",
		Usage: "Unsplash collection ID to draw from",
	},
	cli.StringFlag{
		Name:  "query, q",
		Usage: "raw search text appended after '?'",
	},
	cli.BoolFlag{
		Name:  "shared",
		Usage: "fetch one image for all displays",
	},
	cli.BoolFlag{
		Name:  "per-display",
		Usage: "fetch one image per display",
	},
	cli.BoolFlag{
		Name:  "no-scale",
		Usage: "show images at their native size",
	},
}

var urlFlags = append([]cli.Flag{
	cli.IntFlag{
		Name:  "width",
		Usage: "image width in pixels (default: widest display)",
	},
	cli.IntFlag{
		Name:  "height",
		Usage: "image height in pixels (default: tallest display)",
	},
}, overrideFlags...)

func newApp(e env) *cli.App {
	app := cli.NewApp()
	app.Name = "unsplashedpaper"
	app.HelpName = "unsplashedpaper"
	app.Usage = "Random Unsplash wallpapers for every display."
	app.Version = config.AppVersion
	app.Writer = e.out
	app.Action = func(ctx *cli.Context) error {
		return runTray(e)
	}
	app.Commands = []cli.Command{
		{
			Name:   "run",
			Usage:  "start the tray app (default)",
			Action: func(ctx *cli.Context) error { return runTray(e) },
		},
		{
			Name:      "refresh",
			Aliases:   []string{"r"},
			Usage:     "refresh every display once and exit",
			UsageText: "unsplashedpaper refresh [--shared] [--collection ID] [--query TEXT]",
			Flags:     overrideFlags,
			Action:    func(ctx *cli.Context) error { return refreshOnce(ctx, e) },
		},
		{
			Name:   "url",
			Usage:  "print the request URL for the current settings",
			Flags:  urlFlags,
			Action: func(ctx *cli.Context) error { return printURL(ctx, e) },
		},
		{
			Name:   "config",
			Usage:  "print the effective settings",
			Flags:  overrideFlags,
			Action: func(ctx *cli.Context) error { return printConfig(ctx, e) },
		},
	}
	return app
}

// effectiveConfig reads the stored settings and applies command-line
// overrides. Nothing is written back.
func effectiveConfig(ctx *cli.Context, e env) wallpaper.RefreshConfig {
	cfg := wallpaper.NewConfig(e.prefs()).Snapshot()
	if ctx.IsSet("interval") {
		cfg.UpdateInterval = wallpaper.ResolveInterval(ctx.Int("interval"))
	}
	if ctx.IsSet("collection") {
		cfg.CollectionID = ctx.String("collection")
	}
	if ctx.IsSet("query") {
		cfg.SearchQuery = ctx.String("query")
	}
	if ctx.Bool("shared") {
		cfg.PerDisplayImage = false
	}
	if ctx.Bool("per-display") {
		cfg.PerDisplayImage = true
	}
	if ctx.Bool("no-scale") {
		cfg.ScaleImages = false
	}
	return cfg
}

func refreshOnce(ctx *cli.Context, e env) error {
	cfg := effectiveConfig(ctx, e)
	desktop := e.os()
	client := e.client()

	orch := wallpaper.NewOrchestrator(client, wallpaper.NewApplier(desktop, client.Fs()), wallpaper.StaticConfig(cfg), desktop)
	outcome := orch.Refresh(context.Background())

	for _, r := range outcome.Results {
		if err := r.Err(); err != nil {
			fmt.Fprintf(e.out, "monitor %d: %v\n", r.MonitorID, err)
			continue
		}
		fmt.Fprintf(e.out, "monitor %d: %s\n", r.MonitorID, r.Asset.Path)
	}
	fmt.Fprintln(e.out, outcome)

	if len(outcome.Results) > 0 && outcome.Applied() == 0 {
		return cli.NewExitError("no display was refreshed", 1)
	}
	return nil
}

func printURL(ctx *cli.Context, e env) error {
	cfg := effectiveConfig(ctx, e)

	w, h := ctx.Int("width"), ctx.Int("height")
	if w <= 0 || h <= 0 {
		monitors, err := e.os().GetMonitors()
		if err != nil {
			return fmt.Errorf("failed to list displays: %w", err)
		}
		sw, sh := wallpaper.SharedSize(monitors).Dimensions()
		if w <= 0 {
			w = sw
		}
		if h <= 0 {
			h = sh
		}
	}

	fmt.Fprintln(e.out, e.client().URL(cfg.Request(unsplash.NewSize(w, h))))
	return nil
}

func printConfig(ctx *cli.Context, e env) error {
	cfg := effectiveConfig(ctx, e)
	fmt.Fprintf(e.out, "interval:    %ds\n", cfg.UpdateInterval)
	fmt.Fprintf(e.out, "scale:       %v\n", cfg.ScaleImages)
	fmt.Fprintf(e.out, "per-display: %v\n", cfg.PerDisplayImage)
	fmt.Fprintf(e.out, "collection:  %s\n", cfg.CollectionID)
	fmt.Fprintf(e.out, "query:       %s\n", cfg.SearchQuery)
	fmt.Fprintf(e.out, "cache:       %s\n", e.client().Dir())
	return nil
}
