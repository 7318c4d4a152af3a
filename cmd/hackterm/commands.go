package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"hackterm/internal/codec"
	"hackterm/internal/console"
	"hackterm/internal/domain"
	"hackterm/internal/generator"
	"hackterm/internal/metrics"
	"hackterm/internal/repository/file"
	"hackterm/internal/repository/sqlite"
	"hackterm/internal/service"
)

func seedFlag() cli.Flag {
	return &cli.Uint64Flag{
		Name:    "seed",
		Aliases: []string{"s"},
		Usage:   "Generation seed, 0 for a random network",
	}
}

// seed returns the flag value when given, else the configured seed
func seed(c *cli.Context) uint64 {
	if c.IsSet("seed") {
		return c.Uint64("seed")
	}
	return cfg.Seed
}

func newSession(reg *metrics.Registry, extra ...service.Option) *service.Session {
	opts := []service.Option{
		service.WithLogger(log),
		service.WithGenerator(generator.New(generator.WithObserver(reg))),
		service.WithRecorder(reg),
	}
	return service.NewSession(append(opts, extra...)...)
}

func commandGenerate() *cli.Command {
	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"g"},
		Usage:   "Generate a network and save it",
		Flags: []cli.Flag{
			seedFlag(),
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Save file, defaults to the configured save path",
			},
			&cli.BoolFlag{
				Name:  "stats",
				Usage: "Print generation metrics",
			},
		},
		Action: func(c *cli.Context) error {
			reg := metrics.NewRegistry()
			s := newSession(reg)
			res := s.Generate(cfg.GeneratorParams(), seed(c))

			out := c.String("out")
			if out == "" {
				out = cfg.SavePath
			}
			if err := s.Save(out); err != nil {
				return cli.Exit(fmt.Sprintf("save: %s (%v)", domain.CodeOf(err), err), 1)
			}

			bold := color.New(color.Bold)
			bold.Printf("Generated %d servers", res.Servers)
			fmt.Printf(" (%d mesh links", res.MeshLinks)
			if res.Truncated {
				color.New(color.FgYellow).Print(", truncated")
			}
			fmt.Printf(") -> %s\n", out)
			fmt.Printf("Fingerprint: %s\n", s.Network().Fingerprint())

			if c.Bool("stats") {
				fmt.Println()
				return reg.WriteSummary(os.Stdout)
			}
			return nil
		},
	}
}

func commandInspect() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Aliases:   []string{"i"},
		Usage:     "Summarize a save file",
		ArgsUsage: "[FILE]",
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				path = cfg.SavePath
			}

			doc, err := file.New().Load(path)
			if err != nil {
				return cli.Exit(fmt.Sprintf("load: %s (%v)", domain.CodeOf(err), err), 1)
			}
			restored, err := doc.Decode()
			if err != nil {
				return cli.Exit(fmt.Sprintf("load: %s (%v)", domain.CodeOf(err), err), 1)
			}

			net := restored.Network
			fmt.Printf("File:        %s (version %d)\n", path, doc.Version)
			fmt.Printf("Servers:     %d\n", net.Len())
			fmt.Printf("Home:        %d\n", restored.Home)
			fmt.Printf("Current:     %d\n", restored.Current)
			fmt.Printf("Fingerprint: %s\n", net.Fingerprint())

			byType := make(map[string]int)
			links, services := 0, 0
			for _, s := range net.Servers() {
				byType[s.Type.String()]++
				links += len(s.Links)
				services += len(s.Services)
			}
			fmt.Printf("Links:       %d directed\n", links)
			fmt.Printf("Services:    %d\n", services)

			types := make([]string, 0, len(byType))
			for t := range byType {
				types = append(types, t)
			}
			sort.Strings(types)
			for _, t := range types {
				fmt.Printf("  %-14s %d\n", t, byType[t])
			}

			if err := net.CheckReciprocal(); err != nil {
				color.New(color.FgYellow).Printf("Warning: %v\n", err)
			}
			return nil
		},
	}
}

func commandExport() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write a network document to stdout",
		Flags: []cli.Flag{
			seedFlag(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "json",
				Usage:   "Output format (json, yaml, ansible)",
			},
			&cli.StringFlag{
				Name:  "in",
				Usage: "Export this save file instead of generating",
			},
		},
		Action: func(c *cli.Context) error {
			exporter, err := codec.ExporterFor(c.String("format"))
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			var doc *codec.Document
			if in := c.String("in"); in != "" {
				doc, err = file.New().Load(in)
				if err != nil {
					return cli.Exit(fmt.Sprintf("load: %s (%v)", domain.CodeOf(err), err), 1)
				}
			} else {
				s := newSession(metrics.NewRegistry())
				s.Generate(cfg.GeneratorParams(), seed(c))
				doc = s.Document()
			}

			return exporter.Export(doc, os.Stdout)
		},
	}
}

func commandPlay() *cli.Command {
	return &cli.Command{
		Name:    "play",
		Aliases: []string{"p"},
		Usage:   "Start an interactive session",
		Flags: []cli.Flag{
			seedFlag(),
			&cli.StringFlag{
				Name:    "load",
				Aliases: []string{"l"},
				Usage:   "Resume from a save file",
			},
		},
		Action: func(c *cli.Context) error {
			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			reg := metrics.NewRegistry()
			bus := service.NewEventBus()
			opts := []service.Option{service.WithEventBus(bus)}

			if cfg.Archive.Path != "" {
				archive, err := sqlite.New(cfg.Archive.Path)
				if err != nil {
					return cli.Exit(fmt.Sprintf("open archive: %v", err), 1)
				}
				defer archive.Close()
				opts = append(opts, service.WithArchive(archive))
				log.WithField("path", cfg.Archive.Path).Debug("Opened snapshot archive")
			}

			events := make(chan service.Event, 100)
			bus.Subscribe(events)
			go func() {
				for event := range events {
					log.WithField("payload", event.Payload).Debugf("Event %s", event.Type)
				}
			}()

			s := newSession(reg, opts...)
			if path := c.String("load"); path != "" {
				if err := s.Load(path); err != nil {
					return cli.Exit(fmt.Sprintf("load: %s (%v)", domain.CodeOf(err), err), 1)
				}
			} else {
				s.Generate(cfg.GeneratorParams(), seed(c))
			}

			color.New(color.FgGreen, color.Bold).Println("hackterm " + appVersion)
			fmt.Println("Type 'help' for commands.")

			con := console.New(s, os.Stdout, console.WithSavePath(cfg.SavePath))
			err := con.Run(ctx, os.Stdin)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
