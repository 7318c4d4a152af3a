package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"hackterm/internal/config"
)

const appVersion = "0.3.0"

var (
	log = logrus.New()
	cfg *config.Config
)

func main() {
	app := &cli.App{
		Name:    "hackterm",
		Usage:   "Procedural network hacking game",
		Version: appVersion,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Load configuration from `FILE`",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"HACKTERM_LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			loaded, path, err := loadConfig(c.String("config"))
			if err != nil {
				return err
			}
			cfg = loaded

			logLevel := cfg.LogLevel
			if c.IsSet("log-level") {
				logLevel = c.String("log-level")
			}
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				level = logrus.InfoLevel
			}
			log.SetLevel(level)
			log.SetOutput(os.Stderr)
			log.SetFormatter(&logrus.TextFormatter{
				FullTimestamp:   true,
				TimestampFormat: "2006-01-02 15:04:05",
			})

			if path != "" {
				log.WithField("path", path).Debug("Loaded config")
			}
			return nil
		},
		Commands: []*cli.Command{
			commandGenerate(),
			commandInspect(),
			commandExport(),
			commandPlay(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, string, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}
