// Package main is the entry point for the indexrank application.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/billie-coop/indexrank/internal/config"
	"github.com/billie-coop/indexrank/internal/logging"
	"github.com/billie-coop/indexrank/internal/report"
	"github.com/billie-coop/indexrank/internal/source"
	"github.com/billie-coop/indexrank/internal/tui"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "indexrank",
		Usage:     "Rank a cluster's recent indices by size, shard count and shard balance",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     reportFlags(),
		Action:    runReport,
		Commands:  []*cli.Command{cmdConfig()},
	}
}

func reportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path to the config file (defaults to .indexrank/config.json)",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Read indices from a snapshot file instead of the cluster",
		},
		&cli.StringFlag{
			Name:    "endpoint",
			Usage:   "Cluster host[:port] or URL",
			EnvVars: []string{"INDEXRANK_ENDPOINT"},
		},
		&cli.IntFlag{
			Name:    "days",
			Usage:   "Number of days to look back, starting from yesterday",
			Value:   7,
			EnvVars: []string{"INDEXRANK_DAYS"},
		},
		&cli.StringFlag{
			Name:  "snapshot",
			Usage: "Snapshot file used with --debug",
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "Output format: text, markdown or json",
			Value: report.FormatText,
		},
		&cli.IntFlag{
			Name:  "top",
			Usage: "Number of indices per ranking",
			Value: report.DefaultTopN,
		},
		&cli.Float64Flag{
			Name:  "target-shard-gb",
			Usage: "Target primary size per shard used for recommendations",
			Value: report.DefaultTargetShardSizeGB,
		},
		&cli.BoolFlag{
			Name:  "interactive",
			Usage: "Browse the rankings in a terminal viewer",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable debug logging",
		},
	}
}

// loadConfig reads the config file named by --config, or the default one.
func loadConfig(c *cli.Context) (*config.Manager, error) {
	path := c.String("config")
	if path == "" {
		path = config.DefaultPath(".")
	}
	manager := config.NewManager(path)
	if err := manager.Load(); err != nil {
		return nil, err
	}
	return manager, nil
}

// mergeFlags overlays explicitly set flags onto the file configuration.
func mergeFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet("endpoint") {
		cfg.Endpoint = c.String("endpoint")
	}
	if c.IsSet("days") {
		cfg.Days = c.Int("days")
	}
	if c.IsSet("snapshot") {
		cfg.SnapshotPath = c.String("snapshot")
	}
	if c.IsSet("format") {
		cfg.Format = c.String("format")
	}
	if c.IsSet("top") {
		cfg.TopN = c.Int("top")
	}
	if c.IsSet("target-shard-gb") {
		cfg.TargetShardGB = c.Float64("target-shard-gb")
	}
}

func validate(cfg *config.Config) error {
	if cfg.Days < 1 {
		return fmt.Errorf("days must be at least 1, got %d", cfg.Days)
	}
	if cfg.TopN < 1 {
		return fmt.Errorf("top must be at least 1, got %d", cfg.TopN)
	}
	if cfg.TargetShardGB <= 0 {
		return fmt.Errorf("target shard size must be positive, got %g", cfg.TargetShardGB)
	}
	return nil
}

func newSource(c *cli.Context, cfg *config.Config, logger *logrus.Logger) (source.Source, error) {
	if c.Bool("debug") {
		return source.NewFile(cfg.SnapshotPath), nil
	}
	return source.NewCluster(source.ClusterOptions{
		Endpoint: cfg.Endpoint,
		Scheme:   cfg.Scheme,
		Username: cfg.Username,
		Password: cfg.Password,
		CatPath:  cfg.CatPath,
		Days:     cfg.Days,
		Timeout:  time.Duration(cfg.TimeoutSeconds) * time.Second,
		Logger:   logger,
	})
}

func runReport(c *cli.Context) error {
	if c.Args().Present() {
		return fmt.Errorf("unexpected argument: %s", c.Args().First())
	}

	manager, err := loadConfig(c)
	if err != nil {
		return err
	}
	cfg := manager.Get()
	mergeFlags(c, cfg)
	if err := validate(cfg); err != nil {
		return err
	}

	logger := logging.New(c.App.ErrWriter, c.Bool("verbose"))
	color := colorEnabled(c.App.Writer)

	// Reject a bad format before touching the network.
	renderer, err := report.NewRenderer(cfg.Format, c.App.Writer, report.Options{Color: color})
	if err != nil {
		return err
	}

	src, err := newSource(c, cfg, logger)
	if err != nil {
		return err
	}

	records, err := src.Records(c.Context)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded %d records", len(records))

	gen := report.Generator{TopN: cfg.TopN, TargetShardSizeGB: cfg.TargetShardGB}
	rep := gen.Build(records)
	if rep.SkippedZeroShard > 0 {
		logger.Warnf("%d records with zero shards excluded from the balance ranking", rep.SkippedZeroShard)
	}

	if c.Bool("interactive") {
		return tui.Run(rep, color)
	}
	return renderer.Render(rep)
}

// colorEnabled reports whether w is a terminal that should receive ANSI styling.
func colorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func main() {
	app := newApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
