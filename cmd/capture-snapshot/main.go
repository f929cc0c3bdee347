// Command capture-snapshot fetches the trailing window of cat rows from a
// cluster and saves them as a snapshot that indexrank can replay with
// --debug --snapshot <file>.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/billie-coop/indexrank/internal/index"
	"github.com/billie-coop/indexrank/internal/logging"
	"github.com/billie-coop/indexrank/internal/source"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
)

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "capture-snapshot",
		Usage:     "Save a cluster's recent cat indices rows to a snapshot file",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "endpoint",
				Usage:    "Cluster host[:port] or URL",
				EnvVars:  []string{"INDEXRANK_ENDPOINT"},
				Required: true,
			},
			&cli.IntFlag{
				Name:    "days",
				Usage:   "Number of days to look back, starting from yesterday",
				Value:   7,
				EnvVars: []string{"INDEXRANK_DAYS"},
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "Snapshot file to write",
				Value: "testdata/input.json",
			},
			&cli.StringFlag{
				Name:    "username",
				EnvVars: []string{"INDEXRANK_USERNAME"},
			},
			&cli.StringFlag{
				Name:    "password",
				EnvVars: []string{"INDEXRANK_PASSWORD"},
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Per-request timeout",
				Value: 30 * time.Second,
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Action: capture,
	}
}

func capture(c *cli.Context) error {
	logger := logging.New(c.App.ErrWriter, c.Bool("verbose"))

	cluster, err := source.NewCluster(source.ClusterOptions{
		Endpoint: c.String("endpoint"),
		Username: c.String("username"),
		Password: c.String("password"),
		Days:     c.Int("days"),
		Timeout:  c.Duration("timeout"),
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	records, err := cluster.Records(c.Context)
	if err != nil {
		return err
	}

	out := c.String("out")
	if err := writeSnapshot(out, records); err != nil {
		return err
	}

	var total int64
	for _, r := range records {
		total += r.PrimaryStoreBytes
	}
	_, err = fmt.Fprintf(c.App.Writer, "Wrote %d records (%s) to %s\n",
		len(records), humanize.Bytes(uint64(total)), out)
	return err
}

func writeSnapshot(path string, records []index.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	if err := index.EncodeRecords(f, records); err != nil {
		f.Close()
		return fmt.Errorf("failed to write snapshot %s: %w", path, err)
	}
	return f.Close()
}

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
