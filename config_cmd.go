package main

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/urfave/cli/v2"
)

const redacted = "********"

func cmdConfig() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show or change the config file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to the config file (defaults to .indexrank/config.json)",
			},
		},
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Print the effective configuration as JSON",
				Action: runConfigShow,
			},
			{
				Name:      "set",
				Usage:     "Update one key and save the file",
				ArgsUsage: "<key> <value>",
				Action:    runConfigSet,
			},
		},
	}
}

func runConfigShow(c *cli.Context) error {
	manager, err := loadConfig(c)
	if err != nil {
		return err
	}

	cfg := *manager.Get()
	if cfg.Password != "" {
		cfg.Password = redacted
	}

	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = fmt.Fprintln(c.App.Writer, string(data))
	return err
}

func runConfigSet(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: %s config set <key> <value>", c.App.Name)
	}

	manager, err := loadConfig(c)
	if err != nil {
		return err
	}

	key, value := c.Args().Get(0), c.Args().Get(1)
	if err := manager.Set(key, value); err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.App.Writer, "Set %s in %s\n", key, manager.Path())
	return err
}
