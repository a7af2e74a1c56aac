package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/nikbrunner/tabscope/internal/config"
	"github.com/nikbrunner/tabscope/internal/logging"
	"github.com/nikbrunner/tabscope/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	c := &cli{}
	if err := execute(c, newRootCmd(c)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// execute runs root, then syncs and closes the app whether or not the
// command succeeded.
func execute(c *cli, root *cobra.Command) error {
	err := root.Execute()
	return errors.Join(err, c.close())
}

// cli carries state shared by all subcommands. kv is preset in tests;
// otherwise it is opened from the configured backend.
type cli struct {
	verbose bool
	cfg     config.Config
	kv      storage.KV
	app     *App
	owned   bool
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "tabscope",
		Short: "Profile-scoped browser tabs",
		Long: `tabscope keeps browser tabs apart by profile.
Every new tab is tagged with the active profile, or with "private" while
private mode is on. Tabs can be migrated between profiles and grouped.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.open()
		},
	}

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newProfileCmd(c),
		newPrivateCmd(c),
		newTabCmd(c),
		newGroupCmd(c),
	)
	return root
}

func (c *cli) open() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	c.cfg = cfg

	level := cfg.Log.Level
	if c.verbose {
		level = "debug"
	}
	logger, err := logging.New(level)
	if err != nil {
		return err
	}

	kv := c.kv
	if kv == nil {
		kv, err = storage.Open(cfg.Storage.Backend, cfg.Storage.Path)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		c.owned = true
	}
	logger.Debug("Storage opened",
		zap.String("backend", cfg.Storage.Backend),
		zap.String("path", cfg.Storage.Path),
		zap.Bool("injected", !c.owned))

	app, err := NewApp(kv, logger)
	if err != nil {
		if c.owned {
			kv.Close()
		}
		return err
	}
	c.app = app
	return nil
}

func (c *cli) close() error {
	if c.app == nil {
		return nil
	}
	err := c.app.Sync()
	if c.owned {
		err = errors.Join(err, c.app.Close())
	}
	_ = c.app.logger.Sync()
	c.app = nil
	return err
}
