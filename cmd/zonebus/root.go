package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/zonebus/pkg/zonebus/config"
	"github.com/randalmurphal/zonebus/pkg/zonebus/zonestore"
)

// defaultStorePath is used by the zones commands when neither --db nor the
// config file names a catalogue.
const defaultStorePath = "zonebus.db"

// cli carries state shared by every subcommand.
type cli struct {
	out, errOut io.Writer

	configPath string
	storePath  string
	logLevel   string
	logFormat  string

	settings config.Settings
	logger   *slog.Logger
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	c := &cli{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "zonebus",
		Short:         "Spatial zone events over an in-process bus",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.load(cmd)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "Settings file (.yaml, .yml, .json or .toml)")
	flags.StringVar(&c.storePath, "db", "", "SQLite zone catalogue (overrides store.path)")
	flags.StringVar(&c.logLevel, "log-level", "", "Log level: debug|info|warn|error (overrides log.level)")
	flags.StringVar(&c.logFormat, "log-format", "", "Log format: text|json (overrides log.format)")

	root.AddCommand(newZonesCmd(c), newRunCmd(c))
	return root
}

// load resolves settings from the config file, with ${VAR} references
// taken from the environment, then applies ZONEBUS_* variables and finally
// flag overrides.
func (c *cli) load(cmd *cobra.Command) error {
	cfg := config.New(nil)
	if c.configPath != "" {
		var err error
		if cfg, err = config.FromFile(c.configPath); err != nil {
			return err
		}
		if cfg, err = cfg.Expand(os.LookupEnv); err != nil {
			return fmt.Errorf("%s: %w", c.configPath, err)
		}
	}

	cfg, err := config.WithEnv(cfg, nil)
	if err != nil {
		return err
	}

	raw := cfg.Raw()
	logSection := cfg.Section("log").Raw()
	if c.logLevel != "" {
		logSection["level"] = c.logLevel
	}
	if c.logFormat != "" {
		logSection["format"] = c.logFormat
	}
	raw["log"] = logSection

	s, err := config.SettingsFrom(cfg)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("db") {
		s.StorePath = c.storePath
	}

	c.settings = s
	c.logger = s.NewLogger(c.errOut)
	return nil
}

// openStore opens the configured catalogue, falling back to path.
func (c *cli) openStore(fallback string) (*zonestore.SQLiteStore, error) {
	path := c.settings.StorePath
	if path == "" {
		path = fallback
	}
	return zonestore.NewSQLiteStore(path)
}
