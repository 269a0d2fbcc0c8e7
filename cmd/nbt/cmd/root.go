/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ssargent/nbt/pkg/config"
	"github.com/ssargent/nbt/pkg/nbt"
	"github.com/ssargent/nbt/pkg/nbtfile"
)

type envKey struct{}

// optionalConfig marks commands that run with defaults when --config names
// a file that does not exist yet.
const optionalConfig = "nbt/optional-config"

// env is the per-invocation state shared by subcommands.
type env struct {
	cfg *config.Config
	log *slog.Logger
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nbt",
	Short: "Inspect and edit NBT files",
	Long: `nbt reads, prints, edits and converts Named Binary Tag documents such
as level.dat and player files. gzip, zlib, zstd and lz4 wrappers are
detected on read.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		if cmd.Annotations[optionalConfig] != "" && !config.ConfigExists(configPath) {
			configPath = ""
		}
		cfg, err := loadSettings(configPath)
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("log-level") {
			cfg.Logging.Level, _ = cmd.Flags().GetString("log-level")
		}
		if cmd.Flags().Changed("max-depth") {
			cfg.MaxDepth, _ = cmd.Flags().GetInt("max-depth")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
			Level: parseLevel(cfg.Logging.Level),
		}))
		logger.Debug("configuration loaded", "path", configPath, "compression", cfg.Compression)

		cmd.SetContext(context.WithValue(cmd.Context(), envKey{}, &env{cfg: cfg, log: logger}))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default "+config.GetDefaultConfigPath()+")")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().Int("max-depth", nbt.DefaultMaxDepth, "Maximum nesting depth accepted when decoding")
}

// loadSettings reads the config file at path. With no path the default
// location is used when it exists, and built-in defaults otherwise.
func loadSettings(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadConfig(path)
	}
	if def := config.GetDefaultConfigPath(); config.ConfigExists(def) {
		return config.LoadConfig(def)
	}
	return config.DefaultConfig(), nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envFrom(cmd *cobra.Command) (*env, error) {
	e, ok := cmd.Context().Value(envKey{}).(*env)
	if !ok {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return e, nil
}

// load reads a document using the configured decoder limits.
func (e *env) load(path string) (*nbt.Tree, nbtfile.Compression, error) {
	opts, err := e.cfg.FileOptions()
	if err != nil {
		return nil, 0, err
	}
	tree, c, err := nbtfile.LoadFile(path, opts)
	if err != nil {
		return nil, c, err
	}
	e.log.Debug("loaded", "file", path, "compression", c, "root", tree.Name)
	return tree, c, nil
}

// save writes tree to path with compression c and the configured level.
func (e *env) save(path string, tree *nbt.Tree, c nbtfile.Compression) error {
	opts, err := e.cfg.FileOptions()
	if err != nil {
		return err
	}
	opts.Compression = c
	if err := nbtfile.SaveFile(path, tree, opts); err != nil {
		return err
	}
	e.log.Debug("saved", "file", path, "compression", c)
	return nil
}

// compressionFlag resolves the --compression flag, falling back to def when
// the flag is unset.
func compressionFlag(cmd *cobra.Command, def nbtfile.Compression) (nbtfile.Compression, error) {
	if !cmd.Flags().Changed("compression") {
		return def, nil
	}
	name, _ := cmd.Flags().GetString("compression")
	return nbtfile.ParseCompression(name)
}
