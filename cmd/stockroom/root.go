// Root command for the stockroom CLI.
package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stockroom/internal/logging"
	"github.com/mesh-intelligence/stockroom/internal/paths"
	"github.com/mesh-intelligence/stockroom/pkg/stockroom"
	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// databaseFileName is the file created inside the data directory when no
// explicit --db path or configured database_path is given.
const databaseFileName = "stockroom.db"

// Global flag values.
var (
	flagConfigDir string
	flagDB        string
	flagTemplate  string
	flagJSON      bool
	flagLogLevel  string
)

// cliConfig is the store configuration assembled by PersistentPreRunE from
// flags, config.yaml, and platform defaults. All subcommands read it.
var cliConfig types.Config

var rootCmd = &cobra.Command{
	Use:     "stockroom",
	Short:   "Stockroom is a local-first asset inventory manager",
	Version: stockroom.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}

		level := flagLogLevel
		if level == "" {
			level = cfg.GetString(cfgKeyLogLevel)
		}
		logging.Setup(level, cfg.GetString(cfgKeyLogFormat))

		cliConfig, err = assembleStoreConfig(cfg)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "database file path (default: from config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagTemplate, "template", "", "CSV template path (default: from config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(labelCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(columnsCmd)
	rootCmd.AddCommand(templateCmd)
}

// resolveConfigDir returns the configuration directory following the
// precedence chain: --config-dir flag > STOCKROOM_CONFIG_DIR env > platform
// default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}

// assembleStoreConfig merges flags over config.yaml values into the store
// configuration. The database path falls back to stockroom.db inside the
// resolved data directory when neither flag nor config names one.
func assembleStoreConfig(cfg configValues) (types.Config, error) {
	dbPath := flagDB
	if dbPath == "" {
		dbPath = cfg.GetString(cfgKeyDatabasePath)
	}
	if dbPath == "" {
		dataDir, err := paths.ResolveDataDir("", "")
		if err != nil {
			return types.Config{}, err
		}
		dbPath = filepath.Join(dataDir, databaseFileName)
	}

	templatePath := flagTemplate
	if templatePath == "" {
		templatePath = cfg.GetString(cfgKeyTemplatePath)
	}

	return types.Config{
		DatabasePath:        dbPath,
		DefaultTemplatePath: templatePath,
		UniqueFields:        cfg.GetStringSlice(cfgKeyUniqueFields),
		TextFields:          cfg.GetStringSlice(cfgKeyTextFields),
	}, nil
}
