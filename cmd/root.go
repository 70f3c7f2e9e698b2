package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/promille/internal/config"
	"github.com/Tiliavir/promille/internal/logger"
)

var (
	configPath string
	debug      bool

	// cfg and homeDir are set before any subcommand runs.
	cfg     config.Config
	homeDir string
)

var rootCmd = &cobra.Command{
	Use:   "promille",
	Short: "promille – blood alcohol estimates from the command line",
	Long: `promille estimates blood alcohol concentration and time until sober
with the Widmark formula, or simulates the BAC curve minute by minute.
Drinking sessions are described in JSON or YAML files; settings live in
~/.promille/config.json.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.promille/config.json)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log debug output to stderr")

	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(timelineCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(apiCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	if configPath != "" {
		homeDir = filepath.Dir(configPath)
		cfg, err = config.LoadFile(configPath)
	} else {
		if homeDir, err = config.Dir(); err != nil {
			return err
		}
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	if err := logger.Init(logger.Config{Debug: debug || cfg.Log.Debug, Dir: homeDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
	}
	logger.Debug("configuration loaded", "command", cmd.Name(), "home", homeDir)
	return nil
}

// fail reports a runtime error and exits with status 2.
func fail(err error) {
	logger.Error("command failed", "err", err)
	fmt.Fprintln(os.Stderr, err)
	os.Exit(2)
}
