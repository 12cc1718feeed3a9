// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bootnet.xyz/snet/internal/config"
	"bootnet.xyz/snet/internal/log"
)

var (
	// Global flags
	configFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "snet",
	Short: "snet - simple-network protocol layer for boot environments",
	Long: `snet exposes a single active network interface through the simple-network
protocol contract consumed by network boot loaders and installers, and layers
a minimal HTTP retrieval mechanism on top of it.

Commands:
  run    bring the interface up and poll it until interrupted
  fetch  retrieve a file over HTTP with adaptive buffer sizing
  addr   inspect or update the interface's persistent IPv4 addressing`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "/etc/snet/config.yml",
		"config file path")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(addrCmd)
}

// loadConfig reads the configuration and initializes logging. A missing
// config file falls back to the built-in defaults.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		if _, statErr := os.Stat(configFile); os.IsNotExist(statErr) {
			cfg = config.Default()
		} else {
			return nil, err
		}
	}
	if err := log.Init(cfg.Log); err != nil {
		return nil, err
	}
	return cfg, nil
}

// exitWithError prints error message and exits with code 1
func exitWithError(msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	}
	os.Exit(1)
}
