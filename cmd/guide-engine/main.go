// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the guide-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the guide-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "guide-engine",
	Short: "Pipeline tooling for the travel-guide place catalog",
	Long: `guide-engine maintains the travel guide's place catalog (map.json).

Each pipeline stage is a subcommand: convert turns a KML export into the
catalog, images mirrors linked photos, sync pulls Google Place IDs out of
the My Maps page data and merges them into the catalog, feed renders an
RSS feed of new places, and history inspects recorded sync runs.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./guide-engine.yaml or ~/.config/guide-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("guide-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "guide-engine"))
		}
	}

	viper.SetEnvPrefix("GUIDE_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// stringSetting resolves a string setting: an explicitly set flag wins,
// then the config file key, then the flag default.
func stringSetting(cmd *cobra.Command, flag, key string) string {
	if cmd.Flags().Changed(flag) || !viper.IsSet(key) {
		v, _ := cmd.Flags().GetString(flag)
		return v
	}
	return viper.GetString(key)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
