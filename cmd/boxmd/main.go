// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the boxmd CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/boxmd/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the boxmd CLI.
var rootCmd = &cobra.Command{
	Use:   "boxmd",
	Short: "Convert Box Notes to Markdown or plain text",
	Long: `boxmd converts Box Notes (.boxnote) files into Markdown or plain text.
Both Box Notes encodings are supported: the legacy operator-stream format
used before 2022 and the current canvas node tree. The encoding is
detected automatically and can be forced per run.

Images embedded in a note are extracted beside the output file; exported
notes with a "Box Notes Images" sidecar directory resolve against it.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./boxmd.yaml or ~/.config/boxmd/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "print per-step detail")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("boxmd")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "boxmd"))
		}
	}

	viper.SetDefault("format", string(types.FormatMarkdown))
	viper.SetDefault("images.dir_name", "images")
	viper.SetDefault("images.timeout", 30*time.Second)
	viper.SetDefault("images.user_agent", "boxmd/"+version)
	viper.SetDefault("manifest.enabled", false)

	viper.SetEnvPrefix("BOXMD")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// convertConfig builds a ConvertConfig from config-file defaults
// overlaid with the flags of cmd.
func convertConfig(cmd *cobra.Command) (types.ConvertConfig, error) {
	cfg := types.ConvertConfig{
		Format: types.OutputFormat(viper.GetString("format")),
		Images: types.ImagesConfig{
			DirName:   viper.GetString("images.dir_name"),
			Download:  viper.GetBool("images.download"),
			Timeout:   viper.GetDuration("images.timeout"),
			UserAgent: viper.GetString("images.user_agent"),
		},
		Manifest: types.ManifestConfig{Enabled: viper.GetBool("manifest.enabled")},
	}

	if cmd.Flags().Changed("format") {
		f, _ := cmd.Flags().GetString("format")
		cfg.Format = types.OutputFormat(f)
	}
	if !cfg.Format.Valid() {
		return cfg, fmt.Errorf("invalid format %q (want markdown, text, or both)", cfg.Format)
	}

	forceLegacy, _ := cmd.Flags().GetBool("force-legacy")
	forceCanvas, _ := cmd.Flags().GetBool("force-canvas")
	if forceLegacy && forceCanvas {
		return cfg, fmt.Errorf("--force-legacy and --force-canvas are mutually exclusive")
	}
	if forceLegacy {
		cfg.Force = types.FormatLegacy
	}
	if forceCanvas {
		cfg.Force = types.FormatCanvas
	}

	cfg.Frontmatter, _ = cmd.Flags().GetBool("frontmatter")
	if download, _ := cmd.Flags().GetBool("download-images"); download {
		cfg.Images.Download = true
	}
	cfg.Verbose, _ = cmd.Root().PersistentFlags().GetBool("verbose")

	return cfg, nil
}

// addConvertFlags registers the flags shared by convert and batch.
func addConvertFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "", "output format: markdown, text, or both")
	cmd.Flags().Bool("force-legacy", false, "skip detection and decode as the legacy operator-stream format")
	cmd.Flags().Bool("force-canvas", false, "skip detection and decode as the canvas node tree")
	cmd.Flags().Bool("frontmatter", false, "prepend YAML frontmatter with note metadata to Markdown output")
	cmd.Flags().Bool("download-images", false, "download external image URLs and store them locally")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
