// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the tex2text CLI, which extracts
// plain-text content from arXiv TeX source bundles and records corpus
// statistics in a tabular report.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/tex2text/internal/pipeline"
	"github.com/pdiddy/tex2text/internal/report"
	"github.com/pdiddy/tex2text/internal/texrender"
	"github.com/pdiddy/tex2text/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd runs the extraction pipeline over a folder of source bundles.
var rootCmd = &cobra.Command{
	Use:   "tex2text <input_folder> <output_folder> <output_report>",
	Short: "Extract plain text and statistics from TeX source bundles",
	Long: `tex2text scans a folder for compressed TeX source bundles (.tar.gz), extracts
each one, strips tables, figures and math, renders the remaining markup to
plain prose, and writes one .txt file per bundle plus a statistics report
(word, paragraph and character counts and extraction time).

Bundles whose output text already exists are skipped, so a run can be
resumed; use --force to reprocess them. Per-bundle failures are reported
and the run continues with the next bundle.`,
	Args: cobra.ExactArgs(3),
	RunE: runExtract,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./tex2text.yaml or ~/.config/tex2text/config.yaml)")
	rootCmd.Flags().BoolP("force", "f", false, "reprocess archives whose output text file already exists")
	rootCmd.Flags().Bool("debug", false, "emit verbose per-stage diagnostics (never changes results)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("tex2text")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "tex2text"))
		}
	}

	viper.SetDefault("encodings", types.DefaultEncodings)
	viper.SetDefault("archive_extensions", types.DefaultArchiveExts)
	viper.SetDefault("source_extension", types.DefaultSourceExt)

	viper.SetEnvPrefix("TEX2TEXT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func runExtract(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	debug, _ := cmd.Flags().GetBool("debug")

	cfg := types.ExtractionConfig{
		InputDir:    args[0],
		OutputDir:   args[1],
		ReportPath:  args[2],
		Encodings:   viper.GetStringSlice("encodings"),
		ArchiveExts: viper.GetStringSlice("archive_extensions"),
		SourceExt:   viper.GetString("source_extension"),
		Force:       force,
		Debug:       debug,
	}

	store, err := report.Open(cfg.ReportPath)
	if err != nil {
		return err
	}
	defer store.Close()

	p := pipeline.New(cfg, texrender.NewLatexRenderer(), store, os.Stdout)

	// Per-archive failures are already reported per line; only setup
	// problems make the run itself fail.
	_, err = p.Run()
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
