// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the file-compressor CLI. The serve
// command runs the upload service; convert runs the same conversion on
// local files; history reads the optional request journal.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

const envPrefix = "FILE_COMPRESSOR"

// rootCmd is the base command for the file-compressor CLI.
var rootCmd = &cobra.Command{
	Use:   "file-compressor",
	Short: "Convert images, text, and Word documents to PDF and bundle them",
	Long: `file-compressor converts uploaded images (.png, .jpg, .jpeg), plain text
(.txt), Word documents (.docx), and existing PDFs into PDF files and returns
them together as one archive.

Run "file-compressor serve" for the upload form and HTTP endpoint, or
"file-compressor convert" to process local files directly.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./file-compressor.yaml or ~/.config/file-compressor/file-compressor.yaml)")
}

func initConfig() {
	// A .env file is optional; its variables feed the FILE_COMPRESSOR_* lookups below.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "warning: reading .env:", err)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("file-compressor")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "file-compressor"))
		}
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "warning: reading config %s: %v\n", cfgFile, err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
