// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/file-compressor/internal/bundle"
	"github.com/pdiddy/file-compressor/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert FILE...",
	Short: "Convert local files to PDF and bundle them into one archive",
	Long: `Convert runs the same conversion as the upload endpoint on local files.
Each file is converted to PDF in order; on success the archive is written to
--output. If any file is unsupported or fails to convert, no archive is written.

Use --report to print the converted files as YAML or JSON.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

// convertReport is the --report document.
type convertReport struct {
	Archive string         `json:"archive" yaml:"archive"`
	Outputs []types.Output `json:"outputs" yaml:"outputs"`
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = cfg.Archive.Name
	}
	report, _ := cmd.Flags().GetString("report")
	if report != "" && report != "yaml" && report != "json" {
		return fmt.Errorf("unsupported report format %q: use yaml or json", report)
	}

	p, err := newPipeline(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer p.Close()

	sources := make([]bundle.Source, len(args))
	for i, arg := range args {
		sources[i] = bundle.FileSource(arg)
	}

	res, err := p.bundler.Bundle(cmd.Context(), sources)
	if err != nil {
		return err
	}
	defer res.Close()

	if err := copyFile(res.ArchivePath, output); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "\nwrote %s (%d files)\n", output, len(res.Outputs))

	return writeReport(os.Stdout, report, convertReport{Archive: output, Outputs: res.Outputs})
}

func writeReport(w io.Writer, format string, r convertReport) error {
	switch format {
	case "":
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	default:
		data, err := yaml.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshaling report: %w", err)
		}
		_, err = w.Write(data)
		return err
	}
}

func copyFile(src, dst string) error {
	if dir := filepath.Dir(dst); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	return out.Close()
}

func init() {
	convertCmd.Flags().StringP("output", "o", "", "archive path (default: archive.name in the current directory)")
	convertCmd.Flags().String("report", "", "print converted files as yaml or json")

	rootCmd.AddCommand(convertCmd)
}
