// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/file-compressor/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the request journal (list, export)",
	Long: `History reads the SQLite journal written by serve and convert when
journal.path is configured. Each entry is one request: its status, the
submitted files, and the PDFs that went into the archive.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent requests, newest first",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	j, err := openJournal(cfg)
	if err != nil {
		return err
	}
	defer j.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	outcomes, err := j.List(cmd.Context(), limit)
	if err != nil {
		return err
	}
	formatHistory(os.Stdout, outcomes)
	return nil
}

func formatHistory(w io.Writer, outcomes []types.Outcome) {
	if len(outcomes) == 0 {
		fmt.Fprintln(w, "No requests recorded.")
		return
	}

	fmt.Fprintf(w, "%-6s  %-20s  %-6s  %-5s  %s\n", "ID", "Time", "Status", "Files", "Detail")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, o := range outcomes {
		detail := strings.Join(o.Sources, ", ")
		if o.Error != "" {
			detail = o.Error
		}
		if len(detail) > 40 {
			detail = detail[:37] + "..."
		}
		fmt.Fprintf(w, "%-6d  %-20s  %-6s  %-5d  %s\n",
			o.ID, o.Time.Local().Format("2006-01-02 15:04:05"), o.Status, len(o.Sources), detail)
	}
	fmt.Fprintf(w, "\n%d requests\n", len(outcomes))
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the journal to stdout as YAML or JSON",
	RunE:  runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	j, err := openJournal(cfg)
	if err != nil {
		return err
	}
	defer j.Close()

	format, _ := cmd.Flags().GetString("format")
	return j.Export(cmd.Context(), os.Stdout, format)
}

func init() {
	historyListCmd.Flags().Int("limit", 20, "maximum requests to list (0 = all)")
	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyExportCmd)

	rootCmd.AddCommand(historyCmd)
}
