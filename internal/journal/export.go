// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/file-compressor/pkg/types"
)

// Export formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Export writes every outcome, newest first, in the named format.
func (j *Journal) Export(ctx context.Context, w io.Writer, format string) error {
	switch format {
	case FormatYAML, "":
		return j.ExportYAML(ctx, w)
	case FormatJSON:
		return j.ExportJSON(ctx, w)
	default:
		return fmt.Errorf("unknown export format %q (want yaml or json)", format)
	}
}

// ExportYAML writes every outcome as a YAML sequence.
func (j *Journal) ExportYAML(ctx context.Context, w io.Writer) error {
	outcomes, err := j.exportOutcomes(ctx)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(outcomes); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// ExportJSON writes every outcome as an indented JSON array.
func (j *Journal) ExportJSON(ctx context.Context, w io.Writer) error {
	outcomes, err := j.exportOutcomes(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(outcomes); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

func (j *Journal) exportOutcomes(ctx context.Context) ([]types.Outcome, error) {
	outcomes, err := j.List(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	if outcomes == nil {
		outcomes = []types.Outcome{}
	}
	return outcomes, nil
}
