// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/viper"

	"github.com/pdiddy/file-compressor/internal/bundle"
	"github.com/pdiddy/file-compressor/internal/convert"
	"github.com/pdiddy/file-compressor/internal/journal"
	"github.com/pdiddy/file-compressor/internal/render"
	"github.com/pdiddy/file-compressor/pkg/types"
)

// setDefaults registers every setting so environment overrides resolve
// even when no config file is present.
func setDefaults(v *viper.Viper) {
	d := types.DefaultConfig()

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.max_upload_bytes", d.Server.MaxUploadBytes)
	v.SetDefault("server.temp_dir", d.Server.TempDir)

	v.SetDefault("layout.page_width", d.Layout.PageWidth)
	v.SetDefault("layout.page_height", d.Layout.PageHeight)
	v.SetDefault("layout.margin", d.Layout.Margin)
	v.SetDefault("layout.font_size", d.Layout.FontSize)
	v.SetDefault("layout.font_family", d.Layout.FontFamily)
	v.SetDefault("layout.font_path", d.Layout.FontPath)

	v.SetDefault("image.max_dimension", d.Image.MaxDimension)

	v.SetDefault("archive.name", d.Archive.Name)
	v.SetDefault("archive.content_type", d.Archive.ContentType)

	v.SetDefault("journal.path", d.Journal.Path)
}

// loadConfig decodes the merged defaults, config file, and environment.
func loadConfig(v *viper.Viper) (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// pipeline is a ready Bundler plus the resources it holds open.
type pipeline struct {
	bundler *bundle.Bundler
	journal *journal.Journal
}

func (p *pipeline) Close() error {
	if p.journal == nil {
		return nil
	}
	return p.journal.Close()
}

// newPipeline wires fonts, renderer, converter, and the optional journal
// into a Bundler that writes status lines to log.
func newPipeline(cfg types.Config, log io.Writer) (*pipeline, error) {
	fonts, err := render.LoadFonts(cfg.Layout)
	if err != nil {
		return nil, err
	}
	converter, err := convert.New(render.New(fonts), cfg.Layout, cfg.Image)
	if err != nil {
		return nil, err
	}

	p := &pipeline{}
	opts := bundle.Options{
		ArchiveName: cfg.Archive.Name,
		TempDir:     cfg.Server.TempDir,
		Log:         log,
	}
	if cfg.Journal.Path != "" {
		if p.journal, err = journal.Open(cfg.Journal.Path); err != nil {
			return nil, err
		}
		opts.Recorder = p.journal
	}
	p.bundler = bundle.New(converter, opts)
	return p, nil
}

// openJournal opens the configured journal for the history commands.
func openJournal(cfg types.Config) (*journal.Journal, error) {
	if cfg.Journal.Path == "" {
		return nil, fmt.Errorf("no journal configured: set journal.path or %s_JOURNAL_PATH", envPrefix)
	}
	return journal.Open(cfg.Journal.Path)
}
