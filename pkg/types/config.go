// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ServerConfig holds settings for the HTTP upload surface.
type ServerConfig struct {
	// Addr is the listen address (e.g. ":5000").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// MaxUploadBytes bounds the size of one multipart upload request.
	MaxUploadBytes int64 `json:"max_upload_bytes" yaml:"max_upload_bytes" mapstructure:"max_upload_bytes"`

	// TempDir is the parent directory for per-request workspaces. Empty means
	// the system temporary directory.
	TempDir string `json:"temp_dir" yaml:"temp_dir" mapstructure:"temp_dir"`
}

// LayoutConfig holds page geometry and font settings shared by the text and
// document converters.
type LayoutConfig struct {
	// PageWidth and PageHeight are the page size in points (default A4).
	PageWidth  float64 `json:"page_width" yaml:"page_width" mapstructure:"page_width"`
	PageHeight float64 `json:"page_height" yaml:"page_height" mapstructure:"page_height"`

	// Margin is the inset on all four sides, in points.
	Margin float64 `json:"margin" yaml:"margin" mapstructure:"margin"`

	// FontSize is the fixed font size in points. Line height is 1.2x this value.
	FontSize float64 `json:"font_size" yaml:"font_size" mapstructure:"font_size"`

	// FontFamily names the font. Without FontPath it must be a PDF core font.
	FontFamily string `json:"font_family" yaml:"font_family" mapstructure:"font_family"`

	// FontPath optionally points to a TrueType file registered as a UTF-8 font.
	FontPath string `json:"font_path,omitempty" yaml:"font_path,omitempty" mapstructure:"font_path"`
}

// Geometry returns the page geometry described by the layout settings.
func (c LayoutConfig) Geometry() PageGeometry {
	return PageGeometry{Width: c.PageWidth, Height: c.PageHeight, Margin: c.Margin}
}

// ImageConfig holds settings for the image converter.
type ImageConfig struct {
	// MaxDimension caps the longer image side in pixels; larger images are
	// downscaled. PDF viewers reject pages above 14400pt.
	MaxDimension int `json:"max_dimension" yaml:"max_dimension" mapstructure:"max_dimension"`
}

// ArchiveConfig holds settings for the downloadable archive.
type ArchiveConfig struct {
	// Name is the public file name of the archive. The container is always a
	// zip; existing clients expect "compressed.rar".
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// ContentType is the declared media type of the download.
	ContentType string `json:"content_type" yaml:"content_type" mapstructure:"content_type"`
}

// JournalConfig holds settings for the optional request journal.
type JournalConfig struct {
	// Path is the SQLite database file. Empty disables the journal.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// Config groups all settings of the service.
type Config struct {
	Server  ServerConfig  `json:"server" yaml:"server" mapstructure:"server"`
	Layout  LayoutConfig  `json:"layout" yaml:"layout" mapstructure:"layout"`
	Image   ImageConfig   `json:"image" yaml:"image" mapstructure:"image"`
	Archive ArchiveConfig `json:"archive" yaml:"archive" mapstructure:"archive"`
	Journal JournalConfig `json:"journal" yaml:"journal" mapstructure:"journal"`
}

// Default page and archive settings.
const (
	A4Width  = 595.2756
	A4Height = 841.8898

	DefaultMargin       = 72.0
	DefaultFontSize     = 12.0
	DefaultFontFamily   = "Helvetica"
	DefaultMaxDimension = 14400
	DefaultArchiveName  = "compressed.rar"
	DefaultArchiveType  = "application/vnd.rar"
	DefaultAddr         = ":5000"
	DefaultMaxUpload    = 32 << 20
)

// DefaultConfig returns the configuration used when no file or environment
// overrides are present.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:           DefaultAddr,
			MaxUploadBytes: DefaultMaxUpload,
		},
		Layout: LayoutConfig{
			PageWidth:  A4Width,
			PageHeight: A4Height,
			Margin:     DefaultMargin,
			FontSize:   DefaultFontSize,
			FontFamily: DefaultFontFamily,
		},
		Image: ImageConfig{
			MaxDimension: DefaultMaxDimension,
		},
		Archive: ArchiveConfig{
			Name:        DefaultArchiveName,
			ContentType: DefaultArchiveType,
		},
	}
}
