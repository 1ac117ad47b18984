package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests. My Maps
	// serves a reduced page to unrecognized clients, so this defaults to a
	// desktop browser string.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SyncConfig holds settings for the place-ID sync stage.
type SyncConfig struct {
	HTTPConfig `yaml:",inline"`

	// ViewerURL is the Google My Maps viewer URL to fetch.
	ViewerURL string `json:"viewer_url" yaml:"viewer_url"`

	// DataDir is the base directory for pipeline output (contains reports/,
	// index/, and diagnostic dumps).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// MaxRetries is the number of retry attempts for rate-limited fetches.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// CatalogConfig holds settings for reading and writing the place catalog.
type CatalogConfig struct {
	// Path is the primary map.json location.
	Path string `json:"path" yaml:"path"`

	// MirrorPath, when set, receives a copy of the catalog on every save
	// (the site build reads its own copy).
	MirrorPath string `json:"mirror_path,omitempty" yaml:"mirror_path,omitempty"`
}

// ConversionConfig holds settings for KML-to-catalog conversion.
type ConversionConfig struct {
	// KMLPath is the exported KML document to convert.
	KMLPath string `json:"kml_path" yaml:"kml_path"`
}

// ImagesConfig holds settings for the image mirroring stage.
type ImagesConfig struct {
	HTTPConfig `yaml:",inline"`

	// KMLPath is the KML document whose image links are rewritten.
	KMLPath string `json:"kml_path" yaml:"kml_path"`

	// ImagesDir is the directory that receives downloaded images.
	ImagesDir string `json:"images_dir" yaml:"images_dir"`

	// DownloadDelay is the delay between consecutive downloads.
	DownloadDelay time.Duration `json:"download_delay" yaml:"download_delay"`
}

// FeedConfig holds settings for RSS feed generation.
type FeedConfig struct {
	// Title is the feed title.
	Title string `json:"title" yaml:"title"`

	// SiteURL is the public URL of the travel guide; entry links are
	// SiteURL plus the place slug as a fragment.
	SiteURL string `json:"site_url" yaml:"site_url"`

	// SourceURL is the alternate link (e.g. the repository).
	SourceURL string `json:"source_url" yaml:"source_url"`

	// Author is the feed author name.
	Author string `json:"author" yaml:"author"`

	// OutputPath is where the rendered feed is written.
	OutputPath string `json:"output_path" yaml:"output_path"`

	// MaxEntries caps the number of feed entries (default 50).
	MaxEntries int `json:"max_entries" yaml:"max_entries"`
}

// HistoryConfig holds settings for the sync run-history store.
type HistoryConfig struct {
	// DataDir is the base directory for pipeline output; the SQLite
	// database lives at DataDir/index/history.db.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// MaxRuns is the default number of runs listed (default 20).
	MaxRuns int `json:"max_runs" yaml:"max_runs"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Sync       SyncConfig       `json:"sync" yaml:"sync"`
	Catalog    CatalogConfig    `json:"catalog" yaml:"catalog"`
	Conversion ConversionConfig `json:"conversion" yaml:"conversion"`
	Images     ImagesConfig     `json:"images" yaml:"images"`
	Feed       FeedConfig       `json:"feed" yaml:"feed"`
	History    HistoryConfig    `json:"history" yaml:"history"`
}
