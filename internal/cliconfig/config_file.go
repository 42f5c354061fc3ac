package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
// Settings where zero is meaningful are pointers so that an explicit 0 applies.
type FileConfig struct {
	Records          string  `toml:"records"`
	Format           string  `toml:"format"`
	Start            string  `toml:"start"`
	End              string  `toml:"end"`
	Since            string  `toml:"since"`
	Width            int     `toml:"width"`
	Gutter           *int    `toml:"gutter"`
	MinChunkWidth    float64 `toml:"min_chunk_width"`
	MinMultipleWidth float64 `toml:"min_multiple_width"`
	Group            *bool   `toml:"group"`
	Overscan         *int    `toml:"overscan"`
	Rows             int     `toml:"rows"`
	Offset           *int    `toml:"offset"`
	CacheEntries     int     `toml:"cache_entries"`
	Watch            *bool   `toml:"watch"`
	Debounce         string  `toml:"debounce"`
	LogLevel         string  `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.runlane/config.toml, or "" without a home directory.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".runlane", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("records", fc.Records, &cfg.Records)
	s.setString("format", fc.Format, &cfg.Format)
	s.setString("start", fc.Start, &cfg.Start)
	s.setString("end", fc.End, &cfg.End)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if err := s.setDuration("since", fc.Since, &cfg.Since); err != nil {
		return err
	}
	if err := s.setDuration("debounce", fc.Debounce, &cfg.Debounce); err != nil {
		return err
	}

	s.setInt("width", fc.Width, &cfg.Width)
	s.setIntPtr("gutter", fc.Gutter, &cfg.Gutter)
	s.setIntPtr("overscan", fc.Overscan, &cfg.Overscan)
	s.setIntPtr("offset", fc.Offset, &cfg.Offset)
	s.setInt("rows", fc.Rows, &cfg.Rows)
	s.setInt("cache-entries", fc.CacheEntries, &cfg.CacheEntries)

	s.setFloat("min-chunk-width", fc.MinChunkWidth, &cfg.MinChunkWidth)
	s.setFloat("min-multiple-width", fc.MinMultipleWidth, &cfg.MinMultipleWidth)

	s.setBool("group", fc.Group, &cfg.Group)
	s.setBool("watch", fc.Watch, &cfg.Watch)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
