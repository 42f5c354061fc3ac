package cliconfig

import "os"

// ApplyEnvConfig applies RUNLANE_* environment variables. They override the
// config file but not explicitly set flags.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("records", os.Getenv("RUNLANE_RECORDS"), &cfg.Records)
	s.setString("format", os.Getenv("RUNLANE_FORMAT"), &cfg.Format)
	s.setString("start", os.Getenv("RUNLANE_START"), &cfg.Start)
	s.setString("end", os.Getenv("RUNLANE_END"), &cfg.End)
	s.setString("log-level", os.Getenv("RUNLANE_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("since", os.Getenv("RUNLANE_SINCE"), &cfg.Since); err != nil {
		return err
	}
	if err := s.setDuration("debounce", os.Getenv("RUNLANE_DEBOUNCE"), &cfg.Debounce); err != nil {
		return err
	}

	if err := s.setIntFromString("width", os.Getenv("RUNLANE_WIDTH"), &cfg.Width); err != nil {
		return err
	}
	if err := s.setIntFromString("rows", os.Getenv("RUNLANE_ROWS"), &cfg.Rows); err != nil {
		return err
	}
	if err := s.setIntFromString("cache-entries", os.Getenv("RUNLANE_CACHE_ENTRIES"), &cfg.CacheEntries); err != nil {
		return err
	}
	if err := s.setCountFromString("gutter", os.Getenv("RUNLANE_GUTTER"), &cfg.Gutter); err != nil {
		return err
	}
	if err := s.setCountFromString("overscan", os.Getenv("RUNLANE_OVERSCAN"), &cfg.Overscan); err != nil {
		return err
	}
	if err := s.setCountFromString("offset", os.Getenv("RUNLANE_OFFSET"), &cfg.Offset); err != nil {
		return err
	}

	if err := s.setFloatFromString("min-chunk-width", os.Getenv("RUNLANE_MIN_CHUNK_WIDTH"), &cfg.MinChunkWidth); err != nil {
		return err
	}
	if err := s.setFloatFromString("min-multiple-width", os.Getenv("RUNLANE_MIN_MULTIPLE_WIDTH"), &cfg.MinMultipleWidth); err != nil {
		return err
	}

	s.setBoolFromString("group", os.Getenv("RUNLANE_GROUP"), &cfg.Group)
	s.setBoolFromString("watch", os.Getenv("RUNLANE_WATCH"), &cfg.Watch)

	return nil
}
