// Package log provides a logging abstraction for runlane components.
//
// Components accept a [Logger] so they can be embedded in programs with their
// own logging stack. A zerolog adapter and a no-op logger are provided.
//
//	logger := log.NewZerologAdapter(os.Stderr, zerolog.InfoLevel)
//	logger.Info("layout computed", log.Int("batches", n))
package log
