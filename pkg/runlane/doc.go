// Package runlane lays job runs out on a time axis for embedding in other
// Go programs.
//
// # Batching
//
// BatchRecords is the core operation: it maps runs inside a window onto a
// lane of the given pixel width and merges runs that would be drawn too
// close together to tell apart.
//
//	window := runlane.Window{Start: start, End: end}
//	batches, err := runlane.BatchRecords(records, window, 800, 4, 4)
//
// # Timelines
//
// A Timeline loads runs from a source on every Build and returns a View with
// rows, batches and time dividers, ready for a renderer:
//
//	tl := runlane.New(runlane.StaticSource(records),
//	    runlane.WithWidth(120),
//	    runlane.WithGroup(true),
//	)
//	view, err := tl.Build(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = runlane.RenderText(os.Stdout, view)
//
// Results of the batcher are cached by content, so repeated builds over
// unchanged runs are cheap.
package runlane
