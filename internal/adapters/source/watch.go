package source

import (
	"context"

	"github.com/fsnotify/fsnotify"

	"github.com/gainboard/gainboard/pkg/logger"
)

// Watch monitors the given files and invokes onChange with the path after
// any of them is written or replaced. It runs until ctx is cancelled.
// Editors and exporters often save via rename, so create events count as
// changes and the path is re-added afterwards in case the inode was
// swapped. What a change means (typically a snapshot reload) is the
// callback's concern; Watch only fails on watcher setup errors.
func Watch(ctx context.Context, paths []string, onChange func(path string)) error {
	const op = "source.watch"

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return wrap(op, err)
	}
	defer watcher.Close()

	for _, path := range paths {
		if err := watcher.Add(path); err != nil {
			return wrap(op, err)
		}
	}

	log := logger.Named("watch")
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			log.Debug(ctx, "source file changed", logger.String("path", event.Name))
			onChange(event.Name)
			_ = watcher.Add(event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn(ctx, "watcher error", logger.Error(err))
		}
	}
}
