package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/cad2urdf/internal/logger"
)

// settle is how long the manifest must stay quiet before a re-export.
// Editors often write a file in several steps.
const settle = 200 * time.Millisecond

func cmdWatch(args []string) {
	cfg, rest := setup("watch", args)
	defer logger.Sync()

	manifest, err := filepath.Abs(rest[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exportOnce(cfg, manifest)
	err = watch(ctx, manifest, func() {
		exportOnce(cfg, manifest)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// watch calls onChange after each burst of writes to path until ctx ends.
// The parent directory is watched so editors that replace the file by
// rename are still seen.
func watch(ctx context.Context, path string, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(path)); err != nil {
		return err
	}
	logger.Info("watching manifest", zap.String("path", path))

	timer := time.NewTimer(settle)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if relevant(ev, path) {
				logger.Debug("manifest changed", zap.String("op", ev.Op.String()))
				timer.Reset(settle)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))
		case <-timer.C:
			onChange()
		}
	}
}

// relevant reports whether ev changed the contents of path.
func relevant(ev fsnotify.Event, path string) bool {
	if filepath.Clean(ev.Name) != filepath.Clean(path) {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)
}
