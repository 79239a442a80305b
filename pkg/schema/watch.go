package schema

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/goliatone/go-schemaform/pkg/model"
)

// ChangeFunc receives a freshly decoded schema after the watched file changes.
type ChangeFunc func(schema model.Schema)

// WatchOption configures Watch.
type WatchOption func(*watchConfig)

type watchConfig struct {
	logger   *zap.Logger
	debounce time.Duration
	decode   DecodeOptions
}

// WithWatchLogger attaches a zap logger.
func WithWatchLogger(logger *zap.Logger) WatchOption {
	return func(cfg *watchConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithDebounce collapses bursts of events (editors often write a file in
// several steps) into a single reload.
func WithDebounce(d time.Duration) WatchOption {
	return func(cfg *watchConfig) {
		if d >= 0 {
			cfg.debounce = d
		}
	}
}

// WithDecodeOptions sets how reloaded documents are decoded.
func WithDecodeOptions(opts DecodeOptions) WatchOption {
	return func(cfg *watchConfig) {
		cfg.decode = opts
	}
}

// Watch reloads the schema file at path whenever it changes and hands valid
// schemas to onChange. Invalid intermediate states are logged and skipped.
// The parent directory is watched so atomic renames are seen. Watch blocks
// until ctx is done and returns nil on cancellation.
func Watch(ctx context.Context, path string, onChange ChangeFunc, options ...WatchOption) error {
	if onChange == nil {
		return errors.New("schema: watch callback is required")
	}
	cfg := watchConfig{
		logger:   zap.NewNop(),
		debounce: 100 * time.Millisecond,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("schema: watch: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("schema: watch: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("schema: watch %s: %w", filepath.Dir(target), err)
	}

	logger := cfg.logger.With(zap.String("path", target))
	logger.Debug("watching schema")

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("schema watch stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("schema event", zap.String("op", event.Op.String()))
			timer.Reset(cfg.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("schema watch error", zap.Error(err))

		case <-timer.C:
			schema, err := reload(ctx, target, cfg.decode)
			if err != nil {
				logger.Warn("schema reload skipped", zap.Error(err))
				continue
			}
			logger.Info("schema reloaded", zap.Int("fields", len(schema)))
			onChange(schema)
		}
	}
}

func reload(ctx context.Context, path string, opts DecodeOptions) (model.Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := NewDocument(SourceFromFile(path), raw)
	if err != nil {
		return nil, err
	}
	return doc.Decode(ctx, opts)
}
