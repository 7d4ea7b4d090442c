package main

import (
	"context"
	"io"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/xtree/observability"
	"github.com/benz9527/xtree/xlog"
)

type watchCfg struct {
	path string
	kind string
	out  io.Writer
}

// opsWatcher rebuilds a tree from the ops file every time the file is
// written and prints the report of the new tree. The last tree is kept
// alive until it is replaced or the watcher stops, so the shape gauges
// describe it while the process idles.
type opsWatcher struct {
	ctx      context.Context
	cancelFn context.CancelFunc
	cfg      watchCfg
	abs      string
	logger   xlog.XLogger
	stats    *observability.TreeStats
	watcher  *fsnotify.Watcher
	last     *session
	outLock  sync.Mutex
	wg       sync.WaitGroup
}

func newOpsWatcher(cfg watchCfg, logger xlog.XLogger, stats *observability.TreeStats) (*opsWatcher, error) {
	if _, err := newTree(cfg.kind); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(cfg.path)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &opsWatcher{
		ctx:      ctx,
		cancelFn: cancel,
		cfg:      cfg,
		abs:      abs,
		logger:   logger.Named("watch"),
		stats:    stats,
	}, nil
}

func (w *opsWatcher) start(context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// Editors often replace the file, so the directory is watched.
	if err = watcher.Add(filepath.Dir(w.abs)); err != nil {
		return multierr.Append(err, watcher.Close())
	}
	w.watcher = watcher
	w.reload()

	w.wg.Add(1)
	go w.loop()
	return nil
}

func (w *opsWatcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.abs {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.reload()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error(err, "watch failed", zap.String("file", w.abs))
		}
	}
}

func (w *opsWatcher) reload() {
	input, err := readOpsFile(w.abs)
	if err != nil {
		w.logger.Error(err, "read ops file failed", zap.String("file", w.abs))
		return
	}
	s, err := newSession(w.cfg.kind, w.logger, w.stats)
	if err != nil {
		w.logger.Error(err, "new session failed")
		return
	}
	if err = s.run(w.ctx, input); err != nil {
		w.logger.Warn("ops file partially applied", zap.Error(err))
	}

	w.outLock.Lock()
	defer w.outLock.Unlock()
	if w.last != nil {
		w.last.release()
	}
	w.last = s
	if err = writeReport(w.cfg.out, s.tree); err != nil {
		w.logger.Error(err, "write report failed")
	}
}

func (w *opsWatcher) stop(context.Context) error {
	w.cancelFn()
	if w.watcher == nil {
		return nil
	}
	err := w.watcher.Close()
	w.wg.Wait()

	w.outLock.Lock()
	defer w.outLock.Unlock()
	if w.last != nil {
		w.last.release()
		w.last = nil
	}
	return err
}

func registerOpsWatcher(lc fx.Lifecycle, w *opsWatcher) {
	lc.Append(fx.Hook{
		OnStart: w.start,
		OnStop:  w.stop,
	})
}
