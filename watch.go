package remapcheck

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jetkvm/remapcheck/internal/testcase"
	"github.com/jetkvm/remapcheck/internal/watchdog"
)

const watchDebounce = 100 * time.Millisecond

// watchSet maps the directories to watch onto the test files in them.
// Editors tend to replace files rather than write them in place, so the
// directory is watched and events are filtered by name.
type watchSet map[string]string

func newWatchSet(paths []string) (watchSet, error) {
	ws := watchSet{}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		ws[abs] = p
	}
	return ws, nil
}

func (ws watchSet) dirs() []string {
	seen := map[string]bool{}
	var out []string
	for abs := range ws {
		d := filepath.Dir(abs)
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Strings(out)
	return out
}

// match returns the test file an event refers to, if any.
func (ws watchSet) match(ev fsnotify.Event) (string, bool) {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return "", false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return "", false
	}
	p, ok := ws[abs]
	return p, ok
}

// watchCases runs the initial cases, then re-runs each test file whenever
// it changes until ctx is done. Every run gets its own watchdog; files
// that no longer parse are reported and skipped.
func watchCases(ctx context.Context, s *session, paths []string, initial []*testcase.TestCase, release func()) error {
	ws, err := newWatchSet(paths)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	for _, d := range ws.dirs() {
		if err := watcher.Add(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
	}

	runOnce := func(cases []*testcase.TestCase) error {
		wd := watchdog.Arm(s.cfg.Timing.Timeout, watchdogLogger, release)
		defer wd.Stop()
		_, err := s.runCases(ctx, cases)
		return err
	}

	if err := runOnce(initial); err != nil {
		return err
	}
	watchLogger.Info().Strs("files", paths).Msg("watching test files for changes")

	dirty := map[string]bool{}
	debounce := time.NewTimer(watchDebounce)
	debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			p, ok := ws.match(ev)
			if !ok {
				continue
			}
			watchLogger.Debug().Str("file", p).Str("op", ev.Op.String()).Msg("test file changed")
			dirty[p] = true
			debounce.Reset(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			watchLogger.Warn().Err(err).Msg("watcher error")

		case <-debounce.C:
			changed := make([]string, 0, len(dirty))
			for p := range dirty {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			clear(dirty)

			var cases []*testcase.TestCase
			for _, p := range changed {
				tc, err := testcase.Load(p)
				if err != nil {
					watchLogger.Error().Err(err).Msg("skipping test file")
					continue
				}
				cases = append(cases, tc)
			}
			if len(cases) == 0 {
				continue
			}
			if err := runOnce(cases); err != nil {
				return err
			}
		}
	}
}
