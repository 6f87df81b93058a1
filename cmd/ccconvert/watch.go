package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/theTyster/context-focused-claude/pkg/converter"
	"github.com/theTyster/context-focused-claude/pkg/frontmatter"
	"github.com/theTyster/context-focused-claude/pkg/logger"
	"github.com/theTyster/context-focused-claude/pkg/presenter"
)

// WatchConfig holds configuration for the watch command
type WatchConfig struct {
	DebounceTime int // milliseconds
}

// NewWatchConfig creates a new WatchConfig with default values
func NewWatchConfig() *WatchConfig {
	return &WatchConfig{
		DebounceTime: 300,
	}
}

// Validate validates the WatchConfig and returns an error if invalid
func (c *WatchConfig) Validate() error {
	if c.DebounceTime < 0 {
		return errors.Errorf("debounce time cannot be negative: %d", c.DebounceTime)
	}
	return nil
}

// FileEvent represents a file system event with additional metadata
type FileEvent struct {
	Path string
	Op   fsnotify.Op
	Time time.Time
}

var watchCmd = &cobra.Command{
	Use:   "watch <dialect> [input-dir] [output-dir]",
	Short: "Convert, then reconvert definitions as they change",
	Long: `Run a full conversion, then watch the input directories and reconvert each
agent or skill whenever its file is written. Press Ctrl+C to stop.`,
	Args: cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		watchConfig := getWatchConfigFromFlags(cmd)
		if err := watchConfig.Validate(); err != nil {
			return err
		}

		convertConfig := getConvertConfigFromFlags(cmd, cfg, args[1:])
		runner, targets, err := prepareRun(args[0], cfg, convertConfig)
		if err != nil {
			return err
		}

		ctx := logger.WithLogger(cmd.Context(), logger.G(cmd.Context()).WithField("dialect", runner.Dialect().Name))
		if _, err := runConvert(ctx, args[0], cfg, convertConfig); err != nil {
			return err
		}

		return runWatchMode(ctx, runner, targets, watchConfig)
	},
}

func init() {
	defaults := NewWatchConfig()
	addConvertFlags(watchCmd.Flags())
	watchCmd.Flags().IntP("debounce", "d", defaults.DebounceTime, "Debounce time in milliseconds for file change events")
}

// getWatchConfigFromFlags extracts watch configuration from command flags
func getWatchConfigFromFlags(cmd *cobra.Command) *WatchConfig {
	config := NewWatchConfig()
	if debounceTime, err := cmd.Flags().GetInt("debounce"); err == nil {
		config.DebounceTime = debounceTime
	}
	return config
}

func runWatchMode(ctx context.Context, runner *converter.Runner, targets []converter.Target, config *WatchConfig) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer watcher.Close()

	for _, t := range targets {
		if err := watchTarget(ctx, watcher, t); err != nil {
			return err
		}
	}

	events := make(chan FileEvent)
	debouncedEvents := make(chan FileEvent)
	go debounceFileEvents(ctx, events, debouncedEvents, time.Duration(config.DebounceTime)*time.Millisecond)

	go func() {
		for {
			select {
			case event := <-debouncedEvents:
				processFileChange(ctx, runner, targets, event)
			case <-ctx.Done():
				return
			}
		}
	}()

	presenter.Info("Watching for changes... Press Ctrl+C to stop")

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			changed := []string{event.Name}
			if event.Op&fsnotify.Create != 0 {
				changed = append(changed, addSkillDir(ctx, watcher, targets, event.Name)...)
			}
			for _, path := range changed {
				select {
				case events <- FileEvent{Path: path, Op: event.Op, Time: time.Now()}:
				case <-ctx.Done():
					return nil
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			presenter.Error(err, "File watcher error")
			logger.G(ctx).WithError(err).Error("error watching files")
		case <-ctx.Done():
			presenter.Info("Stopped watching")
			return nil
		}
	}
}

// watchTarget adds the input directory and, for skills, every skill
// directory below it
func watchTarget(ctx context.Context, watcher *fsnotify.Watcher, t converter.Target) error {
	if _, err := os.Stat(t.InputDir); err != nil {
		logger.G(ctx).WithField("directory", t.InputDir).Debug("skipping missing input directory")
		return nil
	}
	if err := watcher.Add(t.InputDir); err != nil {
		return errors.Wrapf(err, "failed to watch %s", t.InputDir)
	}

	if t.Kind != frontmatter.KindSkill {
		return nil
	}

	entries, err := os.ReadDir(t.InputDir)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", t.InputDir)
	}
	for _, entry := range entries {
		dir := filepath.Join(t.InputDir, entry.Name())
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			if err := watcher.Add(dir); err != nil {
				return errors.Wrapf(err, "failed to watch %s", dir)
			}
		}
	}
	return nil
}

// addSkillDir starts watching a newly created skill directory. A SKILL.md
// written before the watch was added raises no event of its own, so its path
// is returned for conversion.
func addSkillDir(ctx context.Context, watcher *fsnotify.Watcher, targets []converter.Target, path string) []string {
	var existing []string
	for _, t := range targets {
		if t.Kind != frontmatter.KindSkill || filepath.Dir(path) != filepath.Clean(t.InputDir) {
			continue
		}
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			continue
		}
		if err := watcher.Add(path); err != nil {
			logger.G(ctx).WithError(err).WithField("directory", path).Warn("failed to watch new skill directory")
			continue
		}
		skillFile := filepath.Join(path, frontmatter.SkillFileName)
		if _, err := os.Stat(skillFile); err == nil {
			existing = append(existing, skillFile)
		}
	}
	return existing
}

// debounceFileEvents forwards an event for a path only once no further event
// for that path has arrived within delay
func debounceFileEvents(ctx context.Context, input <-chan FileEvent, output chan<- FileEvent, delay time.Duration) {
	var mu sync.Mutex
	pending := make(map[string]*time.Timer)

	stopAll := func() {
		mu.Lock()
		defer mu.Unlock()
		for path, timer := range pending {
			timer.Stop()
			delete(pending, path)
		}
	}

	for {
		select {
		case event, ok := <-input:
			if !ok {
				stopAll()
				return
			}

			mu.Lock()
			if timer, exists := pending[event.Path]; exists {
				timer.Stop()
			}
			eventCopy := event
			pending[event.Path] = time.AfterFunc(delay, func() {
				mu.Lock()
				delete(pending, eventCopy.Path)
				mu.Unlock()

				select {
				case output <- eventCopy:
				case <-ctx.Done():
				}
			})
			mu.Unlock()
		case <-ctx.Done():
			stopAll()
			return
		}
	}
}

// processFileChange reconverts the definition a changed file belongs to
func processFileChange(ctx context.Context, runner *converter.Runner, targets []converter.Target, event FileEvent) {
	for _, t := range targets {
		src, ok := converter.SourceFor(t.InputDir, t.Kind, event.Path)
		if !ok {
			continue
		}

		logger.G(ctx).WithField("file", event.Path).WithField("operation", event.Op.String()).Debug("file change detected")
		presenter.Info(fmt.Sprintf("Change detected: %s", event.Path))

		report := runner.ConvertSource(ctx, src, t.OutputDir)
		presenter.Summary(report.Succeeded, report.Failed)
		return
	}
}
