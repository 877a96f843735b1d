package extract

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"recruitflow/internal/errors"
)

// VocabularyWatcher watches a vocabulary file for changes and hot-swaps
// the extractor's vocabulary. The file format is one skill tag per
// line; blank lines and lines starting with '#' are skipped.
type VocabularyWatcher struct {
	mu sync.RWMutex

	file      string
	extractor *VocabularyExtractor

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan   chan struct{}
	reloadChan chan struct{}

	logger *errors.Logger

	running     bool
	lastModTime time.Time
}

// NewVocabularyWatcher creates a watcher that reloads the extractor's
// vocabulary from file on change.
func NewVocabularyWatcher(file string, extractor *VocabularyExtractor, debounceDelay time.Duration, logger *errors.Logger) *VocabularyWatcher {
	if debounceDelay == 0 {
		debounceDelay = time.Second
	}

	return &VocabularyWatcher{
		file:          file,
		extractor:     extractor,
		debounceDelay: debounceDelay,
		stopChan:      make(chan struct{}),
		reloadChan:    make(chan struct{}, 1), // Buffered to prevent blocking
		logger:        logger,
	}
}

// LoadVocabularyFile reads a vocabulary file, one tag per line. Blank
// lines and '#' comments are skipped.
func LoadVocabularyFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			"Failed to open vocabulary file", err).WithContext("path", path)
	}
	defer f.Close()

	var vocabulary []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		vocabulary = append(vocabulary, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			"Failed to read vocabulary file", err).WithContext("path", path)
	}

	if len(vocabulary) == 0 {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidFormat,
			"Vocabulary file contains no skill tags", nil).WithContext("path", path)
	}

	return vocabulary, nil
}

// Start loads the vocabulary once and begins watching for changes.
func (vw *VocabularyWatcher) Start() error {
	vw.mu.Lock()
	defer vw.mu.Unlock()

	if vw.running {
		return fmt.Errorf("vocabulary watcher is already running")
	}

	// Initial load happens before watching so a bad file fails fast.
	vocabulary, err := LoadVocabularyFile(vw.file)
	if err != nil {
		return err
	}
	vw.extractor.SetVocabulary(vocabulary)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	vw.fsWatcher = watcher

	if stat, err := os.Stat(vw.file); err == nil {
		vw.lastModTime = stat.ModTime()
	}

	// Watch the directory too so atomic writes (rename) are caught.
	if err := vw.fsWatcher.Add(vw.file); err != nil {
		if cerr := vw.fsWatcher.Close(); cerr != nil && vw.logger != nil {
			vw.logger.LogError(cerr, "Failed to close file watcher during cleanup")
		}
		return fmt.Errorf("failed to watch vocabulary file %s: %w", vw.file, err)
	}
	if err := vw.fsWatcher.Add(filepath.Dir(vw.file)); err != nil && vw.logger != nil {
		vw.logger.Warn("Failed to watch vocabulary directory",
			"directory", filepath.Dir(vw.file), "error", err)
	}

	vw.running = true
	go vw.watchLoop()

	if vw.logger != nil {
		vw.logger.Info("Vocabulary file watcher started",
			"file", vw.file,
			"tags", len(vocabulary),
			"debounce_delay", vw.debounceDelay)
	}
	return nil
}

// Stop stops the vocabulary file watcher
func (vw *VocabularyWatcher) Stop() error {
	vw.mu.Lock()
	defer vw.mu.Unlock()

	if !vw.running {
		return nil
	}

	close(vw.stopChan)

	if vw.debounceTimer != nil {
		vw.debounceTimer.Stop()
	}

	if vw.fsWatcher != nil {
		if err := vw.fsWatcher.Close(); err != nil {
			if vw.logger != nil {
				vw.logger.LogError(err, "Failed to close file system watcher")
			}
			return err
		}
	}

	vw.running = false

	if vw.logger != nil {
		vw.logger.Info("Vocabulary file watcher stopped")
	}
	return nil
}

// IsRunning returns whether the watcher is currently running
func (vw *VocabularyWatcher) IsRunning() bool {
	vw.mu.RLock()
	defer vw.mu.RUnlock()
	return vw.running
}

// watchLoop is the main event loop for file watching
func (vw *VocabularyWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-vw.fsWatcher.Events:
			if !ok {
				return
			}
			if vw.shouldProcessEvent(event) {
				vw.scheduleReload()
			}

		case err, ok := <-vw.fsWatcher.Errors:
			if !ok {
				return
			}
			if vw.logger != nil {
				vw.logger.LogError(err, "File watcher error")
			}

		case <-vw.reloadChan:
			if vw.hasFileChanged() {
				vw.reload()
			}

		case <-vw.stopChan:
			return
		}
	}
}

// shouldProcessEvent filters events down to writes of the watched file
func (vw *VocabularyWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Name != vw.file && filepath.Base(event.Name) != filepath.Base(vw.file) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// hasFileChanged checks the modification time against the last reload
func (vw *VocabularyWatcher) hasFileChanged() bool {
	vw.mu.Lock()
	defer vw.mu.Unlock()

	stat, err := os.Stat(vw.file)
	if err != nil {
		return false
	}
	if stat.ModTime().After(vw.lastModTime) {
		vw.lastModTime = stat.ModTime()
		return true
	}
	return false
}

// reload re-reads the vocabulary file and swaps it into the extractor.
// A bad file keeps the previous vocabulary in place.
func (vw *VocabularyWatcher) reload() {
	vocabulary, err := LoadVocabularyFile(vw.file)
	if err != nil {
		if vw.logger != nil {
			vw.logger.LogError(
				errors.NewIOError(errors.ErrCodeVocabularyReload,
					"Vocabulary reload failed, keeping previous vocabulary", err),
				"Vocabulary reload failed", "file", vw.file)
		}
		return
	}

	vw.extractor.SetVocabulary(vocabulary)
	if vw.logger != nil {
		vw.logger.Info("Vocabulary reloaded", "file", vw.file, "tags", len(vocabulary))
	}
}

// scheduleReload schedules a debounced reload
func (vw *VocabularyWatcher) scheduleReload() {
	vw.mu.Lock()
	defer vw.mu.Unlock()

	if vw.debounceTimer != nil {
		vw.debounceTimer.Stop()
	}

	vw.debounceTimer = time.AfterFunc(vw.debounceDelay, func() {
		select {
		case vw.reloadChan <- struct{}{}:
		default:
			// Reload already scheduled
		}
	})
}
