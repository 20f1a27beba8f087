// Package wordbank loads the static word catalog. The catalog is a JSON
// array of loosely shaped records; loading normalizes them into WordEntry
// values and caches the result keyed by the file's modification time.
package wordbank

import (
	"encoding/json"
	"io/fs"
	"os"
	"strings"
	"sync"
	"time"

	"vocapsule/internal/logger"
	"vocapsule/internal/models"
)

// StatFunc reports file metadata. Injectable for tests.
type StatFunc func(path string) (fs.FileInfo, error)

// ReadFunc reads the catalog bytes. Injectable for tests.
type ReadFunc func(path string) ([]byte, error)

// Loader reads and caches the word bank. The cache is invalidated only when
// the source's modification time changes, never on a plain re-read.
type Loader struct {
	path string
	stat StatFunc
	read ReadFunc

	mu     sync.Mutex
	cached []models.WordEntry
	mtime  time.Time
	valid  bool
}

// Option configures a Loader.
type Option func(*Loader)

// WithStat overrides how file metadata is read.
func WithStat(fn StatFunc) Option {
	return func(l *Loader) {
		l.stat = fn
	}
}

// WithRead overrides how the catalog bytes are read.
func WithRead(fn ReadFunc) Option {
	return func(l *Loader) {
		l.read = fn
	}
}

// New creates a Loader for the catalog at path.
func New(path string, opts ...Option) *Loader {
	l := &Loader{
		path: path,
		stat: os.Stat,
		read: os.ReadFile,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the normalized catalog. A missing or unparseable source
// yields an empty slice; downstream treats that as "no words available"
// rather than a hard failure.
func (l *Loader) Load() []models.WordEntry {
	log := logger.Default().WithPrefix("wordbank")

	info, err := l.stat(l.path)
	if err != nil {
		log.Warn("word bank not readable: %v", err)
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.valid && l.mtime.Equal(info.ModTime()) {
		return l.cached
	}

	data, err := l.read(l.path)
	if err != nil {
		log.Warn("failed to read word bank: %v", err)
		return nil
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Warn("failed to parse word bank: %v", err)
		return nil
	}

	entries := normalize(raw)
	log.Debug("word bank loaded: %d entries", len(entries))

	l.cached = entries
	l.mtime = info.ModTime()
	l.valid = true
	return l.cached
}

func normalize(raw []map[string]any) []models.WordEntry {
	var out []models.WordEntry
	for _, record := range raw {
		word := strings.TrimSpace(stringField(record, "word"))
		if word == "" {
			continue
		}
		translations := translationsField(record, "translation")
		if len(translations) == 0 {
			continue
		}
		out = append(out, models.WordEntry{Word: word, Translations: translations})
	}
	return out
}

// stringField resolves a key case-insensitively and returns its string form.
func stringField(record map[string]any, key string) string {
	for k, v := range record {
		if !strings.EqualFold(k, key) {
			continue
		}
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// translationsField accepts either a list of strings or a single string
// using "||" (preferred) or "|" as alternative separators.
func translationsField(record map[string]any, key string) []string {
	for k, v := range record {
		if !strings.EqualFold(k, key) {
			continue
		}
		switch tr := v.(type) {
		case []any:
			var alts []string
			for _, item := range tr {
				if s, ok := item.(string); ok {
					if s = strings.TrimSpace(s); s != "" {
						alts = append(alts, s)
					}
				}
			}
			return alts
		case string:
			return splitAlternatives(tr)
		}
	}
	return nil
}

func splitAlternatives(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	sep := ""
	switch {
	case strings.Contains(raw, "||"):
		sep = "||"
	case strings.Contains(raw, "|"):
		sep = "|"
	default:
		return []string{raw}
	}
	var alts []string
	for _, part := range strings.Split(raw, sep) {
		if p := strings.TrimSpace(part); p != "" {
			alts = append(alts, p)
		}
	}
	return alts
}
