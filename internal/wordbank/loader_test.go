package wordbank_test

import (
	"errors"
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocapsule/internal/wordbank"
)

type fakeFileInfo struct {
	mtime time.Time
}

func (f fakeFileInfo) Name() string       { return "word.json" }
func (f fakeFileInfo) Size() int64        { return 0 }
func (f fakeFileInfo) Mode() fs.FileMode  { return 0644 }
func (f fakeFileInfo) ModTime() time.Time { return f.mtime }
func (f fakeFileInfo) IsDir() bool        { return false }
func (f fakeFileInfo) Sys() any           { return nil }

type fakeSource struct {
	mtime time.Time
	data  []byte
	reads int
}

func (f *fakeSource) stat(string) (fs.FileInfo, error) {
	return fakeFileInfo{mtime: f.mtime}, nil
}

func (f *fakeSource) read(string) ([]byte, error) {
	f.reads++
	return f.data, nil
}

func newLoader(src *fakeSource) *wordbank.Loader {
	return wordbank.New("word.json", wordbank.WithStat(src.stat), wordbank.WithRead(src.read))
}

func TestLoad_NormalizesShapes(t *testing.T) {
	src := &fakeSource{
		mtime: time.Now(),
		data: []byte(`[
			{"word": "apple", "translation": "사과"},
			{"Word": " banana ", "Translation": "바나나 || 빠나나"},
			{"word": "cherry", "translation": "체리|버찌"},
			{"word": "grape", "translation": ["포도", " 그레이프 ", ""]},
			{"word": "", "translation": "dropped"},
			{"word": "dropped-too", "translation": "  "},
			{"translation": "no word key"}
		]`),
	}

	entries := newLoader(src).Load()
	require.Len(t, entries, 4)

	assert.Equal(t, "apple", entries[0].Word)
	assert.Equal(t, []string{"사과"}, entries[0].Translations)

	assert.Equal(t, "banana", entries[1].Word)
	assert.Equal(t, []string{"바나나", "빠나나"}, entries[1].Translations)

	assert.Equal(t, []string{"체리", "버찌"}, entries[2].Translations)
	assert.Equal(t, []string{"포도", "그레이프"}, entries[3].Translations)
}

func TestLoad_DoublePipeWinsOverSinglePipe(t *testing.T) {
	src := &fakeSource{
		mtime: time.Now(),
		data:  []byte(`[{"word": "w", "translation": "a|b || c|d"}]`),
	}

	entries := newLoader(src).Load()
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"a|b", "c|d"}, entries[0].Translations)
}

func TestLoad_CachesByModTime(t *testing.T) {
	src := &fakeSource{
		mtime: time.Now(),
		data:  []byte(`[{"word": "apple", "translation": "사과"}]`),
	}
	loader := newLoader(src)

	first := loader.Load()
	second := loader.Load()
	assert.Equal(t, first, second)
	assert.Equal(t, 1, src.reads, "unchanged mtime must not re-read the source")

	src.mtime = src.mtime.Add(time.Second)
	src.data = []byte(`[{"word": "pear", "translation": "배"}]`)

	third := loader.Load()
	require.Len(t, third, 1)
	assert.Equal(t, "pear", third[0].Word)
	assert.Equal(t, 2, src.reads)
}

func TestLoad_MissingSource(t *testing.T) {
	loader := wordbank.New("word.json", wordbank.WithStat(func(string) (fs.FileInfo, error) {
		return nil, errors.New("no such file")
	}))

	assert.Empty(t, loader.Load())
}

func TestLoad_MalformedSource(t *testing.T) {
	src := &fakeSource{mtime: time.Now(), data: []byte(`{"not": "an array"`)}

	assert.Empty(t, newLoader(src).Load())
}
