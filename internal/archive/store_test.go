package archive

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/harkit/internal/cache"
	"github.com/usestring/harkit/internal/config"
	"github.com/usestring/harkit/pkg/har"
	"github.com/usestring/harkit/pkg/wire"
)

const sampleHAR = `{
  "log": {
    "version": "1.2",
    "creator": {"name": "test", "version": "1.0"},
    "entries": [
      {
        "startedDateTime": "2024-03-01T10:00:00Z",
        "time": 12.5,
        "request": {"method": "GET", "url": "https://example.com/a"},
        "response": {"status": 200, "statusText": "OK"}
      }
    ]
  }
}`

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	root := t.TempDir()
	c, err := cache.NewArchiveCache(4)
	require.NoError(t, err)
	return NewStore(&config.Config{HARRoot: root, LoadWorkers: 2}, c), root
}

func writeFile(t *testing.T, root, name, content string) string {
	t.Helper()
	p := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestStore_Resolve(t *testing.T) {
	s, root := newTestStore(t)

	got, err := s.Resolve("a/b.har")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "a", "b.har"), got)

	got, err = s.Resolve(filepath.Join(root, "c.har"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "c.har"), got)

	_, err = s.Resolve("../escape.har")
	assert.ErrorIs(t, err, ErrOutsideRoot)

	_, err = s.Resolve("")
	assert.Error(t, err)
}

func TestStore_Load(t *testing.T) {
	s, root := newTestStore(t)
	writeFile(t, root, "one.har", sampleHAR)

	a, err := s.Load(context.Background(), "one.har")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "one.har"), a.Path)
	assert.Equal(t, "1.2", a.HAR.Version())
	require.Len(t, a.HAR.Entries(), 1)
	assert.Equal(t, "https://example.com/a", a.HAR.Entries()[0].Request.URL)
	assert.Equal(t, uint64(1), a.Index().AllDocIDs().GetCardinality())
}

func TestStore_LoadUsesCache(t *testing.T) {
	s, root := newTestStore(t)
	writeFile(t, root, "one.har", sampleHAR)

	first, err := s.Load(context.Background(), "one.har")
	require.NoError(t, err)
	second, err := s.Load(context.Background(), "one.har")
	require.NoError(t, err)
	assert.Same(t, first.HAR, second.HAR)
}

func TestStore_LoadReloadsModifiedFile(t *testing.T) {
	s, root := newTestStore(t)
	p := writeFile(t, root, "one.har", sampleHAR)

	first, err := s.Load(context.Background(), "one.har")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(p, []byte(`{"log": {"version": "1.3", "entries": []}}`), 0644))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(p, later, later))

	second, err := s.Load(context.Background(), "one.har")
	require.NoError(t, err)
	assert.NotSame(t, first.HAR, second.HAR)
	assert.Equal(t, "1.3", second.HAR.Version())
}

func TestStore_LoadErrors(t *testing.T) {
	s, root := newTestStore(t)
	writeFile(t, root, "bad.har", `{"log": {"entries": [{"request": {"url": "/"}}]}}`)
	writeFile(t, root, "notjson.har", `{"log":`)

	_, err := s.Load(context.Background(), "missing.har")
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	_, err = s.Load(context.Background(), "bad.har")
	var fe *wire.FieldError
	require.ErrorAs(t, err, &fe)
	assert.ErrorIs(t, err, wire.ErrMissingRequiredField)
	assert.Equal(t, "method", fe.Field)

	_, err = s.Load(context.Background(), "notjson.har")
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Load(ctx, "bad.har")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_LoadManyPreservesOrder(t *testing.T) {
	s, root := newTestStore(t)
	writeFile(t, root, "a.har", `{"log": {"version": "a", "entries": []}}`)
	writeFile(t, root, "b.har", `{"log": {"version": "b", "entries": []}}`)
	writeFile(t, root, "c.har", `{"log": {"version": "c", "entries": []}}`)

	archives, err := s.LoadMany(context.Background(), []string{"c.har", "a.har", "b.har"})
	require.NoError(t, err)
	require.Len(t, archives, 3)
	assert.Equal(t, "c", archives[0].HAR.Version())
	assert.Equal(t, "a", archives[1].HAR.Version())
	assert.Equal(t, "b", archives[2].HAR.Version())
}

func TestStore_LoadManyFailsOnAnyError(t *testing.T) {
	s, root := newTestStore(t)
	writeFile(t, root, "a.har", sampleHAR)

	_, err := s.LoadMany(context.Background(), []string{"a.har", "missing.har"})
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestStore_WriteRoundTrip(t *testing.T) {
	s, root := newTestStore(t)
	writeFile(t, root, "in.har", sampleHAR)

	a, err := s.Load(context.Background(), "in.har")
	require.NoError(t, err)

	path, n, err := s.Write("out/normalized.har", a.HAR)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "out", "normalized.har"), path)
	assert.Greater(t, n, 0)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, data, n)

	reloaded, err := har.Unmarshal(data)
	require.NoError(t, err)
	assert.True(t, har.Equal(a.HAR, reloaded))
}

func TestStore_WriteOutsideRoot(t *testing.T) {
	s, _ := newTestStore(t)
	_, _, err := s.Write("../x.har", har.NewHAR(har.NewLog()))
	assert.ErrorIs(t, err, ErrOutsideRoot)
}
