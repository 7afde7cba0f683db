package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gonadarena/internal/domain"
)

const addr = "0x00000000000000000000000000000000000a11ce"

func newImageStore(t *testing.T) (*ImageStore, string, *clock.Mock) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "images.json")
	mock := clock.NewMock()
	mock.Set(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	return NewImageStore(path, "/images/gonad.png", mock, zerolog.Nop()), path, mock
}

func TestImageStore_MissingFileIsEmpty(t *testing.T) {
	s, _, _ := newImageStore(t)
	assert.Empty(t, s.All())
	assert.Equal(t, "/images/gonad.png", s.Resolve(domain.ImageKey(addr)))
}

func TestImageStore_CorruptFileIsEmpty(t *testing.T) {
	s, path, _ := newImageStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	assert.Empty(t, s.All())

	_, err := s.Put(addr, "https://img.example/a.png", "Maximus")
	require.NoError(t, err)
	assert.Len(t, s.All(), 1)
}

func TestImageStore_PutAndResolve(t *testing.T) {
	s, path, mock := newImageStore(t)

	img, err := s.Put(addr, "https://img.example/a.png", "Maximus")
	require.NoError(t, err)
	assert.Equal(t, addr, img.ID)
	assert.Equal(t, mock.Now().UTC(), img.Timestamp)

	assert.Equal(t, "https://img.example/a.png", s.Resolve(domain.ImageKey(addr)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"gladiator`+addr+`"`)
	assert.Contains(t, string(data), `"imageUrl": "https://img.example/a.png"`)
}

func TestImageStore_PutDefaults(t *testing.T) {
	s, _, _ := newImageStore(t)

	img, err := s.Put(addr, "", "")
	require.NoError(t, err)
	assert.Equal(t, "/images/gonad.png", img.ImageURL)
	assert.Equal(t, "Gladiator "+addr, img.Name)
}

func TestImageStore_DefaultKeyFallback(t *testing.T) {
	s, path, _ := newImageStore(t)
	require.NoError(t, writeJSON(path, imagesDocument{Images: map[string]domain.GladiatorImage{
		domain.DefaultImageKey: {ID: "default", ImageURL: "/images/arena.png"},
	}}))

	assert.Equal(t, "/images/arena.png", s.Resolve(domain.ImageKey(addr)))
}
