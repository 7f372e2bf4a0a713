package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/sop-assistant/internal/domain"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	s, err := NewLocalStore(t.TempDir(), "/uploads/")
	require.NoError(t, err)
	s.now = func() time.Time { return time.UnixMilli(1700000000123) }
	return s
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "my_screen_shot.png", SanitizeFilename("my screen(shot.png"))
	assert.Equal(t, "passwd", SanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "x.jpg", SanitizeFilename(`C:\tmp\x.jpg`))
}

func TestLocalStore_SaveAndRead(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ref, err := s.Save(ctx, "order 123.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/1700000000123-order_123.png", ref)

	_, err = os.Stat(filepath.Join(s.Dir(), "1700000000123-order_123.png"))
	require.NoError(t, err)

	data, err := s.Read(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestLocalStore_ReadRejectsTraversal(t *testing.T) {
	s := newTestStore(t)

	for _, ref := range []string{"/uploads/../config.yaml", "/etc/passwd", "/uploads/", "/uploads/a/b.png"} {
		_, err := s.Read(context.Background(), ref)
		assert.True(t, errors.Is(err, domain.ErrInvalidImage), ref)
	}
}

func TestLocalStore_ReadMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Read(context.Background(), "/uploads/nope.png")
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.False(t, errors.Is(err, domain.ErrInvalidImage))
}
