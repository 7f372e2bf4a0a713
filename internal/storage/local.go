package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/Rrens/sop-assistant/internal/domain"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// LocalStore keeps uploaded screenshots on the local filesystem and hands out
// references of the form <urlPrefix>/<file>.
type LocalStore struct {
	dir       string
	urlPrefix string
	now       func() time.Time
}

// NewLocalStore creates the upload directory if needed
func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStore{
		dir:       dir,
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
		now:       time.Now,
	}, nil
}

// Dir returns the directory files are written to
func (s *LocalStore) Dir() string {
	return s.dir
}

// URLPrefix returns the path prefix of returned references
func (s *LocalStore) URLPrefix() string {
	return s.urlPrefix
}

// SanitizeFilename replaces everything outside [a-zA-Z0-9.-] with an underscore
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	return unsafeChars.ReplaceAllString(name, "_")
}

// Save writes r under a unique name and returns its reference
func (s *LocalStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%d-%s", s.now().UnixMilli(), SanitizeFilename(filename))
	dest := filepath.Join(s.dir, name)

	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dest)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("failed to close file: %w", err)
	}

	return path.Join(s.urlPrefix, name), nil
}

// Read returns the bytes behind a reference produced by Save. References that
// escape the upload directory are rejected.
func (s *LocalStore) Read(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

func (s *LocalStore) resolve(ref string) (string, error) {
	clean := path.Clean("/" + strings.TrimSpace(ref))
	rel := strings.TrimPrefix(clean, s.urlPrefix+"/")
	if rel == clean || rel == "" || strings.Contains(rel, "/") {
		return "", fmt.Errorf("%w: %q is not an upload reference", domain.ErrInvalidImage, ref)
	}
	return filepath.Join(s.dir, rel), nil
}
