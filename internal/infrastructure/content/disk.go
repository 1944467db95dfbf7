// Package content persists attachments on local disk under a single root and
// hands out /uploads/ URLs as opaque references.
package content

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/taskflow/backend/domain"
)

// URLPrefix is the path fragment embedded in every reference.
const URLPrefix = "/uploads/"

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.\-_%]`)

// DiskStore stores attachment bytes under root. Delete only ever operates
// inside root; references resolving outside it are rejected.
type DiskStore struct {
	root   string
	logger *zap.Logger
}

// NewDiskStore creates the root directory if needed.
func NewDiskStore(root string, logger *zap.Logger) (*DiskStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{root: abs, logger: logger}, nil
}

// Store writes the content under a timestamp-prefixed sanitized name and
// returns the attachment reference.
func (s *DiskStore) Store(_ context.Context, name string, r io.Reader) (domain.Attachment, error) {
	safe := unsafeChars.ReplaceAllString(filepath.Base(name), "_")
	filename := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), safe)

	f, err := os.Create(filepath.Join(s.root, filename))
	if err != nil {
		return domain.Attachment{}, err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return domain.Attachment{}, err
	}

	return domain.Attachment{
		Name: name,
		URL:  URLPrefix + filename,
	}, nil
}

// Resolve reads the bytes behind a reference.
func (s *DiskStore) Resolve(_ context.Context, ref string) ([]byte, error) {
	path, err := s.localPath(ref)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrAttachmentNotFound
		}
		return nil, err
	}
	return data, nil
}

// Delete removes the referenced content. Deleting an absent reference is not
// an error.
func (s *DiskStore) Delete(_ context.Context, ref string) error {
	path, err := s.localPath(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// localPath maps a reference to a path inside the storage root. References
// without the uploads fragment, or whose cleaned path would escape the root,
// are rejected.
func (s *DiskStore) localPath(ref string) (string, error) {
	idx := strings.Index(ref, URLPrefix)
	if idx < 0 {
		return "", domain.NewError(domain.ErrCodeInvalid, "reference outside content store")
	}
	fragment := ref[idx+len(URLPrefix):]
	if fragment == "" {
		return "", domain.NewError(domain.ErrCodeInvalid, "empty content reference")
	}

	path := filepath.Join(s.root, filepath.FromSlash(fragment))
	if path != s.root && !strings.HasPrefix(path, s.root+string(filepath.Separator)) {
		return "", domain.NewError(domain.ErrCodeInvalid, "reference escapes content store root")
	}
	return path, nil
}
