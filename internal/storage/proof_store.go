package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/segyhp/club-engine/internal/domain"
	"github.com/segyhp/club-engine/pkg/utils"
)

// ErrInvalidPath is returned for references that escape the store root.
var ErrInvalidPath = errors.New("invalid proof path")

// LocalStore keeps proof-of-payment files under a root directory, one
// sub-directory per due. Stored names are random so uploads never collide.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, errors.Wrapf(err, "creating proof directory %s", root)
	}
	return &LocalStore{root: root}, nil
}

// Save writes content and returns a reference relative to the store root.
func (s *LocalStore) Save(ctx context.Context, dueID uuid.UUID, filename string, content io.Reader) (domain.ProofRef, error) {
	if err := ctx.Err(); err != nil {
		return domain.ProofRef{}, err
	}

	dir := filepath.Join(s.root, dueID.String())
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return domain.ProofRef{}, errors.Wrap(err, "creating due directory")
	}

	name := uuid.NewString() + "." + utils.FileExtension(filename)
	rel := filepath.ToSlash(filepath.Join(dueID.String(), name))
	full := filepath.Join(dir, name)

	f, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		return domain.ProofRef{}, errors.Wrap(err, "creating proof file")
	}

	// sniff the head while copying the whole stream
	head := &headBuffer{limit: 3072}
	size, err := io.Copy(f, io.TeeReader(content, head))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(full)
		return domain.ProofRef{}, errors.Wrap(err, "writing proof file")
	}

	return domain.ProofRef{
		Path:        rel,
		ContentType: mimetype.Detect(head.buf).String(),
		Size:        size,
	}, nil
}

// Open returns a reader for a stored proof. The caller closes it.
func (s *LocalStore) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, errors.Wrap(err, "opening proof file")
	}
	return f, nil
}

// Delete removes a stored proof. Removing a missing file is not an error.
func (s *LocalStore) Delete(ctx context.Context, path string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "deleting proof file")
	}
	// drop the per-due directory once empty
	_ = os.Remove(filepath.Dir(full))
	return nil
}

func (s *LocalStore) resolve(path string) (string, error) {
	if path == "" || filepath.IsAbs(path) {
		return "", ErrInvalidPath
	}
	clean := filepath.Clean(filepath.FromSlash(path))
	if clean == "." || strings.HasPrefix(clean, "..") {
		return "", ErrInvalidPath
	}
	return filepath.Join(s.root, clean), nil
}

type headBuffer struct {
	buf   []byte
	limit int
}

func (h *headBuffer) Write(p []byte) (int, error) {
	if room := h.limit - len(h.buf); room > 0 {
		if len(p) < room {
			room = len(p)
		}
		h.buf = append(h.buf, p[:room]...)
	}
	return len(p), nil
}
