package mocks

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/segyhp/club-engine/internal/domain"
)

type MockProofStore struct {
	mock.Mock
}

func (m *MockProofStore) Save(ctx context.Context, dueID uuid.UUID, filename string, content io.Reader) (domain.ProofRef, error) {
	args := m.Called(ctx, dueID, filename, content)
	return args.Get(0).(domain.ProofRef), args.Error(1)
}

func (m *MockProofStore) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockProofStore) Delete(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

// MemoryProofStore keeps proofs in memory. It consumes the upload stream like a real store.
type MemoryProofStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func NewMemoryProofStore() *MemoryProofStore {
	return &MemoryProofStore{files: map[string][]byte{}}
}

func (s *MemoryProofStore) Save(_ context.Context, dueID uuid.UUID, filename string, content io.Reader) (domain.ProofRef, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return domain.ProofRef{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	path := dueID.String() + "/" + uuid.NewString() + "-" + filename
	s.files[path] = data
	return domain.ProofRef{Path: path, ContentType: "application/pdf", Size: int64(len(data))}, nil
}

func (s *MemoryProofStore) Open(_ context.Context, path string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[path]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *MemoryProofStore) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, path)
	return nil
}

func (s *MemoryProofStore) Has(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[path]
	return ok
}

func (s *MemoryProofStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

type MockDueCache struct {
	mock.Mock
}

func (m *MockDueCache) GetOverdue(ctx context.Context) ([]*domain.Due, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Due), args.Error(1)
}

func (m *MockDueCache) SetOverdue(ctx context.Context, dues []*domain.Due) error {
	args := m.Called(ctx, dues)
	return args.Error(0)
}

func (m *MockDueCache) InvalidateOverdue(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
