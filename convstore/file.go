package convstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sandipan1/hica/hicaerrors"
	"github.com/sandipan1/hica/thread"
)

// FileStore persists one file per thread under a directory, named
// "{thread_id}.json", grounded on the original's FileMemoryStore. Writes
// are atomic (write to a temp file, then rename) so a crash mid-write
// never leaves a half-written snapshot visible to Get.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore constructs a FileStore rooted at dir, creating it if absent.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, hicaerrors.Wrap(hicaerrors.StoreIOError, "create thread directory", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) pathFor(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Set implements Store.
func (s *FileStore) Set(ctx context.Context, th *thread.Thread) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := th.ToSerialized()
	if err != nil {
		return hicaerrors.Wrap(hicaerrors.SerializationError, "serialize thread", err)
	}

	path := s.pathFor(th.ThreadID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return hicaerrors.Wrap(hicaerrors.StoreIOError, "write thread snapshot", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return hicaerrors.Wrap(hicaerrors.StoreIOError, "commit thread snapshot", err)
	}
	return nil
}

// Get implements Store.
func (s *FileStore) Get(ctx context.Context, id string) (*thread.Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.pathFor(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, hicaerrors.Wrap(hicaerrors.StoreIOError, "read thread snapshot", err)
	}
	th, err := thread.FromSerialized(data)
	if err != nil {
		return nil, hicaerrors.Wrap(hicaerrors.SerializationError, "deserialize thread", err)
	}
	return th, nil
}

// Delete implements Store.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.pathFor(id)); err != nil && !os.IsNotExist(err) {
		return hicaerrors.Wrap(hicaerrors.StoreIOError, "delete thread snapshot", err)
	}
	return nil
}

// All implements Store.
func (s *FileStore) All(ctx context.Context) ([]*thread.Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, hicaerrors.Wrap(hicaerrors.StoreIOError, "list thread directory", err)
	}
	var threads []*thread.Thread
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			return nil, hicaerrors.Wrap(hicaerrors.StoreIOError, "read thread snapshot", err)
		}
		th, err := thread.FromSerialized(data)
		if err != nil {
			return nil, hicaerrors.Wrap(hicaerrors.SerializationError, "deserialize thread", err)
		}
		threads = append(threads, th)
	}
	return threads, nil
}
