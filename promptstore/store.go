// Package promptstore is a supplemented feature: a keyed store for
// reusable prompt templates, grounded on the original's PromptStore
// (memory.py), which sits alongside ConversationMemoryStore with the
// same upsert contract. It is additive — the Agent Loop never requires
// it, since a caller may always pass a literal system prompt string
// instead.
package promptstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sandipan1/hica/hicaerrors"
)

// ErrNotFound is returned by Get when name has no stored prompt.
var ErrNotFound = hicaerrors.New(hicaerrors.StoreIOError, "prompt not found")

// Prompt is a named, versioned system prompt template.
type Prompt struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
	Text    string `json:"text"`
}

// Store is a keyed prompt template store: same four-operation contract
// as the Conversation Store, keyed by Prompt.Name rather than thread id.
type Store interface {
	Set(ctx context.Context, prompt Prompt) error
	Get(ctx context.Context, name string) (Prompt, error)
	Delete(ctx context.Context, name string) error
	All(ctx context.Context) ([]Prompt, error)
}

// FileStore persists one file per prompt under a directory, named
// "{name}.json", mirroring convstore.FileStore's atomic-write approach.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore constructs a FileStore rooted at dir, creating it if absent.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, hicaerrors.Wrap(hicaerrors.StoreIOError, "create prompt directory", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) pathFor(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Set implements Store. It is an idempotent upsert keyed by prompt.Name.
func (s *FileStore) Set(ctx context.Context, prompt Prompt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := marshalPrompt(prompt)
	if err != nil {
		return hicaerrors.Wrap(hicaerrors.SerializationError, "serialize prompt", err)
	}

	path := s.pathFor(prompt.Name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return hicaerrors.Wrap(hicaerrors.StoreIOError, "write prompt", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return hicaerrors.Wrap(hicaerrors.StoreIOError, "commit prompt", err)
	}
	return nil
}

// Get implements Store.
func (s *FileStore) Get(ctx context.Context, name string) (Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.pathFor(name))
	if err != nil {
		if os.IsNotExist(err) {
			return Prompt{}, ErrNotFound
		}
		return Prompt{}, hicaerrors.Wrap(hicaerrors.StoreIOError, "read prompt", err)
	}
	prompt, err := unmarshalPrompt(data)
	if err != nil {
		return Prompt{}, hicaerrors.Wrap(hicaerrors.SerializationError, "deserialize prompt", err)
	}
	return prompt, nil
}

// Delete implements Store. Deleting an absent name is not an error.
func (s *FileStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.pathFor(name)); err != nil && !os.IsNotExist(err) {
		return hicaerrors.Wrap(hicaerrors.StoreIOError, "delete prompt", err)
	}
	return nil
}

// All implements Store.
func (s *FileStore) All(ctx context.Context) ([]Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, hicaerrors.Wrap(hicaerrors.StoreIOError, "list prompt directory", err)
	}
	var prompts []Prompt
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			return nil, hicaerrors.Wrap(hicaerrors.StoreIOError, "read prompt", err)
		}
		prompt, err := unmarshalPrompt(data)
		if err != nil {
			return nil, hicaerrors.Wrap(hicaerrors.SerializationError, "deserialize prompt", err)
		}
		prompts = append(prompts, prompt)
	}
	return prompts, nil
}
