package clientstate

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// Persister is the injected side effect behind a store: stores never touch
// storage directly, they hand a serialized snapshot to whatever Persister
// they were built with.
type Persister interface {
	Save(name string, data []byte) error
	Load(name string) ([]byte, bool, error)
	Delete(name string) error
}

// FilePersister keeps one JSON file per store under a directory.
type FilePersister struct {
	dir string
}

func NewFilePersister(dir string) (*FilePersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FilePersister{dir: dir}, nil
}

func (p *FilePersister) Save(name string, data []byte) error {
	return os.WriteFile(filepath.Join(p.dir, name+".json"), data, 0o600)
}

func (p *FilePersister) Load(name string) ([]byte, bool, error) {
	data, err := os.ReadFile(filepath.Join(p.dir, name+".json"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (p *FilePersister) Delete(name string) error {
	err := os.Remove(filepath.Join(p.dir, name+".json"))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// MemoryPersister holds snapshots in memory, mainly for tests.
type MemoryPersister struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{entries: map[string][]byte{}}
}

func (p *MemoryPersister) Save(name string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	p.entries[name] = cp
	return nil
}

func (p *MemoryPersister) Load(name string) ([]byte, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	data, ok := p.entries[name]
	return data, ok, nil
}

func (p *MemoryPersister) Delete(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.entries, name)
	return nil
}
