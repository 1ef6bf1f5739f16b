package credentials

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

var _ Store = (*FileStore)(nil)

// FileStore is a Store persisted as a single JSON object on disk. It is
// the CLI's stand-in for the browser's local storage: values survive
// process restarts and are scoped to the local user (0600 permissions).
type FileStore struct {
	path   string
	values map[string]string
	lock   sync.RWMutex
}

// NewFileStore opens (or creates) the store at path. A missing file is an
// empty store; an unreadable one is an error so corruption never reads as
// an empty session silently.
func NewFileStore(path string) (*FileStore, error) {
	fs := &FileStore{path: path, values: make(map[string]string)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fs, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[NewFileStore] read")
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &fs.values); err != nil {
			return nil, errors.Wrap(err, "[NewFileStore] decode")
		}
	}
	return fs, nil
}

func (fs *FileStore) Get(key string) (string, bool) {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	value, ok := fs.values[key]
	return value, ok
}

func (fs *FileStore) Set(key, value string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.values[key] = value
	return fs.persist()
}

func (fs *FileStore) Remove(key string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	if _, ok := fs.values[key]; !ok {
		return nil
	}
	delete(fs.values, key)
	return fs.persist()
}

// persist writes the whole store through a temp file and rename so a crash
// mid-write cannot leave a truncated file. Callers hold the write lock.
func (fs *FileStore) persist() error {
	data, err := json.MarshalIndent(fs.values, "", "  ")
	if err != nil {
		return errors.Wrap(err, "[FileStore.persist] marshal")
	}
	if err := os.MkdirAll(filepath.Dir(fs.path), 0o700); err != nil {
		return errors.Wrap(err, "[FileStore.persist] mkdir")
	}
	tmp := fs.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(err, "[FileStore.persist] write")
	}
	if err := os.Rename(tmp, fs.path); err != nil {
		return errors.Wrap(err, "[FileStore.persist] rename")
	}
	return nil
}
