package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

const fileExt = ".cache"

// Files is a TTL cache of byte blobs on disk, grouped by namespace.
// Freshness is the file's modification time.
type Files struct {
	root string
}

func New(root string) *Files {
	if root == "" {
		root = "cache"
	}
	return &Files{root: root}
}

func (f *Files) Root() string { return f.root }

// Path returns the file that holds key under namespace.
func (f *Files) Path(namespace, key string) string {
	hash := generateHash(namespace + "\x00" + key)
	return filepath.Join(f.root, namespace, hash+fileExt)
}

func generateHash(s string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(s))
}

func (f *Files) ensureDir(namespace string) error {
	return os.MkdirAll(filepath.Join(f.root, namespace), 0755)
}

// Write stores data atomically so concurrent readers never see a partial file.
func (f *Files) Write(namespace, key string, data []byte) error {
	if err := f.ensureDir(namespace); err != nil {
		return err
	}
	path := f.Path(namespace, key)
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Read returns the cached bytes if present and younger than maxAge.
func (f *Files) Read(namespace, key string, maxAge time.Duration) ([]byte, bool) {
	path := f.Path(namespace, key)

	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if time.Since(info.ModTime()) > maxAge {
		return nil, false
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return content, true
}

func (f *Files) WriteJSON(namespace, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return f.Write(namespace, key, raw)
}

// ReadJSON decodes a fresh entry into v. A corrupt entry counts as a miss.
func (f *Files) ReadJSON(namespace, key string, maxAge time.Duration, v any) bool {
	raw, ok := f.Read(namespace, key, maxAge)
	if !ok {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

func (f *Files) Clear(namespace, key string) error {
	err := os.Remove(f.Path(namespace, key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (f *Files) ClearNamespace(namespace string) error {
	return os.RemoveAll(filepath.Join(f.root, namespace))
}

// ClearOld removes entries older than maxAge and reports how many went.
func (f *Files) ClearOld(maxAge time.Duration) (int, error) {
	removed := 0
	err := filepath.Walk(f.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, fileExt) {
			return nil
		}
		if time.Since(info.ModTime()) > maxAge {
			if os.Remove(path) == nil {
				removed++
			}
		}
		return nil
	})
	return removed, err
}
