package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"forlang/internal/project"
)

// diskCacheSchema changes whenever DiskPayload does; old entries become misses.
const diskCacheSchema uint16 = 1

// DiskCache keeps the outcome of finished runs on disk, one msgpack file per
// key under <dir>/runs. Safe for concurrent use within one process.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is one cached run. Only runs that ended normally are stored.
type DiskPayload struct {
	Schema      uint16
	Path        string
	ContentHash project.Digest
	Lines       []string
	Store       map[string]int64
	Iterations  uint64
}

// OpenDiskCache opens <user cache dir>/<app>.
func OpenDiskCache(app string) (*DiskCache, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return nil, fmt.Errorf("run cache: %w", err)
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt uses dir as the cache root, creating it when needed.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	c := &DiskCache{dir: dir}
	if err := os.MkdirAll(c.runsDir(), 0o755); err != nil {
		return nil, fmt.Errorf("run cache: %w", err)
	}
	return c, nil
}

func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) runsDir() string { return filepath.Join(c.dir, "runs") }

func (c *DiskCache) entry(key project.Digest) string {
	return filepath.Join(c.runsDir(), key.Hex()+".mp")
}

// Put stores payload under key. The entry appears atomically: readers see
// either the old file or the complete new one.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) error {
	if c == nil || payload == nil {
		return nil
	}
	payload.Schema = diskCacheSchema
	data, err := msgpack.Marshal(payload)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.MkdirAll(c.runsDir(), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(c.runsDir(), "put-*")
	if err != nil {
		return err
	}
	_, werr := tmp.Write(data)
	if err := errors.Join(werr, tmp.Close()); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), c.entry(key))
}

// Get fills out from the entry for key. A missing entry or one written by
// another schema is a miss, not an error.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	data, err := os.ReadFile(c.entry(key))
	c.mu.RUnlock()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, err
	}
	if err := msgpack.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode cache entry: %w", err)
	}
	return out.Schema == diskCacheSchema, nil
}

// DropAll removes every cached run.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.RemoveAll(c.runsDir()); err != nil {
		return err
	}
	return os.MkdirAll(c.runsDir(), 0o755)
}

// runCacheKey binds a result to the program content and to every option
// that changes what the run prints.
func runCacheKey(content project.Digest, opts *RunOptions) project.Digest {
	return project.Combine(content,
		[]byte("max_iterations="+strconv.FormatUint(opts.MaxIterations, 10)),
		[]byte("version="+opts.Version),
	)
}
