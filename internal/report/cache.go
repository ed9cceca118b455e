package report

import (
	"os"
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

// DefaultCacheSize is the number of report files kept in memory.
const DefaultCacheSize = 256

// reportKey identifies one version of a report file as read by one reader.
type reportKey struct {
	path    string
	size    int64
	modTime int64
	form    string
}

const (
	formLines = "lines"
	formTable = "table"
)

var (
	cacheMu sync.RWMutex
	cache   *lru.Cache
)

func init() {
	SetCacheSize(DefaultCacheSize)
}

// SetCacheSize resizes the report cache. A size of zero or less disables it.
func SetCacheSize(size int) {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if size <= 0 {
		cache = nil
		return
	}
	c, err := lru.New(size)
	if err != nil {
		cache = nil
		return
	}
	cache = c
}

func keyFor(path string, info os.FileInfo, form string) reportKey {
	return reportKey{path: path, size: info.Size(), modTime: info.ModTime().UnixNano(), form: form}
}

func cached(key reportKey) (interface{}, bool) {
	cacheMu.RLock()
	defer cacheMu.RUnlock()

	if cache == nil {
		return nil, false
	}
	return cache.Get(key)
}

func store(key reportKey, value interface{}) {
	cacheMu.RLock()
	defer cacheMu.RUnlock()

	if cache != nil {
		cache.Add(key, value)
	}
}
