package store

import (
	"net/url"
	"strings"
)

// FileConfig is a location of the database file.
//
// An instance can be created only by the [File] function. A nil *FileConfig means a private
// in-memory database.
type FileConfig struct {
	path    string
	durable bool
}

// File returns a [FileConfig] for the provided path.
func File(path string) *FileConfig {
	path = strings.TrimSpace(path)
	if path == "" {
		panic("file can't be blank")
	}
	if strings.Contains(path, "?") {
		panic("file can't contain ?")
	}
	return &FileConfig{path: path}
}

// Durable makes every committed save synchronously reach the disk.
func (c *FileConfig) Durable(durable bool) *FileConfig {
	c.durable = durable
	return c
}

func (c *FileConfig) uri() string {
	if c == nil {
		return ":memory:"
	}

	query := url.Values{}
	if c.durable {
		query.Set("_sync", "full")
	}
	if len(query) == 0 {
		return c.path
	}

	return c.path + "?" + query.Encode()
}
