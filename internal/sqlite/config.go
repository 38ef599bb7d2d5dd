package sqlite

import (
	"net/url"
	"strings"
)

// Config of the [Storage]. The zero value is invalid; use [New] with configuration functions.
type Config struct {
	path    string
	query   url.Values
	workers int
}

type ConfigFunc = func(c *Config)

// URI sets the database location. It may be a file path, optionally followed by a query with
// go-sqlite3 parameters, or ":memory:" for a private in-memory database.
func (c *Config) URI(uri string) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		panic("URI can't be blank")
	}

	path, rawQuery, _ := strings.Cut(uri, "?")
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		panic("URI has invalid query")
	}

	c.path = path
	c.query = query
}

// Workers sets the maximum number of connections used concurrently.
func (c *Config) Workers(workers int) {
	if workers < 1 {
		panic("workers can't be < 1")
	}
	c.workers = workers
}
