package store

import (
	"testing"

	"github.com/teenjuna/vec/internal/testing/require"
)

func TestURI(t *testing.T) {
	var nilFile *FileConfig
	require.Equal(t, nilFile.uri(), ":memory:")
	require.Equal(t, File("myfile").uri(), "myfile")
	require.Equal(t, File(" myfile ").uri(), "myfile")
	require.Equal(t, File("myfile").Durable(true).uri(), "myfile?_sync=full")
	require.Equal(t, File("myfile").Durable(true).Durable(false).uri(), "myfile")

	require.PanicWithError(t, "file can't be blank", func() {
		_ = File(" ")
	})
	require.PanicWithError(t, "file can't contain ?", func() {
		_ = File("myfile?foo=bar")
	})
}
