package store

import (
	"bytes"
	"math/rand/v2"
	"testing"

	"github.com/teenjuna/vec/internal/testing/require"
)

func TestCompression(t *testing.T) {
	compressible := bytes.Repeat([]byte("vector "), 1000)

	incompressible := make([]byte, 1000)
	for i := range incompressible {
		incompressible[i] = byte(rand.IntN(256))
	}

	for _, c := range []Compression{
		CompressionNone,
		CompressionLZ4,
		CompressionZstd,
		CompressionSnappy,
	} {
		t.Run(c.String(), func(t *testing.T) {
			data, applied, err := c.compress(compressible)
			require.Nil(t, err)
			require.Equal(t, applied, c)
			if c != CompressionNone {
				require.True(t, len(data) < len(compressible))
			}

			decompressed, err := applied.decompress(data)
			require.Nil(t, err)
			require.Equal(t, decompressed, compressible)

			data, applied, err = c.compress(incompressible)
			require.Nil(t, err)
			require.Equal(t, applied, CompressionNone)
			require.Equal(t, data, incompressible)

			data, applied, err = c.compress([]byte{})
			require.Nil(t, err)
			require.Equal(t, applied, CompressionNone)
			require.Equal(t, data, []byte{})
		})
	}
}

func TestCompressionInvalid(t *testing.T) {
	_, err := CompressionLZ4.decompress([]byte{1})
	require.NotNil(t, err)

	_, err = CompressionZstd.decompress([]byte{1, 2, 3})
	require.NotNil(t, err)

	_, err = Compression(100).decompress([]byte{1})
	require.NotNil(t, err)

	require.Equal(t, Compression(100).String(), "unknown(100)")
	require.False(t, Compression(100).valid())
	require.True(t, CompressionSnappy.valid())
}
