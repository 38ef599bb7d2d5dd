package store

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression is the algorithm snapshot data is compressed with.
type Compression int

const (
	// CompressionNone stores encoded data as is.
	CompressionNone Compression = iota
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4
	// CompressionZstd uses Zstandard compression (better ratio).
	CompressionZstd
	// CompressionSnappy uses Snappy block compression.
	CompressionSnappy
)

var (
	errShortBlock   = errors.New("block too small for header")
	errSizeMismatch = errors.New("decompressed size mismatch")
)

// lz4HeaderSize is the size of the uncompressed length prefix of LZ4 blocks.
const lz4HeaderSize = 4

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	case CompressionSnappy:
		return "snappy"
	default:
		return fmt.Sprintf("unknown(%d)", int(c))
	}
}

func (c Compression) valid() bool {
	return c >= CompressionNone && c <= CompressionSnappy
}

// compress returns the compressed data and the compression that was actually applied. Data that
// doesn't shrink is stored uncompressed.
func (c Compression) compress(data []byte) ([]byte, Compression, error) {
	if c == CompressionNone || len(data) == 0 {
		return data, CompressionNone, nil
	}

	var (
		compressed []byte
		err        error
	)
	switch c {
	case CompressionLZ4:
		compressed, err = compressLZ4(data)
	case CompressionZstd:
		compressed = compressZstd(data)
	case CompressionSnappy:
		compressed = snappy.Encode(nil, data)
	default:
		return nil, c, fmt.Errorf("unknown compression %s", c)
	}
	if err != nil {
		return nil, c, err
	}

	if compressed == nil || len(compressed) >= len(data) {
		return data, CompressionNone, nil
	}

	return compressed, c, nil
}

func (c Compression) decompress(data []byte) ([]byte, error) {
	switch c {
	case CompressionNone:
		return data, nil
	case CompressionLZ4:
		return decompressLZ4(data)
	case CompressionZstd:
		return decompressZstd(data)
	case CompressionSnappy:
		return snappy.Decode(nil, data)
	default:
		return nil, fmt.Errorf("unknown compression %s", c)
	}
}

func compressLZ4(data []byte) ([]byte, error) {
	compressed := make([]byte, lz4HeaderSize+lz4.CompressBlockBound(len(data)))
	binary.LittleEndian.PutUint32(compressed, uint32(len(data)))

	n, err := lz4.CompressBlock(data, compressed[lz4HeaderSize:], nil)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// Incompressible.
		return nil, nil
	}

	return compressed[:lz4HeaderSize+n], nil
}

func decompressLZ4(data []byte) ([]byte, error) {
	if len(data) < lz4HeaderSize {
		return nil, errShortBlock
	}

	size := binary.LittleEndian.Uint32(data)
	result := make([]byte, size)

	n, err := lz4.UncompressBlock(data[lz4HeaderSize:], result)
	if err != nil {
		return nil, err
	}
	if uint32(n) != size {
		return nil, errSizeMismatch
	}

	return result, nil
}

func compressZstd(data []byte) []byte {
	enc := getZstdEncoder()
	defer zstdEncoderPool.Put(enc)

	return enc.EncodeAll(data, nil)
}

func decompressZstd(data []byte) ([]byte, error) {
	dec := getZstdDecoder()
	defer zstdDecoderPool.Put(dec)

	return dec.DecodeAll(data, nil)
}

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	return dec
}
