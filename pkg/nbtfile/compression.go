package nbtfile

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the stream wrapper around an NBT document.
type Compression uint8

const (
	// CompressionNone is a bare NBT stream.
	CompressionNone Compression = iota

	// CompressionGzip is the wrapper used by level.dat and player files.
	CompressionGzip

	// CompressionZlib is the wrapper used for region chunk payloads.
	CompressionZlib

	// CompressionZstd is zstd framing.
	CompressionZstd

	// CompressionLZ4 is LZ4 frame format.
	CompressionLZ4
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// String returns the human-readable name of a compression.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionGzip:
		return "gzip"
	case CompressionZlib:
		return "zlib"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", c)
	}
}

// ParseCompression parses a compression from its string representation.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "none", "":
		return CompressionNone, nil
	case "gzip":
		return CompressionGzip, nil
	case "zlib":
		return CompressionZlib, nil
	case "zstd":
		return CompressionZstd, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("unknown compression: %q", name)
	}
}

// Detect identifies the compression of a stream from its leading bytes.
// Four bytes are enough for every supported signature.
func Detect(prefix []byte) Compression {
	switch {
	case bytes.HasPrefix(prefix, gzipMagic):
		return CompressionGzip
	case bytes.HasPrefix(prefix, zstdMagic):
		return CompressionZstd
	case bytes.HasPrefix(prefix, lz4Magic):
		return CompressionLZ4
	case len(prefix) >= 2 && prefix[0] == 0x78 && (uint16(prefix[0])<<8|uint16(prefix[1]))%31 == 0:
		// zlib CMF byte for deflate with a 32K window, plus header checksum
		return CompressionZlib
	}
	return CompressionNone
}

// newReader wraps r in a decompressor for c. The returned closer releases
// decompressor state and never closes r.
func newReader(r io.Reader, c Compression) (io.Reader, func() error, error) {
	nop := func() error { return nil }
	switch c {
	case CompressionNone:
		return r, nop, nil

	case CompressionGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("gzip reader: %w", err)
		}
		return zr, zr.Close, nil

	case CompressionZlib:
		zr, err := zlib.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("zlib reader: %w", err)
		}
		return zr, zr.Close, nil

	case CompressionZstd:
		zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, nil, fmt.Errorf("zstd reader: %w", err)
		}
		return zr, func() error { zr.Close(); return nil }, nil

	case CompressionLZ4:
		return lz4.NewReader(r), nop, nil
	}
	return nil, nil, fmt.Errorf("unsupported compression: %s", c)
}

// newWriter wraps w in a compressor for c at the given level. Level zero
// selects each algorithm's default. Closing the returned writer flushes the
// compressed stream but does not close w.
func newWriter(w io.Writer, c Compression, level int) (io.WriteCloser, error) {
	switch c {
	case CompressionNone:
		return nopWriteCloser{w}, nil

	case CompressionGzip:
		if level == 0 {
			level = gzip.DefaultCompression
		}
		zw, err := gzip.NewWriterLevel(w, level)
		if err != nil {
			return nil, fmt.Errorf("gzip writer: %w", err)
		}
		return zw, nil

	case CompressionZlib:
		if level == 0 {
			level = zlib.DefaultCompression
		}
		zw, err := zlib.NewWriterLevel(w, level)
		if err != nil {
			return nil, fmt.Errorf("zlib writer: %w", err)
		}
		return zw, nil

	case CompressionZstd:
		opts := []zstd.EOption{zstd.WithEncoderConcurrency(1)}
		if level != 0 {
			opts = append(opts, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
		}
		zw, err := zstd.NewWriter(w, opts...)
		if err != nil {
			return nil, fmt.Errorf("zstd writer: %w", err)
		}
		return zw, nil

	case CompressionLZ4:
		zw := lz4.NewWriter(w)
		if level != 0 {
			lvl, err := lz4Level(level)
			if err != nil {
				return nil, err
			}
			if err := zw.Apply(lz4.CompressionLevelOption(lvl)); err != nil {
				return nil, fmt.Errorf("lz4 writer: %w", err)
			}
		}
		return zw, nil
	}
	return nil, fmt.Errorf("unsupported compression: %s", c)
}

func lz4Level(level int) (lz4.CompressionLevel, error) {
	levels := []lz4.CompressionLevel{
		lz4.Fast, lz4.Level1, lz4.Level2, lz4.Level3, lz4.Level4,
		lz4.Level5, lz4.Level6, lz4.Level7, lz4.Level8, lz4.Level9,
	}
	if level < 0 || level >= len(levels) {
		return 0, fmt.Errorf("lz4 level %d out of range [0, 9]", level)
	}
	return levels[level], nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
