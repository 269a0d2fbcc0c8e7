// Package nbtfile loads and saves NBT documents from streams and files,
// transparently handling gzip, zlib, zstd and LZ4 wrappers.
//
// Compression is detected from the leading bytes on load; on save it is
// applied only when requested through Options.
package nbtfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ssargent/nbt/pkg/nbt"
)

// Options controls loading and saving.
type Options struct {
	Compression Compression // applied by Save; ignored by Load
	Level       int         // compression level, zero for the default
	MaxDepth    int         // nesting limit for both directions, zero for nbt.DefaultMaxDepth
}

// Load decodes one document from r, detecting its compression. The detected
// compression is returned so the document can be saved back the same way.
func Load(r io.Reader, opts Options) (*nbt.Tree, Compression, error) {
	br := bufio.NewReader(r)
	// A short or failed peek is left for the decoder to report.
	prefix, _ := br.Peek(4)
	c := Detect(prefix)

	src, closeSrc, err := newReader(br, c)
	if err != nil {
		return nil, c, err
	}

	d := nbt.NewDecoder(src)
	d.MaxDepth = opts.MaxDepth
	tree, err := d.Decode()
	if closeErr := closeSrc(); err == nil && closeErr != nil {
		err = fmt.Errorf("close %s reader: %w", c, closeErr)
	}
	if err != nil {
		return nil, c, err
	}
	return tree, c, nil
}

// Save encodes tree to w using opts.Compression.
func Save(w io.Writer, tree *nbt.Tree, opts Options) error {
	dst, err := newWriter(w, opts.Compression, opts.Level)
	if err != nil {
		return err
	}
	enc := nbt.NewEncoder(dst)
	enc.MaxDepth = opts.MaxDepth
	if err := enc.Encode(tree); err != nil {
		_ = dst.Close()
		return err
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("close %s writer: %w", opts.Compression, err)
	}
	return nil
}

// LoadFile opens path, loads one document and closes the file on every
// return path.
func LoadFile(path string, opts Options) (*nbt.Tree, Compression, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, CompressionNone, err
	}
	defer f.Close()

	tree, c, err := Load(f, opts)
	if err != nil {
		return nil, c, fmt.Errorf("load %s: %w", path, err)
	}
	return tree, c, nil
}

// SaveFile writes tree to path. Output goes to a temporary file in the same
// directory which is renamed over path only after a complete, synced write,
// so a failed save leaves any existing file untouched.
func SaveFile(path string, tree *nbt.Tree, opts Options) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	mode := os.FileMode(0644)
	if st, statErr := os.Stat(path); statErr == nil {
		mode = st.Mode().Perm()
	} else if !errors.Is(statErr, os.ErrNotExist) {
		return statErr
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := Save(tmp, tree, opts); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := tmp.Chmod(mode); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
