// Package storage stores uploaded files on local disk under opaque
// uuid-based names, keeping a sha256 hash for audit.
package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

type Disk struct {
	dir string
}

// NewDisk creates the storage directory if needed.
func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage dir: %w", err)
	}
	return &Disk{dir: dir}, nil
}

// Store writes the upload under a fresh uuid name, preserving the original
// extension, and returns the reference plus the content hash.
func (d *Disk) Store(filename string, r io.Reader) (string, string, error) {
	ref := uuid.NewString() + filepath.Ext(filename)
	dst, err := os.Create(filepath.Join(d.dir, ref))
	if err != nil {
		return "", "", fmt.Errorf("creating file: %w", err)
	}
	defer dst.Close()

	hasher := sha256.New()
	if _, err := io.Copy(io.MultiWriter(dst, hasher), r); err != nil {
		os.Remove(dst.Name())
		return "", "", fmt.Errorf("writing file: %w", err)
	}
	return ref, hex.EncodeToString(hasher.Sum(nil)), nil
}

func (d *Disk) Load(ref string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(d.dir, filepath.Base(ref)))
	if err != nil {
		return nil, fmt.Errorf("opening stored file: %w", err)
	}
	return f, nil
}

func (d *Disk) Delete(ref string) error {
	err := os.Remove(filepath.Join(d.dir, filepath.Base(ref)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
