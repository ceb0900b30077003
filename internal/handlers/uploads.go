package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	// DutySlipField is the multipart field carrying duty slip files.
	DutySlipField  = "dutySlips"
	maxUploadBytes = 32 << 20
	uploadsPrefix  = "/uploads/"
)

// FileStore saves uploaded files under a directory served at /uploads/.
type FileStore struct {
	Dir string
}

// Save writes every file to the store under a fresh name and returns the public
// paths. Files already written are removed if a later one fails.
func (s FileStore) Save(files []*multipart.FileHeader) ([]string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	paths := make([]string, 0, len(files))
	var written []string
	for _, fh := range files {
		name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
		dst := filepath.Join(s.Dir, name)
		if err := copyUpload(fh, dst); err != nil {
			for _, f := range written {
				os.Remove(f)
			}
			return nil, err
		}
		written = append(written, dst)
		paths = append(paths, uploadsPrefix+name)
	}
	return paths, nil
}

// Remove deletes files previously returned by Save.
func (s FileStore) Remove(paths []string) {
	for _, p := range paths {
		name := filepath.Base(strings.TrimPrefix(p, uploadsPrefix))
		if err := os.Remove(filepath.Join(s.Dir, name)); err != nil && !os.IsNotExist(err) {
			log.WithError(err).WithField("path", p).Warn("Failed to remove upload")
		}
	}
}

func copyUpload(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload %q: %w", fh.Filename, err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return out.Close()
}
