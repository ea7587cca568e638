package services

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/xid"
)

// ErrNotImage is returned when the uploaded file is not an image.
var ErrNotImage = errors.New("file must be an image")

const maxUploadSize = 10 * 1024 * 1024 // 10MB

// UploadService stores uploaded images on local disk under a generated
// filename. Handlers only ever record the returned name.
type UploadService struct {
	dir string
}

func NewUploadService(dir string) (*UploadService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("upload: creating %s: %w", dir, err)
	}
	return &UploadService{dir: dir}, nil
}

// Save validates the file is an image (by content, not extension) and
// writes it under a fresh xid-based name, which it returns.
func (s *UploadService) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > maxUploadSize {
		return "", fmt.Errorf("upload: file exceeds %d bytes", maxUploadSize)
	}

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return "", fmt.Errorf("upload: detecting type: %w", err)
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", ErrNotImage
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("upload: rewinding file: %w", err)
	}

	name := xid.New().String() + mtype.Extension()
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("upload: creating file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("upload: writing file: %w", err)
	}
	return name, nil
}

// Remove deletes a previously stored file. Called only after the row
// pointing at the replacement has committed, so a failure here leaves an
// orphaned file at worst, never a dangling reference.
func (s *UploadService) Remove(name string) {
	if name == "" {
		return
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		log.Printf("upload: removing old file %s: %v", name, err)
	}
}
