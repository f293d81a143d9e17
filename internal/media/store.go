// Package media stores uploaded product images and re-encodes them into a
// single normalized format.
package media

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	// Registers the webp decoder for image.Decode.
	_ "golang.org/x/image/webp"
)

const (
	chunkSize      = 1 << 20
	normalizedExt  = ".jpg"
	defaultQuality = 80
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

var (
	ErrNotImage          = errors.New("uploaded file is not an image")
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// FormatError reports an upload extension outside the allow-list.
type FormatError struct {
	Ext string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%v: %q", ErrUnsupportedFormat, e.Ext)
}

func (e *FormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// AllowedExtensions lists accepted upload extensions in a stable order.
func AllowedExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".webp", ".gif"}
}

// Store keeps uploads in one directory and hands out paths relative to the
// public URL prefix, e.g. "media/3f2a....jpg".
type Store struct {
	root    string
	prefix  string
	quality int
}

func NewStore(root, urlPrefix string, quality int) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	if quality < 1 || quality > 100 {
		quality = defaultQuality
	}

	return &Store{
		root:    root,
		prefix:  strings.Trim(urlPrefix, "/"),
		quality: quality,
	}, nil
}

func (s *Store) Root() string {
	return s.root
}

// Validate checks the declared content type and the file extension.
func Validate(file *multipart.FileHeader) error {
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		return ErrNotImage
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))

	if !allowedExtensions[ext] {
		return &FormatError{Ext: ext}
	}

	return nil
}

// Save writes the upload under a generated name, re-encodes it and returns
// the stored path relative to the public prefix.
func (s *Store) Save(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if err := Validate(file); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	name := strings.ReplaceAll(uuid.NewString(), "-", "")
	original := filepath.Join(s.root, name+ext)

	if err := s.write(ctx, file, original); err != nil {
		os.Remove(original)
		return "", err
	}

	normalized, err := s.normalize(original)

	if err != nil {
		os.Remove(original)
		return "", err
	}

	if normalized != original {
		if err := os.Remove(original); err != nil {
			slog.Warn("failed to remove original upload", "path", original, "error", err)
		}
	}

	return path.Join(s.prefix, filepath.Base(normalized)), nil
}

// Remove deletes a file previously returned by Save. Unknown paths are
// ignored.
func (s *Store) Remove(stored string) error {
	name := path.Base(stored)

	if name == "." || name == "/" || !strings.HasPrefix(stored, s.prefix+"/") {
		return nil
	}

	err := os.Remove(filepath.Join(s.root, name))

	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return err
}

func (s *Store) write(ctx context.Context, file *multipart.FileHeader, dst string) error {
	src, err := file.Open()

	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}

	defer src.Close()

	out, err := os.Create(dst)

	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	buf := make([]byte, chunkSize)

	for {
		if err := ctx.Err(); err != nil {
			out.Close()
			return err
		}

		n, readErr := src.Read(buf)

		if n > 0 {
			if _, err := out.Write(buf[:n]); err != nil {
				out.Close()
				return fmt.Errorf("failed to write %s: %w", dst, err)
			}
		}

		if errors.Is(readErr, io.EOF) {
			break
		}

		if readErr != nil {
			out.Close()
			return fmt.Errorf("failed to read upload: %w", readErr)
		}
	}

	return out.Close()
}

// normalize re-encodes src as JPEG next to it. Transparent areas are
// flattened onto white.
func (s *Store) normalize(src string) (string, error) {
	img, err := imaging.Open(src, imaging.AutoOrientation(true))

	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotImage, err)
	}

	bounds := img.Bounds()
	background := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	flat := imaging.Overlay(background, img, image.Pt(0, 0), 1.0)

	dst := strings.TrimSuffix(src, filepath.Ext(src)) + normalizedExt

	if err := imaging.Save(flat, dst, imaging.JPEGQuality(s.quality)); err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", dst, err)
	}

	return dst, nil
}
