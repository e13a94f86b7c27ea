// Package validators checks user-supplied input before it reaches any
// business logic
package validators

import (
	"errors"
	"io"
	"mime/multipart"
	"path"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/viper"
)

var (
	ErrNoFile          = errors.New("no video file uploaded")
	ErrFileTooLarge    = errors.New("file too large")
	ErrNotVideo        = errors.New("videos only")
	ErrNotImage        = errors.New("images only allowed for thumbnail")
	ErrFileNameTooLong = errors.New("file name is too long")
)

const maxFileNameSize = 200

var (
	videoExts = []string{".mp4", ".mov", ".avi", ".wmv", ".flv", ".mkv"}
	imageExts = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
)

// VideoFile validates the uploaded media file and returns it rewound to
// the start, ready for storage
func VideoFile(fh *multipart.FileHeader) (multipart.File, error) {
	return checkFile(fh, "video/", videoExts, ErrNotVideo)
}

// ThumbnailFile validates an optional thumbnail image the same way
func ThumbnailFile(fh *multipart.FileHeader) (multipart.File, error) {
	return checkFile(fh, "image/", imageExts, ErrNotImage)
}

func checkFile(fh *multipart.FileHeader, wantPrefix string, exts []string, typeErr error) (multipart.File, error) {
	if fh == nil {
		return nil, ErrNoFile
	}

	if len(fh.Filename) > maxFileNameSize {
		return nil, ErrFileNameTooLong
	}

	if fh.Size > viper.GetInt64("upload.max_size") {
		return nil, ErrFileTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}

	// Sniff the actual content, headers and extensions are trivial to spoof
	mime, err := mimetype.DetectReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	ext := strings.ToLower(path.Ext(fh.Filename))
	if !strings.HasPrefix(mime.String(), wantPrefix) && !slices.Contains(exts, ext) {
		f.Close()
		return nil, typeErr
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}
