package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"recipe-catalog/domain"
	"recipe-catalog/internal/utils"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	DriverS3    = "s3"
	DriverLocal = "local"
)

var AllowImage = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
}

// ImageSink durably stores uploaded images and hands back a reference a
// client can fetch.
type ImageSink interface {
	Store(ctx context.Context, filename string, data []byte) (string, error)
	Remove(ctx context.Context, url string) error
}

// NewImageSink builds the sink selected by STORAGE_DRIVER.
func NewImageSink(ctx context.Context) (ImageSink, error) {
	switch strings.ToLower(utils.GetConfig("STORAGE_DRIVER")) {
	case DriverS3:
		return NewAwsS3(ctx, S3Config{
			Bucket:    utils.GetConfig("AWS_S3_BUCKET"),
			Region:    utils.GetConfig("AWS_S3_REGION"),
			AccessKey: utils.GetConfig("AWS_ACCESS_KEY"),
			SecretKey: utils.GetConfig("AWS_SECRET_KEY"),
			Endpoint:  utils.GetConfig("S3_ENDPOINT"),
			PublicURL: utils.GetConfig("S3_PUBLIC_URL"),
			Folder:    utils.GetConfig("S3_FOLDER"),
		})
	case DriverLocal, "":
		return NewLocalStorage(utils.GetConfig("UPLOAD_DIR"), utils.GetConfig("UPLOAD_URL_PREFIX"))
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", utils.GetConfig("STORAGE_DRIVER"))
	}
}

// detectImage sniffs the payload and returns its MIME type and canonical
// extension, rejecting anything outside allowed.
func detectImage(data []byte, allowed ...string) (string, string, error) {
	if len(data) == 0 {
		return "", "", fmt.Errorf("%w: empty file", domain.ErrInvalidImageFormat)
	}
	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), allowed...) {
		return "", "", fmt.Errorf("%w: %s", domain.ErrInvalidImageFormat, mtype.String())
	}
	return mtype.String(), mtype.Extension(), nil
}

func sanitizeFilename(filename, ext string) string {
	base := filepath.Base(filepath.Clean("/" + filename))
	if base == "/" || base == "." {
		base = "image"
	}
	if filepath.Ext(base) == "" {
		base += ext
	}
	return base
}
