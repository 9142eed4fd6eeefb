package helpers

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const (
	PackageCoverFolder = "vena/packages"
	LogoFolder         = "vena/logos"
)

// ImageUploader stores an image (URL, path or data URI) and returns its public URL.
type ImageUploader interface {
	UploadImage(ctx context.Context, source, folder string) (string, error)
}

type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(cld *cloudinary.Cloudinary) *CloudinaryUploader {
	return &CloudinaryUploader{cld: cld}
}

func (u *CloudinaryUploader) UploadImage(ctx context.Context, source, folder string) (string, error) {
	if u == nil || u.cld == nil {
		return "", fmt.Errorf("cloudinary client is not initialized")
	}
	if strings.TrimSpace(source) == "" {
		return "", fmt.Errorf("empty image source")
	}
	res, err := u.cld.Upload.Upload(ctx, source, uploader.UploadParams{
		Folder: folder,
		Tags:   []string{"vena-app"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %v", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("failed to upload image: %s", res.Error.Message)
	}
	return res.SecureURL, nil
}

// IsRemoteURL reports whether value is already hosted and needs no upload.
func IsRemoteURL(value string) bool {
	return strings.HasPrefix(value, "https://") || strings.HasPrefix(value, "http://")
}
