// Package media stores uploaded files on Cloudinary.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const MaxUploadBytes = 10 << 20

var (
	ErrUnsupportedType = errors.New("only images and PDF files can be uploaded")
	ErrNotCloudinary   = errors.New("not a cloudinary delivery URL")
)

var allowedTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
}

// SniffContentType inspects the first bytes of a file and rejects anything
// that is not an allowed image or PDF.
func SniffContentType(head []byte) (string, error) {
	ct := http.DetectContentType(head)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	if !allowedTypes[ct] {
		return "", ErrUnsupportedType
	}
	return ct, nil
}

type Asset struct {
	PublicID string
	URL      string
}

type Store interface {
	Upload(ctx context.Context, r io.Reader, folder, publicID string) (*Asset, error)
	Destroy(ctx context.Context, publicID string) error
}

type Cloudinary struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinary(cloudinaryURL string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, err
	}
	return &Cloudinary{cld: cld}, nil
}

func (c *Cloudinary) Upload(ctx context.Context, r io.Reader, folder, publicID string) (*Asset, error) {
	resp, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:    folder,
		PublicID:  publicID,
		Overwrite: api.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload: %s", resp.Error.Message)
	}
	return &Asset{PublicID: resp.PublicID, URL: resp.SecureURL}, nil
}

func (c *Cloudinary) Destroy(ctx context.Context, publicID string) error {
	resp, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	if resp.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy: %s", resp.Error.Message)
	}
	return nil
}

// ExtractPublicID recovers the public id from a delivery URL such as
// https://res.cloudinary.com/demo/image/upload/v1740815725/uploads/abc.png.
// The version segment and the file extension are dropped.
func ExtractPublicID(deliveryURL string) (string, error) {
	u, err := url.Parse(deliveryURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, part := range parts {
		if part != "upload" {
			continue
		}
		rest := parts[i+1:]
		if len(rest) > 0 && isVersion(rest[0]) {
			rest = rest[1:]
		}
		if len(rest) == 0 {
			break
		}
		id := strings.Join(rest, "/")
		return strings.TrimSuffix(id, path.Ext(id)), nil
	}
	return "", ErrNotCloudinary
}

func isVersion(seg string) bool {
	if len(seg) < 2 || seg[0] != 'v' {
		return false
	}
	for _, r := range seg[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
