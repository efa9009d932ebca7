package uploads

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("upload not found")
	QueryTimeoutDuration = time.Second * 5
)

type Upload struct {
	ID          int64     `json:"id"`
	PublicID    string    `json:"public_id"`
	URL         string    `json:"url"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Bytes       int64     `json:"bytes"`
	UploadedBy  *int64    `json:"uploaded_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
