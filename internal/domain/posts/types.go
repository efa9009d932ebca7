package posts

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

var (
	ErrNotFound          = errors.New("post not found")
	ErrDuplicateSlug     = errors.New("a post with that slug already exists")
	QueryTimeoutDuration = time.Second * 5
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

type Post struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Summary       string     `json:"summary"`
	Body          string     `json:"body"`
	CoverImageURL *string    `json:"cover_image_url"`
	Tags          []string   `json:"tags"`
	Status        Status     `json:"status"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	AuthorID      *int64     `json:"author_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type CreatePostRequest struct {
	Title         string   `json:"title" validate:"required,max=200"`
	Slug          string   `json:"slug" validate:"omitempty,max=220"`
	Summary       string   `json:"summary" validate:"max=500"`
	Body          string   `json:"body"`
	CoverImageURL *string  `json:"cover_image_url" validate:"omitempty,url"`
	Tags          []string `json:"tags" validate:"max=10,dive,max=40"`
}

type UpdatePostRequest struct {
	Title         *string   `json:"title" validate:"omitempty,max=200"`
	Slug          *string   `json:"slug" validate:"omitempty,max=220"`
	Summary       *string   `json:"summary" validate:"omitempty,max=500"`
	Body          *string   `json:"body"`
	CoverImageURL *string   `json:"cover_image_url" validate:"omitempty,url"`
	Tags          *[]string `json:"tags" validate:"omitempty,max=10,dive,max=40"`
}

type ListFilter struct {
	Status *Status
	Tag    string
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases s and collapses everything that is not a letter or
// digit into single hyphens.
func Slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// NormalizeTags trims, lower-cases and dedupes tags, dropping empty ones.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
