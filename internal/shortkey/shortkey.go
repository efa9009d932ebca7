// Package shortkey turns database ids into short opaque keys for public URLs.
package shortkey

import (
	"errors"
	"fmt"

	"github.com/speps/go-hashids/v2"
)

var ErrInvalidKey = errors.New("invalid key")

type Codec struct {
	h *hashids.HashID
}

// New builds a codec. Keys are at least minLength characters and only
// decode under the same salt.
func New(salt string, minLength int) (*Codec, error) {
	data := hashids.NewData()
	data.Salt = salt
	data.MinLength = minLength
	h, err := hashids.NewWithData(data)
	if err != nil {
		return nil, fmt.Errorf("shortkey: %w", err)
	}
	return &Codec{h: h}, nil
}

func (c *Codec) Encode(id int64) (string, error) {
	return c.h.EncodeInt64([]int64{id})
}

// Decode accepts only keys that encode exactly one id.
func (c *Codec) Decode(key string) (int64, error) {
	if key == "" {
		return 0, ErrInvalidKey
	}
	ids, err := c.h.DecodeInt64WithError(key)
	if err != nil || len(ids) != 1 || ids[0] <= 0 {
		return 0, ErrInvalidKey
	}
	return ids[0], nil
}
