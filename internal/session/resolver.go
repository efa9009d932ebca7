// Package session resolves the caller's session by asking the authentication
// service's introspection endpoint.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"chapter/internal/access"
)

// SecretHeader carries the shared secret that authorises introspection calls.
const SecretHeader = "X-Internal-Secret"

// ErrSecretRejected is returned when the endpoint refuses SecretHeader.
var ErrSecretRejected = errors.New("session endpoint rejected the internal secret")

// Payload is the session body returned by the introspection endpoint.
type Payload struct {
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	ExpiresAt int64  `json:"expires_at"`
}

type envelope struct {
	Data Payload `json:"data"`
}

// HTTPResolver implements access.SessionResolver over HTTP.
type HTTPResolver struct {
	endpoint string
	secret   string
	client   *http.Client
}

func NewHTTPResolver(endpoint, secret string, client *http.Client) *HTTPResolver {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &HTTPResolver{endpoint: endpoint, secret: secret, client: client}
}

// Resolve forwards the caller's cookies. 401 means "no session"; any other
// non-200 status is returned as an error.
func (h *HTTPResolver) Resolve(ctx context.Context, r *http.Request) (*access.Session, error) {
	cookie := r.Header.Get("Cookie")
	if cookie == "" {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build session request: %w", err)
	}
	req.Header.Set("Cookie", cookie)
	req.Header.Set(SecretHeader, h.secret)
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("session request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, nil
	case http.StatusForbidden:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, ErrSecretRejected
	default:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("session endpoint returned %d", resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return env.Data.Session()
}

// Session converts the wire payload into a verified session value.
func (p Payload) Session() (*access.Session, error) {
	userID, err := strconv.ParseInt(p.UserID, 10, 64)
	if err != nil || userID <= 0 {
		return nil, fmt.Errorf("invalid session user id %q", p.UserID)
	}
	role, err := access.ParseRole(p.Role)
	if err != nil {
		return nil, err
	}
	s := &access.Session{UserID: userID, Role: role}
	if p.ExpiresAt > 0 {
		s.ExpiresAt = time.Unix(p.ExpiresAt, 0)
	}
	return s, nil
}

// NewPayload builds the wire form of a session.
func NewPayload(s *access.Session) Payload {
	p := Payload{
		UserID: strconv.FormatInt(s.UserID, 10),
		Role:   s.Role.String(),
	}
	if !s.ExpiresAt.IsZero() {
		p.ExpiresAt = s.ExpiresAt.Unix()
	}
	return p
}
