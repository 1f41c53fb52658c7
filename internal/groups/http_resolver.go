package groups

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/singleflight"

	apperrors "github.com/allisson/gatekeeper/internal/errors"
)

// HTTPResolver resolves group memberships against a remote directory service.
//
// Endpoint contract: GET {baseURL}/users/{user}/groups returning
// {"groups": ["g1", "g2", ...]}. A 404 means the directory doesn't know the
// user, which resolves to an empty set (fail closed downstream). Any other
// non-200 status or transport failure is an error and propagates to the
// caller unchanged.
//
// Concurrent lookups for the same user are collapsed with singleflight. This
// is in-flight deduplication only, not a cache: every settled request observes
// a response no older than its own start.
type HTTPResolver struct {
	baseURL string
	client  *http.Client
	group   singleflight.Group
}

// NewHTTPResolver creates a resolver against the directory service at baseURL.
func NewHTTPResolver(baseURL string, timeout time.Duration) *HTTPResolver {
	return &HTTPResolver{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// groupsResponse is the directory service's response body.
type groupsResponse struct {
	Groups []string `json:"groups"`
}

// Resolve fetches the user's current group memberships.
func (h *HTTPResolver) Resolve(ctx context.Context, user string) ([]string, error) {
	result, err, _ := h.group.Do(user, func() (any, error) {
		return h.fetch(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return result.([]string), nil
}

// fetch performs the actual directory request.
func (h *HTTPResolver) fetch(ctx context.Context, user string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/users/%s/groups", h.baseURL, url.PathEscape(user))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to build group directory request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, "group directory request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		var body groupsResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, apperrors.Wrap(err, "failed to decode group directory response")
		}
		if body.Groups == nil {
			return []string{}, nil
		}
		return body.Groups, nil
	case http.StatusNotFound:
		// Unknown user: no memberships.
		return []string{}, nil
	default:
		return nil, fmt.Errorf("group directory returned status %d", resp.StatusCode)
	}
}
