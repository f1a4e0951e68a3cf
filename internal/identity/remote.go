package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RemoteVerifier introspects bearer tokens against an external identity
// provider endpoint using client credentials. Every anomaly in the
// exchange resolves to a verification failure.
type RemoteVerifier struct {
	introspectionURL string
	clientID         string
	clientSecret     string
	httpClient       *http.Client
	logger           *zap.Logger
}

type introspectionResponse struct {
	Active bool   `json:"active"`
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	Exp    int64  `json:"exp,omitempty"`
}

// NewRemoteVerifier creates a verifier for the given introspection
// endpoint. The HTTP client carries its own ceiling timeout; callers
// bound individual verifications through the request context.
func NewRemoteVerifier(introspectionURL, clientID, clientSecret string, logger *zap.Logger) *RemoteVerifier {
	return &RemoteVerifier{
		introspectionURL: introspectionURL,
		clientID:         clientID,
		clientSecret:     clientSecret,
		httpClient:       &http.Client{Timeout: 10 * time.Second},
		logger:           logger,
	}
}

// Verify posts the token to the introspection endpoint and maps the
// result to an identity.
func (v *RemoteVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	data := url.Values{}
	data.Set("token", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.introspectionURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(v.clientID, v.clientSecret)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		v.logger.Warn("introspection request failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		v.logger.Warn("failed to read introspection response", zap.Error(err))
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		v.logger.Warn("introspection returned non-OK status",
			zap.Int("status_code", resp.StatusCode))
		return nil, fmt.Errorf("%w: introspection status %d", ErrTokenRejected, resp.StatusCode)
	}

	var result introspectionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		v.logger.Warn("failed to parse introspection response", zap.Error(err))
		return nil, err
	}

	if !result.Active {
		return nil, fmt.Errorf("%w: token inactive", ErrTokenRejected)
	}

	userID, err := uuid.Parse(result.UserID)
	if err != nil {
		v.logger.Warn("introspection returned unusable user id",
			zap.String("user_id", result.UserID))
		return nil, fmt.Errorf("%w: unusable user id", ErrTokenRejected)
	}

	return &Identity{UserID: userID, Email: result.Email}, nil
}
