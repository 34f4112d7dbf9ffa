package guard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
)

// DefaultAuthStatePath is where the auth service answers state queries.
const DefaultAuthStatePath = "/auth/auth-state"

// Client queries an authgate server for the session state. It carries a
// cookie jar so the session cookie set at login rides along on every
// state query, the same way a browser would send it.
type Client struct {
	base      *url.URL
	statePath string
	http      *http.Client
	logger    Logger
}

type ClientOption func(*Client)

// WithHTTPClient swaps the underlying transport, e.g. to share a jar with
// the rest of the application.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithStatePath overrides the auth-state endpoint path.
func WithStatePath(path string) ClientOption {
	return func(c *Client) {
		if path != "" {
			c.statePath = path
		}
	}
}

func WithClientLogger(logger Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient builds a state checker against the given base URL. The default
// transport gets its own cookie jar and a short timeout so a dead server
// degrades a navigation instead of hanging it.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "invalid base URL").
			WithTextCode("INVALID_BASE_URL")
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "unable to create cookie jar")
	}

	c := &Client{
		base:      base,
		statePath: DefaultAuthStatePath,
		http: &http.Client{
			Jar:     jar,
			Timeout: 10 * time.Second,
		},
		logger: nopLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c, nil
}

// HTTPClient exposes the underlying client so callers can drive login and
// logout through the same cookie jar.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// CheckAuthState asks the server whether the current session cookie
// verifies. A 200 parses the authenticated payload, a 401 is a definitive
// anonymous answer, anything else is a transport level error the guard
// will degrade to anonymous.
func (c *Client) CheckAuthState(ctx context.Context) (AuthState, error) {
	endpoint := c.base.JoinPath(c.statePath).String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return AuthState{}, errors.Wrap(err, errors.CategoryInternal, "unable to build auth state request")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return AuthState{}, errors.Wrap(err, errors.CategoryOperation, "auth state request failed").
			WithTextCode("AUTH_STATE_UNREACHABLE")
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<16))
	if err != nil {
		return AuthState{}, errors.Wrap(err, errors.CategoryOperation, "unable to read auth state response")
	}

	switch res.StatusCode {
	case http.StatusOK:
		state := AuthState{}
		if err := json.Unmarshal(body, &state); err != nil {
			return AuthState{}, errors.Wrap(err, errors.CategoryOperation, "malformed auth state response").
				WithTextCode("AUTH_STATE_MALFORMED")
		}
		return state, nil
	case http.StatusUnauthorized:
		return AuthState{Authenticated: false}, nil
	default:
		return AuthState{}, errors.New(
			fmt.Sprintf("unexpected auth state status %d: %s", res.StatusCode, strings.TrimSpace(string(body))),
			errors.CategoryOperation,
		).WithTextCode("AUTH_STATE_UNEXPECTED").WithCode(res.StatusCode)
	}
}

var _ StateChecker = (*Client)(nil)
