package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/monyze/internal/client/models"
	"github.com/dmitrijs2005/monyze/internal/common"
	"github.com/dmitrijs2005/monyze/internal/netx"
)

type HTTPClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type registerBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInReply struct {
	Token   string      `json:"token"`
	Expires time.Time   `json:"expires"`
	User    models.User `json:"user"`
}

type sessionReply struct {
	Status  string       `json:"status"`
	User    *models.User `json:"user"`
	Expires *time.Time   `json:"expires"`
}

func (c *HTTPClient) url(path string) string {
	return c.baseURL + path
}

func (c *HTTPClient) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	var u models.User
	err := netx.DoJSON(ctx, c.http, http.MethodPost, c.url("/api/register"), "",
		registerBody{Name: name, Email: email, Password: password}, &u)
	if err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

func (c *HTTPClient) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	var r signInReply
	err := netx.DoJSON(ctx, c.http, http.MethodPost, c.url("/api/auth/signin"), "",
		credentialsBody{Email: email, Password: password}, &r)
	if err != nil {
		return nil, mapError(err)
	}
	if r.Token == "" {
		return nil, fmt.Errorf("%w: server returned no token", common.ErrorInternal)
	}
	return &models.Session{Token: r.Token, ExpiresAt: r.Expires, User: r.User}, nil
}

func (c *HTTPClient) Session(ctx context.Context, token string) (*models.Session, error) {
	var r sessionReply
	if err := netx.DoJSON(ctx, c.http, http.MethodGet, c.url("/api/auth/session"), token, nil, &r); err != nil {
		return nil, mapError(err)
	}
	if r.Status != "authenticated" || r.User == nil || r.Expires == nil {
		return nil, common.ErrorUnauthorized
	}
	return &models.Session{Token: token, ExpiresAt: *r.Expires, User: *r.User}, nil
}

func (c *HTTPClient) SignOut(ctx context.Context, token string) error {
	if err := netx.DoJSON(ctx, c.http, http.MethodPost, c.url("/api/auth/signout"), token, nil, nil); err != nil {
		return mapError(err)
	}
	return nil
}

// mapError turns an HTTP status into the shared error categories and keeps
// the server's message.
func mapError(err error) error {
	var apiErr *netx.APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	var kind error
	switch apiErr.Status {
	case http.StatusBadRequest:
		kind = common.ErrorValidation
	case http.StatusUnauthorized:
		kind = common.ErrorUnauthorized
	case http.StatusConflict:
		kind = common.ErrorConflict
	default:
		kind = common.ErrorInternal
	}

	msg := apiErr.Message
	if msg == "" {
		msg = http.StatusText(apiErr.Status)
	}
	return fmt.Errorf("%w: %s", kind, msg)
}
