// Package services contains application services for the Monyze CLI.
// This file defines the authentication service: register, login, logout and
// the session state shown by whoami.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/monyze/internal/client/client"
	"github.com/dmitrijs2005/monyze/internal/client/models"
	"github.com/dmitrijs2005/monyze/internal/client/repositories/session"
	"github.com/dmitrijs2005/monyze/internal/common"
	"github.com/dmitrijs2005/monyze/internal/netx"
)

// SessionState mirrors the web header's three states. Loading is only ever
// shown while a Status call is in flight.
type SessionState string

const (
	StateLoading       SessionState = "loading"
	StateAuthenticated SessionState = "authenticated"
	StateAnonymous     SessionState = "anonymous"
)

// Status is what whoami prints.
//
// Offline is set when the server could not be reached and the answer comes
// from the locally saved session alone.
type Status struct {
	State     SessionState
	User      *models.User
	ExpiresAt time.Time
	Offline   bool
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Register: create an account on the server. It does not sign in.
//   - Login: exchange credentials for a session and save it locally.
//   - Logout: tell the server and forget the saved session.
//   - Status: report whether the saved session is still good.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Logout(ctx context.Context) error
	Status(ctx context.Context) (*Status, error)
}

type authService struct {
	client   client.Client
	sessions session.Repository
	now      func() time.Time
}

// NewAuthService constructs an AuthService bound to the given API client and
// local session store.
func NewAuthService(c client.Client, sessions session.Repository) AuthService {
	return &authService{client: c, sessions: sessions, now: time.Now}
}

func (a *authService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	return a.client.Register(ctx, name, email, password)
}

func (a *authService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	s, err := a.client.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := a.sessions.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Logout succeeds when nobody is signed in. A server that cannot be reached
// does not keep the local session alive.
func (a *authService) Logout(ctx context.Context) error {
	s, err := a.sessions.Load(ctx)
	if errors.Is(err, common.ErrorNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := a.client.SignOut(ctx, s.Token); err != nil && !errors.Is(err, netx.ErrUnavailable) {
		return fmt.Errorf("sign out: %w", err)
	}

	return a.sessions.Clear(ctx)
}

func (a *authService) Status(ctx context.Context) (*Status, error) {
	saved, err := a.sessions.Load(ctx)
	if errors.Is(err, common.ErrorNotFound) {
		return &Status{State: StateAnonymous}, nil
	}
	if err != nil {
		return nil, err
	}

	if saved.Expired(a.now()) {
		return a.forget(ctx)
	}

	live, err := a.client.Session(ctx, saved.Token)
	switch {
	case err == nil:
		return &Status{State: StateAuthenticated, User: &live.User, ExpiresAt: live.ExpiresAt}, nil
	case errors.Is(err, common.ErrorUnauthorized):
		return a.forget(ctx)
	case errors.Is(err, netx.ErrUnavailable):
		return &Status{State: StateAuthenticated, User: &saved.User, ExpiresAt: saved.ExpiresAt, Offline: true}, nil
	default:
		return nil, err
	}
}

func (a *authService) forget(ctx context.Context) (*Status, error) {
	if err := a.sessions.Clear(ctx); err != nil {
		return nil, err
	}
	return &Status{State: StateAnonymous}, nil
}
