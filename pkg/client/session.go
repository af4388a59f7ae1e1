package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Login error categories.
type ErrorKind int

const (
	KindCredentials ErrorKind = iota
	KindValidation
	KindServer
	KindConnectivity
)

// User-facing messages, in the language of the UI.
const (
	MsgBadCredentials = "Email ou mot de passe incorrect"
	MsgBadRequest     = "Requête invalide"
	MsgServerFault    = "Erreur du serveur, veuillez réessayer plus tard"
	MsgConnectivity   = "Impossible de contacter le serveur, vérifiez votre connexion"
)

// LoginError is the typed failure returned by Session.Login. Message is
// user-facing and is also recorded in the session's Err field.
type LoginError struct {
	Kind    ErrorKind
	Message string
}

func (e *LoginError) Error() string {
	return e.Message
}

// State is a snapshot of the session. User != nil implies Token != "".
type State struct {
	User      *User
	Token     string
	IsLoading bool
	Err       string
}

// Session is the single source of truth for who is logged in and what
// bearer token outgoing requests carry. The token survives restarts
// through the TokenStore; concurrent CheckAuth calls race benignly, last
// write wins.
type Session struct {
	mu     sync.Mutex
	state  State
	store  TokenStore
	api    *Client
	logger zerolog.Logger
}

func NewSession(api *Client, store TokenStore, logger zerolog.Logger) *Session {
	return &Session{api: api, store: store, logger: logger}
}

// State returns a snapshot of the current session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Login authenticates against the API. On success the token is persisted
// and the session set; on failure the session stays logged out, Err holds
// the user-facing message and the returned error carries the category.
func (s *Session) Login(ctx context.Context, email, password string) error {
	token, user, err := s.api.Login(ctx, email, password)
	if err != nil {
		loginErr := classifyLoginError(err)
		s.mu.Lock()
		s.state = State{Err: loginErr.Message}
		s.mu.Unlock()
		return loginErr
	}

	if err := s.store.SaveToken(token); err != nil {
		s.logger.Warn().Err(err).Msg("persist token")
	}
	if err := s.store.SaveCachedUser(user); err != nil {
		s.logger.Warn().Err(err).Msg("persist cached user")
	}

	s.mu.Lock()
	s.state = State{User: user, Token: token}
	s.mu.Unlock()
	return nil
}

func classifyLoginError(err error) *LoginError {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return &LoginError{Kind: KindConnectivity, Message: MsgConnectivity}
	}
	switch {
	case apiErr.Status == 401:
		return &LoginError{Kind: KindCredentials, Message: MsgBadCredentials}
	case apiErr.Status == 400:
		msg := apiErr.Message
		if msg == "" {
			msg = MsgBadRequest
		}
		return &LoginError{Kind: KindValidation, Message: msg}
	default:
		return &LoginError{Kind: KindServer, Message: MsgServerFault}
	}
}

// Logout tells the API best-effort, then clears durable storage and the
// in-memory session unconditionally.
func (s *Session) Logout(ctx context.Context) {
	if err := s.api.Logout(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("logout request failed")
	}
	if err := s.store.Clear(); err != nil {
		s.logger.Warn().Err(err).Msg("clear token store")
	}
	s.mu.Lock()
	s.state = State{}
	s.mu.Unlock()
}

// CheckAuth reconciles the session with the API. Without a stored token it
// completes immediately with an empty session. Otherwise it verifies the
// token; on success the user is replaced and the token kept, on any
// failure the session silently resets to empty. It never returns an error.
func (s *Session) CheckAuth(ctx context.Context) {
	token, err := s.store.Token()
	if err != nil || token == "" {
		s.mu.Lock()
		s.state = State{}
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	s.state.IsLoading = true
	s.mu.Unlock()

	user, err := s.api.Verify(ctx)
	if err != nil || user == nil {
		if clearErr := s.store.Clear(); clearErr != nil {
			s.logger.Warn().Err(clearErr).Msg("clear token store")
		}
		s.mu.Lock()
		s.state = State{}
		s.mu.Unlock()
		return
	}

	if err := s.store.SaveCachedUser(user); err != nil {
		s.logger.Warn().Err(err).Msg("persist cached user")
	}
	s.mu.Lock()
	s.state = State{User: user, Token: token}
	s.mu.Unlock()
}

// UpdateUser replaces the user only, keeping the token. It refuses to set
// a user on a session without a token.
func (s *Session) UpdateUser(u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u != nil && s.state.Token == "" {
		return fmt.Errorf("cannot set user without a token")
	}
	s.state.User = u
	return nil
}

// ClearError clears the error message only.
func (s *Session) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Err = ""
}
