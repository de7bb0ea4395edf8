package session

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	v1 "technuob.com/atomlift/atomlift/v1"
	"technuob.com/atomlift/atomlift/v1/common"
	"technuob.com/atomlift/validation"
)

type State int

const (
	LoggedOut State = iota
	LoggedIn
)

func (s State) String() string {
	if s == LoggedIn {
		return "logged_in"
	}
	return "logged_out"
}

var ErrMissingToken = errors.New("login response did not include a token")

// AuthAPI is the part of the backend the manager talks to. *v1.AuthEndpoint implements it.
type AuthAPI interface {
	Login(ctx context.Context, req v1.LoginRequest) (*v1.LoginResponse, error)
	GenerateOTP(ctx context.Context, contact string, method common.OTPMethod) (*v1.GenerateOTPResponse, error)
	ResendOTP(ctx context.Context, contact string, method common.OTPMethod) (*v1.GenerateOTPResponse, error)
	VerifyOTP(ctx context.Context, otp, contact string, method common.OTPMethod) (*v1.LoginResponse, error)
	UserDetails(ctx context.Context) (common.UserRecord, error)
	Logout(ctx context.Context) error
}

// Manager owns the session lifecycle. It is the only writer of the Store, and Logout is the only
// way out of LoggedIn: failed API calls, including 401s, never end a session.
type Manager struct {
	auth  AuthAPI
	store *Store
	log   zerolog.Logger

	mu    sync.Mutex
	state State
}

func NewManager(auth AuthAPI, store *Store, log zerolog.Logger) *Manager {
	return &Manager{
		auth:  auth,
		store: store,
		log:   log.With().Str("component", "session").Logger(),
		state: LoggedOut,
	}
}

// Login classifies identifier as email or 10-digit phone number and signs in with password.
func (m *Manager) Login(ctx context.Context, identifier, password string) (common.UserRecord, error) {
	id := validation.ClassifyIdentifier(identifier)
	resp, err := m.auth.Login(ctx, v1.LoginRequest{Email: id.Email, PhoneNumber: id.Phone, Password: password})
	if err != nil {
		m.log.Info().Err(err).Bool("phone", id.IsPhone()).Msg("login failed")
		return nil, err
	}
	return m.establish(resp)
}

func (m *Manager) RequestOTP(ctx context.Context, contact string, method common.OTPMethod) (*v1.GenerateOTPResponse, error) {
	return m.auth.GenerateOTP(ctx, contact, method)
}

func (m *Manager) ResendOTP(ctx context.Context, contact string, method common.OTPMethod) (*v1.GenerateOTPResponse, error) {
	return m.auth.ResendOTP(ctx, contact, method)
}

func (m *Manager) VerifyOTP(ctx context.Context, otp, contact string, method common.OTPMethod) (common.UserRecord, error) {
	resp, err := m.auth.VerifyOTP(ctx, otp, contact, method)
	if err != nil {
		m.log.Info().Err(err).Str("method", string(method)).Msg("otp verification failed")
		return nil, err
	}
	return m.establish(resp)
}

func (m *Manager) establish(resp *v1.LoginResponse) (common.UserRecord, error) {
	if resp == nil || resp.Token == "" {
		return nil, ErrMissingToken
	}
	user := resp.User
	if user == nil {
		user = common.UserRecord{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.store.SetToken(resp.Token)
	m.store.SetUser(user)
	m.state = LoggedIn
	m.log.Info().Str("state", m.state.String()).Int64("user_id", user.Int("id")).Msg("session established")
	return user, nil
}

// Restore picks up a session persisted by an earlier process. It makes no network call and only
// reports LoggedIn when both token and user are stored.
func (m *Manager) Restore(ctx context.Context) State {
	token := m.store.GetToken()
	user := m.store.GetUser()

	m.mu.Lock()
	defer m.mu.Unlock()
	if token != "" && user != nil {
		m.state = LoggedIn
	} else {
		m.state = LoggedOut
	}
	m.log.Debug().Str("state", m.state.String()).Msg("session restored")
	return m.state
}

// Logout tells the backend, then clears the store whatever the backend said.
func (m *Manager) Logout(ctx context.Context) {
	if m.store.GetToken() != "" {
		if err := m.auth.Logout(ctx); err != nil {
			m.log.Warn().Err(err).Msg("backend logout failed, clearing local session anyway")
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.store.ClearToken()
	m.store.ClearUser()
	m.state = LoggedOut
	m.log.Info().Str("state", m.state.String()).Msg("logged out")
}

// RefreshProfile replaces the stored user with a fresh copy. On error nothing is touched.
func (m *Manager) RefreshProfile(ctx context.Context) (common.UserRecord, error) {
	user, err := m.auth.UserDetails(ctx)
	if err != nil {
		m.log.Warn().Err(err).Msg("refresh profile")
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store.SetUser(user)
	return user, nil
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) IsLoggedIn() bool {
	return m.State() == LoggedIn
}

func (m *Manager) User() common.UserRecord {
	return m.store.GetUser()
}

func (m *Manager) Profile() common.UserProfile {
	return common.NormalizeProfile(m.store.GetUser())
}
