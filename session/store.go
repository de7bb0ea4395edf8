package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"technuob.com/atomlift/atomlift/v1/common"
)

const (
	KeyAuthToken = "auth_token"
	KeyUserData  = "user_data"
)

// ErrNotFound is returned by a KV when the key has never been written or was deleted.
var ErrNotFound = errors.New("key not found")

// KV is the durable backend of a Store.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// Store keeps the token and user record in memory and mirrors them to a KV.
// Storage failures never reach the caller: reads degrade to "absent", writes are logged and the
// in-memory copy stays authoritative.
type Store struct {
	kv  KV
	log zerolog.Logger

	mu        sync.Mutex
	token     *string
	user      common.UserRecord
	userKnown bool
}

func NewStore(kv KV, log zerolog.Logger) *Store {
	return &Store{kv: kv, log: log.With().Str("component", "session_store").Logger()}
}

// Token lets the API transport read the stored token.
func (s *Store) Token(ctx context.Context) (string, bool) {
	token := s.GetToken()
	return token, token != ""
}

func (s *Store) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = &token
	if err := s.kv.Set(KeyAuthToken, []byte(token)); err != nil {
		s.log.Error().Err(err).Str("key", KeyAuthToken).Msg("persist token")
	}
}

func (s *Store) GetToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != nil {
		return *s.token
	}
	b, err := s.kv.Get(KeyAuthToken)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Warn().Err(err).Str("key", KeyAuthToken).Msg("read token")
		}
		return ""
	}
	token := string(b)
	s.token = &token
	return token
}

func (s *Store) ClearToken() {
	s.mu.Lock()
	defer s.mu.Unlock()
	empty := ""
	s.token = &empty
	if err := s.kv.Delete(KeyAuthToken); err != nil && !errors.Is(err, ErrNotFound) {
		s.log.Error().Err(err).Str("key", KeyAuthToken).Msg("delete token")
	}
}

func (s *Store) SetUser(user common.UserRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user, s.userKnown = user, true
	b, err := json.Marshal(user)
	if err != nil {
		s.log.Error().Err(err).Str("key", KeyUserData).Msg("encode user")
		return
	}
	if err := s.kv.Set(KeyUserData, b); err != nil {
		s.log.Error().Err(err).Str("key", KeyUserData).Msg("persist user")
	}
}

// GetUser returns nil when no user is stored or the stored record cannot be decoded.
func (s *Store) GetUser() common.UserRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userKnown {
		return s.user
	}
	b, err := s.kv.Get(KeyUserData)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Warn().Err(err).Str("key", KeyUserData).Msg("read user")
		}
		return nil
	}
	var user common.UserRecord
	if err := json.Unmarshal(b, &user); err != nil {
		s.log.Warn().Err(err).Str("key", KeyUserData).Msg("decode user")
		return nil
	}
	s.user, s.userKnown = user, true
	return user
}

func (s *Store) ClearUser() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user, s.userKnown = nil, true
	if err := s.kv.Delete(KeyUserData); err != nil && !errors.Is(err, ErrNotFound) {
		s.log.Error().Err(err).Str("key", KeyUserData).Msg("delete user")
	}
}
