package clientstate

import (
	"encoding/json"
	"sync"

	"github.com/facesocial/facesocial-backend/internal/types"
)

const authStoreName = "auth-storage"

// AuthState is the client session state. Only the session fields survive a
// restart; transient flags are rebuilt each run.
type AuthState struct {
	User            *types.PublicUser `json:"user"`
	Token           string            `json:"token"`
	IsAuthenticated bool              `json:"isAuthenticated"`
	IsLoading       bool              `json:"-"`
	Error           string            `json:"-"`
}

// AuthStore owns an AuthState behind an update interface. Every mutation
// goes through Apply, which persists the partialized state afterwards.
type AuthStore struct {
	mu        sync.Mutex
	state     AuthState
	persister Persister
}

func NewAuthStore(persister Persister) (*AuthStore, error) {
	s := &AuthStore{persister: persister}
	if persister != nil {
		data, ok, err := persister.Load(authStoreName)
		if err != nil {
			return nil, err
		}
		if ok {
			// A corrupt snapshot resets to the zero state rather than failing.
			_ = json.Unmarshal(data, &s.state)
		}
	}
	return s, nil
}

// State returns a snapshot copy.
func (s *AuthStore) State() AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Apply runs a mutation against the state and persists the result.
func (s *AuthStore) Apply(update func(*AuthState)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	update(&s.state)
	return s.persist()
}

func (s *AuthStore) SetSession(user types.PublicUser, token string) error {
	return s.Apply(func(st *AuthState) {
		st.User = &user
		st.Token = token
		st.IsAuthenticated = true
		st.IsLoading = false
		st.Error = ""
	})
}

func (s *AuthStore) Clear() error {
	return s.Apply(func(st *AuthState) {
		*st = AuthState{}
	})
}

func (s *AuthStore) persist() error {
	if s.persister == nil {
		return nil
	}
	data, err := json.Marshal(s.state)
	if err != nil {
		return err
	}
	return s.persister.Save(authStoreName, data)
}
