// Package session holds the authenticated identity and the list of locally
// remembered accounts (multi-account switcher). State persists to the local
// sqlite database under the "token" and "accounts" keys.
//
// Instead of forcing a full process restart on account switch, the store
// publishes a session-changed signal; dependent subsystems (transport
// credential, realtime channel) subscribe and reset themselves.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/instaexplore/instacli/internal/client/api"
	"github.com/instaexplore/instacli/internal/client/models"
	"github.com/instaexplore/instacli/internal/dbx"
	"github.com/instaexplore/instacli/internal/logging"
)

// ChangeHandler receives the new active identity after every identity
// transition. A nil user means the session became unauthenticated.
type ChangeHandler func(active *models.User)

// Store owns the active identity and remembered accounts.
//
// Invariant: when Active() is non-nil, Token() is the credential stored under
// the "token" key for that identity.
type Store struct {
	api  api.Client
	db   *sql.DB
	repo *Repository
	log  logging.Logger

	mu       sync.Mutex
	active   *models.User
	token    string
	accounts []models.Account
	loading  bool
	subs     []ChangeHandler
}

func NewStore(apiClient api.Client, db *sql.DB, log logging.Logger) *Store {
	return &Store{
		api:  apiClient,
		db:   db,
		repo: NewRepository(db),
		log:  log,
	}
}

// Subscribe registers a handler for session-changed signals. Handlers run
// synchronously, outside the store lock, in registration order.
func (s *Store) Subscribe(fn ChangeHandler) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *Store) notify(active *models.User) {
	s.mu.Lock()
	subs := make([]ChangeHandler, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(active)
	}
}

// Token returns the active bearer credential, or "" when unauthenticated.
// Suitable as an api.TokenProvider.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Active returns a copy of the active identity, or nil.
func (s *Store) Active() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return nil
	}
	u := *s.active
	return &u
}

// Accounts returns a copy of the remembered-accounts list, most recently
// used first.
func (s *Store) Accounts() []models.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Account, len(s.accounts))
	copy(out, s.accounts)
	return out
}

func (s *Store) IsAuthenticated() bool {
	return s.Active() != nil
}

// Loading reports whether startup restoration is still in progress.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// persistLocked writes the accounts list and token in one transaction.
// Callers must hold s.mu.
func (s *Store) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(s.accounts)
	if err != nil {
		return fmt.Errorf("marshal accounts: %w", err)
	}
	token := s.token

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewRepository(tx)
		if err := repo.Set(ctx, keyAccounts, data); err != nil {
			return err
		}
		if token == "" {
			return repo.Delete(ctx, keyToken)
		}
		return repo.Set(ctx, keyToken, []byte(token))
	})
}

// Restore initializes the store at startup: it reads durable storage and,
// when a credential is present, validates it against the server. A credential
// the server rejects (or one already expired locally) is treated as an
// implicit logout of that one account; there is no retry.
func (s *Store) Restore(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true

	if data, err := s.repo.Get(ctx, keyAccounts); err == nil && len(data) > 0 {
		if err := json.Unmarshal(data, &s.accounts); err != nil {
			s.log.Warn(ctx, "stored accounts unreadable, discarding", "error", err)
			s.accounts = nil
		}
	}
	if data, err := s.repo.Get(ctx, keyToken); err == nil {
		s.token = string(data)
	}
	token := s.token
	s.mu.Unlock()

	if token == "" {
		s.finishLoading()
		return nil
	}

	if tokenExpired(token) {
		s.log.Info(ctx, "stored credential expired, logging the account out")
		s.dropCredential(ctx, token)
		s.finishLoading()
		return nil
	}

	me, err := s.api.Me(ctx)
	switch {
	case err == nil:
		s.adopt(ctx, me)
		s.finishLoading()
		s.notify(me)
		return nil
	case errors.Is(err, api.ErrUnauthorized):
		s.log.Info(ctx, "stored credential rejected by server, logging the account out")
		s.dropCredential(ctx, token)
		s.finishLoading()
		return nil
	default:
		// Server unreachable: keep the credential but start unauthenticated.
		s.finishLoading()
		return fmt.Errorf("session restore: %w", err)
	}
}

func (s *Store) finishLoading() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

// adopt sets the validated identity active and syncs the refreshed user
// object back into the remembered-accounts entry.
func (s *Store) adopt(ctx context.Context, me *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := *me
	s.active = &u
	for i := range s.accounts {
		if s.accounts[i].User.ID == me.ID {
			s.accounts[i].User = u
		}
	}
	if err := s.persistLocked(ctx); err != nil {
		s.log.Error(ctx, "failed to persist session", "error", err)
	}
}

// dropCredential implements the implicit logout of the account owning the
// rejected token: the account leaves the remembered list, the credential is
// cleared, and the session stays unauthenticated (no automatic switch, so a
// bad token cannot cause a validation loop).
func (s *Store) dropCredential(ctx context.Context, token string) {
	s.mu.Lock()
	kept := s.accounts[:0]
	for _, acc := range s.accounts {
		if acc.Token != token {
			kept = append(kept, acc)
		}
	}
	s.accounts = kept
	s.token = ""
	s.active = nil
	if err := s.persistLocked(ctx); err != nil {
		s.log.Error(ctx, "failed to persist session", "error", err)
	}
	s.mu.Unlock()

	s.notify(nil)
}

// Login inserts or updates the account at the head of the remembered list
// (most recently used first), makes it active and persists both the list and
// the credential. The caller is expected to have validated the credential via
// the backend login call already; there is no error path beyond persistence.
func (s *Store) Login(ctx context.Context, user models.User, token string) error {
	s.mu.Lock()
	rest := make([]models.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		if acc.User.ID != user.ID {
			rest = append(rest, acc)
		}
	}
	s.accounts = append([]models.Account{{User: user, Token: token}}, rest...)
	s.token = token
	u := user
	s.active = &u
	err := s.persistLocked(ctx)
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.notify(&user)
	return nil
}

// SwitchAccount activates a remembered account. Switching to an account that
// is not remembered is a no-op. The session-changed signal replaces the full
// reload the web client used: every dependent subsystem rebuilds against the
// new identity.
func (s *Store) SwitchAccount(ctx context.Context, userID string) error {
	s.mu.Lock()
	var found *models.Account
	for i := range s.accounts {
		if s.accounts[i].User.ID == userID {
			found = &s.accounts[i]
			break
		}
	}
	if found == nil {
		s.mu.Unlock()
		return nil
	}

	s.token = found.Token
	u := found.User
	s.active = &u
	err := s.persistLocked(ctx)
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.notify(&u)
	return nil
}

// RemoveAccount drops an account from the remembered list. If it was the
// active one, the next remembered account becomes active; with none left the
// session logs out fully.
func (s *Store) RemoveAccount(ctx context.Context, userID string) error {
	s.mu.Lock()
	kept := make([]models.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		if acc.User.ID != userID {
			kept = append(kept, acc)
		}
	}
	s.accounts = kept
	wasActive := s.active != nil && s.active.ID == userID

	if !wasActive {
		err := s.persistLocked(ctx)
		s.mu.Unlock()
		return err
	}

	if len(kept) > 0 {
		next := kept[0]
		s.token = next.Token
		u := next.User
		s.active = &u
		err := s.persistLocked(ctx)
		s.mu.Unlock()
		if err != nil {
			return err
		}
		s.notify(&u)
		return nil
	}

	s.token = ""
	s.active = nil
	err := s.persistLocked(ctx)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify(nil)
	return nil
}

// Logout removes the current account from the remembered list and clears the
// active credential. If other remembered accounts exist, the first one
// becomes active; otherwise the session ends unauthenticated.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	if s.active == nil {
		s.token = ""
		err := s.persistLocked(ctx)
		s.mu.Unlock()
		return err
	}
	activeID := s.active.ID
	s.mu.Unlock()

	return s.RemoveAccount(ctx, activeID)
}
