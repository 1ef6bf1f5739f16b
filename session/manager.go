// Package session orchestrates the authentication lifecycle: login,
// logout, silent refresh and the authorization state the rest of the
// client reads.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/pawbook/go-admin-client/credentials"
	"github.com/pawbook/go-admin-client/token"
	"github.com/pawbook/go-admin-client/users"
)

// Manager owns the session state. It is an explicit object with a defined
// lifecycle, not ambient package state: construct one per client, hydrate
// happens at construction, teardown is Logout.
type Manager struct {
	keeper    *credentials.Keeper
	evaluator *token.Evaluator
	api       AuthAPI
	logger    zerolog.Logger
	nowFunc   func() time.Time

	lock          sync.RWMutex
	accessToken   string
	refreshToken  string
	accessExpiry  *time.Time
	refreshExpiry *time.Time
	user          *users.Profile
	roles         map[string]struct{}
	permissions   map[string]struct{}
}

type ManagerOption func(*Manager)

// WithNowFunc sets the now time function (primarily for testing)
func WithNowFunc(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = nowFunc
	}
}

// NewManager builds a Manager and hydrates it from the credential store so
// a restarted client resumes its previous session.
func NewManager(keeper *credentials.Keeper, evaluator *token.Evaluator, api AuthAPI, logger zerolog.Logger, options ...ManagerOption) (*Manager, error) {
	if keeper == nil {
		return nil, errors.New("[NewManager] keeper is required")
	}
	if evaluator == nil {
		return nil, errors.New("[NewManager] evaluator is required")
	}
	if api == nil {
		return nil, errors.New("[NewManager] api is required")
	}

	m := &Manager{
		keeper:    keeper,
		evaluator: evaluator,
		api:       api,
		logger:    logger,
		nowFunc:   time.Now,
	}
	for _, opt := range options {
		opt(m)
	}
	m.hydrate()
	return m, nil
}

func (m *Manager) hydrate() {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.accessToken = m.keeper.AccessToken()
	m.refreshToken = m.keeper.RefreshToken()
	m.accessExpiry = m.keeper.AccessTokenExpiry()
	m.refreshExpiry = m.keeper.RefreshTokenExpiry()
	m.setUserLocked(m.keeper.LoadUser())
}

// Login authenticates against the platform and returns the profile. It
// never partially applies: when the profile fetch after a successful token
// grant fails, the persisted tokens are rolled back and the session stays
// unauthenticated.
func (m *Manager) Login(ctx context.Context, creds Credentials) (*users.Profile, error) {
	grant, err := m.api.Login(ctx, creds)
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.Login] api.Login")
	}

	if err := m.applyGrant(*grant); err != nil {
		return nil, errors.Wrap(err, "[Manager.Login] applyGrant")
	}

	profile, err := m.api.Profile(ctx)
	if err != nil {
		m.clearSession()
		return nil, errors.Wrap(err, "[Manager.Login] api.Profile")
	}

	if err := m.keeper.StoreUser(profile); err != nil {
		m.clearSession()
		return nil, errors.Wrap(err, "[Manager.Login] StoreUser")
	}

	m.lock.Lock()
	m.setUserLocked(profile)
	m.lock.Unlock()

	m.logger.Info().Str("email", profile.Email).Msg("logged in")
	return profile, nil
}

// Logout notifies the server when an access token is present and always
// clears the local session, regardless of the network outcome.
func (m *Manager) Logout(ctx context.Context) {
	defer m.clearSession()

	if m.AccessToken() == "" {
		return
	}
	if err := m.api.Logout(ctx); err != nil {
		// Best effort. The server-side session may outlive us briefly.
		m.logger.Warn().Err(err).Msg("server logout failed")
	}
}

// Refresh exchanges the refresh token for a new access token. It returns
// false without touching the network when no usable refresh token exists,
// and clears the session on every failure path.
func (m *Manager) Refresh(ctx context.Context) bool {
	m.lock.RLock()
	refreshToken := m.refreshToken
	refreshExpiry := m.refreshExpiry
	m.lock.RUnlock()

	if refreshToken == "" {
		m.logger.Debug().Msg("refresh skipped, no refresh token")
		m.clearSession()
		return false
	}
	if m.evaluator.Expired(refreshToken, refreshExpiry) {
		m.logger.Debug().Msg("refresh skipped, refresh token expired")
		m.clearSession()
		return false
	}

	grant, err := m.api.RefreshToken(ctx, refreshToken)
	if err != nil {
		m.logger.Error().Err(err).Msg("token refresh failed")
		m.clearSession()
		return false
	}
	if err := m.applyGrant(*grant); err != nil {
		m.logger.Error().Err(err).Msg("storing refreshed tokens failed")
		m.clearSession()
		return false
	}
	return true
}

// IsAuthenticated recomputes on every call; expiry is time-dependent so
// the answer cannot be cached.
func (m *Manager) IsAuthenticated() bool {
	m.lock.RLock()
	accessToken := m.accessToken
	accessExpiry := m.accessExpiry
	m.lock.RUnlock()
	return accessToken != "" && !m.evaluator.Expired(accessToken, accessExpiry)
}

// HasRole is a plain membership test: a session with no granular roles
// holds no role. Routes that declare no requirements stay open, that
// decision belongs to the guard.
func (m *Manager) HasRole(name string) bool {
	m.lock.RLock()
	defer m.lock.RUnlock()
	_, ok := m.roles[name]
	return ok
}

// HasPermission is a plain membership test, see HasRole.
func (m *Manager) HasPermission(name string) bool {
	m.lock.RLock()
	defer m.lock.RUnlock()
	_, ok := m.permissions[name]
	return ok
}

func (m *Manager) AccessToken() string {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.accessToken
}

func (m *Manager) CurrentUser() *users.Profile {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.user
}

func (m *Manager) Roles() []string {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return setToSlice(m.roles)
}

func (m *Manager) Permissions() []string {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return setToSlice(m.permissions)
}

// FetchProfile re-reads the profile from the server and caches it.
func (m *Manager) FetchProfile(ctx context.Context) (*users.Profile, error) {
	profile, err := m.api.Profile(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.FetchProfile] api.Profile")
	}
	if err := m.keeper.StoreUser(profile); err != nil {
		return nil, errors.Wrap(err, "[Manager.FetchProfile] StoreUser")
	}
	m.lock.Lock()
	m.setUserLocked(profile)
	m.lock.Unlock()
	return profile, nil
}

// UpdateProfile pushes profile changes to the server and caches the
// returned profile.
func (m *Manager) UpdateProfile(ctx context.Context, update users.ProfileUpdate) (*users.Profile, error) {
	profile, err := m.api.UpdateProfile(ctx, update)
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.UpdateProfile] api.UpdateProfile")
	}
	if err := m.keeper.StoreUser(profile); err != nil {
		return nil, errors.Wrap(err, "[Manager.UpdateProfile] StoreUser")
	}
	m.lock.Lock()
	m.setUserLocked(profile)
	m.lock.Unlock()
	return profile, nil
}

// ChangePassword changes the authenticated user's password.
func (m *Manager) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	if err := m.api.ChangePassword(ctx, currentPassword, newPassword); err != nil {
		return errors.Wrap(err, "[Manager.ChangePassword] api.ChangePassword")
	}
	return nil
}

// applyGrant persists the grant and mirrors it into memory.
func (m *Manager) applyGrant(grant credentials.TokenGrant) error {
	now := m.nowFunc()
	if err := m.keeper.StoreGrant(grant, now); err != nil {
		return err
	}

	m.lock.Lock()
	defer m.lock.Unlock()
	m.accessToken = grant.Token
	if grant.RefreshToken != "" {
		m.refreshToken = grant.RefreshToken
	}
	if grant.ExpiresIn != nil {
		if grant.ExpiresIn.Token > 0 {
			expiry := now.Add(time.Duration(grant.ExpiresIn.Token) * time.Second)
			m.accessExpiry = &expiry
		}
		if grant.ExpiresIn.RefreshToken > 0 {
			expiry := now.Add(time.Duration(grant.ExpiresIn.RefreshToken) * time.Second)
			m.refreshExpiry = &expiry
		}
	}
	return nil
}

func (m *Manager) clearSession() {
	if err := m.keeper.Clear(); err != nil {
		m.logger.Warn().Err(err).Msg("clearing credential store failed")
	}
	m.lock.Lock()
	defer m.lock.Unlock()
	m.accessToken = ""
	m.refreshToken = ""
	m.accessExpiry = nil
	m.refreshExpiry = nil
	m.setUserLocked(nil)
}

// setUserLocked derives the role and permission sets; callers hold the
// write lock.
func (m *Manager) setUserLocked(profile *users.Profile) {
	m.user = profile
	m.roles = make(map[string]struct{})
	m.permissions = make(map[string]struct{})
	if profile == nil {
		return
	}
	for _, role := range profile.Roles {
		m.roles[role] = struct{}{}
	}
	for _, permission := range profile.Permissions {
		m.permissions[permission] = struct{}{}
	}
}

func setToSlice(set map[string]struct{}) []string {
	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	return values
}
