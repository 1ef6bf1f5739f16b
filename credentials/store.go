// Package credentials provides durable storage for the session's tokens,
// their absolute expiries and the cached user profile.
package credentials

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/pawbook/go-admin-client/users"
)

// Storage keys, one per logical field.
const (
	AccessTokenKey   = "auth_token"
	RefreshTokenKey  = "refresh_token"
	AccessExpiryKey  = "auth_token_expiry"
	RefreshExpiryKey = "refresh_token_expiry"
	UserKey          = "user_data"
)

// Store is raw persistent key/value string storage scoped to the client.
// Implementations perform no validation; malformed or missing values are
// the caller's problem.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}

// ExpiryHints are the server-provided token lifetimes, in seconds, that may
// accompany a login or refresh response.
type ExpiryHints struct {
	Token        int64 `json:"token"`
	RefreshToken int64 `json:"refreshToken"`
}

// TokenGrant is the token material returned by the login and refresh
// endpoints.
type TokenGrant struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refreshToken,omitempty"`
	ExpiresIn    *ExpiryHints `json:"expiresIn,omitempty"`
}

// Keeper layers the typed credential fields over a raw Store. Getters fail
// soft: a missing or malformed value reads as absent, never as an error.
type Keeper struct {
	store Store
}

func NewKeeper(store Store) *Keeper {
	return &Keeper{store: store}
}

func (k *Keeper) AccessToken() string {
	value, _ := k.store.Get(AccessTokenKey)
	return value
}

func (k *Keeper) RefreshToken() string {
	value, _ := k.store.Get(RefreshTokenKey)
	return value
}

// AccessTokenExpiry returns the recorded absolute expiry of the access
// token, or nil when none was recorded or the value is unreadable.
func (k *Keeper) AccessTokenExpiry() *time.Time {
	return k.expiry(AccessExpiryKey)
}

// RefreshTokenExpiry returns the recorded absolute expiry of the refresh
// token, or nil when none was recorded or the value is unreadable.
func (k *Keeper) RefreshTokenExpiry() *time.Time {
	return k.expiry(RefreshExpiryKey)
}

func (k *Keeper) expiry(key string) *time.Time {
	raw, ok := k.store.Get(key)
	if !ok || raw == "" {
		return nil
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	expiry := time.UnixMilli(millis)
	return &expiry
}

// StoreGrant persists the token material of a login or refresh response.
// The refresh token and the expiries are only written when present, so a
// refresh response without a rotated refresh token keeps the old one.
func (k *Keeper) StoreGrant(grant TokenGrant, now time.Time) error {
	if err := k.store.Set(AccessTokenKey, grant.Token); err != nil {
		return errors.Wrap(err, "[Keeper.StoreGrant] access token")
	}
	if grant.RefreshToken != "" {
		if err := k.store.Set(RefreshTokenKey, grant.RefreshToken); err != nil {
			return errors.Wrap(err, "[Keeper.StoreGrant] refresh token")
		}
	}
	if grant.ExpiresIn == nil {
		return nil
	}
	if grant.ExpiresIn.Token > 0 {
		expiry := now.Add(time.Duration(grant.ExpiresIn.Token) * time.Second)
		if err := k.store.Set(AccessExpiryKey, strconv.FormatInt(expiry.UnixMilli(), 10)); err != nil {
			return errors.Wrap(err, "[Keeper.StoreGrant] access expiry")
		}
	}
	if grant.ExpiresIn.RefreshToken > 0 {
		expiry := now.Add(time.Duration(grant.ExpiresIn.RefreshToken) * time.Second)
		if err := k.store.Set(RefreshExpiryKey, strconv.FormatInt(expiry.UnixMilli(), 10)); err != nil {
			return errors.Wrap(err, "[Keeper.StoreGrant] refresh expiry")
		}
	}
	return nil
}

// StoreUser persists the profile as JSON.
func (k *Keeper) StoreUser(profile *users.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return errors.Wrap(err, "[Keeper.StoreUser] marshal")
	}
	if err := k.store.Set(UserKey, string(data)); err != nil {
		return errors.Wrap(err, "[Keeper.StoreUser] set")
	}
	return nil
}

// LoadUser deserializes the cached profile. It returns nil on an empty
// value, the literal strings "null" and "undefined", or any decode
// failure.
func (k *Keeper) LoadUser() *users.Profile {
	raw, ok := k.store.Get(UserKey)
	if !ok || raw == "" || raw == "null" || raw == "undefined" {
		return nil
	}
	var profile users.Profile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil
	}
	return &profile
}

// Clear removes every credential field. Removals run as a fixed sequence
// so a failure part-way still attempts the remaining fields; the first
// error is reported.
func (k *Keeper) Clear() error {
	var firstErr error
	for _, key := range []string{AccessTokenKey, RefreshTokenKey, AccessExpiryKey, RefreshExpiryKey, UserKey} {
		if err := k.store.Remove(key); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "[Keeper.Clear] %s", key)
		}
	}
	return firstErr
}
