package session

import (
	"context"

	"github.com/pawbook/go-admin-client/credentials"
	"github.com/pawbook/go-admin-client/users"
)

// Credentials are the login form fields.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthAPI is the remote authentication collaborator. The apiclient-backed
// implementation lives in the authapi package; tests use fakes.
type AuthAPI interface {
	Login(ctx context.Context, creds Credentials) (*credentials.TokenGrant, error)
	RefreshToken(ctx context.Context, refreshToken string) (*credentials.TokenGrant, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*users.Profile, error)
	UpdateProfile(ctx context.Context, update users.ProfileUpdate) (*users.Profile, error)
	ChangePassword(ctx context.Context, currentPassword, newPassword string) error
}
