// Package authapi is the REST client for the platform's authentication
// endpoints. It implements session.AuthAPI on top of the request
// pipeline.
package authapi

import (
	"context"

	"github.com/pkg/errors"

	"github.com/pawbook/go-admin-client/apiclient"
	"github.com/pawbook/go-admin-client/credentials"
	"github.com/pawbook/go-admin-client/session"
	"github.com/pawbook/go-admin-client/users"
)

const basePath = "/auth"

var _ session.AuthAPI = (*Client)(nil)

type Client struct {
	api *apiclient.Client
}

func New(api *apiclient.Client) *Client {
	return &Client{api: api}
}

// Login exchanges credentials for a token grant. The call bypasses the
// authorization pipeline: a 401 here means bad credentials, not an
// expired session.
func (c *Client) Login(ctx context.Context, creds session.Credentials) (*credentials.TokenGrant, error) {
	var envelope apiclient.Envelope[credentials.TokenGrant]
	if err := c.api.Post(ctx, basePath+"/login", creds, &envelope, apiclient.WithoutAuth()); err != nil {
		return nil, errors.Wrap(err, "[Client.Login] post")
	}
	grant, err := envelope.Unwrap()
	if err != nil {
		return nil, errors.Wrap(err, "[Client.Login] unwrap")
	}
	return &grant, nil
}

// RefreshToken mints a new access token. Also outside the pipeline so a
// failing refresh can never trigger another refresh.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*credentials.TokenGrant, error) {
	body := map[string]string{"refreshToken": refreshToken}
	var envelope apiclient.Envelope[credentials.TokenGrant]
	if err := c.api.Post(ctx, basePath+"/refresh", body, &envelope, apiclient.WithoutAuth()); err != nil {
		return nil, errors.Wrap(err, "[Client.RefreshToken] post")
	}
	grant, err := envelope.Unwrap()
	if err != nil {
		return nil, errors.Wrap(err, "[Client.RefreshToken] unwrap")
	}
	return &grant, nil
}

func (c *Client) Logout(ctx context.Context) error {
	if err := c.api.Post(ctx, basePath+"/logout", nil, nil); err != nil {
		return errors.Wrap(err, "[Client.Logout] post")
	}
	return nil
}

func (c *Client) Profile(ctx context.Context) (*users.Profile, error) {
	var envelope apiclient.Envelope[users.Profile]
	if err := c.api.Get(ctx, basePath+"/me", &envelope); err != nil {
		return nil, errors.Wrap(err, "[Client.Profile] get")
	}
	profile, err := envelope.Unwrap()
	if err != nil {
		return nil, errors.Wrap(err, "[Client.Profile] unwrap")
	}
	return &profile, nil
}

func (c *Client) UpdateProfile(ctx context.Context, update users.ProfileUpdate) (*users.Profile, error) {
	var envelope apiclient.Envelope[users.Profile]
	if err := c.api.Put(ctx, basePath+"/profile", update, &envelope); err != nil {
		return nil, errors.Wrap(err, "[Client.UpdateProfile] put")
	}
	profile, err := envelope.Unwrap()
	if err != nil {
		return nil, errors.Wrap(err, "[Client.UpdateProfile] unwrap")
	}
	return &profile, nil
}

func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	body := map[string]string{
		"currentPassword": currentPassword,
		"newPassword":     newPassword,
	}
	var envelope apiclient.Envelope[struct{}]
	if err := c.api.Post(ctx, basePath+"/change-password", body, &envelope); err != nil {
		return errors.Wrap(err, "[Client.ChangePassword] post")
	}
	if _, err := envelope.Unwrap(); err != nil {
		return errors.Wrap(err, "[Client.ChangePassword] unwrap")
	}
	return nil
}
