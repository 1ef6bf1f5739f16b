package platform

import (
	"context"

	"github.com/pkg/errors"

	"github.com/pawbook/go-admin-client/apiclient"
)

// User is a platform account as the admin API reports it.
type User struct {
	ID              string  `json:"id"`
	Email           string  `json:"email"`
	Name            string  `json:"name"`
	LastName        string  `json:"lastName"`
	PhoneNumber     string  `json:"phoneNumber"`
	Role            string  `json:"role"`
	EmailVerifiedAt *string `json:"emailVerifiedAt"`
	BlockedAt       *string `json:"blockedAt"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
	DeletedAt       *string `json:"deletedAt"`
}

// Role is a named role an account can hold.
type Role struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// UserRequest creates or replaces an account.
type UserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	RoleID   int    `json:"roleId"`
}

type UsersService struct {
	api *apiclient.Client
}

func NewUsersService(api *apiclient.Client) *UsersService {
	return &UsersService{api: api}
}

func (s *UsersService) List(ctx context.Context, params ListParams) (*Page[User], error) {
	var resp pagedResponse[User]
	if err := s.api.Get(ctx, "/admin/users", &resp, apiclient.WithQuery(params.Values())); err != nil {
		return nil, errors.Wrap(err, "[UsersService.List] get")
	}
	page := resp.toPage()
	return &page, nil
}

func (s *UsersService) Get(ctx context.Context, id string) (*User, error) {
	var envelope apiclient.Envelope[User]
	if err := s.api.Get(ctx, "/admin/users/"+id, &envelope); err != nil {
		return nil, errors.Wrap(err, "[UsersService.Get] get")
	}
	user, err := envelope.Unwrap()
	if err != nil {
		return nil, errors.Wrap(err, "[UsersService.Get] unwrap")
	}
	return &user, nil
}

func (s *UsersService) Create(ctx context.Context, req UserRequest) (*User, error) {
	var envelope apiclient.Envelope[User]
	if err := s.api.Post(ctx, "/admin/users", req, &envelope); err != nil {
		return nil, errors.Wrap(err, "[UsersService.Create] post")
	}
	user, err := envelope.Unwrap()
	if err != nil {
		return nil, errors.Wrap(err, "[UsersService.Create] unwrap")
	}
	return &user, nil
}

func (s *UsersService) Update(ctx context.Context, id string, req UserRequest) (*User, error) {
	var envelope apiclient.Envelope[User]
	if err := s.api.Put(ctx, "/admin/users/"+id, req, &envelope); err != nil {
		return nil, errors.Wrap(err, "[UsersService.Update] put")
	}
	user, err := envelope.Unwrap()
	if err != nil {
		return nil, errors.Wrap(err, "[UsersService.Update] unwrap")
	}
	return &user, nil
}

func (s *UsersService) Delete(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, "/admin/users/"+id, nil); err != nil {
		return errors.Wrap(err, "[UsersService.Delete] delete")
	}
	return nil
}

func (s *UsersService) Roles(ctx context.Context) ([]Role, error) {
	var envelope apiclient.Envelope[[]Role]
	if err := s.api.Get(ctx, "/admin/roles", &envelope); err != nil {
		return nil, errors.Wrap(err, "[UsersService.Roles] get")
	}
	roles, err := envelope.Unwrap()
	if err != nil {
		return nil, errors.Wrap(err, "[UsersService.Roles] unwrap")
	}
	return roles, nil
}
