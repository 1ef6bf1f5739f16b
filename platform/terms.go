package platform

import (
	"context"
	"net/url"

	"github.com/pkg/errors"

	"github.com/pawbook/go-admin-client/apiclient"
)

// TermsType is the canonical terms document type enumeration.
type TermsType string

const (
	TermsUser          TermsType = "USER_TERMS"
	TermsPrivacyPolicy TermsType = "PRIVACY_POLICY"
	TermsRefundPolicy  TermsType = "REFUND_POLICY"
	TermsOther         TermsType = "OTHER"
)

type Term struct {
	ID        string    `json:"id"`
	Type      TermsType `json:"type"`
	Language  string    `json:"language"`
	Version   string    `json:"version"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	IsActive  bool      `json:"isActive"`
	CreatedAt string    `json:"createdAt"`
	UpdatedAt string    `json:"updatedAt"`
}

type TermRequest struct {
	Type     TermsType `json:"type"`
	Language string    `json:"language"`
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	Version  string    `json:"version"`
	IsActive bool      `json:"isActive"`
}

type TermsService struct {
	api *apiclient.Client
}

func NewTermsService(api *apiclient.Client) *TermsService {
	return &TermsService{api: api}
}

// List returns the terms for one language.
func (s *TermsService) List(ctx context.Context, language string) ([]Term, error) {
	values := url.Values{}
	if language != "" {
		values.Set("language", language)
	}
	var terms []Term
	if err := s.api.Get(ctx, "/admin/terms", &terms, apiclient.WithQuery(values)); err != nil {
		return nil, errors.Wrap(err, "[TermsService.List] get")
	}
	return terms, nil
}

// ListAllLanguages returns the terms across every language.
func (s *TermsService) ListAllLanguages(ctx context.Context) ([]Term, error) {
	var terms []Term
	if err := s.api.Get(ctx, "/admin/terms/all-languages", &terms); err != nil {
		return nil, errors.Wrap(err, "[TermsService.ListAllLanguages] get")
	}
	return terms, nil
}

// GetByType returns the active document of one type and language.
func (s *TermsService) GetByType(ctx context.Context, termsType TermsType, language string) (*Term, error) {
	values := url.Values{}
	if language != "" {
		values.Set("language", language)
	}
	var term Term
	if err := s.api.Get(ctx, "/admin/terms/"+string(termsType), &term, apiclient.WithQuery(values)); err != nil {
		return nil, errors.Wrap(err, "[TermsService.GetByType] get")
	}
	return &term, nil
}

func (s *TermsService) Create(ctx context.Context, req TermRequest) (*Term, error) {
	var term Term
	if err := s.api.Post(ctx, "/admin/terms", req, &term); err != nil {
		return nil, errors.Wrap(err, "[TermsService.Create] post")
	}
	return &term, nil
}

func (s *TermsService) Update(ctx context.Context, id string, req TermRequest) (*Term, error) {
	var term Term
	if err := s.api.Put(ctx, "/admin/terms/"+id, req, &term); err != nil {
		return nil, errors.Wrap(err, "[TermsService.Update] put")
	}
	return &term, nil
}

func (s *TermsService) Delete(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, "/admin/terms/"+id, nil); err != nil {
		return errors.Wrap(err, "[TermsService.Delete] delete")
	}
	return nil
}
