package platform

import (
	"context"

	"github.com/pkg/errors"

	"github.com/pawbook/go-admin-client/apiclient"
)

// Species is the canonical pet species enumeration.
type Species string

const (
	SpeciesDog     Species = "DOG"
	SpeciesCat     Species = "CAT"
	SpeciesBird    Species = "BIRD"
	SpeciesRabbit  Species = "RABBIT"
	SpeciesHamster Species = "HAMSTER"
	SpeciesFish    Species = "FISH"
	SpeciesOther   Species = "OTHER"
)

type Pet struct {
	ID          string  `json:"id"`
	UserID      string  `json:"userId"`
	Name        string  `json:"name"`
	Age         int     `json:"age"`
	DayOfBirth  string  `json:"dayOfBirth"`
	Species     Species `json:"species"`
	Breed       string  `json:"breed"`
	Gender      string  `json:"gender"`
	Size        string  `json:"size"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
	DeletedAt   *string `json:"deletedAt"`
}

type PetRequest struct {
	OwnerID     string  `json:"ownerId"`
	Name        string  `json:"name"`
	Age         int     `json:"age"`
	DayOfBirth  string  `json:"dayOfBirth"`
	Species     Species `json:"species"`
	Breed       string  `json:"breed"`
	Gender      string  `json:"gender"`
	Size        string  `json:"size"`
	ImageURL    string  `json:"imageUrl"`
	Description string  `json:"description"`
}

// PetCriteria filters pet listings.
type PetCriteria struct {
	Query   string
	Species Species
	UserID  string
}

type PetsService struct {
	api *apiclient.Client
}

func NewPetsService(api *apiclient.Client) *PetsService {
	return &PetsService{api: api}
}

func (s *PetsService) List(ctx context.Context, params ListParams, criteria PetCriteria) (*Page[Pet], error) {
	values := params.Values()
	if criteria.Query != "" {
		values.Set("query", criteria.Query)
	}
	if criteria.Species != "" {
		values.Set("species", string(criteria.Species))
	}
	if criteria.UserID != "" {
		values.Set("userId", criteria.UserID)
	}

	var resp pagedResponse[Pet]
	if err := s.api.Get(ctx, "/admin/pets", &resp, apiclient.WithQuery(values)); err != nil {
		return nil, errors.Wrap(err, "[PetsService.List] get")
	}
	page := resp.toPage()
	return &page, nil
}

func (s *PetsService) Get(ctx context.Context, id string) (*Pet, error) {
	var pet Pet
	if err := s.api.Get(ctx, "/admin/pets/"+id, &pet); err != nil {
		return nil, errors.Wrap(err, "[PetsService.Get] get")
	}
	return &pet, nil
}

func (s *PetsService) Create(ctx context.Context, req PetRequest) (*Pet, error) {
	var pet Pet
	if err := s.api.Post(ctx, "/admin/pets", req, &pet); err != nil {
		return nil, errors.Wrap(err, "[PetsService.Create] post")
	}
	return &pet, nil
}

func (s *PetsService) Update(ctx context.Context, id string, req PetRequest) (*Pet, error) {
	var pet Pet
	if err := s.api.Patch(ctx, "/admin/pets/"+id, req, &pet); err != nil {
		return nil, errors.Wrap(err, "[PetsService.Update] patch")
	}
	return &pet, nil
}

func (s *PetsService) Delete(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, "/admin/pets/"+id, nil); err != nil {
		return errors.Wrap(err, "[PetsService.Delete] delete")
	}
	return nil
}
