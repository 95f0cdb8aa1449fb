package services

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jobdeck/jobdeck-cli/internal/client/api"
	"github.com/jobdeck/jobdeck-cli/internal/client/models"
)

// CompanyInput is the create/update payload for a company. Validation tags
// drive the client-side gate; the backend re-validates regardless.
type CompanyInput struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description,omitempty"`
	Website     string   `json:"website,omitempty" validate:"omitempty,url"`
	Industry    string   `json:"industry,omitempty"`
	Size        string   `json:"size,omitempty"`
	Locations   []string `json:"locations" validate:"required,min=1"`
}

// CompanyService wraps the public /companies listing and the admin CRUD
// endpoints, including the multipart variant used when a logo is staged.
type CompanyService struct {
	gw Gateway
}

func NewCompanyService(gw Gateway) *CompanyService {
	return &CompanyService{gw: gw}
}

func (s *CompanyService) List(ctx context.Context, q models.Query) (models.Page[models.Company], error) {
	return list[models.Company](ctx, s.gw, "/companies", q)
}

func (s *CompanyService) Get(ctx context.Context, id string) (models.Company, error) {
	var out models.Company
	if _, err := s.gw.Get(ctx, "/companies/"+id, nil, &out); err != nil {
		return models.Company{}, err
	}
	return out, nil
}

func (s *CompanyService) Create(ctx context.Context, in CompanyInput) (models.Company, error) {
	var out models.Company
	if err := s.gw.Post(ctx, "/admin/companies", in, &out); err != nil {
		return models.Company{}, err
	}
	return out, nil
}

func (s *CompanyService) Update(ctx context.Context, id string, in CompanyInput) (models.Company, error) {
	var out models.Company
	if err := s.gw.Put(ctx, "/admin/companies/"+id, in, &out); err != nil {
		return models.Company{}, err
	}
	return out, nil
}

// CreateWithLogo and UpdateWithLogo carry the same fields as their JSON
// counterparts, switched to multipart encoding for the staged logo file.

func (s *CompanyService) CreateWithLogo(ctx context.Context, in CompanyInput, logo api.UploadFile) (models.Company, error) {
	var out models.Company
	if err := s.gw.Upload(ctx, http.MethodPost, "/admin/companies", companyFields(in), logo, &out); err != nil {
		return models.Company{}, err
	}
	return out, nil
}

func (s *CompanyService) UpdateWithLogo(ctx context.Context, id string, in CompanyInput, logo api.UploadFile) (models.Company, error) {
	var out models.Company
	if err := s.gw.Upload(ctx, http.MethodPut, "/admin/companies/"+id, companyFields(in), logo, &out); err != nil {
		return models.Company{}, err
	}
	return out, nil
}

func (s *CompanyService) Delete(ctx context.Context, id string) error {
	return s.gw.Delete(ctx, "/admin/companies/"+id)
}

// companyFields flattens the input into multipart form fields. Locations
// travel as a JSON array in a single field, which is what the backend's
// multipart parser expects.
func companyFields(in CompanyInput) map[string]string {
	locs, _ := json.Marshal(in.Locations)
	f := map[string]string{
		"name":      in.Name,
		"locations": string(locs),
	}
	if in.Description != "" {
		f["description"] = in.Description
	}
	if in.Website != "" {
		f["website"] = in.Website
	}
	if in.Industry != "" {
		f["industry"] = in.Industry
	}
	if in.Size != "" {
		f["size"] = in.Size
	}
	return f
}
