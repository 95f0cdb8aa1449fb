package services

import (
	"context"

	"github.com/jobdeck/jobdeck-cli/internal/client/models"
)

// ChipTemplateInput is the admin create/update payload for a chip template.
type ChipTemplateInput struct {
	Name     string `json:"name" validate:"required"`
	Category string `json:"category,omitempty"`
	Color    string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

// ChipTemplateService wraps the admin chip-template CRUD endpoints.
type ChipTemplateService struct {
	gw Gateway
}

func NewChipTemplateService(gw Gateway) *ChipTemplateService {
	return &ChipTemplateService{gw: gw}
}

func (s *ChipTemplateService) List(ctx context.Context, q models.Query) (models.Page[models.ChipTemplate], error) {
	return list[models.ChipTemplate](ctx, s.gw, "/chip-templates", q)
}

func (s *ChipTemplateService) Create(ctx context.Context, in ChipTemplateInput) (models.ChipTemplate, error) {
	var out models.ChipTemplate
	if err := s.gw.Post(ctx, "/admin/chip-templates", in, &out); err != nil {
		return models.ChipTemplate{}, err
	}
	return out, nil
}

func (s *ChipTemplateService) Update(ctx context.Context, id string, in ChipTemplateInput) (models.ChipTemplate, error) {
	var out models.ChipTemplate
	if err := s.gw.Put(ctx, "/admin/chip-templates/"+id, in, &out); err != nil {
		return models.ChipTemplate{}, err
	}
	return out, nil
}

func (s *ChipTemplateService) Delete(ctx context.Context, id string) error {
	return s.gw.Delete(ctx, "/admin/chip-templates/"+id)
}

// ChipInput stamps a template onto a job.
type ChipInput struct {
	TemplateID string `json:"templateId" validate:"required"`
	JobID      string `json:"jobId" validate:"required"`
	Label      string `json:"label,omitempty"`
}

// ChipService wraps the admin chip-instance CRUD endpoints.
type ChipService struct {
	gw Gateway
}

func NewChipService(gw Gateway) *ChipService {
	return &ChipService{gw: gw}
}

func (s *ChipService) List(ctx context.Context, q models.Query) (models.Page[models.Chip], error) {
	return list[models.Chip](ctx, s.gw, "/chips", q)
}

func (s *ChipService) Create(ctx context.Context, in ChipInput) (models.Chip, error) {
	var out models.Chip
	if err := s.gw.Post(ctx, "/admin/chips", in, &out); err != nil {
		return models.Chip{}, err
	}
	return out, nil
}

func (s *ChipService) Update(ctx context.Context, id string, in ChipInput) (models.Chip, error) {
	var out models.Chip
	if err := s.gw.Put(ctx, "/admin/chips/"+id, in, &out); err != nil {
		return models.Chip{}, err
	}
	return out, nil
}

func (s *ChipService) Delete(ctx context.Context, id string) error {
	return s.gw.Delete(ctx, "/admin/chips/"+id)
}
