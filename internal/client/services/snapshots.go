package services

import (
	"context"

	"github.com/jobdeck/jobdeck-cli/internal/client/models"
)

// SnapshotInput is the admin create/update payload for an AI-generated
// market-insight snapshot. Generation happens server-side; the client only
// manages the records.
type SnapshotInput struct {
	Title      string   `json:"title" validate:"required"`
	Sector     string   `json:"sector,omitempty"`
	Period     string   `json:"period,omitempty"`
	Summary    string   `json:"summary" validate:"required"`
	Highlights []string `json:"highlights,omitempty"`
}

// SnapshotService wraps the public /snapshots listing and the admin CRUD.
type SnapshotService struct {
	gw Gateway
}

func NewSnapshotService(gw Gateway) *SnapshotService {
	return &SnapshotService{gw: gw}
}

func (s *SnapshotService) List(ctx context.Context, q models.Query) (models.Page[models.MarketSnapshot], error) {
	return list[models.MarketSnapshot](ctx, s.gw, "/snapshots", q)
}

func (s *SnapshotService) Get(ctx context.Context, id string) (models.MarketSnapshot, error) {
	var out models.MarketSnapshot
	if _, err := s.gw.Get(ctx, "/snapshots/"+id, nil, &out); err != nil {
		return models.MarketSnapshot{}, err
	}
	return out, nil
}

func (s *SnapshotService) Create(ctx context.Context, in SnapshotInput) (models.MarketSnapshot, error) {
	var out models.MarketSnapshot
	if err := s.gw.Post(ctx, "/admin/snapshots", in, &out); err != nil {
		return models.MarketSnapshot{}, err
	}
	return out, nil
}

func (s *SnapshotService) Update(ctx context.Context, id string, in SnapshotInput) (models.MarketSnapshot, error) {
	var out models.MarketSnapshot
	if err := s.gw.Put(ctx, "/admin/snapshots/"+id, in, &out); err != nil {
		return models.MarketSnapshot{}, err
	}
	return out, nil
}

func (s *SnapshotService) Delete(ctx context.Context, id string) error {
	return s.gw.Delete(ctx, "/admin/snapshots/"+id)
}
