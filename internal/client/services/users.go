package services

import (
	"context"

	"github.com/jobdeck/jobdeck-cli/internal/client/models"
)

// UserUpdateInput is the admin payload for adjusting an account. Credits
// set here are an admin grant; only the unlock flow spends them.
type UserUpdateInput struct {
	Role     models.Role `json:"role,omitempty" validate:"omitempty,oneof=user company_admin super_admin"`
	Credits  *int        `json:"credits,omitempty" validate:"omitempty,gte=0"`
	IsActive *bool       `json:"isActive,omitempty"`
}

// UserService wraps the admin /admin/users endpoints.
type UserService struct {
	gw Gateway
}

func NewUserService(gw Gateway) *UserService {
	return &UserService{gw: gw}
}

func (s *UserService) List(ctx context.Context, q models.Query) (models.Page[models.User], error) {
	return list[models.User](ctx, s.gw, "/admin/users", q)
}

func (s *UserService) Update(ctx context.Context, id string, in UserUpdateInput) (models.User, error) {
	var out models.User
	if err := s.gw.Put(ctx, "/admin/users/"+id, in, &out); err != nil {
		return models.User{}, err
	}
	return out, nil
}

func (s *UserService) Deactivate(ctx context.Context, id string) error {
	return s.gw.Delete(ctx, "/admin/users/"+id)
}

// StatsService wraps the back-office dashboard aggregate.
type StatsService struct {
	gw Gateway
}

func NewStatsService(gw Gateway) *StatsService {
	return &StatsService{gw: gw}
}

func (s *StatsService) Overview(ctx context.Context) (models.AdminStats, error) {
	var out models.AdminStats
	if _, err := s.gw.Get(ctx, "/admin/stats", nil, &out); err != nil {
		return models.AdminStats{}, err
	}
	return out, nil
}
