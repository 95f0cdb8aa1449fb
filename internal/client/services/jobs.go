package services

import (
	"context"

	"github.com/jobdeck/jobdeck-cli/internal/client/models"
)

// JobInput is the create/update payload for a job posting.
type JobInput struct {
	Title       string   `json:"title" validate:"required"`
	CompanyID   string   `json:"companyId" validate:"required"`
	ParentID    string   `json:"parentId,omitempty"`
	Description string   `json:"description,omitempty"`
	Locations   []string `json:"locations" validate:"required,min=1"`
	SalaryMin   int      `json:"salaryMin,omitempty" validate:"omitempty,gte=0"`
	SalaryMax   int      `json:"salaryMax,omitempty" validate:"omitempty,gtefield=SalaryMin"`
	Seniority   string   `json:"seniority,omitempty" validate:"omitempty,oneof=junior mid senior lead"`
	Tags        []string `json:"tags,omitempty"`
	IsActive    bool     `json:"isActive"`
}

// JobService wraps the public /jobs listing and the admin CRUD endpoints.
type JobService struct {
	gw Gateway
}

func NewJobService(gw Gateway) *JobService {
	return &JobService{gw: gw}
}

func (s *JobService) List(ctx context.Context, q models.Query) (models.Page[models.Job], error) {
	return list[models.Job](ctx, s.gw, "/jobs", q)
}

// ListChildren lists the child postings of a parent job, reusing the list
// endpoint with a parentId filter.
func (s *JobService) ListChildren(ctx context.Context, parentID string, q models.Query) (models.Page[models.Job], error) {
	if q.Filters == nil {
		q.Filters = map[string]string{}
	}
	q.Filters["parentId"] = parentID
	return list[models.Job](ctx, s.gw, "/jobs", q)
}

func (s *JobService) Get(ctx context.Context, id string) (models.Job, error) {
	var out models.Job
	if _, err := s.gw.Get(ctx, "/jobs/"+id, nil, &out); err != nil {
		return models.Job{}, err
	}
	return out, nil
}

func (s *JobService) Create(ctx context.Context, in JobInput) (models.Job, error) {
	var out models.Job
	if err := s.gw.Post(ctx, "/admin/jobs", in, &out); err != nil {
		return models.Job{}, err
	}
	return out, nil
}

func (s *JobService) Update(ctx context.Context, id string, in JobInput) (models.Job, error) {
	var out models.Job
	if err := s.gw.Put(ctx, "/admin/jobs/"+id, in, &out); err != nil {
		return models.Job{}, err
	}
	return out, nil
}

func (s *JobService) Delete(ctx context.Context, id string) error {
	return s.gw.Delete(ctx, "/admin/jobs/"+id)
}
