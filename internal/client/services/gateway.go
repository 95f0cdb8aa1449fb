// Package services contains the typed resource services of the JobDeck
// client. Each service is a thin request builder over the API gateway:
// filter/pagination parameters become query strings, inputs become JSON or
// multipart payloads, and responses decode into model types. No business
// logic lives here.
package services

import (
	"context"
	"net/url"
	"sort"
	"strconv"

	"github.com/jobdeck/jobdeck-cli/internal/client/api"
	"github.com/jobdeck/jobdeck-cli/internal/client/models"
)

// Gateway is the transport surface the services need. *api.Client
// implements it; tests may substitute a fake.
type Gateway interface {
	Get(ctx context.Context, path string, query url.Values, out any) (*api.Pagination, error)
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string) error
	Upload(ctx context.Context, method, path string, fields map[string]string, file api.UploadFile, out any) error
}

// toValues translates a Query into the wire parameters every list endpoint
// accepts: page, limit, search, then the filter keys in sorted order so the
// produced URL is deterministic.
func toValues(q models.Query) url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	keys := make([]string, 0, len(q.Filters))
	for k := range q.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if q.Filters[k] != "" {
			v.Set(k, q.Filters[k])
		}
	}
	return v
}

// list fetches one page of T from a list endpoint and folds the pagination
// meta into the result. A response without meta yields a single-page result.
func list[T any](ctx context.Context, gw Gateway, path string, q models.Query) (models.Page[T], error) {
	var items []T
	pg, err := gw.Get(ctx, path, toValues(q), &items)
	if err != nil {
		return models.Page[T]{}, err
	}
	page := models.Page[T]{Items: items, Page: q.Page}
	if page.Page == 0 {
		page.Page = 1
	}
	if pg != nil {
		page.Page = pg.Page
		page.Total = pg.Total
		page.TotalPages = pg.TotalPages
	} else {
		page.Total = len(items)
		page.TotalPages = 1
	}
	return page, nil
}
