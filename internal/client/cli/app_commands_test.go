package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobdeck/jobdeck-cli/internal/client/api"
	"github.com/jobdeck/jobdeck-cli/internal/client/models"
	"github.com/jobdeck/jobdeck-cli/internal/client/services"
	"github.com/jobdeck/jobdeck-cli/internal/client/session"
	"github.com/jobdeck/jobdeck-cli/internal/client/store"
	"github.com/jobdeck/jobdeck-cli/internal/logging"
)

// fakeGateway routes service calls to test handlers.
type fakeGateway struct {
	get  func(path string, query url.Values, out any) (*api.Pagination, error)
	post func(path string, body, out any) error
	put  func(path string, body, out any) error
}

func (g *fakeGateway) Get(ctx context.Context, path string, query url.Values, out any) (*api.Pagination, error) {
	if g.get == nil {
		return nil, errors.New("unexpected GET " + path)
	}
	return g.get(path, query, out)
}

func (g *fakeGateway) Post(ctx context.Context, path string, body, out any) error {
	if g.post == nil {
		return errors.New("unexpected POST " + path)
	}
	return g.post(path, body, out)
}

func (g *fakeGateway) Put(ctx context.Context, path string, body, out any) error {
	if g.put == nil {
		return errors.New("unexpected PUT " + path)
	}
	return g.put(path, body, out)
}

func (g *fakeGateway) Delete(ctx context.Context, path string) error { return nil }

func (g *fakeGateway) Upload(ctx context.Context, method, path string, fields map[string]string, file api.UploadFile, out any) error {
	return nil
}

type fakeAuthAPI struct {
	result services.AuthResult
	err    error
}

func (f *fakeAuthAPI) Login(ctx context.Context, creds services.Credentials) (services.AuthResult, error) {
	return f.result, f.err
}

func (f *fakeAuthAPI) Register(ctx context.Context, in services.RegisterInput) (services.AuthResult, error) {
	return f.result, f.err
}

// sessAuth satisfies session.Authenticator without a network.
type sessAuth struct{}

func (sessAuth) Me(ctx context.Context) (models.User, error) { return models.User{}, nil }
func (sessAuth) Logout(ctx context.Context) error            { return nil }

func newTestApp(t *testing.T, gw services.Gateway, input io.Reader) *App {
	t.Helper()
	ctx := context.Background()

	db, err := store.Open(ctx, filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	if input == nil {
		input = strings.NewReader("")
	}

	a := &App{
		log:       logging.Nop(),
		db:        db,
		auth:      &fakeAuthAPI{},
		jobs:      services.NewJobService(gw),
		companies: services.NewCompanyService(gw),
		contacts:  services.NewContactService(gw),
		templates: services.NewChipTemplateService(gw),
		snapshots: services.NewSnapshotService(gw),
		users:     services.NewUserService(gw),
		stats:     services.NewStatsService(gw),
		session:   session.New(db.KV, sessAuth{}, nil),
		reader:    bufio.NewReader(input),
		out:       &bytes.Buffer{},
	}
	a.initViews()
	return a
}

func loginTestUser(t *testing.T, a *App, user models.User) {
	t.Helper()
	require.NoError(t, a.session.Login(context.Background(), user, "tok"))
}

func TestOpenListAndMore_Jobs(t *testing.T) {
	out := capturePrintln(t)
	gw := &fakeGateway{
		get: func(path string, query url.Values, dest any) (*api.Pagination, error) {
			require.Equal(t, "/jobs", path)
			page := 1
			if query.Get("page") == "2" {
				page = 2
			}
			jobs := dest.(*[]models.Job)
			if page == 1 {
				*jobs = []models.Job{{Title: "Go Engineer", CompanyName: "Acme", Locations: []string{"Peru"}}}
			} else {
				*jobs = []models.Job{{Title: "SRE", CompanyName: "Globex", Locations: []string{"Chile"}}}
			}
			return &api.Pagination{Page: page, Total: 2, TotalPages: 2}, nil
		},
	}
	a := newTestApp(t, gw, nil)
	ctx := context.Background()

	require.NoError(t, a.OpenList(ctx, "jobs"))
	require.NoError(t, a.More(ctx))

	joined := strings.Join(*out, "\n")
	assert.Contains(t, joined, "Go Engineer @ Acme")
	assert.Contains(t, joined, "SRE @ Globex")
	assert.Contains(t, joined, "page 2/2, 2 total")
}

func TestFilter_BadUsageMakesNoRequest(t *testing.T) {
	out := capturePrintln(t)
	var calls int
	gw := &fakeGateway{
		get: func(path string, query url.Values, dest any) (*api.Pagination, error) {
			calls++
			*(dest.(*[]models.Job)) = nil
			return &api.Pagination{Page: 1, Total: 0, TotalPages: 0}, nil
		},
	}
	a := newTestApp(t, gw, nil)
	ctx := context.Background()

	require.NoError(t, a.OpenList(ctx, "jobs"))
	before := calls
	require.NoError(t, a.Filter(ctx, []string{"location"}))

	assert.Equal(t, before, calls)
	assert.Contains(t, strings.Join(*out, "\n"), "Usage: filter")
}

func TestOpenList_AdminGate(t *testing.T) {
	out := capturePrintln(t)
	a := newTestApp(t, &fakeGateway{}, nil)

	require.NoError(t, a.OpenList(context.Background(), "users"))
	assert.Contains(t, strings.Join(*out, "\n"), "Admin access required")
}

func TestUnlock_Anonymous(t *testing.T) {
	out := capturePrintln(t)
	a := newTestApp(t, &fakeGateway{}, nil)
	a.lastContacts = []models.Contact{{ID: "ct1"}}

	require.NoError(t, a.Unlock(context.Background(), "1"))
	assert.Contains(t, strings.Join(*out, "\n"), "Please login first")
}

func TestUnlock_ByRowWithConfirmation(t *testing.T) {
	out := capturePrintln(t)
	gw := &fakeGateway{
		get: func(path string, query url.Values, dest any) (*api.Pagination, error) {
			require.Equal(t, "/contacts/status", path)
			require.Equal(t, "ct1", query.Get("contactId"))
			*(dest.(*services.UnlockStatus)) = services.UnlockStatus{UserCredits: 3}
			return nil, nil
		},
		post: func(path string, body, dest any) error {
			require.Equal(t, "/contacts/unlock", path)
			*(dest.(*services.UnlockResult)) = services.UnlockResult{
				Contact: models.Contact{
					ID: "ct1", Name: "Jane Doe", Position: "Recruiter",
					Email: "jane@acme.example", Phone: "+51 999 888 21", IsUnlocked: true,
				},
				CreditsRemaining: 2,
			}
			return nil
		},
	}
	a := newTestApp(t, gw, strings.NewReader("y\n"))
	loginTestUser(t, a, models.User{ID: "u1", Email: "u@x.test", Credits: 3})
	a.lastContacts = []models.Contact{{ID: "ct1", Name: "J*** D***"}}

	require.NoError(t, a.Unlock(context.Background(), "1"))

	joined := strings.Join(*out, "\n")
	assert.Contains(t, joined, "jane@acme.example")
	assert.Contains(t, joined, "Credits remaining: 2")

	// revealed contact landed in the cache
	cached, err := a.db.Contacts.Get(context.Background(), "ct1")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "Jane Doe", cached.Name)

	// session balance follows the server
	user, ok := a.session.Current()
	require.True(t, ok)
	assert.Equal(t, 2, user.Credits)
}

func TestUnlock_Declined(t *testing.T) {
	out := capturePrintln(t)
	gw := &fakeGateway{
		get: func(path string, query url.Values, dest any) (*api.Pagination, error) {
			*(dest.(*services.UnlockStatus)) = services.UnlockStatus{UserCredits: 1}
			return nil, nil
		},
		post: func(path string, body, dest any) error {
			t.Fatal("declining the confirmation must not spend")
			return nil
		},
	}
	a := newTestApp(t, gw, strings.NewReader("n\n"))
	loginTestUser(t, a, models.User{ID: "u1", Credits: 1})
	a.lastContacts = []models.Contact{{ID: "ct1"}}

	require.NoError(t, a.Unlock(context.Background(), "1"))
	assert.Contains(t, strings.Join(*out, "\n"), "Cancelled, nothing charged")
}

func TestLogin_PersistsSession(t *testing.T) {
	capturePrintln(t)
	origText, origPw := getSimpleText, getPassword
	getSimpleText = func(r *bufio.Reader, prompt string, w io.Writer) (string, error) {
		return "u@x.test", nil
	}
	getPassword = func(w io.Writer) (string, error) { return "pw", nil }
	t.Cleanup(func() { getSimpleText, getPassword = origText, origPw })

	a := newTestApp(t, &fakeGateway{}, nil)
	a.auth = &fakeAuthAPI{result: services.AuthResult{
		User:  models.User{ID: "u1", Email: "u@x.test", Credits: 10},
		Token: "tok-1",
	}}

	require.NoError(t, a.Login(context.Background()))

	assert.True(t, a.isLoggedIn())
	tok, err := a.db.KV.Get(context.Background(), store.KeyAuthToken)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", string(tok))
}

func TestLogout_ClearsUnlockCache(t *testing.T) {
	capturePrintln(t)
	a := newTestApp(t, &fakeGateway{}, nil)
	ctx := context.Background()

	loginTestUser(t, a, models.User{ID: "u1"})
	require.NoError(t, a.db.Contacts.Put(ctx, models.Contact{ID: "ct1", Name: "Jane"}))

	require.NoError(t, a.Logout(ctx))

	assert.False(t, a.isLoggedIn())
	cached, err := a.db.Contacts.Get(ctx, "ct1")
	require.NoError(t, err)
	assert.Nil(t, cached, "unlock cache is per-session state")
}

func TestGrantCredits(t *testing.T) {
	out := capturePrintln(t)
	gw := &fakeGateway{
		put: func(path string, body, dest any) error {
			require.Equal(t, "/admin/users/u2", path)
			*(dest.(*models.User)) = models.User{ID: "u2", Email: "other@x.test", Credits: 25}
			return nil
		},
	}
	a := newTestApp(t, gw, nil)
	loginTestUser(t, a, models.User{ID: "u1", Role: models.RoleSuperAdmin})

	require.NoError(t, a.GrantCredits(context.Background(), []string{"u2", "25"}))
	assert.Contains(t, strings.Join(*out, "\n"), "other@x.test now has 25 credits")
}

func TestGrantCredits_RequiresAdmin(t *testing.T) {
	out := capturePrintln(t)
	a := newTestApp(t, &fakeGateway{}, nil)
	loginTestUser(t, a, models.User{ID: "u1", Role: models.RoleUser})

	require.NoError(t, a.GrantCredits(context.Background(), []string{"u2", "25"}))
	assert.Contains(t, strings.Join(*out, "\n"), "Admin access required")
}
