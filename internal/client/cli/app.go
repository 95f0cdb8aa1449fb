package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/jobdeck/jobdeck-cli/internal/client/api"
	"github.com/jobdeck/jobdeck-cli/internal/client/config"
	"github.com/jobdeck/jobdeck-cli/internal/client/models"
	"github.com/jobdeck/jobdeck-cli/internal/client/services"
	"github.com/jobdeck/jobdeck-cli/internal/client/session"
	"github.com/jobdeck/jobdeck-cli/internal/client/store"
	"github.com/jobdeck/jobdeck-cli/internal/logging"
)

// authAPI is the slice of the auth service the CLI handlers need. The real
// *services.AuthService satisfies it; tests provide a stub.
type authAPI interface {
	Login(ctx context.Context, creds services.Credentials) (services.AuthResult, error)
	Register(ctx context.Context, in services.RegisterInput) (services.AuthResult, error)
}

// App owns the wired client stack and the interactive command handlers.
type App struct {
	cfg *config.Config
	log logging.Logger

	db      *store.Store
	gateway *api.Client

	auth      authAPI
	jobs      *services.JobService
	companies *services.CompanyService
	contacts  *services.ContactService
	templates *services.ChipTemplateService
	snapshots *services.SnapshotService
	users     *services.UserService
	stats     *services.StatsService

	session *session.Store

	reader *bufio.Reader
	out    io.Writer

	// listing state: one controller per resource, the one the paging
	// commands act on, and the contacts of the last render so `unlock <n>`
	// can address them by row number.
	views        map[string]*listView
	activeView   string
	lastContacts []models.Contact
}

// NewApp wires the full client: local state database, gateway, resource
// services and the session store, with the 401 observer and token source
// connected both ways.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.Nop()
	}

	db, err := store.Open(ctx, cfg.DatabaseDSN())
	if err != nil {
		return nil, err
	}

	gateway := api.New(cfg.APIBaseURL,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithLogger(log),
	)

	auth := services.NewAuthService(gateway)
	sess := session.New(db.KV, auth, log)

	// the session owns the token; any 401 anywhere invalidates it
	gateway.SetTokenSource(sess)
	gateway.OnUnauthorized(sess.HandleUnauthorized)

	a := &App{
		cfg:       cfg,
		log:       log,
		db:        db,
		gateway:   gateway,
		auth:      auth,
		jobs:      services.NewJobService(gateway),
		companies: services.NewCompanyService(gateway),
		contacts:  services.NewContactService(gateway),
		templates: services.NewChipTemplateService(gateway),
		snapshots: services.NewSnapshotService(gateway),
		users:     services.NewUserService(gateway),
		stats:     services.NewStatsService(gateway),
		session:   sess,
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
	}
	a.initViews()
	return a, nil
}

// Run restores the persisted session and enters the REPL.
func (a *App) Run(ctx context.Context) error {
	defer a.db.Close()

	if err := a.session.Init(ctx); err != nil {
		return err
	}
	if user, ok := a.session.Current(); ok {
		printlnFn("Welcome back,", user.FullName())
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) isAdmin() bool {
	user, ok := a.session.Current()
	return ok && user.Role.IsAdmin()
}

// status renders the prompt suffix: who is logged in and their balance.
func (a *App) status() string {
	user, ok := a.session.Current()
	if !ok {
		return "anonymous"
	}
	return user.Email
}
