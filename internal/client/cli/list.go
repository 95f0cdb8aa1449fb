package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/jobdeck/jobdeck-cli/internal/client/listctrl"
	"github.com/jobdeck/jobdeck-cli/internal/client/models"
)

const pageSize = 10

// listView erases the controller's item type so the paging commands can act
// on whichever listing is open.
type listView struct {
	adminOnly bool
	load      func(ctx context.Context) error
	more      func(ctx context.Context) error
	reload    func(ctx context.Context) error
	search    func(ctx context.Context, term string) error
	filter    func(ctx context.Context, filters map[string]string) error
	render    func()
}

// newListView binds a controller and its renderer into a type-erased view.
func newListView[T any](c *listctrl.Controller[T], render func(listctrl.Snapshot[T])) *listView {
	return &listView{
		load:   c.Load,
		more:   c.LoadMore,
		reload: c.Reload,
		search: c.SetSearch,
		filter: c.SetFilters,
		render: func() { render(c.Snapshot()) },
	}
}

func (a *App) initViews() {
	a.views = map[string]*listView{
		"jobs": newListView(
			listctrl.New(a.jobs.List, pageSize, a.log),
			a.renderJobs),
		"companies": newListView(
			listctrl.New(a.companies.List, pageSize, a.log),
			a.renderCompanies),
		"contacts": newListView(
			listctrl.New(a.contacts.List, pageSize, a.log),
			a.renderContacts),
		"snapshots": newListView(
			listctrl.New(a.snapshots.List, pageSize, a.log),
			a.renderSnapshots),
		"users": newListView(
			listctrl.New(a.users.List, pageSize, a.log),
			a.renderUsers),
		"templates": newListView(
			listctrl.New(a.templates.List, pageSize, a.log),
			a.renderTemplates),
	}
	a.views["users"].adminOnly = true
	a.views["templates"].adminOnly = true
}

// OpenList makes the named resource the active listing and loads its first
// page with fresh filters.
func (a *App) OpenList(ctx context.Context, resource string) error {
	view, ok := a.views[resource]
	if !ok {
		printlnFn("Unknown listing:", resource)
		return nil
	}
	if view.adminOnly && !a.isAdmin() {
		printlnFn("Admin access required")
		return nil
	}
	a.activeView = resource
	if err := view.load(ctx); err != nil {
		printlnFn("Load failed:", err.Error())
		return err
	}
	view.render()
	return nil
}

func (a *App) active() *listView {
	if a.activeView == "" {
		return nil
	}
	return a.views[a.activeView]
}

// More appends the next page of the open listing.
func (a *App) More(ctx context.Context) error {
	view := a.active()
	if view == nil {
		printlnFn("No listing open; try: jobs")
		return nil
	}
	if err := view.more(ctx); err != nil {
		printlnFn("Load failed:", err.Error())
		return err
	}
	view.render()
	return nil
}

// Reload refetches the open listing's current page, e.g. after a mutation.
func (a *App) Reload(ctx context.Context) error {
	view := a.active()
	if view == nil {
		printlnFn("No listing open; try: jobs")
		return nil
	}
	if err := view.reload(ctx); err != nil {
		printlnFn("Reload failed:", err.Error())
		return err
	}
	view.render()
	return nil
}

// Search applies a search term to the open listing, resetting it to page 1.
func (a *App) Search(ctx context.Context, term string) error {
	view := a.active()
	if view == nil {
		printlnFn("No listing open; try: jobs")
		return nil
	}
	if err := view.search(ctx, term); err != nil {
		printlnFn("Search failed:", err.Error())
		return err
	}
	view.render()
	return nil
}

// Filter parses k=v pairs and applies them to the open listing. An empty
// argument list clears the filters.
func (a *App) Filter(ctx context.Context, args []string) error {
	view := a.active()
	if view == nil {
		printlnFn("No listing open; try: jobs")
		return nil
	}
	filters := map[string]string{}
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			printlnFn("Usage: filter key=value [key=value ...]")
			return nil
		}
		filters[k] = v
	}
	if err := view.filter(ctx, filters); err != nil {
		printlnFn("Filter failed:", err.Error())
		return err
	}
	view.render()
	return nil
}

func renderFooter[T any](snap listctrl.Snapshot[T]) {
	printlnFn(fmt.Sprintf("-- page %d/%d, %d total --", snap.Page, snap.TotalPages, snap.Total))
}

func (a *App) renderJobs(snap listctrl.Snapshot[models.Job]) {
	for i, j := range snap.Items {
		salary := ""
		if j.SalaryMax > 0 {
			salary = fmt.Sprintf(" %d-%d", j.SalaryMin, j.SalaryMax)
		}
		printlnFn(fmt.Sprintf("%3d. %s @ %s [%s]%s", i+1, j.Title, j.CompanyName, strings.Join(j.Locations, ","), salary))
	}
	renderFooter(snap)
}

func (a *App) renderCompanies(snap listctrl.Snapshot[models.Company]) {
	for i, c := range snap.Items {
		verified := ""
		if c.IsVerified {
			verified = " *"
		}
		printlnFn(fmt.Sprintf("%3d. %s (%s) [%s]%s", i+1, c.Name, c.Industry, strings.Join(c.Locations, ","), verified))
	}
	renderFooter(snap)
}

// renderContacts masks locked rows and remembers the rendered order so
// `unlock <row>` can address a contact by number.
func (a *App) renderContacts(snap listctrl.Snapshot[models.Contact]) {
	a.lastContacts = snap.Items
	for i, c := range snap.Items {
		shown := c
		if !c.IsUnlocked {
			shown = c.Masked()
		}
		state := "locked"
		if c.IsUnlocked {
			state = "unlocked"
		}
		printlnFn(fmt.Sprintf("%3d. %s, %s — %s %s [%s]", i+1, shown.Name, shown.Position, shown.Email, shown.Phone, state))
	}
	renderFooter(snap)
}

func (a *App) renderSnapshots(snap listctrl.Snapshot[models.MarketSnapshot]) {
	for i, s := range snap.Items {
		printlnFn(fmt.Sprintf("%3d. %s (%s, %s)", i+1, s.Title, s.Sector, s.Period))
	}
	renderFooter(snap)
}

func (a *App) renderUsers(snap listctrl.Snapshot[models.User]) {
	for i, u := range snap.Items {
		printlnFn(fmt.Sprintf("%3d. %s <%s> role=%s credits=%d active=%t", i+1, u.ID, u.Email, u.Role, u.Credits, u.IsActive))
	}
	renderFooter(snap)
}

func (a *App) renderTemplates(snap listctrl.Snapshot[models.ChipTemplate]) {
	for i, tpl := range snap.Items {
		printlnFn(fmt.Sprintf("%3d. %s (%s) %s", i+1, tpl.Name, tpl.Category, tpl.Color))
	}
	renderFooter(snap)
}
