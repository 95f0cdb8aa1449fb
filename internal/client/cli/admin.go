package cli

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jobdeck/jobdeck-cli/internal/client/api"
	"github.com/jobdeck/jobdeck-cli/internal/client/formctrl"
	"github.com/jobdeck/jobdeck-cli/internal/client/services"
)

// Stats prints the back-office dashboard aggregate.
func (a *App) Stats(ctx context.Context) error {
	if !a.isAdmin() {
		printlnFn("Admin access required")
		return nil
	}
	st, err := a.stats.Overview(ctx)
	if err != nil {
		printlnFn("Stats failed:", err.Error())
		return err
	}
	printlnFn(fmt.Sprintf("users=%d companies=%d jobs=%d contacts=%d", st.TotalUsers, st.TotalCompanies, st.TotalJobs, st.TotalContacts))
	printlnFn(fmt.Sprintf("unlocks today=%d credits spent=%d", st.UnlocksToday, st.CreditsSpent))
	return nil
}

// GrantCredits sets an account's credit balance: grant <userId> <credits>.
func (a *App) GrantCredits(ctx context.Context, args []string) error {
	if !a.isAdmin() {
		printlnFn("Admin access required")
		return nil
	}
	if len(args) != 2 {
		printlnFn("Usage: grant <userId> <credits>")
		return nil
	}
	credits, err := strconv.Atoi(args[1])
	if err != nil || credits < 0 {
		printlnFn("Credits must be a non-negative number")
		return nil
	}

	user, err := a.users.Update(ctx, args[0], services.UserUpdateInput{Credits: &credits})
	if err != nil {
		printlnFn("Grant failed:", err.Error())
		return err
	}
	printlnFn(fmt.Sprintf("%s now has %d credits", user.Email, user.Credits))
	return nil
}

// NewCompany creates a company interactively, with an optional logo upload.
func (a *App) NewCompany(ctx context.Context) error {
	if !a.isAdmin() {
		printlnFn("Admin access required")
		return nil
	}

	form := formctrl.New(formctrl.Config[services.CompanyInput]{
		Defaults: func() services.CompanyInput { return services.CompanyInput{} },
		Create: func(ctx context.Context, d services.CompanyInput) error {
			_, err := a.companies.Create(ctx, d)
			return err
		},
		CreateWithFile: func(ctx context.Context, d services.CompanyInput, f api.UploadFile) error {
			_, err := a.companies.CreateWithLogo(ctx, d, f)
			return err
		},
		Update: func(ctx context.Context, id string, d services.CompanyInput) error {
			_, err := a.companies.Update(ctx, id, d)
			return err
		},
		OnSaved: func() { printlnFn("Company created") },
		Log:     a.log,
	})
	form.OpenCreate()

	name, err := getSimpleText(a.reader, "Company name", a.out)
	if err != nil {
		return err
	}
	description, err := getSimpleText(a.reader, "Description", a.out)
	if err != nil {
		return err
	}
	website, err := getSimpleText(a.reader, "Website", a.out)
	if err != nil {
		return err
	}
	locations, err := GetList(a.reader, "Locations", a.out)
	if err != nil {
		return err
	}
	form.Set(func(d *services.CompanyInput) {
		d.Name = name
		d.Description = description
		d.Website = website
		d.Locations = locations
	})

	logoPath, err := getSimpleText(a.reader, "Logo file path (empty to skip)", a.out)
	if err != nil {
		return err
	}
	if logoPath != "" {
		file, err := readUpload(logoPath)
		if err != nil {
			printlnFn("Logo not staged:", err.Error())
			return nil
		}
		if err := form.StageFile(file); err != nil {
			printlnFn("Logo not staged:", err.Error())
			return nil
		}
	}

	return a.submitForm(ctx, func(ctx context.Context) error { return form.Submit(ctx) }, func() map[string][]string {
		return form.Snapshot().FieldErrors
	})
}

// NewJob creates a job posting interactively.
func (a *App) NewJob(ctx context.Context) error {
	if !a.isAdmin() {
		printlnFn("Admin access required")
		return nil
	}

	form := formctrl.New(formctrl.Config[services.JobInput]{
		Defaults: func() services.JobInput { return services.JobInput{IsActive: true} },
		Create: func(ctx context.Context, d services.JobInput) error {
			_, err := a.jobs.Create(ctx, d)
			return err
		},
		Update: func(ctx context.Context, id string, d services.JobInput) error {
			_, err := a.jobs.Update(ctx, id, d)
			return err
		},
		OnSaved: func() { printlnFn("Job created") },
		Log:     a.log,
	})
	form.OpenCreate()

	title, err := getSimpleText(a.reader, "Job title", a.out)
	if err != nil {
		return err
	}
	companyID, err := getSimpleText(a.reader, "Company id", a.out)
	if err != nil {
		return err
	}
	locations, err := GetList(a.reader, "Locations", a.out)
	if err != nil {
		return err
	}
	seniority, err := getSimpleText(a.reader, "Seniority (junior/mid/senior/lead, empty to skip)", a.out)
	if err != nil {
		return err
	}
	form.Set(func(d *services.JobInput) {
		d.Title = title
		d.CompanyID = companyID
		d.Locations = locations
		d.Seniority = seniority
	})

	return a.submitForm(ctx, func(ctx context.Context) error { return form.Submit(ctx) }, func() map[string][]string {
		return form.Snapshot().FieldErrors
	})
}

// submitForm runs a form submission and prints any field-level rejections,
// from the local gate or from the backend, in a uniform way.
func (a *App) submitForm(ctx context.Context, submit func(context.Context) error, fieldErrs func() map[string][]string) error {
	err := submit(ctx)
	if err == nil {
		return nil
	}
	for field, msgs := range fieldErrs() {
		for _, msg := range msgs {
			printlnFn(fmt.Sprintf("  %s: %s", field, msg))
		}
	}
	printlnFn("Not saved:", err.Error())
	return err
}

// readUpload loads a file from disk into an upload part, inferring the
// content type from the extension.
func readUpload(path string) (api.UploadFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return api.UploadFile{}, err
	}
	contentType := mime.TypeByExtension(filepath.Ext(path))
	return api.UploadFile{
		Field:       "logo",
		Name:        filepath.Base(path),
		ContentType: contentType,
		Data:        data,
	}, nil
}
