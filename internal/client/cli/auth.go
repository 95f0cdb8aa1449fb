package cli

import (
	"context"
	"fmt"

	"github.com/jobdeck/jobdeck-cli/internal/client/services"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for the account fields and creates a new account. A
// successful registration logs the user straight in, same as the web app.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	firstName, err := getSimpleText(a.reader, "First name", a.out)
	if err != nil {
		return err
	}
	lastName, err := getSimpleText(a.reader, "Last name", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	res, err := a.auth.Register(ctx, services.RegisterInput{
		Email:     email,
		Password:  password,
		FirstName: firstName,
		LastName:  lastName,
	})
	if err != nil {
		printlnFn("Registration failed:", err.Error())
		return err
	}

	if err := a.session.Login(ctx, res.User, res.Token); err != nil {
		return err
	}
	printlnFn("Welcome,", res.User.FullName())
	return nil
}

// Login prompts for credentials and authenticates. On success the session
// persists the identity so the next start restores it without a login.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	res, err := a.auth.Login(ctx, services.Credentials{Email: email, Password: password})
	if err != nil {
		printlnFn("Login failed:", err.Error())
		return err
	}

	if err := a.session.Login(ctx, res.User, res.Token); err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Logged in as %s (%d credits)", res.User.Email, res.User.Credits))
	return nil
}

// Logout ends the session. Local state is cleared even when the server
// call fails.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	if err := a.db.Contacts.Clear(ctx); err != nil {
		a.log.Warn(ctx, "failed to clear unlock cache", "err", err)
	}
	printlnFn("Logged out")
	return nil
}

// Whoami prints the session identity and credit balance.
func (a *App) Whoami(ctx context.Context) error {
	user, ok := a.session.Current()
	if !ok {
		printlnFn("Not logged in")
		return nil
	}
	printlnFn(fmt.Sprintf("%s <%s> role=%s credits=%d", user.FullName(), user.Email, user.Role, user.Credits))
	return nil
}
