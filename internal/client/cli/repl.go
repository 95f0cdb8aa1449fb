package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error

	OpenList(ctx context.Context, resource string) error
	More(ctx context.Context) error
	Reload(ctx context.Context) error
	Search(ctx context.Context, term string) error
	Filter(ctx context.Context, args []string) error

	Unlock(ctx context.Context, arg string) error

	Stats(ctx context.Context) error
	GrantCredits(ctx context.Context, args []string) error
	NewCompany(ctx context.Context) error
	NewJob(ctx context.Context) error
}

// runREPL starts a read-eval-print loop for the JobDeck CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
//	Anonymous:
//	  - help                     — show available commands
//	  - register | login         — account access
//	  - jobs | companies         — browse public listings
//	  - contacts | snapshots     — browse public listings
//	  - search <term>            — search within the open listing
//	  - filter k=v [k=v ...]     — filter the open listing
//	  - more | reload            — page through / refresh the listing
//	  - exit | quit              — leave the program
//
//	Logged in, additionally:
//	  - whoami                   — show identity and credit balance
//	  - unlock <row|id>          — spend a credit to reveal a contact
//	  - logout
//
//	Admins, additionally:
//	  - stats                    — back-office dashboard numbers
//	  - users                    — list accounts
//	  - grant <userId> <credits> — set an account's credit balance
//	  - newcompany | newjob      — create entities interactively
//
// Errors returned by command handlers are printed by the handlers
// themselves; the loop only keeps reading.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("jd> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printHelp(a)

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "jobs", "companies", "contacts", "snapshots", "users", "templates":
			_ = a.OpenList(ctx, cmd)

		case "more", "m":
			_ = a.More(ctx)

		case "reload", "r":
			_ = a.Reload(ctx)

		case "search":
			_ = a.Search(ctx, strings.Join(args, " "))

		case "filter":
			_ = a.Filter(ctx, args)

		case "unlock":
			if len(args) == 0 {
				printlnFn("Usage: unlock <row|contactId>")
				continue
			}
			_ = a.Unlock(ctx, args[0])

		case "stats":
			_ = a.Stats(ctx)

		case "grant":
			_ = a.GrantCredits(ctx, args)

		case "newcompany":
			_ = a.NewCompany(ctx)

		case "newjob":
			_ = a.NewJob(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func printHelp(a execIface) {
	printlnFn("Browse: jobs, companies, contacts, snapshots; then search <term>, filter k=v, (m)ore, (r)eload")
	if !a.isLoggedIn() {
		printlnFn("Account: register, login, exit")
		return
	}
	printlnFn("Account: whoami, unlock <row|id>, logout, exit")
	if a.isAdmin() {
		printlnFn("Admin: stats, users, grant <userId> <credits>, newcompany, newjob")
	}
}
