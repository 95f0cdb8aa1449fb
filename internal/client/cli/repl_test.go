package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExec records which commands the REPL dispatched.
type fakeExec struct {
	loggedIn bool
	admin    bool
	calls    []string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) isAdmin() bool    { return f.admin }

func (f *fakeExec) record(name string) error { f.calls = append(f.calls, name); return nil }

func (f *fakeExec) Register(ctx context.Context) error { return f.record("register") }
func (f *fakeExec) Login(ctx context.Context) error    { return f.record("login") }
func (f *fakeExec) Logout(ctx context.Context) error   { return f.record("logout") }
func (f *fakeExec) Whoami(ctx context.Context) error   { return f.record("whoami") }

func (f *fakeExec) OpenList(ctx context.Context, resource string) error {
	return f.record("open:" + resource)
}
func (f *fakeExec) More(ctx context.Context) error   { return f.record("more") }
func (f *fakeExec) Reload(ctx context.Context) error { return f.record("reload") }
func (f *fakeExec) Search(ctx context.Context, term string) error {
	return f.record("search:" + term)
}
func (f *fakeExec) Filter(ctx context.Context, args []string) error {
	return f.record("filter:" + strings.Join(args, ","))
}
func (f *fakeExec) Unlock(ctx context.Context, arg string) error {
	return f.record("unlock:" + arg)
}
func (f *fakeExec) Stats(ctx context.Context) error { return f.record("stats") }
func (f *fakeExec) GrantCredits(ctx context.Context, args []string) error {
	return f.record("grant:" + strings.Join(args, ","))
}
func (f *fakeExec) NewCompany(ctx context.Context) error { return f.record("newcompany") }
func (f *fakeExec) NewJob(ctx context.Context) error     { return f.record("newjob") }

// capturePrintln redirects REPL output for the duration of a test.
func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(args ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(args...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func runScript(t *testing.T, a execIface, lines ...string) {
	t.Helper()
	scanner := bufio.NewScanner(strings.NewReader(strings.Join(lines, "\n")))
	runREPL(context.Background(), a, func() string { return "test" }, scanner)
}

func TestREPL_DispatchesCommands(t *testing.T) {
	capturePrintln(t)
	f := &fakeExec{loggedIn: true}

	runScript(t, f,
		"jobs",
		"search golang remote",
		"filter location=Peru seniority=senior",
		"more",
		"m",
		"reload",
		"contacts",
		"unlock 3",
		"whoami",
		"logout",
		"exit",
	)

	require.Equal(t, []string{
		"open:jobs",
		"search:golang remote",
		"filter:location=Peru,seniority=senior",
		"more",
		"more",
		"reload",
		"open:contacts",
		"unlock:3",
		"whoami",
		"logout",
	}, f.calls)
}

func TestREPL_AdminCommands(t *testing.T) {
	capturePrintln(t)
	f := &fakeExec{loggedIn: true, admin: true}

	runScript(t, f,
		"stats",
		"users",
		"grant u1 25",
		"newcompany",
		"newjob",
		"quit",
	)

	assert.Equal(t, []string{"stats", "open:users", "grant:u1,25", "newcompany", "newjob"}, f.calls)
}

func TestREPL_UnlockWithoutArgument(t *testing.T) {
	out := capturePrintln(t)
	f := &fakeExec{loggedIn: true}

	runScript(t, f, "unlock", "exit")

	assert.Empty(t, f.calls, "unlock without an argument never dispatches")
	assert.Contains(t, strings.Join(*out, "\n"), "Usage: unlock")
}

func TestREPL_UnknownCommandAndEOF(t *testing.T) {
	out := capturePrintln(t)
	f := &fakeExec{}

	// EOF without "exit" terminates the loop
	runScript(t, f, "frobnicate", "")

	assert.Empty(t, f.calls)
	assert.Contains(t, strings.Join(*out, "\n"), "Unknown command: frobnicate")
}

func TestREPL_HelpMatchesAuthState(t *testing.T) {
	out := capturePrintln(t)
	runScript(t, &fakeExec{}, "help", "exit")
	joined := strings.Join(*out, "\n")
	assert.Contains(t, joined, "register, login")
	assert.NotContains(t, joined, "unlock")
}
