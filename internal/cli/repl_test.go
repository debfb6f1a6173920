package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/dmitrijs2005/drscreen/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool

	calls    []string
	path     string
	deleteID int64
	err      error
}

func (f *fakeExec) record(name string) error {
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeExec) isLoggedIn() bool             { return f.loggedIn }
func (f *fakeExec) Signup(context.Context) error { return f.record("signup") }
func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Analyze(_ context.Context, path string) error {
	f.path = path
	return f.record("analyze")
}
func (f *fakeExec) History(context.Context) error { return f.record("history") }
func (f *fakeExec) Summary(context.Context) error { return f.record("summary") }
func (f *fakeExec) Delete(_ context.Context, id int64) error {
	f.deleteID = id
	return f.record("delete")
}
func (f *fakeExec) Profile(context.Context) error       { return f.record("profile") }
func (f *fakeExec) EditProfile(context.Context) error   { return f.record("editprofile") }
func (f *fakeExec) Passwd(context.Context) error        { return f.record("passwd") }
func (f *fakeExec) DeleteAccount(context.Context) error { return f.record("deleteaccount") }
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}

// captureREPL redirects REPL output into a buffer for the test's duration.
func captureREPL(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	origPrintln, origPrint := printlnFn, printFn
	printlnFn = func(a ...any) (int, error) { return fmt.Fprintln(&buf, a...) }
	printFn = func(a ...any) (int, error) { return fmt.Fprint(&buf, a...) }
	t.Cleanup(func() { printlnFn, printFn = origPrintln, origPrint })
	return &buf
}

func lines(s ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(s, "\n") + "\n"))
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	out := captureREPL(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, lines(
		"help",
		"login",
		"help",
		"analyze /tmp/my scans/eye 1.png",
		"history",
		"summary",
		"delete 42",
		"profile",
		"editprofile",
		"passwd",
		"logout",
		"exit",
		"history",
	))

	assert.Equal(t, []string{
		"login", "analyze", "history", "summary", "delete",
		"profile", "editprofile", "passwd", "logout",
	}, exec.calls)
	assert.Equal(t, "/tmp/my scans/eye 1.png", exec.path)
	assert.Equal(t, int64(42), exec.deleteID)
	assert.Contains(t, out.String(), "Available commands: signup, login, exit")
	assert.Contains(t, out.String(), "Available commands: analyze <path>")
	assert.Contains(t, out.String(), "Bye!")
}

func TestRunREPL_RequiresLogin(t *testing.T) {
	out := captureREPL(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, lines("history", "analyze x.png", "deleteaccount"))

	assert.Empty(t, exec.calls)
	assert.Equal(t, 3, strings.Count(out.String(), "Please log in first."))
}

func TestRunREPL_UsageAndUnknown(t *testing.T) {
	out := captureREPL(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "(bob) " }, lines("analyze", "delete", "delete abc", "frobnicate", "quit"))

	assert.Empty(t, exec.calls)
	s := out.String()
	assert.Contains(t, s, "Usage: analyze <path>")
	assert.Equal(t, 2, strings.Count(s, "Usage: delete <id>"))
	assert.Contains(t, s, "Unknown command: frobnicate")
	assert.Contains(t, s, "drscreen (bob) > ")
}

func TestRunREPL_ShowsErrorMessagesAndContinues(t *testing.T) {
	out := captureREPL(t)

	exec := &fakeExec{loggedIn: true, err: common.ErrorNotFound}
	runREPL(context.Background(), exec, func() string { return "" }, lines("delete 7", "history"))

	require.Equal(t, []string{"delete", "history"}, exec.calls)
	assert.Equal(t, 2, strings.Count(out.String(), "Error: The requested record was not found."))
}

func TestRunREPL_LastLineWithoutNewline(t *testing.T) {
	captureREPL(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("summary")))

	assert.Equal(t, []string{"summary"}, exec.calls)
}
