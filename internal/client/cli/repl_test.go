package cli

import (
	"bufio"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool

	calls    []string
	args     []string
	reported []error
	fail     error
}

func (f *fakeExec) record(name string, args ...string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, strings.Join(args, ","))
	return f.fail
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) report(_ context.Context, err error) {
	f.reported = append(f.reported, err)
}

func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) Whoami(context.Context) error { return f.record("whoami") }

func (f *fakeExec) Navigate(_ context.Context, path string) error { return f.record("go", path) }
func (f *fakeExec) Nav(_ context.Context, group string) error     { return f.record("nav", group) }
func (f *fakeExec) Theme(_ context.Context, v string) error       { return f.record("theme", v) }
func (f *fakeExec) Menu(_ context.Context, v string) error        { return f.record("menu", v) }
func (f *fakeExec) Width(_ context.Context, v string) error       { return f.record("width", v) }
func (f *fakeExec) Branch(_ context.Context, id string) error     { return f.record("branch", id) }
func (f *fakeExec) Prefs(_ context.Context, args []string) error {
	return f.record("prefs", args...)
}

func (f *fakeExec) Search(_ context.Context, text string) error { return f.record("search", text) }
func (f *fakeExec) Filter(_ context.Context, k, v string) error { return f.record("filter", k, v) }
func (f *fakeExec) Clear(context.Context) error                 { return f.record("clear") }
func (f *fakeExec) Refresh(context.Context) error               { return f.record("refresh") }

func (f *fakeExec) Add(context.Context) error                  { return f.record("add") }
func (f *fakeExec) Edit(_ context.Context, id string) error    { return f.record("edit", id) }
func (f *fakeExec) Show(_ context.Context, id string) error    { return f.record("show", id) }
func (f *fakeExec) Actions(_ context.Context, id string) error { return f.record("actions", id) }
func (f *fakeExec) Archive(_ context.Context, id string) error { return f.record("archive", id) }
func (f *fakeExec) Restore(_ context.Context, id string) error { return f.record("restore", id) }
func (f *fakeExec) Delete(_ context.Context, id string) error  { return f.record("delete", id) }

func (f *fakeExec) Enroll(_ context.Context, s, g string) error { return f.record("enroll", s, g) }
func (f *fakeExec) Pay(context.Context) error                   { return f.record("pay") }
func (f *fakeExec) Profile(context.Context) error               { return f.record("profile") }
func (f *fakeExec) Password(context.Context) error              { return f.record("password") }
func (f *fakeExec) Find(_ context.Context, text string) error   { return f.record("find", text) }

// capturePrint collects everything printed through printlnFn.
func capturePrint(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, len(a))
		for i, v := range a {
			parts[i], _ = v.(string)
		}
		lines = append(lines, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func runLines(exec *fakeExec, lines ...string) {
	reader := bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	runREPL(context.Background(), exec, func() string { return "(status)" }, reader)
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	printed := capturePrint(t)
	exec := &fakeExec{}

	runLines(exec,
		"help",
		"students",
		"login",
		"help",
		"go /students",
		"search Ali Valiyev",
		"filter group_id 3",
		"show 5",
		"enroll 5 3",
		"nav Settings",
		"foobar",
		"exit",
		"whoami",
	)

	assert.Equal(t, []string{"login", "go", "search", "filter", "show", "enroll", "nav"}, exec.calls)
	assert.Equal(t, []string{"", "/students", "Ali Valiyev", "group_id,3", "5", "5,3", "Settings"}, exec.args)
	assert.Empty(t, exec.reported)

	out := strings.Join(*printed, "\n")
	assert.Contains(t, out, anonymousHelp)
	assert.Contains(t, out, "Unknown command: students")
	assert.Contains(t, out, memberHelp)
	assert.Contains(t, out, "Unknown command: foobar")
	assert.Contains(t, out, "edu (status)> ")
	assert.Equal(t, "Bye!", (*printed)[len(*printed)-1])
}

func TestRunREPL_UsageErrorsAreReported(t *testing.T) {
	capturePrint(t)
	exec := &fakeExec{loggedIn: true}

	runLines(exec, "go", "show", "delete 1 2", "enroll 5", "filter", "quit")

	assert.Empty(t, exec.calls)
	require.Len(t, exec.reported, 5)
	for _, err := range exec.reported {
		var ue userError
		require.ErrorAs(t, err, &ue)
		assert.True(t, strings.HasPrefix(ue.UserMessage(), "Usage: "), ue)
	}
	assert.Equal(t, "Usage: delete <id>", exec.reported[2].Error())
}

func TestRunREPL_CommandErrorsKeepTheLoopRunning(t *testing.T) {
	capturePrint(t)
	boom := errors.New("boom")
	exec := &fakeExec{loggedIn: true, fail: boom}

	runLines(exec, "refresh", "clear", "exit")

	assert.Equal(t, []string{"refresh", "clear"}, exec.calls)
	require.Len(t, exec.reported, 2)
	assert.ErrorIs(t, exec.reported[0], boom)
}

type panickyExec struct{ fakeExec }

func (p *panickyExec) Add(context.Context) error { panic("nil form") }

func TestRunREPL_PanicIsReported(t *testing.T) {
	capturePrint(t)
	exec := &panickyExec{fakeExec{loggedIn: true}}

	reader := bufio.NewReader(strings.NewReader("add\nlogout\n"))
	runREPL(context.Background(), exec, func() string { return "" }, reader)

	require.Len(t, exec.reported, 1)
	assert.ErrorIs(t, exec.reported[0], errPanic)
	assert.Contains(t, exec.reported[0].Error(), "add: nil form")
	assert.Equal(t, []string{"logout"}, exec.calls)
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	printed := capturePrint(t)
	exec := &fakeExec{loggedIn: true}

	runLines(exec, "", "   ", "pay")

	assert.Equal(t, []string{"pay"}, exec.calls)
	assert.NotContains(t, *printed, "Bye!")
}

func TestRowCommand(t *testing.T) {
	for _, cmd := range []string{"edit", "show", "actions", "archive", "restore", "delete"} {
		exec := &fakeExec{loggedIn: true}
		require.NoError(t, rowCommand(context.Background(), exec, cmd, "9"))
		assert.Equal(t, []string{cmd}, exec.calls)
		assert.Equal(t, []string{"9"}, exec.args)
	}
}
