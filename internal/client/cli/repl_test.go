package cli

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	arg   string
}

func (f *fakeExec) record(name string) error {
	f.calls = append(f.calls, name)
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Register(ctx context.Context) error { return f.record("register") }
func (f *fakeExec) Forgot(ctx context.Context) error   { return f.record("forgot") }
func (f *fakeExec) Verify(ctx context.Context) error   { return f.record("verify") }
func (f *fakeExec) Reset(ctx context.Context) error    { return f.record("reset") }
func (f *fakeExec) Resend(ctx context.Context) error   { return f.record("resend") }
func (f *fakeExec) WhoAmI(ctx context.Context) error   { return f.record("whoami") }
func (f *fakeExec) Name(ctx context.Context) error     { return f.record("name") }
func (f *fakeExec) Password(ctx context.Context) error { return f.record("password") }
func (f *fakeExec) Avatar(ctx context.Context, path string) error {
	f.arg = path
	return f.record("avatar")
}
func (f *fakeExec) AvatarRemove(ctx context.Context) error { return f.record("avatar-remove") }
func (f *fakeExec) Goto(ctx context.Context, path string) error {
	f.arg = path
	return f.record("goto")
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}

func capturePrint(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, fmt.Sprint(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	capturePrint(t)

	input := "help\nregister\nverify\nresend\nreset\nforgot\nlogin\nwhoami\nname\npassword\n" +
		"avatar my photo.png\navatar-remove\ngoto /profile\nlogout\nexit\nlogin\n"

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, rdr(input))

	assert.Equal(t, []string{
		"register", "verify", "resend", "reset", "forgot", "login", "whoami", "name",
		"password", "avatar", "avatar-remove", "goto", "logout",
	}, exec.calls)
	assert.False(t, exec.loggedIn)
}

func TestRunREPL_Arguments(t *testing.T) {
	capturePrint(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "s" }, rdr("avatar my photo.png\n"))
	require.Equal(t, "my photo.png", exec.arg)

	runREPL(context.Background(), exec, func() string { return "s" }, rdr("goto /dashboard extra\n"))
	require.Equal(t, "/dashboard", exec.arg)
}

func TestRunREPL_UsageAndQuit(t *testing.T) {
	lines := capturePrint(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "s" }, rdr("avatar\ngoto\nfoobar\nquit\nlogout\n"))

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
	assert.Contains(t, *lines, "Usage: avatar <file>")
	assert.Contains(t, *lines, "Usage: goto <path>")
	assert.Contains(t, *lines, "Unknown command:foobar")
	assert.Contains(t, *lines, "Bye!")
}

func TestRunREPL_HelpDependsOnSession(t *testing.T) {
	lines := capturePrint(t)

	runREPL(context.Background(), &fakeExec{}, func() string { return "" }, rdr("help\n"))
	runREPL(context.Background(), &fakeExec{loggedIn: true}, func() string { return "" }, rdr("help\n"))

	var help []string
	for _, l := range *lines {
		if len(l) > 9 && l[:9] == "Available" {
			help = append(help, l)
		}
	}
	require.Len(t, help, 2)
	assert.Contains(t, help[0], "register")
	assert.NotContains(t, help[0], "logout")
	assert.Contains(t, help[1], "logout")
	assert.NotContains(t, help[1], "register")
}

func TestRunREPL_StopsOnCancelledContext(t *testing.T) {
	lines := capturePrint(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{}
	runREPL(ctx, exec, func() string { return "" }, rdr("login\n"))
	assert.Empty(t, exec.calls)
	assert.Empty(t, *lines)
}

func TestRunREPL_PromptShowsStatus(t *testing.T) {
	lines := capturePrint(t)

	runREPL(context.Background(), &fakeExec{}, func() string { return "/auth/login" }, rdr("exit\n"))
	require.NotEmpty(t, *lines)
	assert.Equal(t, "ck /auth/login> ", (*lines)[0])
}
