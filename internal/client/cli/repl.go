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
	Login(ctx context.Context) error
	Register(ctx context.Context) error
	Forgot(ctx context.Context) error
	Verify(ctx context.Context) error
	Reset(ctx context.Context) error
	Resend(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Name(ctx context.Context) error
	Password(ctx context.Context) error
	Avatar(ctx context.Context, path string) error
	AvatarRemove(ctx context.Context) error
	Goto(ctx context.Context, path string) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the castkeeper client.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF, when ctx is done, or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current location and account (from statusFn):
//
//	Signed out:
//	  - login, register, forgot : the auth screens
//	  - verify, reset, resend : the code screens
//
//	Signed in:
//	  - whoami : show the profile
//	  - name, password : edit the profile
//	  - avatar <file>, avatar-remove
//	  - logout
//
//	Always:
//	  - goto <path>, help, exit | quit
//
// Handlers print their own errors; the loop ignores them.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("ck %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, name, password, avatar <file>, avatar-remove, goto <path>, logout, exit")
			} else {
				printlnFn("Available commands: login, register, forgot, verify, reset, resend, goto <path>, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "register":
			_ = a.Register(ctx)

		case "forgot":
			_ = a.Forgot(ctx)

		case "verify":
			_ = a.Verify(ctx)

		case "reset":
			_ = a.Reset(ctx)

		case "resend":
			_ = a.Resend(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "name":
			_ = a.Name(ctx)

		case "password":
			_ = a.Password(ctx)

		case "avatar":
			if len(args) == 0 {
				printlnFn("Usage: avatar <file>")
				continue
			}
			_ = a.Avatar(ctx, strings.Join(args, " "))

		case "avatar-remove":
			_ = a.AvatarRemove(ctx)

		case "goto":
			if len(args) == 0 {
				printlnFn("Usage: goto <path>")
				continue
			}
			_ = a.Goto(ctx, args[0])

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
