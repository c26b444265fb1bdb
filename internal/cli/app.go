// Package cli implements the ecoleta command-line client.
package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/ecoleta/ecoleta-backend/internal/address"
	"github.com/ecoleta/ecoleta-backend/internal/client"
	"github.com/ecoleta/ecoleta-backend/internal/session"
	"github.com/ecoleta/ecoleta-backend/pkg/logger"
)

const usage = `usage: ecoleta <command> [flags]

commands:
  register   create a generator account and log in
  login      log in and store the session
  logout     forget the stored session
  whoami     show the logged-in generator
  cep        look up a postal code
`

var errUsage = errors.New("invalid usage")

// App wires the API client, session and terminal IO together.
type App struct {
	api          *client.Client
	session      *session.Session
	in           *bufio.Reader
	out          io.Writer
	errOut       io.Writer
	logg         *logger.Logger
	readPassword func() (string, error)
}

// Params configures an App. ReadPassword defaults to a terminal prompt.
type Params struct {
	API          *client.Client
	Session      *session.Session
	In           io.Reader
	Out          io.Writer
	ErrOut       io.Writer
	Logger       *logger.Logger
	ReadPassword func() (string, error)
}

func NewApp(p Params) *App {
	a := &App{
		api:          p.API,
		session:      p.Session,
		in:           bufio.NewReader(p.In),
		out:          p.Out,
		errOut:       p.ErrOut,
		logg:         p.Logger,
		readPassword: p.ReadPassword,
	}
	if a.session == nil {
		a.session = session.New(nil)
	}
	if a.logg == nil {
		a.logg = logger.Nop()
	}
	if a.errOut == nil {
		a.errOut = a.out
	}
	if a.readPassword == nil {
		a.readPassword = terminalPassword(a.in, a.out)
	}
	return a
}

// Run executes one command and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(a.errOut, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "register":
		err = a.register(ctx, args[1:])
	case "login":
		err = a.login(ctx, args[1:])
	case "logout":
		err = a.logout()
	case "whoami":
		err = a.whoami()
	case "cep":
		err = a.cep(ctx, args[1:])
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return 0
	default:
		fmt.Fprintf(a.errOut, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	if err == nil {
		return 0
	}
	if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
		return 2
	}
	a.logg.Error(a.logg.WithField(ctx, "command", args[0]), "cli.command_failed", err)
	fmt.Fprintln(a.errOut, "error:", err)
	return 1
}

func (a *App) login(ctx context.Context, args []string) error {
	fs := a.flagSet("login")
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if strings.TrimSpace(*email) == "" {
		value, err := prompt(a.in, a.out, "Email")
		if err != nil {
			return err
		}
		*email = value
	}
	password, err := a.readPassword()
	if err != nil {
		return err
	}

	result, err := a.api.Login(ctx, *email, password)
	if err != nil {
		return err
	}

	if err := a.session.Write(session.User{
		ID:     result.ID,
		Email:  result.Email,
		Nome:   result.Name,
		Foto:   result.Photo,
		Status: string(result.Status),
	}); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "logged in as %s (%s)\n", result.Name, result.Email)
	return nil
}

func (a *App) logout() error {
	if err := a.session.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "logged out")
	return nil
}

func (a *App) whoami() error {
	user, err := a.session.Read()
	if err != nil {
		return err
	}
	if user == nil {
		fmt.Fprintln(a.out, "not logged in")
		return nil
	}
	fmt.Fprintf(a.out, "%s <%s> id=%d status=%s\n", user.Nome, user.Email, user.ID, user.Status)
	return nil
}

func (a *App) cep(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.errOut, "usage: ecoleta cep <cep>")
		return errUsage
	}
	addr, err := a.api.LookupCEP(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s, %s - %s/%s (%s)\n", addr.Street, addr.Neighborhood, addr.City, addr.State, addr.CEP)
	return nil
}

func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

// autofill builds an Autofill backed by the API's lookup endpoint.
func (a *App) autofill() *address.Autofill {
	return address.NewAutofill(address.LookupFunc(a.api.LookupCEP))
}
