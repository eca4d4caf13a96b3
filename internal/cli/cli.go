package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/goliatone/go-print"
	vend "github.com/goliatone/go-vend"
	"github.com/goliatone/go-vend/config"
	"github.com/goliatone/go-vend/storage/bunstore"
	"github.com/uptrace/bun/extra/bundebug"
)

// ErrUsage is returned when the command line cannot be parsed.
var ErrUsage = errors.New("usage")

type command struct {
	usage string
	run   func(ctx context.Context, a *App, args []string) error
}

// App carries the wiring shared by every subcommand.
type App struct {
	cfg     *config.Config
	stdout  io.Writer
	stderr  io.Writer
	logger  vend.Logger
	session *vend.SessionStore
	client  *vend.Client
	closers []func() error
}

// Run executes the subcommand named by args[0].
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printUsage(stderr)
		if len(args) == 0 {
			return ErrUsage
		}
		return nil
	}

	cmd, ok := commands()[args[0]]
	if !ok {
		printUsage(stderr)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	a, err := newApp(ctx, cfg, stdout, stderr)
	if err != nil {
		return err
	}
	defer a.close()

	return cmd.run(ctx, a, args[1:])
}

func newApp(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) (*App, error) {
	a := &App{
		cfg:    cfg,
		stdout: stdout,
		stderr: stderr,
		logger: vend.NewTextLogger(stderr, cfg.LogLevel),
	}

	storage, err := a.openStorage(ctx)
	if err != nil {
		a.close()
		return nil, err
	}

	a.session = vend.NewSessionStore(ctx, storage,
		vend.WithNavigator(vend.NavigatorFunc(a.signInHint)),
		vend.WithLoginPath(cfg.LoginPath),
		vend.WithSessionLogger(a.logger),
	)

	a.client, err = vend.NewClient(cfg, a.session, vend.WithLogger(a.logger))
	if err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

func (a *App) openStorage(ctx context.Context) (vend.Storage, error) {
	switch a.cfg.SessionBackend {
	case config.BackendMemory:
		return vend.NewMemoryStorage(nil), nil
	case config.BackendSQLite:
		db, err := bunstore.OpenSQLite(a.cfg.SessionDSN)
		if err != nil {
			return nil, err
		}
		if vend.ParseLogLevel(a.cfg.LogLevel) == slog.LevelDebug {
			db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true), bundebug.WithWriter(a.stderr)))
		}
		a.closers = append(a.closers, db.Close)

		store := bunstore.New(db)
		if err := store.CreateTable(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		path := a.cfg.SessionPath
		if path == "" {
			var err error
			if path, err = vend.DefaultSessionPath(); err != nil {
				return nil, fmt.Errorf("session path: %w", err)
			}
		}
		return vend.NewFileStorage(path), nil
	}
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
	a.closers = nil
}

func (a *App) signInHint(target string) {
	fmt.Fprintf(a.stderr, "Session ended. Sign in again with: vendctl login --email <email> (%s)\n", target)
}

func (a *App) output(v any) error {
	_, err := fmt.Fprintln(a.stdout, print.MaybePrettyJSON(v))
	return err
}

func (a *App) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

// Describe renders err for the terminal. Backend failures are reduced to the
// message the backend reported.
func Describe(err error) string {
	var apiErr *vend.APIError
	if errors.As(err, &apiErr) {
		return vend.ExtractErrorMessage(err)
	}
	return err.Error()
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: vendctl <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")

	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)

	width := 0
	for _, name := range names {
		width = max(width, len(name))
	}
	for _, name := range names {
		fmt.Fprintf(w, "  %s%s  %s\n", name, strings.Repeat(" ", width-len(name)), cmds[name].usage)
	}
}
