package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/castkeeper/internal/client/client"
	"github.com/dmitrijs2005/castkeeper/internal/client/config"
	"github.com/dmitrijs2005/castkeeper/internal/client/otp"
	"github.com/dmitrijs2005/castkeeper/internal/client/route"
	"github.com/dmitrijs2005/castkeeper/internal/client/services"
	"github.com/dmitrijs2005/castkeeper/internal/client/session"
	"github.com/dmitrijs2005/castkeeper/internal/logging"
	"github.com/redis/go-redis/v9"
)

// App is one interactive client session: the session store, the guard that
// owns the current location and the controllers behind each screen.
type App struct {
	config  *config.Config
	log     logging.Logger
	store   *session.Store
	guard   *route.Guard
	auth    services.AuthService
	profile services.ProfileService
	reader  *bufio.Reader
	out     io.Writer

	path       string
	widget     *otp.Widget
	widgetPath string
	widgetOpts []otp.Option
	// widgetCtx bounds the mounted widget's timer; cancelled on Close.
	widgetCtx context.Context
	stop      context.CancelFunc
	closers   []func() error
}

// NewApp wires the client from cfg for the terminal (stdin/stdout). Logs go
// to cfg.LogFile so they do not interleave with the prompt.
func NewApp(cfg *config.Config) (*App, error) {
	w := io.Writer(os.Stderr)
	var logFile *os.File
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		w, logFile = f, f
	}

	log := logging.New(cfg.LogFormat, w, false)
	app, err := newApp(context.Background(), cfg, log, os.Stdin, os.Stdout)
	if err != nil {
		if logFile != nil {
			_ = logFile.Close()
		}
		return nil, err
	}
	if logFile != nil {
		app.closers = append(app.closers, logFile.Close)
	}
	return app, nil
}

func newApp(ctx context.Context, cfg *config.Config, log logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	persister, closeFn, err := openPersister(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store := session.NewStore(persister, log)
	if err := store.Restore(ctx); err != nil {
		log.Warn(ctx, "restore session", "error", err)
	}

	api := client.NewHTTPClient(cfg.APIBaseURL, cfg.RequestTimeout, store, log)

	widgetCtx, stop := context.WithCancel(context.Background())
	a := &App{
		config:    cfg,
		log:       log.With("component", "cli"),
		store:     store,
		auth:      services.NewAuthService(api, store, log),
		profile:   services.NewProfileService(api, store, log),
		reader:    bufio.NewReader(in),
		out:       out,
		widgetCtx: widgetCtx,
		stop:      stop,
		closers:   []func() error{closeFn},
	}
	a.guard = route.NewGuard(route.NavigatorFunc(func(target string) { a.path = target }))
	return a, nil
}

// openPersister builds the session persister for cfg.SessionBackend. The
// returned func releases the underlying connection.
func openPersister(ctx context.Context, cfg *config.Config) (session.Persister, func() error, error) {
	switch cfg.SessionBackend {
	case config.SessionMemory:
		return session.NewMemoryPersister(), func() error { return nil }, nil

	case config.SessionRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("redis %s: %w", cfg.RedisAddr, err)
		}
		return session.NewRedisPersister(rdb, session.DefaultRedisKey, cfg.SessionTTL), rdb.Close, nil

	case config.SessionSQLite, "":
		db, err := client.InitDatabase(ctx, cfg.SessionDB)
		if err != nil {
			return nil, nil, fmt.Errorf("error initializing database: %w", err)
		}
		return session.NewSQLitePersister(db), db.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
}

// Run opens the first screen and blocks in the REPL until the user exits or
// input ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	fmt.Fprintln(a.out, "Welcome to castkeeper (type 'help' for commands)")
	a.navigate(route.Dashboard)
	a.render()

	runREPL(ctx, a, a.getStatus, a.reader)
}

// Close stops the OTP timer and releases the session backend.
func (a *App) Close() error {
	a.unmountWidget()
	a.stop()

	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) isLoggedIn() bool {
	return a.store.IsAuthenticated()
}
