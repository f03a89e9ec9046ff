package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/eduadmin/internal/buildinfo"
	"github.com/dmitrijs2005/eduadmin/internal/client/client"
	"github.com/dmitrijs2005/eduadmin/internal/client/config"
	"github.com/dmitrijs2005/eduadmin/internal/client/forms"
	"github.com/dmitrijs2005/eduadmin/internal/client/preferences"
	"github.com/dmitrijs2005/eduadmin/internal/client/services"
	"github.com/dmitrijs2005/eduadmin/internal/client/session"
	"github.com/dmitrijs2005/eduadmin/internal/client/storage"
	"github.com/dmitrijs2005/eduadmin/internal/filex"
	"github.com/dmitrijs2005/eduadmin/internal/logging"
	"github.com/dmitrijs2005/eduadmin/internal/telemetry"
)

const (
	databaseFile = "eduadmin.db"
	logFile      = "eduadmin.log"
	serviceName  = "eduadmin-console"
)

// NewApp builds the console from c: the data directory, logger, tracing,
// local storage, REST client, session and preferences stores and services.
// Everything opened here is released when Run returns.
func NewApp(ctx context.Context, c *config.Config) (app *App, err error) {
	var closers []func(context.Context) error
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				_ = closers[i](ctx)
			}
		}
	}()

	dataDir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, err
	}

	logOut, closeLog, err := openLogOutput(c, dataDir)
	if err != nil {
		return nil, err
	}
	closers = append(closers, closeLog)
	log := logging.New(logging.Options{Level: c.LogLevel, Format: logging.Format(c.LogFormat), Output: logOut})

	shutdown, err := telemetry.Setup(ctx, telemetry.Options{
		ServiceName:    serviceName,
		ServiceVersion: buildinfo.Version,
		Endpoint:       c.OTLPEndpoint,
		Insecure:       c.OTLPInsecure,
	})
	if err != nil {
		return nil, err
	}
	closers = append(closers, shutdown)

	db, err := storage.Open(ctx, filepath.Join(dataDir, databaseFile))
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}
	closers = append(closers, func(context.Context) error { return db.Close() })
	kv := storage.New(db)

	opts := []client.Option{client.WithTimeout(c.RequestTimeout), client.WithLogger(log)}
	if c.OTLPEndpoint != "" {
		opts = append(opts, client.WithTracing())
	}
	api := client.New(c.BaseURL(), opts...)

	sess := session.New(ctx, kv, api, session.WithLogger(log))
	api.SetTokenStore(sess)

	svcs := services.New(api, forms.NewValidator(), sess)
	prefs := preferences.New(ctx, kv, svcs, preferences.WithLogger(log))

	log.Info(ctx, "console started", "base_url", c.BaseURL(), "mode", string(c.Mode), "data_dir", dataDir)

	app = newApp(deps{
		Session:  sess,
		Prefs:    prefs,
		Services: svcs,
		Logger:   log,
		In:       os.Stdin,
		Out:      os.Stdout,
		Debounce: c.SearchDebounce,
	})
	app.closers = closers
	return app, nil
}

// openLogOutput returns where logs go: stderr when asked, otherwise a file
// in the data directory so the console output stays clean.
func openLogOutput(c *config.Config, dataDir string) (io.Writer, func(context.Context) error, error) {
	if c.LogToStderr {
		return os.Stderr, func(context.Context) error { return nil }, nil
	}
	f, err := os.OpenFile(filepath.Join(dataDir, logFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, func(context.Context) error { return f.Close() }, nil
}
