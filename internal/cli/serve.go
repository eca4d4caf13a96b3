package cli

import (
	"context"
	"errors"
	"time"

	vend "github.com/goliatone/go-vend"
	"github.com/goliatone/go-vend/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 5 * time.Second

func runServe(ctx context.Context, a *App, args []string) error {
	fs := a.flags("serve")
	addr := fs.String("addr", a.cfg.WebAddr, "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	client, err := vend.NewClient(a.cfg, a.session,
		vend.WithLogger(a.logger),
		vend.WithMetrics(vend.NewMetrics(reg)),
	)
	if err != nil {
		return err
	}

	srv := web.NewServer(client,
		web.WithLogger(a.logger),
		web.WithLoginPath(a.cfg.LoginPath),
		web.WithCookieOptions(web.CookieOptions{Secure: a.cfg.CookieSecure}),
		web.WithGatherer(reg),
	)
	app, err := srv.App()
	if err != nil {
		return err
	}

	errc := make(chan error, 1)
	go func() {
		a.logger.Info("web dashboard listening", "addr", *addr)
		errc <- app.Listen(*addr)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down web dashboard")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
