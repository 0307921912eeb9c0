package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goliatone/go-l10n/cmd/internal/bootstrap"
	l10nhttp "github.com/goliatone/go-l10n/internal/http"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runServer(ctx, os.Args[1:], os.Stderr); err != nil {
		log.Fatalf("l10n server: %v", err)
	}
}

type serverOptions struct {
	addr           string
	identityHeader string
	bootstrap      bootstrap.Options
}

func parseFlags(args []string, out io.Writer) (serverOptions, error) {
	fs := flag.NewFlagSet("l10n-server", flag.ContinueOnError)
	fs.SetOutput(out)

	var opts serverOptions
	fs.StringVar(&opts.addr, "addr", ":8080", "Listen address")
	fs.StringVar(&opts.identityHeader, "identity-header", l10nhttp.DefaultIdentityHeader, "Request header carrying the user id or email set by the auth proxy")
	fs.StringVar(&opts.bootstrap.Provider, "provider", "sqlite", "Database provider (sqlite or postgres)")
	fs.StringVar(&opts.bootstrap.DSN, "db", "", "Database connection string")
	fs.StringVar(&opts.bootstrap.BaseURL, "base-url", "/", "Public base URL used for redirects and links")
	fs.StringVar(&opts.bootstrap.TemplateDir, "templates", "", "Directory with view templates overriding the embedded set")
	fs.StringVar(&opts.bootstrap.LogLevel, "log-level", "info", "Log level")
	fs.StringVar(&opts.bootstrap.LogFormat, "log-format", "console", "Log format (console, json, pretty)")
	fs.StringVar(&opts.bootstrap.OnRowError, "on-row-error", "abort", "Row error policy for uploads (abort or skip)")
	fs.BoolVar(&opts.bootstrap.SeedLocales, "seed-locales", true, "Create the operator language locales on start")

	if err := fs.Parse(args); err != nil {
		return serverOptions{}, err
	}
	return opts, nil
}

func runServer(ctx context.Context, args []string, out io.Writer) error {
	opts, err := parseFlags(args, out)
	if err != nil {
		return err
	}

	module, err := moduleBuilder(ctx, opts.bootstrap)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	unsubscribe := module.Module.SubscribeCommands()
	defer unsubscribe()

	server := &http.Server{
		Addr:              opts.addr,
		Handler:           newHandler(module, opts.identityHeader),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		module.Logger.Info("server.listening", "addr", opts.addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	module.Logger.Info("server.shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newHandler(module *bootstrap.Module, identityHeader string) http.Handler {
	return l10nhttp.IdentityHeader(identityHeader, module.Module.HTTP().Handler())
}
