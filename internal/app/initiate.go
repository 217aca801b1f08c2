package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/rs/cors"

	"github.com/shandysiswandi/jsonlog/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/jsonlog/internal/pkg/pkglog"
	"github.com/shandysiswandi/jsonlog/internal/pkg/pkglog/framework/httprouter"
	"github.com/shandysiswandi/jsonlog/internal/pkg/pkglog/framework/nethttp"
	"github.com/shandysiswandi/jsonlog/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/jsonlog/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/jsonlog/internal/pkg/pkguid"

	// Registered for configurations that name them; the demo server itself
	// is built on pkgrouter.
	_ "github.com/shandysiswandi/jsonlog/internal/pkg/pkglog/framework/chi"
	_ "github.com/shandysiswandi/jsonlog/internal/pkg/pkglog/framework/gin"
)

func (a *App) initConfig() {
	path := "/config/config.yaml"
	if os.Getenv("LOCAL") == "true" {
		path = "./config/config.yaml"
	}

	cfg, err := pkgconfig.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("tz"))

	a.config = cfg
}

func (a *App) initLogging() {
	opts, err := pkglog.OptionsFromConfig(a.config)
	if err != nil {
		slog.Error("failed to read logging config", "error", err)
		os.Exit(1)
	}

	if err := pkglog.Init(opts...); err != nil {
		slog.Error("failed to init logging", "error", err, "frameworks", pkglog.DefaultRegistry().Names())
		os.Exit(1)
	}
}

func (a *App) initLibraries() {
	a.goroutine = pkgroutine.NewManager(100)
	a.uuid = pkguid.NewUUID()
}

func (a *App) initHTTPServer() {
	a.router = pkgrouter.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{pkglog.HeaderCorrelationID},
		AllowCredentials: true,
	})

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("server.address.http"),
		Handler:           corsHandler.Handler(a.router),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// initRequestLogging hands the router or the server to the configured
// framework. The router is instrumented under httprouter so cors preflight
// answers stay out of the access log.
func (a *App) initRequestLogging() {
	var target any
	switch fw := pkglog.Default().Framework(); fw {
	case "":
		return
	case httprouter.Name:
		target = a.router
	case nethttp.Name:
		target = a.httpServer
	default:
		slog.Error("framework can not instrument the demo server", "framework", fw)
		os.Exit(1)
	}

	if err := pkglog.InitRequestInstrument(target); err != nil {
		slog.Error("failed to init request logging", "error", err)
		os.Exit(1)
	}
}

//nolint:unparam // is always nil
func (a *App) initClosers() {
	if a.closerFn == nil {
		a.closerFn = map[string]func(context.Context) error{}
	}

	a.closerFn["HTTP Server"] = func(ctx context.Context) error {
		return a.httpServer.Shutdown(ctx)
	}
	a.closerFn["Config"] = func(context.Context) error {
		return a.config.Close()
	}
}
