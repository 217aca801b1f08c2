package app

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/jsonlog/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/jsonlog/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/jsonlog/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/jsonlog/internal/pkg/pkguid"
)

type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config pkgconfig.Config

	// libraries
	uuid      pkguid.StringID
	goroutine *pkgroutine.Manager

	// server
	router     *pkgrouter.Router
	httpServer *http.Server

	//
	closerFn map[string]func(context.Context) error
}

func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initLogging()
	app.initLibraries()
	app.initHTTPServer()
	app.initModules()
	app.initRequestLogging()
	app.initClosers()

	return app
}
