package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shandysiswandi/jsonlog/internal/pkg/pkgerror"
	"github.com/shandysiswandi/jsonlog/internal/pkg/pkglog"
	"github.com/shandysiswandi/jsonlog/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/jsonlog/internal/pkg/pkgroutine"
)

func (a *App) initModules() {
	registerRoutes(a.router)

	if every := a.config.GetInt("modules.heartbeat.seconds"); every > 0 {
		startHeartbeat(a.ctx, a.goroutine, time.Duration(every)*time.Second)
	}
}

type whoami struct {
	CorrelationID string `json:"correlation_id"`
	Framework     string `json:"framework"`
}

type echoRequest struct {
	Message string `json:"message"`
}

type echoResponse struct {
	Message       string `json:"message"`
	CorrelationID string `json:"correlation_id"`
}

const (
	maxEchoBody    = 1 << 16
	reservedPrefix = "pkglog."
)

var errEmptyMessage = errors.New("message is required")

func registerRoutes(r *pkgrouter.Router) {
	r.GET("/", func(context.Context, *http.Request) (any, error) {
		return map[string]string{"message": "hi from jsonlog"}, nil
	})

	r.GET("/health", func(context.Context, *http.Request) (any, error) {
		return map[string]string{"message": "server is running well"}, nil
	})

	r.GET("/whoami", func(ctx context.Context, _ *http.Request) (any, error) {
		cid, err := pkglog.CorrelationID(ctx)
		if errors.Is(err, pkglog.ErrNotInitialized) {
			cid = pkglog.EmptyValue
		} else if err != nil {
			return nil, err
		}

		slog.InfoContext(ctx, "whoami requested")

		return whoami{CorrelationID: cid, Framework: pkglog.Default().Framework()}, nil
	})

	r.POST("/echo", echo)
}

func echo(ctx context.Context, r *http.Request) (any, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxEchoBody))
	if err != nil {
		return nil, pkgerror.NewServer(err)
	}

	var req echoRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, pkgerror.NewInvalidFormat()
	}

	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return nil, pkgerror.NewInvalidInput(errEmptyMessage)
	}
	if strings.HasPrefix(msg, reservedPrefix) {
		return nil, pkgerror.NewBusiness("message uses a reserved prefix", pkgerror.CodeForbidden)
	}

	cid := pkglog.GetCorrelationID(ctx)
	slog.InfoContext(ctx, "echo", "length", len(msg))

	return echoResponse{Message: msg, CorrelationID: cid}, nil
}

func startHeartbeat(ctx context.Context, mgr *pkgroutine.Manager, every time.Duration) {
	mgr.Go(ctx, func(ctx context.Context) error {
		ticker := time.NewTicker(every)
		defer ticker.Stop()

		log := pkglog.Logger("heartbeat")
		for {
			select {
			case <-ctx.Done():
				return nil
			case t := <-ticker.C:
				log.InfoContext(ctx, "alive", "at", t.UTC())
			}
		}
	})
}
