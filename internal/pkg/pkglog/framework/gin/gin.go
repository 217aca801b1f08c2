// Package gin plugs gin-gonic/gin into pkglog.
//
// Importing the package registers the "gin" framework. Requests are
// *gin.Context values. The instrumentor adds the request logger to an
// *gin.Engine; install it before registering routes and instead of
// gin.Logger.
package gin

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shandysiswandi/jsonlog/internal/pkg/pkgerror"
	"github.com/shandysiswandi/jsonlog/internal/pkg/pkglog"
)

// Name is the framework name registered by this package.
const Name = "gin"

// correlationKey is the gin context key the correlation id is stored under.
const correlationKey = "pkglog.correlation_id"

func init() {
	pkglog.DefaultRegistry().MustRegister(Binding())
}

// Binding returns the gin framework binding.
func Binding() pkglog.Binding {
	return pkglog.Binding{
		Name:            Name,
		Instrumentor:    pkglog.InstrumentorFunc(instrument),
		RequestAdapter:  RequestAdapter{},
		ResponseAdapter: ResponseAdapter{},
		AppConfigurator: configurator{},
	}
}

//nolint:gochecknoglobals // immutable type descriptor
var requestType = reflect.TypeOf((*gin.Context)(nil))

func asContext(req any) *gin.Context {
	c, _ := req.(*gin.Context)
	if c == nil || c.Request == nil {
		return nil
	}
	return c
}

func orEmpty(v string) string {
	if v == "" {
		return pkglog.EmptyValue
	}
	return v
}

// RequestAdapter reads facts from a *gin.Context.
type RequestAdapter struct{}

func (RequestAdapter) RequestType() reflect.Type { return requestType }

func (RequestAdapter) Header(req any, name string) string {
	c := asContext(req)
	if c == nil {
		return pkglog.EmptyValue
	}
	return orEmpty(c.GetHeader(name))
}

// RemoteUser returns the user set by gin.BasicAuth, or the basic-auth user
// sent by the client.
func (RequestAdapter) RemoteUser(req any) string {
	c := asContext(req)
	if c == nil {
		return pkglog.EmptyValue
	}
	if user := c.GetString(gin.AuthUserKey); user != "" {
		return user
	}
	if user, _, ok := c.Request.BasicAuth(); ok {
		return orEmpty(user)
	}
	return pkglog.EmptyValue
}

func (RequestAdapter) RemoteIP(req any) string {
	c := asContext(req)
	if c == nil {
		return pkglog.EmptyValue
	}
	return orEmpty(c.RemoteIP())
}

func (RequestAdapter) RemotePort(req any) string {
	c := asContext(req)
	if c == nil {
		return pkglog.EmptyValue
	}
	_, port, err := net.SplitHostPort(strings.TrimSpace(c.Request.RemoteAddr))
	if err != nil {
		return pkglog.EmptyValue
	}
	return orEmpty(port)
}

func (RequestAdapter) Protocol(req any) string {
	c := asContext(req)
	if c == nil {
		return pkglog.EmptyValue
	}
	return orEmpty(c.Request.Proto)
}

func (RequestAdapter) Path(req any) string {
	c := asContext(req)
	if c == nil || c.Request.URL == nil {
		return pkglog.EmptyValue
	}
	return orEmpty(c.Request.URL.Path)
}

func (RequestAdapter) Method(req any) string {
	c := asContext(req)
	if c == nil {
		return pkglog.EmptyValue
	}
	return orEmpty(c.Request.Method)
}

func (RequestAdapter) ContentLength(req any) string {
	c := asContext(req)
	if c == nil {
		return pkglog.EmptyValue
	}
	if v := c.GetHeader("Content-Length"); v != "" {
		return v
	}
	if c.Request.ContentLength > 0 {
		return strconv.FormatInt(c.Request.ContentLength, 10)
	}
	return pkglog.EmptyValue
}

func (RequestAdapter) InRequestContext(req any) bool {
	return asContext(req) != nil
}

// SetCorrelationID stores id in the gin context and the X-Correlation-ID
// request header.
func (RequestAdapter) SetCorrelationID(req any, id string) {
	c := asContext(req)
	if c == nil {
		return
	}
	c.Set(correlationKey, id)
	c.Request.Header.Set(pkglog.HeaderCorrelationID, id)
}

func (RequestAdapter) CorrelationID(req any) string {
	c := asContext(req)
	if c == nil {
		return pkglog.EmptyValue
	}
	if cid := c.GetString(correlationKey); cid != "" {
		return cid
	}
	return pkglog.GetCorrelationID(c.Request.Context())
}

// RequestFromContext accepts the request context prepared by Middleware and
// the *gin.Context itself.
func (RequestAdapter) RequestFromContext(ctx context.Context) (any, bool) {
	if req, ok := pkglog.RequestFromContext(ctx); ok {
		c, ok := req.(*gin.Context)
		return c, ok
	}
	if ctx == nil {
		return nil, false
	}
	c, ok := ctx.Value(gin.ContextKey).(*gin.Context)
	if !ok || c == nil {
		return nil, false
	}
	return c, true
}

// ResponseAdapter reads facts from a gin.ResponseWriter.
type ResponseAdapter struct{}

func (ResponseAdapter) StatusCode(resp any) int {
	w, ok := resp.(gin.ResponseWriter)
	if !ok {
		return 0
	}
	return w.Status()
}

func (ResponseAdapter) Size(resp any) int64 {
	w, ok := resp.(gin.ResponseWriter)
	if !ok {
		return -1
	}
	if v := w.Header().Get("Content-Length"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	if n := w.Size(); n >= 0 {
		return int64(n)
	}
	return -1
}

func (ResponseAdapter) ContentType(resp any) string {
	w, ok := resp.(gin.ResponseWriter)
	if !ok {
		return pkglog.EmptyValue
	}
	return orEmpty(w.Header().Get("Content-Type"))
}

// Middleware logs every request handled by the gin chain it is added to.
func Middleware(rl *pkglog.RequestLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cid := rl.Util().CorrelationID(c)

		info, err := rl.Begin(c)
		if err != nil {
			slog.ErrorContext(c.Request.Context(), "failed to track request", "error", err)
			c.Next()
			return
		}

		if cid != pkglog.EmptyValue {
			c.Header(pkglog.HeaderCorrelationID, cid)
		}
		ctx := pkglog.SetCorrelationID(c.Request.Context(), cid)
		c.Request = c.Request.WithContext(pkglog.ContextWithRequest(ctx, c))

		c.Next()

		if err := info.Finalize(c.Writer); err != nil {
			slog.ErrorContext(c.Request.Context(), "failed to finalize request", "error", err)
			return
		}
		if err := rl.Log(c.Request.Context(), info); err != nil {
			slog.ErrorContext(c.Request.Context(), "failed to write access log", "error", err)
		}
	}
}

func instrument(app any, rl *pkglog.RequestLogger) error {
	engine, ok := app.(*gin.Engine)
	if !ok || engine == nil {
		return pkgerror.NewConfiguration(fmt.Errorf("%w: %s wants *gin.Engine, got %T", pkglog.ErrInvalidApp, Name, app))
	}

	engine.Use(Middleware(rl))
	return nil
}

// configurator sends gin's debug output through the runtime's "gin" logger.
type configurator struct{}

func (configurator) Configure(rt *pkglog.Runtime) error {
	log := rt.Logger(Name)

	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {
		log.Debug("route registered",
			"method", httpMethod,
			"path", absolutePath,
			"handler", handlerName,
			"handlers", nuHandlers,
		)
	}
	gin.DebugPrintFunc = func(format string, values ...any) {
		log.Debug(strings.TrimRight(fmt.Sprintf(format, values...), "\n"))
	}

	return nil
}

var (
	_ pkglog.AmbientRequestAdapter = RequestAdapter{}
	_ pkglog.ResponseAdapter       = ResponseAdapter{}
	_ pkglog.AppConfigurator       = configurator{}
)
