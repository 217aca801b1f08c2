package pkglog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/shandysiswandi/jsonlog/internal/pkg/pkgerror"
	"github.com/shandysiswandi/jsonlog/internal/pkg/pkguid"
)

const (
	rootLoggerName    = "root"
	libraryLoggerName = "pkglog"
)

// Option configures Runtime.Init.
type Option func(*options)

type options struct {
	framework    string
	formatter    Formatter
	formatterSet bool
	output       io.Writer
	level        slog.Level
	component    Component
	headers      []string
	create       bool
	generator    pkguid.StringID
	enabled      bool
	now          func() time.Time
	registry     *Registry
	marshal      MarshalFunc
}

func defaultOptions() *options {
	return &options{
		level:     slog.LevelInfo,
		component: DefaultComponent(),
		headers:   DefaultCorrelationHeaders(),
		create:    true,
		enabled:   EnabledFromEnv(),
		now:       time.Now,
		registry:  defaultRegistry,
	}
}

// WithFramework selects the registered framework to log requests for. Without
// it logging runs in non-web mode.
func WithFramework(name string) Option {
	return func(o *options) { o.framework = name }
}

// WithFormatter replaces the default log formatter.
func WithFormatter(f Formatter) Option {
	return func(o *options) {
		o.formatter = f
		o.formatterSet = true
	}
}

// WithOutput sets the writer records are written to. Default: os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.output = w }
}

// WithLevel sets the minimum level of application loggers.
func WithLevel(l slog.Level) Option {
	return func(o *options) { o.level = l }
}

// WithComponent sets the component identity written on every record.
func WithComponent(id, name string, instance int) Option {
	return func(o *options) {
		o.component = Component{ID: orEmpty(id), Name: orEmpty(name), Instance: instance}
	}
}

// WithCorrelationHeaders sets the ordered header names searched for a
// correlation id.
func WithCorrelationHeaders(names ...string) Option {
	return func(o *options) { o.headers = names }
}

// WithCreateCorrelationID controls whether a missing correlation id is minted.
func WithCreateCorrelationID(create bool) Option {
	return func(o *options) { o.create = create }
}

// WithGenerator sets the correlation id generator. Default: UUIDv7.
func WithGenerator(g pkguid.StringID) Option {
	return func(o *options) { o.generator = g }
}

// WithEnabled overrides the ENABLE_JSON_LOGGING toggle.
func WithEnabled(enabled bool) Option {
	return func(o *options) { o.enabled = enabled }
}

// WithClock sets the clock used for request timing.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithRegistry sets the registry frameworks are selected from.
func WithRegistry(r *Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithMarshal sets the serializer of the built-in formatters.
func WithMarshal(fn MarshalFunc) Option {
	return func(o *options) { o.marshal = fn }
}

func orEmpty(s string) string {
	if s == "" {
		return EmptyValue
	}
	return s
}

// Runtime owns the logging setup of a process: the loggers it handed out, the
// active framework and the request util. Init and InitRequestInstrument are
// meant to be called once during startup; everything else is safe for
// concurrent use afterwards.
type Runtime struct {
	mu      sync.Mutex
	sink    *sink
	loggers map[string]*slog.Logger
	lib     *slog.Logger

	initialized  bool
	initializing bool
	binding      *Binding
	util         *RequestUtil
	component    Component
	json         bool
	marshal      MarshalFunc

	warnOnce sync.Once
}

// New returns a Runtime writing to os.Stdout. Until Init succeeds with JSON
// enabled, its loggers use slog's text format.
func New() *Runtime {
	rt := &Runtime{
		sink:    newSink(os.Stdout),
		loggers: make(map[string]*slog.Logger),
	}

	var lvl slog.Leveler
	if envDebug() {
		lvl = slog.LevelDebug
	}
	rt.lib = slog.New(newHandler(rt.sink, libraryLoggerName, lvl))
	rt.loggers[libraryLoggerName] = rt.lib

	return rt
}

// Logger returns the named logger. Loggers are created once per name; Init
// switches every logger already handed out to the selected formatter.
func (rt *Runtime) Logger(name string) *slog.Logger {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if l, ok := rt.loggers[name]; ok {
		return l
	}
	l := slog.New(newHandler(rt.sink, name, nil))
	rt.loggers[name] = l
	return l
}

// Init selects the framework and installs the formatter. It may succeed only
// once; later calls fail with a configuration error and change nothing.
//
// The framework's AppConfigurator runs without the runtime lock held, so it
// may ask the runtime for loggers.
func (rt *Runtime) Init(opts ...Option) error {
	rt.mu.Lock()
	if rt.initialized || rt.initializing {
		rt.mu.Unlock()
		return pkgerror.NewConfiguration(ErrAlreadyInitialized)
	}
	rt.initializing = true
	rt.mu.Unlock()

	err := rt.init(opts)

	rt.mu.Lock()
	rt.initializing = false
	rt.mu.Unlock()

	return err
}

func (rt *Runtime) init(opts []Option) error {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if o.formatterSet && o.formatter == nil {
		return pkgerror.NewConfiguration(ErrInvalidFormatter)
	}

	var (
		binding *Binding
		util    *RequestUtil
	)
	if o.framework != "" {
		b, err := o.registry.Select(o.framework)
		if err != nil {
			return err
		}
		binding = &b

		policy := &CorrelationPolicy{Headers: o.headers, CreateIfMissing: o.create, Generator: o.generator}
		if policy.Generator == nil {
			policy.Generator = pkguid.NewUUID()
		}
		util = NewRequestUtil(b.RequestAdapter, b.ResponseAdapter, policy, o.now)
	}

	formatter, err := chooseFormatter(o, util)
	if err != nil {
		return err
	}

	if o.output != nil {
		rt.sink.out.setWriter(o.output)
	}
	rt.sink.level.Set(o.level)

	if o.enabled && binding != nil && binding.AppConfigurator != nil {
		if err := binding.AppConfigurator.Configure(rt); err != nil {
			return pkgerror.NewConfiguration(fmt.Errorf("configure %s: %w", binding.Name, err))
		}
	}

	rt.mu.Lock()
	rt.initialized = true
	rt.binding = binding
	rt.util = util
	rt.component = o.component
	rt.json = o.enabled
	rt.marshal = o.marshal
	loggers := len(rt.loggers)
	rt.mu.Unlock()

	framework := EmptyValue
	if binding != nil {
		framework = binding.Name
	}
	rt.lib.Info("init framework", "framework", framework)

	if !o.enabled {
		rt.warnDisabled()
		return nil
	}

	rt.lib.Debug("update all existing loggers to the JSON formatter", "loggers", loggers)
	rt.sink.formatter.Store(&formatterBox{f: formatter})

	return nil
}

func chooseFormatter(o *options, util *RequestUtil) (Formatter, error) {
	if o.formatter != nil {
		return o.formatter, nil
	}

	if util == nil {
		f := NewLogFormatter(o.component)
		if o.marshal != nil {
			f.Marshal = o.marshal
		}
		return f, nil
	}

	f, err := NewWebFormatter(o.component, util)
	if err != nil {
		return nil, err
	}
	if o.marshal != nil {
		f.Marshal = o.marshal
	}
	return f, nil
}

func (rt *Runtime) warnDisabled() {
	rt.warnOnce.Do(func() {
		rt.lib.Warn("JSON format is not enabled, falling back to text output; " +
			"set " + EnvEnableJSON + " to one of true, 1, y, yes to enable it")
	})
}

// InitRequestInstrument installs access logging on app through the active
// framework's Instrumentor. Init must have selected a framework first.
func (rt *Runtime) InitRequestInstrument(app any) error {
	rt.mu.Lock()
	if !rt.initialized || rt.binding == nil {
		rt.mu.Unlock()
		return pkgerror.NewConfiguration(ErrNotInitialized)
	}

	instrumentor := rt.binding.Instrumentor
	name := "pkglog." + rt.binding.Name
	access := NewAccessFormatter(rt.component, rt.util)
	if rt.marshal != nil {
		access.Marshal = rt.marshal
	}

	rl := &RequestLogger{
		name:   name,
		sink:   rt.sink,
		util:   rt.util,
		access: access,
		json:   rt.json,
		text:   slog.New(rt.sink.text.WithAttrs([]slog.Attr{slog.String("logger", name)})),
	}
	rt.mu.Unlock()

	if !rl.json {
		rt.warnDisabled()
	}

	return instrumentor.Instrument(app, rl)
}

// Framework returns the name of the active framework, or "" in non-web mode.
func (rt *Runtime) Framework() string {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if rt.binding == nil {
		return ""
	}
	return rt.binding.Name
}

// Formatter returns the installed formatter, nil while records are written
// as text.
func (rt *Runtime) Formatter() Formatter {
	box := rt.sink.formatter.Load()
	if box == nil {
		return nil
	}
	return box.f
}

// RequestUtil returns the request util of the active framework, nil before
// Init selected one.
func (rt *Runtime) RequestUtil() *RequestUtil {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.util
}

// CorrelationID returns the correlation id of the request being served in
// ctx, minting one when the policy allows it.
func (rt *Runtime) CorrelationID(ctx context.Context) (string, error) {
	util := rt.RequestUtil()
	if util == nil {
		return "", pkgerror.NewConfiguration(ErrNotInitialized)
	}
	return util.CorrelationIDFromContext(ctx)
}

//nolint:gochecknoglobals // process-wide runtime behind the package functions
var std = New()

// Default returns the process-wide Runtime used by the package functions.
func Default() *Runtime { return std }

// Init initializes the process-wide Runtime and makes its root logger the
// slog default.
func Init(opts ...Option) error {
	if err := std.Init(opts...); err != nil {
		return err
	}
	slog.SetDefault(std.Logger(rootLoggerName))
	return nil
}

// InitRequestInstrument instruments app with the process-wide Runtime.
func InitRequestInstrument(app any) error {
	return std.InitRequestInstrument(app)
}

// Logger returns a named logger of the process-wide Runtime.
func Logger(name string) *slog.Logger {
	return std.Logger(name)
}

// CorrelationID returns the correlation id of the request being served in
// ctx using the process-wide Runtime.
func CorrelationID(ctx context.Context) (string, error) {
	return std.CorrelationID(ctx)
}
