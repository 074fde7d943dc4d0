package app

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sr"

	"github.com/niksmo/visual-catalog/config"
	"github.com/niksmo/visual-catalog/internal/adapter"
	"github.com/niksmo/visual-catalog/internal/adapter/catalogapi"
	"github.com/niksmo/visual-catalog/internal/adapter/httphandler"
	"github.com/niksmo/visual-catalog/internal/adapter/kafka"
	"github.com/niksmo/visual-catalog/internal/adapter/tui"
	"github.com/niksmo/visual-catalog/internal/core/domain"
	"github.com/niksmo/visual-catalog/internal/core/port"
	"github.com/niksmo/visual-catalog/internal/core/service"
	"github.com/niksmo/visual-catalog/pkg/schema"
)

const (
	subjectSuffix = "-value"
	mountTimeout  = 30 * time.Second
)

type outbound struct {
	catalogAPI   catalogapi.Client
	interactions *kafka.InteractionsProducer
}

type coreService struct {
	catalog  *service.Catalog
	filters  service.Filters
	board    *service.FilterBoard
	recorder port.InteractionsRecorder
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	logFile    io.Closer
	outbound   outbound
	service    coreService
	httpServer *httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initOutboundAdapters()
	app.initCoreService()

	return app
}

func (app *App) initLogger() {
	const op = "App.initLogger"

	var w io.Writer = os.Stderr
	if app.cfg.LogFile != "" {
		f, err := os.OpenFile(
			app.cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644,
		)
		if err != nil {
			app.fallDown(op, err)
		}
		app.logFile = f
		w = f
	}

	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(w, opts))
	slog.SetDefault(logger)
}

func (app *App) initOutboundAdapters() {
	const op = "App.initOutboundAdapters"

	opts := []catalogapi.ClientOpt{
		catalogapi.ProductsURLOpt(app.cfg.API.ProductsURL),
		catalogapi.TimeoutOpt(app.cfg.API.RequestTimeout),
	}
	if app.cfg.API.OptionsURL != "" {
		opts = append(opts, catalogapi.OptionsURLOpt(app.cfg.API.OptionsURL))
	}
	for _, f := range app.cfg.Filters {
		if f.OptionsURL != "" {
			opts = append(opts, catalogapi.FieldOptionsURLOpt(f.Field, f.OptionsURL))
		}
	}

	client, err := catalogapi.NewClient(opts...)
	if err != nil {
		app.fallDown(op, err)
	}
	app.outbound.catalogAPI = client

	if app.cfg.Telemetry.Enabled {
		app.initInteractionsProducer()
	}
}

func (app *App) initInteractionsProducer() {
	const op = "App.initInteractionsProducer"
	ctx := app.ctx
	tcfg := app.cfg.Telemetry

	var (
		kgoOpts []kgo.Opt
		srOpts  []sr.ClientOpt
	)
	tlsCfg, err := telemetryTLS(app.cfg)
	if err != nil {
		app.fallDown(op, err)
	}
	if tlsCfg != nil {
		kgoOpts = append(kgoOpts, kgo.DialTLSConfig(tlsCfg))
		srOpts = append(srOpts, sr.DialTLSConfig(tlsCfg))
	}

	identifier, err := schema.NewRegistryIdentifier(tcfg.SchemaRegistryURLs, srOpts...)
	if err != nil {
		app.fallDown(op, err)
	}

	serde, err := schema.NewSerdeInteractionV1(
		ctx,
		schema.SubjectOpt(tcfg.Topic+subjectSuffix),
		schema.SchemaIdentifierOpt(identifier),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	producer, err := kafka.NewInteractionsProducer(
		kafka.SeedBrokersOpt(ctx, tcfg.SeedBrokers, tcfg.Topic, kgoOpts...),
		kafka.ProducerEncoderOpt(serde),
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.outbound.interactions = &producer
}

func (app *App) initCoreService() {
	var producer port.InteractionsProducer
	if app.outbound.interactions != nil {
		producer = *app.outbound.interactions
	}

	filters := service.NewFilters(app.outbound.catalogAPI)

	app.service = coreService{
		catalog:  service.NewCatalog(app.outbound.catalogAPI),
		filters:  filters,
		board:    service.NewFilterBoard(filters, app.filterFields()),
		recorder: service.NewInteractions(producer),
	}
}

func (app *App) filterFields() []domain.FilterField {
	fields := make([]domain.FilterField, len(app.cfg.Filters))
	for i, f := range app.cfg.Filters {
		fields[i] = domain.FilterField{Field: f.Field, Title: f.Title}
	}
	return fields
}

// RunTUI blocks until the user quits or the context is done.
func (app *App) RunTUI() error {
	const op = "App.RunTUI"

	m := tui.NewModel(
		app.ctx,
		app.service.catalog,
		app.service.filters,
		app.service.recorder,
		app.filterFields(),
	)

	p := tea.NewProgram(
		m,
		tea.WithContext(app.ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	slog.Info("terminal ui is running")
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && app.ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RunHTTP serves the catalog until stopFn is called by the server or the
// caller closes the app. The catalog is mounted once the server is
// started; until then the view reports it as loading.
func (app *App) RunHTTP(stopFn context.CancelFunc) {
	const op = "App.RunHTTP"
	log := slog.With("op", op)

	mux := http.NewServeMux()
	httphandler.RegisterCatalog(
		mux,
		app.service.catalog,
		app.service.board,
		app.service.recorder,
	)

	httpServer := httphandler.NewHTTPServer(
		app.cfg.HTTPServerAddr, mux, app.cfg.HTTPHandlerTimeout,
	)
	app.httpServer = &httpServer

	go httpServer.Run(stopFn)
	go app.mount(app.ctx)

	log.Info("application is running")
}

// mount loads the filter options and the first page, giving up after
// mountTimeout.
func (app *App) mount(ctx context.Context) {
	const op = "App.mount"
	log := slog.With("op", op)

	ctx, cancel := context.WithTimeout(ctx, mountTimeout)
	defer cancel()

	if err := app.service.board.Load(ctx); err != nil {
		log.Error("failed to load filter options", "err", err)
	}
	if err := app.service.catalog.Mount(ctx); err != nil {
		log.Error("failed to mount catalog", "err", err)
		return
	}
	log.Info("catalog is mounted")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	if app.httpServer != nil {
		app.httpServer.Close(ctx)
	}
	if app.outbound.interactions != nil {
		app.outbound.interactions.Close()
	}

	slog.Info("application is closed")

	if app.logFile != nil {
		_ = app.logFile.Close()
	}
}

// RunTopics creates the telemetry topic and reports the outcome to w.
func RunTopics(ctx context.Context, cfg config.Config, w io.Writer) error {
	const op = "RunTopics"

	kgoOpts := []kgo.Opt{kgo.SeedBrokers(cfg.Telemetry.SeedBrokers...)}
	tlsCfg, err := telemetryTLS(cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tlsCfg != nil {
		kgoOpts = append(kgoOpts, kgo.DialTLSConfig(tlsCfg))
	}

	cl, err := kadm.NewOptClient(kgoOpts...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer cl.Close()

	start := time.Now()
	fmt.Fprintf(w, "initializing topics...\n\t- %q\n\n", cfg.Telemetry.Topic)

	results, err := kafka.MakeTopics(ctx, cl, kafka.TopicSpec{
		Name:              cfg.Telemetry.Topic,
		Partitions:        cfg.Telemetry.Partitions,
		ReplicationFactor: cfg.Telemetry.ReplicationFactor,
	})
	for _, res := range results {
		switch {
		case res.Err != nil:
			fmt.Fprintf(w, "topic: %q failed: %s\n", res.Topic, res.Err)
		case res.Created:
			fmt.Fprintf(w, "topic: %q successfully created\n", res.Topic)
		default:
			fmt.Fprintf(w, "topic: %q already exists\n", res.Topic)
		}
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	fmt.Fprintf(w, "\ncomplete in %s\n", time.Since(start))
	return nil
}

// telemetryTLS returns nil when no TLS files are configured.
func telemetryTLS(cfg config.Config) (*tls.Config, error) {
	files := cfg.Telemetry.TLS
	if !files.Enabled() {
		return nil, nil
	}
	return adapter.MakeTLSConfig(files.CAFile, files.CertFile, files.KeyFile)
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
