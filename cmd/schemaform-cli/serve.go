package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"

	theme "github.com/goliatone/go-theme"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-schemaform/internal/config"
	"github.com/goliatone/go-schemaform/pkg/model"
	"github.com/goliatone/go-schemaform/pkg/orchestrator"
	"github.com/goliatone/go-schemaform/pkg/render"
	"github.com/goliatone/go-schemaform/pkg/renderers/html"
	"github.com/goliatone/go-schemaform/pkg/renderers/page"
	"github.com/goliatone/go-schemaform/pkg/schema"
	"github.com/goliatone/go-schemaform/pkg/server"
)

type serveFlags struct {
	config   string
	addr     string
	source   string
	renderer string
	watch    bool
}

func newServeCmd(a *app) *cobra.Command {
	flags := &serveFlags{}
	cmd := &cobra.Command{
		Use:   "serve [SOURCE]",
		Short: "Serve a schema form over HTTP",
		Long: `Serve hosts the form at /. GET renders it; POST validates the submission and
answers 200 when it is valid or 422 with the form re-rendered with messages.

Settings come from a YAML file (--config); flags override it. With watch
enabled the schema file is reloaded on change without restarting.`,
		Example: `  schemaform-cli serve signup.yaml --addr :8080 --watch
  schemaform-cli serve --config schemaform.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				flags.source = args[0]
			}
			return runServe(cmd, a, flags)
		},
	}
	cmd.Flags().StringVarP(&flags.config, "config", "c", "schemaform.yaml", "YAML configuration file")
	cmd.Flags().StringVar(&flags.addr, "addr", "", "listen address")
	cmd.Flags().StringVarP(&flags.renderer, "renderer", "r", "", "renderer name (html, page)")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "reload the schema file on change")
	return cmd
}

func runServe(cmd *cobra.Command, a *app, flags *serveFlags) error {
	cfg, err := config.Load(flags.config)
	if err != nil {
		return err
	}
	if flags.source != "" {
		cfg.Schema.Source = flags.source
	}
	if flags.addr != "" {
		cfg.Server.Addr = flags.addr
	}
	if flags.renderer != "" {
		cfg.Renderer.Name = flags.renderer
	}
	if flags.watch {
		cfg.Schema.Watch = true
	}
	if a.verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := buildLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	a.logger = logger

	ctx := cmd.Context()
	handler, err := newHandler(ctx, cfg, logger)
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return err
	}
	return serve(ctx, cfg, handler.handler, listener, handler.reload, logger)
}

// served bundles the HTTP handler with the hook that re-resolves a changed
// schema through the same preset pipeline.
type served struct {
	handler *server.Handler
	reload  schema.ChangeFunc
}

func newHandler(ctx context.Context, cfg *config.Config, logger *zap.Logger) (served, error) {
	flags := schemaFlags{
		format:      cfg.Schema.Format,
		operationID: cfg.Schema.OperationID,
		preset:      cfg.Schema.Preset,
	}
	req, err := flags.request(cfg.Schema.Source)
	if err != nil {
		return served{}, err
	}
	orch, err := flags.orchestrator(&app{logger: logger})
	if err != nil {
		return served{}, err
	}
	initial, err := orch.Resolve(ctx, req)
	if err != nil {
		return served{}, err
	}

	renderer, err := newServeRenderer(cfg, logger)
	if err != nil {
		return served{}, err
	}
	options := []server.Option{
		server.WithRenderer(renderer),
		server.WithTitle(cfg.Renderer.Title),
		server.WithTheme(themeConfig(cfg.Theme)),
		server.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
		server.WithSuccessRedirect(cfg.Server.SuccessRedirect),
		server.WithLogger(logger),
		server.WithSubmitHandler(logSubmission(logger)),
	}
	if token := cfg.CSRF.Token; token != "" {
		options = append(options, server.WithCSRF(cfg.CSRF.Field, func(*http.Request) string { return token }))
	}
	handler, err := server.New(initial, options...)
	if err != nil {
		return served{}, err
	}

	reload := func(changed model.Schema) {
		resolved, err := orch.Resolve(ctx, orchestrator.Request{Schema: changed})
		if err != nil {
			logger.Warn("reloaded schema rejected", zap.Error(err))
			return
		}
		if err := handler.SetSchema(resolved); err != nil {
			logger.Warn("reloaded schema rejected", zap.Error(err))
		}
	}
	return served{handler: handler, reload: reload}, nil
}

func newServeRenderer(cfg *config.Config, logger *zap.Logger) (render.Renderer, error) {
	form := html.New(html.WithSubmitLabel(cfg.Renderer.SubmitLabel), html.WithLogger(logger))
	if cfg.Renderer.Name == "html" {
		return form, nil
	}
	return page.New(
		page.WithFormRenderer(form),
		page.WithTemplatesDir(cfg.Renderer.Templates),
		page.WithIntro(cfg.Renderer.Intro),
		page.WithLang(cfg.Renderer.Lang),
		page.WithLogger(logger),
	)
}

// themeConfig turns the inline theme section into renderer configuration.
func themeConfig(cfg config.ThemeConfig) *theme.RendererConfig {
	if cfg.Name == "" {
		return nil
	}
	return orchestrator.RendererConfig(&theme.Selection{
		Theme:   cfg.Name,
		Variant: cfg.Variant,
		Manifest: &theme.Manifest{
			Name:   cfg.Name,
			Tokens: cfg.Tokens,
			Assets: theme.Assets{Prefix: cfg.AssetPrefix, Files: cfg.Assets},
		},
	})
}

func logSubmission(logger *zap.Logger) server.SubmitFunc {
	return func(_ context.Context, values url.Values) (map[string][]string, error) {
		logger.Info("submission accepted", zap.Strings("fields", sortedKeys(values)))
		return nil, nil
	}
}

// serve runs the HTTP server and, when enabled, the schema watcher until ctx
// is cancelled or either of them fails.
func serve(ctx context.Context, cfg *config.Config, handler http.Handler, listener net.Listener, reload schema.ChangeFunc, logger *zap.Logger) error {
	format, err := parseFormat(cfg.Schema.Format)
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle("/", handler)
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: cfg.ReadTimeout(),
		ReadTimeout:       cfg.ReadTimeout(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", listener.Addr().String()))
		if err := srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	if cfg.Schema.Watch {
		g.Go(func() error {
			return schema.Watch(gctx, cfg.Schema.Source, reload,
				schema.WithWatchLogger(logger),
				schema.WithDecodeOptions(schema.DecodeOptions{Format: format, OperationID: cfg.Schema.OperationID}),
			)
		})
	}
	return g.Wait()
}
