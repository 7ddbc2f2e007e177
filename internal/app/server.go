package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/devcorner/devcorner-blog/internal/config"
	"github.com/devcorner/devcorner-blog/internal/logger"
	"github.com/devcorner/devcorner-blog/internal/newsletter"
	"github.com/devcorner/devcorner-blog/internal/render"
	"github.com/devcorner/devcorner-blog/internal/storage"
	"github.com/devcorner/devcorner-blog/internal/web"
	"github.com/devcorner/devcorner-blog/pkg/cms/strapi"
	"github.com/devcorner/devcorner-blog/pkg/httpclient"
	"github.com/devcorner/devcorner-blog/pkg/publishers"
)

const shutdownTimeout = 10 * time.Second

// Server is the blog runtime: the web front-end plus the resources it owns.
type Server struct {
	cfg     *config.Config
	handler http.Handler
	fanout  *publishers.Fanout
	store   storage.Store
	log     logger.Logger
}

// NewServer wires the CMS client, the subscription ledger, publishers and the web layer.
func NewServer(ctx context.Context, cfg *config.Config, log logger.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := httpclient.NewClient(httpclient.Options{
		BaseURL:     cfg.CMSURL,
		ServiceName: strapi.ServiceName,
		Methods:     strapi.Methods,
		Timeout:     cfg.CMSTimeout,
		Logger:      log,
	})
	if err != nil {
		return nil, fmt.Errorf("init cms client: %w", err)
	}
	blog, err := strapi.NewService(client, strapi.Options{
		Token:        cfg.CMSToken,
		MediaBaseURL: cfg.CMSMediaURL,
		Logger:       log,
	})
	if err != nil {
		return nil, fmt.Errorf("init cms service: %w", err)
	}
	log.InfoObj("cms client initialized", "cms_config", map[string]any{
		"url":             client.URL("", ""),
		"media_url":       cfg.CMSMediaURL,
		"timeout_seconds": int(cfg.CMSTimeout.Seconds()),
		"methods":         client.Methods(),
	})

	fanout, err := buildFanout(ctx, cfg.PublishersFile, log)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		SubscriptionTTL: cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"ttl_seconds":              int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	s := &Server{cfg: cfg, fanout: fanout, store: store, log: log}

	news, err := newsletter.NewService(blog, store, fanout, log)
	if err != nil {
		s.closeResources()
		return nil, fmt.Errorf("init newsletter: %w", err)
	}
	site, err := web.NewServer(blog, news, render.NewRenderer(render.DefaultStyle), log, web.Options{
		SiteName:       cfg.AppName,
		SiteURL:        cfg.SiteURL,
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: 2 * cfg.CMSTimeout,
	})
	if err != nil {
		s.closeResources()
		return nil, fmt.Errorf("init web: %w", err)
	}
	s.handler = site.Router()
	return s, nil
}

// buildFanout loads enabled publishers. A missing publishers file means no publishers.
func buildFanout(ctx context.Context, path string, log logger.Logger) (*publishers.Fanout, error) {
	reg, err := publishers.LoadRegistry(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.WarnObj("publishers file not found; subscription events disabled", "publishers_file", path)
		return publishers.NewFanout(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabled := reg.Enabled()
	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubs), nil
}

// Handler exposes the routed front-end.
func (s *Server) Handler() http.Handler { return s.handler }

// Run serves HTTP until ctx is cancelled, then drains connections and releases resources.
func (s *Server) Run(ctx context.Context) error {
	if s == nil || s.handler == nil {
		return fmt.Errorf("server is not initialized")
	}
	defer s.closeResources()

	ln, err := net.Listen("tcp", s.cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.HTTPAddr, err)
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.log.InfoObj("http server listening", "http_server", map[string]any{
		"addr":       ln.Addr().String(),
		"publishers": s.fanout.Size(),
	})

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http serve: %w", err)
	case <-ctx.Done():
		s.log.InfoObj("http server shutting down", "reason", ctx.Err())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// closeResources safely closes publishers and storage, logging any errors encountered.
func (s *Server) closeResources() {
	if s == nil {
		return
	}
	if err := s.fanout.Close(); err != nil {
		s.log.ErrorObj("publishers close failed", "error", err.Error())
	}
	if s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		s.log.ErrorObj("storage close failed", "error", err.Error())
	}
}
