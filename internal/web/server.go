// Package web serves the blog pages on top of the content service.
package web

import (
	"context"
	"errors"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/devcorner/devcorner-blog/internal/domain"
	"github.com/devcorner/devcorner-blog/internal/logger"
	"github.com/devcorner/devcorner-blog/pkg/cms"
)

// Subscriber runs the newsletter workflow.
type Subscriber interface {
	Subscribe(ctx context.Context, email string) cms.Result[domain.Newsletter]
}

// Markdown renders article bodies and their highlight stylesheet.
type Markdown interface {
	Markdown(src string) (template.HTML, error)
	WriteCSS(w io.Writer) error
}

// Options configures the HTTP front-end.
type Options struct {
	SiteName       string
	SiteURL        string
	CORSOrigins    []string
	RequestTimeout time.Duration
}

// Server holds the page handlers and their dependencies.
type Server struct {
	blog     cms.BlogService
	news     Subscriber
	md       Markdown
	log      logger.Logger
	pages    map[string]*template.Template
	siteName string
	siteURL  string
	origins  []string
	timeout  time.Duration
}

// NewServer parses the templates and validates dependencies.
func NewServer(blog cms.BlogService, news Subscriber, md Markdown, log logger.Logger, opts Options) (*Server, error) {
	if blog == nil || news == nil || md == nil {
		return nil, errors.New("web server requires blog, newsletter and markdown services")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(opts.SiteName)
	if name == "" {
		name = "DevCorner"
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Server{
		blog:     blog,
		news:     news,
		md:       md,
		log:      log,
		pages:    pages,
		siteName: name,
		siteURL:  strings.TrimRight(opts.SiteURL, "/"),
		origins:  opts.CORSOrigins,
		timeout:  timeout,
	}, nil
}

// Router builds the chi router with middleware and routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))
	if len(s.origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.origins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Get("/", s.Home)
	r.Get("/blog/{slug}", s.Article)
	r.Get("/search", s.Search)
	r.Get("/team", s.Team)
	r.Post("/newsletter", s.Newsletter)
	r.Get("/sitemap.xml", s.Sitemap)
	r.Get("/static/highlight.css", s.HighlightCSS)
	r.Get("/healthz", s.Health)
	r.NotFound(s.NotFound)
	return r
}
