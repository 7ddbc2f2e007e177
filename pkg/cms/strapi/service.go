package strapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/devcorner/devcorner-blog/internal/domain"
	"github.com/devcorner/devcorner-blog/pkg/cms"
	"github.com/devcorner/devcorner-blog/pkg/httpclient"
)

const (
	// ServiceName identifies the Strapi client in logs and guard errors.
	ServiceName = "StrapiHttpClient"

	// ListPageSize is the page size requested by paginated listings.
	ListPageSize = 9

	firstPage = 1
)

// Methods lists the verbs the Strapi client must be configured with.
var Methods = []string{http.MethodGet, http.MethodPost}

// Logger defines the logging surface the service relies on.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) InfoObj(string, string, interface{})  {}
func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}
func (noopLogger) ErrorObj(string, string, interface{}) {}

// Options configures a Service.
type Options struct {
	Token        string
	MediaBaseURL string
	Logger       Logger
}

// Service implements cms.BlogService against a Strapi backend.
type Service struct {
	client httpclient.Doer
	auth   string
	adapt  adapter
	log    Logger
}

var _ cms.BlogService = (*Service)(nil)

// NewService builds a Service. The bearer token is mandatory.
func NewService(client httpclient.Doer, opts Options) (*Service, error) {
	if client == nil {
		return nil, errors.New("strapi service requires an http client")
	}
	token := strings.TrimSpace(opts.Token)
	if token == "" {
		return nil, errors.New("strapi service requires a cms token")
	}
	log := opts.Logger
	if log == nil {
		log = noopLogger{}
	}
	return &Service{
		client: client,
		auth:   "Bearer " + token,
		adapt:  newAdapter(opts.MediaBaseURL),
		log:    log,
	}, nil
}

// GetBlogPosts lists posts, paginated when params.Page is at least 1.
func (s *Service) GetBlogPosts(ctx context.Context, params cms.BlogPostsParams) (res cms.Result[[]domain.BlogPost]) {
	defer recoverResult(s.log, "GetBlogPosts", &res)

	o, err := fetch[[]blogPost](ctx, s, httpclient.Request{Path: blogPostsPath(params.Page), Method: http.MethodGet})
	if err != nil {
		return configFailure[[]domain.BlogPost](s.log, "GetBlogPosts", err)
	}
	if o.kind != outcomeOK {
		return normalizeError[[]domain.BlogPost](o)
	}

	posts := make([]domain.BlogPost, 0, len(o.data))
	for _, p := range o.data {
		author := s.adapt.author(p.Attributes.Author.Data)
		posts = append(posts, s.adapt.blogPost(p, author, nil))
	}
	return cms.OKWithPagination(posts, o.status, adaptPagination(o.meta.Pagination))
}

// GetBlogPost fetches one post by slug, including its SEO metadata.
func (s *Service) GetBlogPost(ctx context.Context, params cms.BlogPostParams) (res cms.Result[domain.BlogPost]) {
	defer recoverResult(s.log, "GetBlogPost", &res)

	slug := strings.TrimSpace(params.Slug)
	if slug == "" {
		return cms.Fail[domain.BlogPost]("slug is required", http.StatusBadRequest)
	}

	o, err := fetch[blogPost](ctx, s, httpclient.Request{Path: "/blogs/" + url.PathEscape(slug), Method: http.MethodGet})
	if err != nil {
		return configFailure[domain.BlogPost](s.log, "GetBlogPost", err)
	}
	if o.kind != outcomeOK {
		return normalizeError[domain.BlogPost](o)
	}

	meta := adaptMeta(o.data.Attributes.MetaDatum.Data)
	author := s.adapt.author(o.data.Attributes.Author.Data)
	return cms.OK(s.adapt.blogPost(o.data, author, meta), o.status)
}

// GetBlogPostsBySearch lists posts matching a free-text term.
func (s *Service) GetBlogPostsBySearch(ctx context.Context, params cms.BlogPostBySearchParams) (res cms.Result[[]domain.BlogPost]) {
	defer recoverResult(s.log, "GetBlogPostsBySearch", &res)

	term := strings.TrimSpace(params.Search)
	if term == "" {
		return cms.Fail[[]domain.BlogPost]("search term is required", http.StatusBadRequest)
	}

	o, err := fetch[[]blogPost](ctx, s, httpclient.Request{Path: "/blogs/filter/" + url.PathEscape(term), Method: http.MethodGet})
	if err != nil {
		return configFailure[[]domain.BlogPost](s.log, "GetBlogPostsBySearch", err)
	}
	if o.kind != outcomeOK {
		return normalizeError[[]domain.BlogPost](o)
	}

	posts := make([]domain.BlogPost, 0, len(o.data))
	for _, p := range o.data {
		author := s.adapt.author(p.Attributes.Author.Data)
		posts = append(posts, s.adapt.blogPost(p, author, nil))
	}
	return cms.OK(posts, o.status)
}

// GetAuthors lists every author.
func (s *Service) GetAuthors(ctx context.Context) (res cms.Result[[]domain.Author]) {
	defer recoverResult(s.log, "GetAuthors", &res)

	o, err := fetch[[]entity[authorAttributes]](ctx, s, httpclient.Request{Path: "/authors", Method: http.MethodGet})
	if err != nil {
		return configFailure[[]domain.Author](s.log, "GetAuthors", err)
	}
	if o.kind != outcomeOK {
		return normalizeError[[]domain.Author](o)
	}

	authors := make([]domain.Author, 0, len(o.data))
	for i := range o.data {
		authors = append(authors, s.adapt.author(&o.data[i]))
	}
	return cms.OK(authors, o.status)
}

// SubscribeToNewsletter stores an email address in the newsletter collection.
func (s *Service) SubscribeToNewsletter(ctx context.Context, attrs domain.NewsletterAttributes) (res cms.Result[domain.Newsletter]) {
	defer recoverResult(s.log, "SubscribeToNewsletter", &res)

	email := strings.TrimSpace(attrs.Email)
	if email == "" {
		return cms.Fail[domain.Newsletter]("email is required", http.StatusBadRequest)
	}

	o, err := fetch[entity[newsletterAttributes]](ctx, s, httpclient.Request{
		Path:    "/newsletter",
		Method:  http.MethodPost,
		Payload: domain.NewsletterAttributes{Email: email},
	})
	if err != nil {
		return configFailure[domain.Newsletter](s.log, "SubscribeToNewsletter", err)
	}
	if o.kind != outcomeOK {
		return normalizeError[domain.Newsletter](o)
	}
	return cms.OK(adaptNewsletter(&o.data, email), o.status)
}

// fetch attaches credentials, dispatches req and decodes the body once.
func fetch[T any](ctx context.Context, s *Service, req httpclient.Request) (outcome[T], error) {
	req.Authorization = s.auth
	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return outcome[T]{}, err
	}
	o := decode[T](resp)
	if o.kind != outcomeOK {
		s.log.WarnObj("cms request unsuccessful", "cms_error", map[string]any{
			"path":    req.Path,
			"method":  req.Method,
			"status":  o.status,
			"failure": o.failure,
			"backend": o.err,
		})
	}
	return o, nil
}

// configFailure logs a method-guard failure and downgrades it to a server error.
func configFailure[T any](log Logger, op string, err error) cms.Result[T] {
	log.ErrorObj("cms client misconfigured", "cms_config_error", map[string]any{
		"operation": op,
		"error":     err.Error(),
	})
	return cms.ServerError[T]()
}

// recoverResult is deferred by every operation so none of them can panic into the caller.
func recoverResult[T any](log Logger, op string, res *cms.Result[T]) {
	if r := recover(); r != nil {
		log.ErrorObj("cms operation panicked", "cms_panic", map[string]any{
			"operation": op,
			"panic":     fmt.Sprint(r),
		})
		*res = cms.ServerError[T]()
	}
}

func blogPostsPath(page int) string {
	path := "/blogs?populate=*"
	if page >= firstPage {
		path += fmt.Sprintf("&pagination[page]=%d&pagination[pageSize]=%d", page, ListPageSize)
	}
	return path
}
