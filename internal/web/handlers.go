package web

import (
	"bytes"
	"encoding/xml"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/devcorner/devcorner-blog/pkg/cms"
)

const (
	noticePostsUnavailable   = "Articles could not be loaded right now. Please try again later."
	noticeAuthorsUnavailable = "The team could not be loaded right now. Please try again later."
	noticeBodyUnavailable    = "This article could not be displayed completely."
	messageSubscribed        = "Thanks for subscribing!"

	maxNewsletterBody = 4 << 10
)

// Home lists the latest posts, one page at a time.
func (s *Server) Home(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page = n
		}
	}

	data := s.newPage()
	data.CanonicalURL = s.absoluteURL("/")
	res := s.blog.GetBlogPosts(r.Context(), cms.BlogPostsParams{Page: page})
	if res.Success {
		data.Posts = res.Data
		data.Pagination = res.Pagination
	} else {
		s.logFailure("home", res.Status, res.Message)
		data.Notice = noticePostsUnavailable
	}
	s.render(w, http.StatusOK, pageHome, data)
}

// Article shows a single post with its rendered body.
func (s *Server) Article(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	res := s.blog.GetBlogPost(r.Context(), cms.BlogPostParams{Slug: slug})
	if !res.Success {
		if res.Status == http.StatusNotFound || res.Status == http.StatusBadRequest {
			s.NotFound(w, r)
			return
		}
		s.logFailure("article", res.Status, res.Message)
		data := s.newPage()
		data.Notice = noticePostsUnavailable
		s.render(w, http.StatusBadGateway, pageArticle, data)
		return
	}

	post := res.Data
	data := s.newPage()
	data.Post = &post
	data.Title = post.Title
	data.Description = post.ShortDescription
	if post.Meta != nil {
		if post.Meta.Title != "" {
			data.Title = post.Meta.Title
		}
		if post.Meta.Description != "" {
			data.Description = post.Meta.Description
		}
	}
	data.CanonicalURL = s.absoluteURL(articlePath(post.Slug))

	body, err := s.md.Markdown(post.BlogMd)
	if err != nil {
		s.log.ErrorObj("markdown render failed", "render_error", map[string]any{
			"slug":  post.Slug,
			"error": err.Error(),
		})
		data.Notice = noticeBodyUnavailable
	}
	data.Body = body
	s.render(w, http.StatusOK, pageArticle, data)
}

// Search lists posts matching the q parameter.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	data := s.newPage()
	data.Title = "Search"
	data.Query = query
	if query == "" {
		s.render(w, http.StatusOK, pageSearch, data)
		return
	}

	res := s.blog.GetBlogPostsBySearch(r.Context(), cms.BlogPostBySearchParams{Search: query})
	if res.Success {
		data.Posts = res.Data
	} else {
		s.logFailure("search", res.Status, res.Message)
		data.Notice = noticePostsUnavailable
	}
	s.render(w, http.StatusOK, pageSearch, data)
}

// Team lists the authors.
func (s *Server) Team(w http.ResponseWriter, r *http.Request) {
	data := s.newPage()
	data.Title = "Team"
	data.CanonicalURL = s.absoluteURL("/team")
	res := s.blog.GetAuthors(r.Context())
	if res.Success {
		data.Authors = res.Data
	} else {
		s.logFailure("team", res.Status, res.Message)
		data.Notice = noticeAuthorsUnavailable
	}
	s.render(w, http.StatusOK, pageTeam, data)
}

type newsletterResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Newsletter accepts the footer form. JSON clients get a JSON answer.
func (s *Server) Newsletter(w http.ResponseWriter, r *http.Request) {
	email, err := newsletterEmail(w, r)
	if err != nil {
		s.log.DebugObj("newsletter body unreadable", "newsletter_request", map[string]any{
			"error": err.Error(),
		})
	}
	res := s.news.Subscribe(r.Context(), email)

	message := messageSubscribed
	status := http.StatusCreated
	if !res.Success {
		message = res.Message
		status = res.Status
	}

	if wantsJSON(r) {
		writeJSON(w, status, newsletterResponse{Success: res.Success, Message: message})
		return
	}
	data := s.newPage()
	data.Title = "Newsletter"
	data.Message = message
	s.render(w, status, pageNewsletter, data)
}

// maxSitemapPages bounds the listing walk if the backend keeps reporting more pages.
const maxSitemapPages = 200

// Sitemap lists the static pages and every article, walking the listing page by page.
func (s *Server) Sitemap(w http.ResponseWriter, r *http.Request) {
	set := urlSet{XMLNS: sitemapNS, URLs: []sitemapURL{
		{Loc: s.absoluteURL("/")},
		{Loc: s.absoluteURL("/team")},
	}}

	for page := 1; page <= maxSitemapPages; page++ {
		res := s.blog.GetBlogPosts(r.Context(), cms.BlogPostsParams{Page: page})
		if !res.Success {
			s.logFailure("sitemap", res.Status, res.Message)
			break
		}
		for _, p := range res.Data {
			set.URLs = append(set.URLs, sitemapURL{Loc: s.absoluteURL(articlePath(p.Slug)), LastMod: p.Date})
		}
		if res.Pagination == nil || page >= res.Pagination.PageCount || len(res.Data) == 0 {
			break
		}
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := xml.NewEncoder(&buf).Encode(set); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// HighlightCSS serves the stylesheet for highlighted code blocks.
func (s *Server) HighlightCSS(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	if err := s.md.WriteCSS(&buf); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(buf.Bytes())
}

// Health is the liveness probe.
func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// NotFound renders the 404 page.
func (s *Server) NotFound(w http.ResponseWriter, _ *http.Request) {
	data := s.newPage()
	data.Title = "Not found"
	s.render(w, http.StatusNotFound, pageNotFound, data)
}

func (s *Server) newPage() pageData {
	return pageData{
		SiteName:    s.siteName,
		Description: "A tech blog",
		Year:        currentYear(),
	}
}

// render executes into a buffer first so a template error never leaves a half-written page.
func (s *Server) render(w http.ResponseWriter, status int, page string, data pageData) {
	tmpl, ok := s.pages[page]
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		s.log.ErrorObj("template render failed", "render_error", map[string]any{
			"page":  page,
			"error": err.Error(),
		})
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) logFailure(page string, status int, message string) {
	s.log.WarnObj("content unavailable", "page_error", map[string]any{
		"page":    page,
		"status":  status,
		"message": message,
	})
}

func newsletterEmail(w http.ResponseWriter, r *http.Request) (string, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Email string `json:"email"`
		}
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxNewsletterBody)).Decode(&body); err != nil {
			return "", err
		}
		return body.Email, nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxNewsletterBody)
	if err := r.ParseForm(); err != nil {
		return "", err
	}
	return r.PostFormValue("email"), nil
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
