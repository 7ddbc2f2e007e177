package web

import (
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/devcorner/devcorner-blog/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageHome       = "home"
	pageArticle    = "article"
	pageSearch     = "search"
	pageTeam       = "team"
	pageNewsletter = "newsletter"
	pageNotFound   = "notfound"
)

var pageNames = []string{pageHome, pageArticle, pageSearch, pageTeam, pageNewsletter, pageNotFound}

var templateFuncs = template.FuncMap{
	"add": func(a, b int) int { return a + b },
	"sub": func(a, b int) int { return a - b },
}

// pageData is the single view model shared by every page.
type pageData struct {
	SiteName     string
	Title        string
	Description  string
	CanonicalURL string
	Notice       string
	Query        string
	Message      string
	Year         int

	Posts      []domain.BlogPost
	Post       *domain.BlogPost
	Body       template.HTML
	Authors    []domain.Author
	Pagination *domain.Pagination
}

// parsePages builds one template set per page so each can define its own content block.
func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		pages[name] = tmpl
	}
	return pages, nil
}

func currentYear() int { return time.Now().Year() }
