package strapi

import (
	"strconv"
	"strings"
	"time"

	"github.com/devcorner/devcorner-blog/internal/domain"
)

// Strapi image format names, smallest first.
const (
	formatThumbnail = "thumbnail"
	formatSmall     = "small"
	formatMedium    = "medium"
	formatLarge     = "large"
)

// adapter maps wire shapes to domain models. It only holds the base URL used to
// resolve relative media paths, so every method is a pure function of its input.
type adapter struct {
	mediaBase string
}

func newAdapter(mediaBase string) adapter {
	return adapter{mediaBase: strings.TrimRight(strings.TrimSpace(mediaBase), "/")}
}

// blogPost flattens a post. Author and meta are resolved by the caller so list
// and detail views can differ in what they populate.
func (a adapter) blogPost(p blogPost, author domain.Author, meta *domain.Meta) domain.BlogPost {
	attrs := p.Attributes

	slug := strings.TrimSpace(string(attrs.Slug))
	if slug == "" {
		slug = strconv.Itoa(p.ID)
	}

	img := a.image(attrs.Img.Data)
	if img.Alt == "" {
		img.Alt = string(attrs.Title)
	}

	date := firstNonEmpty(string(attrs.Date), string(attrs.PublishedAt))

	return domain.BlogPost{
		ID:               p.ID,
		Slug:             slug,
		Title:            string(attrs.Title),
		ShortDescription: string(attrs.ShortDescription),
		BlogMd:           string(attrs.BlogMd),
		Date:             normalizeDate(date),
		Tags:             adaptTags(attrs.Tags),
		Img:              img,
		Author:           author,
		Meta:             meta,
	}
}

// author never returns a nil-like value: a missing relation yields the zero Author.
func (a adapter) author(e *entity[authorAttributes]) domain.Author {
	if e == nil {
		return domain.Author{}
	}
	attrs := e.Attributes
	avatar := ""
	if m := attrs.Avatar.Data; m != nil {
		avatar = a.mediaURL(firstNonEmpty(formatURL(m.Attributes, formatSmall), string(m.Attributes.URL)))
	}
	return domain.Author{
		ID:          e.ID,
		Name:        string(attrs.Name),
		Role:        string(attrs.Role),
		Avatar:      avatar,
		GithubURL:   string(attrs.GithubURL),
		LinkedinURL: string(attrs.LinkedinURL),
		WebAddress:  string(attrs.WebAddress),
	}
}

func adaptMeta(e *entity[metaAttributes]) *domain.Meta {
	if e == nil {
		return nil
	}
	return &domain.Meta{
		Title:       string(e.Attributes.Title),
		Description: string(e.Attributes.Description),
	}
}

// image picks one source per breakpoint. A missing format falls back to the
// next larger one and finally to the original upload.
func (a adapter) image(e *entity[mediaAttributes]) domain.ResponsiveImage {
	if e == nil {
		return domain.ResponsiveImage{}
	}
	attrs := e.Attributes
	lg := firstNonEmpty(formatURL(attrs, formatLarge), string(attrs.URL))
	md := firstNonEmpty(formatURL(attrs, formatMedium), lg)
	sm := firstNonEmpty(formatURL(attrs, formatSmall), md)
	xs := firstNonEmpty(formatURL(attrs, formatThumbnail), sm)

	return domain.ResponsiveImage{
		Src: domain.ImageSources{
			XS: a.mediaURL(xs),
			SM: a.mediaURL(sm),
			MD: a.mediaURL(md),
			LG: a.mediaURL(lg),
		},
		Alt: strings.TrimSpace(string(attrs.AlternativeText)),
	}
}

// mediaURL resolves upload paths such as /uploads/x.png against the media host.
func (a adapter) mediaURL(u string) string {
	u = strings.TrimSpace(u)
	if u == "" {
		return ""
	}
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") || strings.HasPrefix(u, "//") {
		return u
	}
	if a.mediaBase == "" {
		return u
	}
	return a.mediaBase + "/" + strings.TrimLeft(u, "/")
}

func adaptTags(rel relationList[tagAttributes]) []domain.Tag {
	tags := make([]domain.Tag, 0, len(rel.Data))
	for _, t := range rel.Data {
		name := strings.TrimSpace(string(t.Attributes.Name))
		if name == "" {
			continue
		}
		tags = append(tags, domain.Tag{ID: t.ID, Name: name})
	}
	return tags
}

func adaptPagination(p *paginationWire) *domain.Pagination {
	if p == nil {
		return nil
	}
	return &domain.Pagination{
		Page:      int(p.Page),
		PageSize:  int(p.PageSize),
		PageCount: int(p.PageCount),
		Total:     int(p.Total),
	}
}

func adaptNewsletter(e *entity[newsletterAttributes], fallbackEmail string) domain.Newsletter {
	if e == nil {
		return domain.Newsletter{Email: fallbackEmail}
	}
	return domain.Newsletter{
		ID:        e.ID,
		Email:     firstNonEmpty(string(e.Attributes.Email), fallbackEmail),
		CreatedAt: string(e.Attributes.CreatedAt),
	}
}

func formatURL(m mediaAttributes, name string) string {
	return string(m.Formats[name].URL)
}

// normalizeDate reduces full timestamps to their calendar date; other values pass through.
func normalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC().Format(time.DateOnly)
	}
	return raw
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
