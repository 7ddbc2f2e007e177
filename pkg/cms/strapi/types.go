package strapi

import "github.com/goccy/go-json"

// Wire shapes returned by the Strapi REST API. Relations are wrapped as
// {"data": {...} | null} (single) or {"data": [...]} (many). Scalars use the
// lenient text and number types so one odd field never sinks a record.

type entity[T any] struct {
	ID         int
	Attributes T
}

type relation[T any] struct {
	Data *entity[T]
}

type relationList[T any] struct {
	Data []entity[T]
}

// envelope is the top-level body of every Strapi response. Each part is
// decoded on its own.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Meta  json.RawMessage `json:"meta"`
	Error json.RawMessage `json:"error"`
}

type responseMeta struct {
	Pagination *paginationWire `json:"pagination"`
}

type paginationWire struct {
	Page      number `json:"page"`
	PageSize  number `json:"pageSize"`
	PageCount number `json:"pageCount"`
	Total     number `json:"total"`
}

type apiError struct {
	Status  number `json:"status"`
	Name    text   `json:"name"`
	Message text   `json:"message"`
}

type blogPost = entity[blogPostAttributes]

type blogPostAttributes struct {
	Title            text                        `json:"title"`
	Slug             text                        `json:"slug"`
	ShortDescription text                        `json:"short_description"`
	BlogMd           text                        `json:"blog_md"`
	Date             text                        `json:"date"`
	PublishedAt      text                        `json:"publishedAt"`
	Tags             relationList[tagAttributes] `json:"tags"`
	Img              relation[mediaAttributes]   `json:"img"`
	Author           relation[authorAttributes]  `json:"author"`
	MetaDatum        relation[metaAttributes]    `json:"meta_datum"`
}

type tagAttributes struct {
	Name text `json:"name"`
}

type mediaFormat struct {
	URL    text   `json:"url"`
	Width  number `json:"width"`
	Height number `json:"height"`
}

type mediaFormats map[string]mediaFormat

type mediaAttributes struct {
	URL             text         `json:"url"`
	AlternativeText text         `json:"alternativeText"`
	Formats         mediaFormats `json:"formats"`
}

type authorAttributes struct {
	Name        text                      `json:"name"`
	Role        text                      `json:"role"`
	Avatar      relation[mediaAttributes] `json:"avatar"`
	GithubURL   text                      `json:"github_url"`
	LinkedinURL text                      `json:"linkedin_url"`
	WebAddress  text                      `json:"web_address"`
}

type metaAttributes struct {
	Title       text `json:"title"`
	Description text `json:"description"`
}

type newsletterAttributes struct {
	Email     text `json:"email"`
	CreatedAt text `json:"createdAt"`
}
