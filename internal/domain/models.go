package domain

// Domain contains the display models produced from CMS responses.

// BlogPost is a single article as rendered by the front-end.
type BlogPost struct {
	ID               int             `json:"id"`
	Slug             string          `json:"slug"`
	Title            string          `json:"title"`
	ShortDescription string          `json:"shortDescription"`
	BlogMd           string          `json:"blogMd"`
	Date             string          `json:"date"`
	Tags             []Tag           `json:"tags"`
	Img              ResponsiveImage `json:"img"`
	Author           Author          `json:"author"`
	Meta             *Meta           `json:"meta,omitempty"`
}

// Author is a post author or team member. The zero value is a valid placeholder.
type Author struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Avatar      string `json:"avatar"`
	GithubURL   string `json:"githubUrl"`
	LinkedinURL string `json:"linkedinUrl"`
	WebAddress  string `json:"webAddress"`
}

type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ImageSources holds one URL per breakpoint.
type ImageSources struct {
	XS string `json:"xs"`
	SM string `json:"sm"`
	MD string `json:"md"`
	LG string `json:"lg"`
}

type ResponsiveImage struct {
	Src ImageSources `json:"src"`
	Alt string       `json:"alt"`
}

// Meta is the SEO metadata of a single post.
type Meta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Pagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

// HasNext reports whether a page after the current one exists.
func (p Pagination) HasNext() bool { return p.Page < p.PageCount }

// HasPrev reports whether a page before the current one exists.
func (p Pagination) HasPrev() bool { return p.Page > 1 }

// NewsletterAttributes is the input of a newsletter subscription.
type NewsletterAttributes struct {
	Email string `json:"email"`
}

// Newsletter is the confirmation returned once a subscription is stored.
type Newsletter struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}
