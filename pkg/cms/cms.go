// Package cms defines the contract between the headless CMS adapters and the views.
package cms

import (
	"context"
	"net/http"

	"github.com/devcorner/devcorner-blog/internal/domain"
)

// ServerErrorMessage is reported when a request fails for reasons the caller cannot act on.
const ServerErrorMessage = "Server error"

// BlogService exposes one operation per blog use case. Implementations never
// panic or return Go errors: every failure is a Result with Success false.
type BlogService interface {
	GetBlogPosts(ctx context.Context, params BlogPostsParams) Result[[]domain.BlogPost]
	GetBlogPost(ctx context.Context, params BlogPostParams) Result[domain.BlogPost]
	GetBlogPostsBySearch(ctx context.Context, params BlogPostBySearchParams) Result[[]domain.BlogPost]
	GetAuthors(ctx context.Context) Result[[]domain.Author]
	SubscribeToNewsletter(ctx context.Context, attrs domain.NewsletterAttributes) Result[domain.Newsletter]
}

// BlogPostsParams selects a page of posts. Page values below 1 request the unpaginated listing.
type BlogPostsParams struct {
	Page int
}

type BlogPostParams struct {
	Slug string
}

type BlogPostBySearchParams struct {
	Search string
}

// Result is the outcome of a CMS call. Data is only meaningful when Success is true;
// Message is only meaningful when it is false.
type Result[T any] struct {
	Success    bool
	Data       T
	Status     int
	Message    string
	Pagination *domain.Pagination
}

// OK builds a successful result.
func OK[T any](data T, status int) Result[T] {
	if status < 200 || status > 299 {
		status = http.StatusOK
	}
	return Result[T]{Success: true, Data: data, Status: status}
}

// OKWithPagination builds a successful list result carrying pagination metadata.
func OKWithPagination[T any](data T, status int, p *domain.Pagination) Result[T] {
	res := OK(data, status)
	res.Pagination = p
	return res
}

// Fail builds a failed result. A 2xx or missing status is replaced by 500 so a
// failure never looks successful.
func Fail[T any](message string, status int) Result[T] {
	if status < 300 {
		status = http.StatusInternalServerError
	}
	if message == "" {
		message = ServerErrorMessage
	}
	return Result[T]{Success: false, Message: message, Status: status}
}

// ServerError is the catch-all failure.
func ServerError[T any]() Result[T] {
	return Fail[T](ServerErrorMessage, http.StatusInternalServerError)
}
