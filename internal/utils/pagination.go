package utils

import (
	"math"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-manager-api/internal/constants"
)

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page    int
	PerPage int
	Offset  int
}

// SimplePage is a page of results that only knows whether more pages exist.
type SimplePage[T any] struct {
	CurrentPage  int     `json:"current_page"`
	Data         []T     `json:"data"`
	FirstPageURL string  `json:"first_page_url"`
	From         *int    `json:"from"`
	NextPageURL  *string `json:"next_page_url"`
	Path         string  `json:"path"`
	PerPage      int     `json:"per_page"`
	PrevPageURL  *string `json:"prev_page_url"`
	To           *int    `json:"to"`
}

// GetPaginationParams extracts page and per_page from the query string.
// Invalid values fall back to the defaults.
func GetPaginationParams(c *gin.Context) PaginationParams {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	perPage, err := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(constants.DefaultPageSize)))
	if err != nil || perPage < constants.MinPageSize {
		perPage = constants.DefaultPageSize
	}
	if perPage > constants.MaxPageSize {
		perPage = constants.MaxPageSize
	}

	// Keep the offset, and the next page number, representable.
	if maxPage := (math.MaxInt-perPage)/perPage + 1; page > maxPage {
		page = maxPage
	}

	return PaginationParams{
		Page:    page,
		PerPage: perPage,
		Offset:  (page - 1) * perPage,
	}
}

// NewSimplePage builds the page payload. items may hold one element more
// than PerPage; that extra element only signals a next page and is dropped.
func NewSimplePage[T any](c *gin.Context, params PaginationParams, items []T) SimplePage[T] {
	hasMore := len(items) > params.PerPage
	if hasMore {
		items = items[:params.PerPage]
	}
	if items == nil {
		items = []T{}
	}

	path := requestPath(c)
	page := SimplePage[T]{
		CurrentPage:  params.Page,
		Data:         items,
		FirstPageURL: pageURL(c, path, 1),
		Path:         path,
		PerPage:      params.PerPage,
	}

	if len(items) > 0 {
		from := params.Offset + 1
		to := params.Offset + len(items)
		page.From = &from
		page.To = &to
	}
	if hasMore {
		next := pageURL(c, path, params.Page+1)
		page.NextPageURL = &next
	}
	if params.Page > 1 {
		prev := pageURL(c, path, params.Page-1)
		page.PrevPageURL = &prev
	}

	return page
}

func requestPath(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host + c.Request.URL.Path
}

func pageURL(c *gin.Context, path string, page int) string {
	query := url.Values{}
	for key, values := range c.Request.URL.Query() {
		query[key] = values
	}
	query.Set("page", strconv.Itoa(page))
	return path + "?" + query.Encode()
}
