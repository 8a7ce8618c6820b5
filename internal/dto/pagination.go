package dto

import (
	"strconv"

	"github.com/wb-go/wbf/ginext"
)

const maxPerPage = 100

type ListParams struct {
	Page    int
	PerPage int
}

func (p ListParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// ParseListParams reads page/per_page query parameters, falling back to page 1
// and the given default page size. Out-of-range values are clamped.
func ParseListParams(c *ginext.Context, defaultPerPage int) ListParams {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	perPage, err := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultPerPage)))
	if err != nil || perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	return ListParams{Page: page, PerPage: perPage}
}
