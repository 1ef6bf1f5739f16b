// Package platform holds the typed resource clients of the admin
// dashboard: users, pets, bookings, withdrawals and terms. They are thin
// request builders over the pipeline; every authorization concern lives
// below them.
package platform

import (
	"net/url"
	"strconv"
)

// ListParams are the common pagination and sorting parameters of list
// endpoints.
type ListParams struct {
	Page      int
	Size      int
	SortBy    string
	Direction string
}

// Values encodes the parameters, applying the server defaults for
// unset fields.
func (p ListParams) Values() url.Values {
	values := url.Values{}
	page := p.Page
	if page <= 0 {
		page = 1
	}
	size := p.Size
	if size <= 0 {
		size = 10
	}
	values.Set("page", strconv.Itoa(page))
	values.Set("size", strconv.Itoa(size))
	if p.SortBy != "" {
		values.Set("sortBy", p.SortBy)
	}
	if p.Direction != "" {
		values.Set("sort", p.Direction)
	}
	return values
}

// Page is the one canonical shape for paginated results. The server's
// historical envelope variants all normalize into it.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// pagedResponse is the wire form the platform actually sends for lists.
type pagedResponse[T any] struct {
	Data   []T `json:"data"`
	Paging struct {
		PageNumber int `json:"pageNumber"`
		TotalPage  int `json:"totalPage"`
		PageSize   int `json:"pageSize"`
		TotalItem  int `json:"totalItem"`
	} `json:"paging"`
}

func (r pagedResponse[T]) toPage() Page[T] {
	items := r.Data
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		Page:       r.Paging.PageNumber,
		PageSize:   r.Paging.PageSize,
		TotalItems: r.Paging.TotalItem,
		TotalPages: r.Paging.TotalPage,
	}
}
