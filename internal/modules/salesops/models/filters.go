package models

import (
	"math"

	"github.com/google/uuid"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	// MaxPage keeps Offset within int32 so it never overflows.
	MaxPage = math.MaxInt32 / MaxPageSize
)

// Pagination is shared by every list endpoint.
type Pagination struct {
	Page  int
	Limit int
}

// Normalize clamps page and limit to sane values.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	return p
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages returns the number of pages needed for total rows.
func (p Pagination) TotalPages(total int64) int {
	if p.Limit <= 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}

type ClientFilter struct {
	Pagination
	Search   string
	PlanType string
	SdrID    *uuid.UUID
	IDs      []uuid.UUID
}

type InvoiceFilter struct {
	Pagination
	ClientID *uuid.UUID
	Status   string
	Search   string
	Month    int
	Year     int
}

// OverviewFilter drives the admin overview list. Status is the derived
// achievement status.
type OverviewFilter struct {
	Pagination
	Search string
	SdrID  *uuid.UUID
	Status string
}
