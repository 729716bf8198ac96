package models

import (
	"math"
	"testing"
)

func TestPaginationNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   Pagination
		want Pagination
	}{
		{"defaults", Pagination{}, Pagination{Page: 1, Limit: DefaultPageSize}},
		{"limit capped", Pagination{Page: 2, Limit: 1000}, Pagination{Page: 2, Limit: MaxPageSize}},
		{"huge page capped", Pagination{Page: math.MaxInt, Limit: MaxPageSize}, Pagination{Page: MaxPage, Limit: MaxPageSize}},
		{"negative page", Pagination{Page: -3, Limit: 5}, Pagination{Page: 1, Limit: 5}},
	}
	for _, tc := range cases {
		got := tc.in.Normalize()
		if got != tc.want {
			t.Fatalf("%s: got %+v, want %+v", tc.name, got, tc.want)
		}
		if got.Offset() < 0 {
			t.Fatalf("%s: negative offset %d", tc.name, got.Offset())
		}
	}
}
