package pagination

import (
	"math"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		want       Params
		wantOffset int
	}{
		{name: "defaults", query: "", want: Params{Page: 1, Limit: 10}, wantOffset: 0},
		{name: "explicit", query: "?page=3&limit=5", want: Params{Page: 3, Limit: 5}, wantOffset: 10},
		{name: "zero page", query: "?page=0", want: Params{Page: 1, Limit: 10}, wantOffset: 0},
		{name: "negative limit", query: "?limit=-4", want: Params{Page: 1, Limit: 10}, wantOffset: 0},
		{name: "garbage", query: "?page=abc&limit=x", want: Params{Page: 1, Limit: 10}, wantOffset: 0},
		{name: "limit capped", query: "?page=2&limit=1000", want: Params{Page: 2, Limit: 100}, wantOffset: 100},
		{
			name:       "page at max int is capped",
			query:      "?page=" + strconv.Itoa(math.MaxInt) + "&limit=10",
			want:       Params{Page: MaxPage, Limit: 10},
			wantOffset: (MaxPage - 1) * 10,
		},
		{
			name:       "huge page with max limit",
			query:      "?page=" + strconv.Itoa(math.MaxInt) + "&limit=100",
			want:       Params{Page: MaxPage, Limit: 100},
			wantOffset: (MaxPage - 1) * 100,
		},
		{name: "page beyond int range", query: "?page=99999999999999999999999", want: Params{Page: 1, Limit: 10}, wantOffset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromRequest(httptest.NewRequest("GET", "/v1/test"+tt.query, nil))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOffset, got.Offset())
		})
	}
}

func TestParams_Offset(t *testing.T) {
	tests := []struct {
		name string
		p    Params
		want int
	}{
		{name: "first page", p: Params{Page: 1, Limit: 10}, want: 0},
		{name: "zero value", p: Params{}, want: 0},
		{name: "negative page", p: Params{Page: -5, Limit: 10}, want: 0},
		{name: "overflowing page", p: Params{Page: math.MaxInt, Limit: 10}, want: math.MaxInt},
		{name: "largest safe page", p: Params{Page: math.MaxInt/10 + 1, Limit: 10}, want: math.MaxInt / 10 * 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.p.Offset()
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
		})
	}
}

func TestNewMeta(t *testing.T) {
	tests := []struct {
		name  string
		p     Params
		total int
		want  Meta
	}{
		{
			name:  "empty",
			p:     Params{Page: 1, Limit: 10},
			total: 0,
			want:  Meta{Total: 0, TotalPages: 0, CurrentPage: 1, Limit: 10},
		},
		{
			name:  "first of three",
			p:     Params{Page: 1, Limit: 10},
			total: 25,
			want:  Meta{Total: 25, TotalPages: 3, CurrentPage: 1, Limit: 10, HasNextPage: true},
		},
		{
			name:  "middle",
			p:     Params{Page: 2, Limit: 10},
			total: 25,
			want:  Meta{Total: 25, TotalPages: 3, CurrentPage: 2, Limit: 10, HasPreviousPage: true, HasNextPage: true},
		},
		{
			name:  "last exact",
			p:     Params{Page: 2, Limit: 5},
			total: 10,
			want:  Meta{Total: 10, TotalPages: 2, CurrentPage: 2, Limit: 5, HasPreviousPage: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewMeta(tt.p, tt.total))
		})
	}
}
