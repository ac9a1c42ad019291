package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageParams_Validate(t *testing.T) {
	tests := []struct {
		name      string
		in        PageParams
		wantPage  int
		wantLimit int
	}{
		{name: "defaults for zero values", in: PageParams{}, wantPage: 1, wantLimit: 20},
		{name: "negative page", in: PageParams{Page: -3, Limit: 10}, wantPage: 1, wantLimit: 10},
		{name: "limit capped", in: PageParams{Page: 2, Limit: 5000}, wantPage: 2, wantLimit: 100},
		{name: "valid untouched", in: PageParams{Page: 4, Limit: 50}, wantPage: 4, wantLimit: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Validate()
			assert.Equal(t, tt.wantPage, tt.in.Page)
			assert.Equal(t, tt.wantLimit, tt.in.Limit)
		})
	}
}

func TestPageParams_Offset(t *testing.T) {
	assert.Equal(t, 0, PageParams{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 40, PageParams{Page: 3, Limit: 20}.Offset())
}

func TestNewPageResult(t *testing.T) {
	res := NewPageResult([]int{1, 2, 3}, PageParams{Page: 1, Limit: 3}, 25)

	assert.Equal(t, 25, res.Total)
	assert.Equal(t, 9, res.TotalPages)
	assert.Len(t, res.Items, 3)
}

func TestNewPageResult_Empty(t *testing.T) {
	res := NewPageResult([]string{}, PageParams{Page: 1, Limit: 20}, 0)

	assert.Zero(t, res.Total)
	assert.Zero(t, res.TotalPages)
	assert.Empty(t, res.Items)
}
