package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Erfanur1/Voyager/internal/domain"
)

func TestNewPaginationParams(t *testing.T) {
	tests := []struct {
		name        string
		page, limit int
		want        domain.PaginationParams
	}{
		{"defaults", 0, 0, domain.PaginationParams{Page: 1, Limit: 20}},
		{"negative values fall back", -3, -1, domain.PaginationParams{Page: 1, Limit: 20}},
		{"explicit values kept", 4, 50, domain.PaginationParams{Page: 4, Limit: 50}},
		{"limit capped at 100", 1, 500, domain.PaginationParams{Page: 1, Limit: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.NewPaginationParams(tt.page, tt.limit))
		})
	}
}

func TestPaginationParams_Offset(t *testing.T) {
	assert.Equal(t, 0, domain.NewPaginationParams(1, 20).Offset())
	assert.Equal(t, 40, domain.NewPaginationParams(3, 20).Offset())
}
