package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Erfanur1/Voyager/internal/domain"
)

func TestCategory_Valid(t *testing.T) {
	for _, c := range domain.Categories {
		assert.True(t, c.Valid(), string(c))
	}
	assert.False(t, domain.Category("Groceries").Valid())
	assert.False(t, domain.Category("").Valid())
}

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, domain.CategoryFood, domain.NormalizeCategory(domain.CategoryFood))
	assert.Equal(t, domain.CategoryOther, domain.NormalizeCategory("Groceries"))
	assert.Equal(t, domain.CategoryOther, domain.NormalizeCategory(""))
}
