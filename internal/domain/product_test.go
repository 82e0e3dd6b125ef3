package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Product Category Validation Tests
// ============================================================================

func TestValidCategories_ContainsAll(t *testing.T) {
	categories := ValidCategories()
	expected := []string{CategoryElectronics, CategoryFashion, CategoryHomeLiving, CategoryHandicraft}
	assert.ElementsMatch(t, expected, categories)
}

func TestIsValidCategory_ValidCategories(t *testing.T) {
	for _, c := range ValidCategories() {
		assert.True(t, IsValidCategory(c), "expected %q to be valid", c)
	}
}

func TestIsValidCategory_Invalid(t *testing.T) {
	assert.False(t, IsValidCategory("unknown"))
	assert.False(t, IsValidCategory(""))
	assert.False(t, IsValidCategory("Electronics"))
}

// ============================================================================
// Dual-Key Matching Tests
// ============================================================================

func TestProduct_MatchesItemKey_ByItemID(t *testing.T) {
	p := Product{ID: "alpha", ItemID: "beta"}
	assert.True(t, p.MatchesItemKey("beta"))
}

func TestProduct_MatchesItemKey_ByID(t *testing.T) {
	p := Product{ID: "alpha", ItemID: "beta"}
	assert.True(t, p.MatchesItemKey("alpha"))
}

func TestProduct_MatchesItemKey_NoMatch(t *testing.T) {
	p := Product{ID: "alpha", ItemID: "beta"}
	assert.False(t, p.MatchesItemKey("gamma"))
	assert.False(t, p.MatchesItemKey(""))
}

// ============================================================================
// Price JSON Tolerance Tests
// ============================================================================

func TestProduct_PriceUnmarshal_Numeric(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"id":"p1","price":12.5}`), &p))
	assert.True(t, p.Price.Equal(decimal.NewFromFloat(12.5)), "price = %s", p.Price)
}

func TestProduct_PriceUnmarshal_NumericString(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"id":"p1","price":"12.50"}`), &p))
	assert.True(t, p.Price.Equal(decimal.RequireFromString("12.5")), "price = %s", p.Price)
}

func TestProduct_ReviewCountWireName(t *testing.T) {
	p := Product{ID: "p1", ReviewCount: 7}
	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"review_count":7`)
}

// ============================================================================
// Review Rating Bounds Tests
// ============================================================================

func TestIsValidReviewRating(t *testing.T) {
	for r := MinReviewRating; r <= MaxReviewRating; r++ {
		assert.True(t, IsValidReviewRating(r), "rating %d should be valid", r)
	}
	assert.False(t, IsValidReviewRating(0))
	assert.False(t, IsValidReviewRating(6))
	assert.False(t, IsValidReviewRating(-1))
}

// ============================================================================
// User Read-Model Tests
// ============================================================================

func TestUser_FullName(t *testing.T) {
	u := User{FirstName: "Sokha", LastName: "Chan"}
	assert.Equal(t, "Sokha Chan", u.FullName())
}

func TestUser_FullName_PartialNames(t *testing.T) {
	assert.Equal(t, "Sokha", (&User{FirstName: "Sokha"}).FullName())
	assert.Equal(t, "Chan", (&User{LastName: "Chan"}).FullName())
	assert.Equal(t, "", (&User{}).FullName())
}

func TestUser_FullName_TrimsWhitespace(t *testing.T) {
	u := User{FirstName: " Sokha ", LastName: " Chan "}
	assert.Equal(t, "Sokha Chan", u.FullName())
}
