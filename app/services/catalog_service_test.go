package services

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trancendwear/trancend/app/models"
	"github.com/trancendwear/trancend/pkg/record"
	"github.com/trancendwear/trancend/pkg/testkit"
)

func queryOf(t *testing.T, rawURL string) url.Values {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	return u.Query()
}

func listPage(items interface{}) map[string]interface{} {
	return map[string]interface{}{
		"page": 1, "perPage": 200, "totalPages": 1, "items": items,
	}
}

// once keeps fallback tests fast: one attempt, no backoff sleeps.
var once = []record.CallOption{record.Attempts(1), record.Backoff(0)}

func TestCategoriesDecodeBackendRecords(t *testing.T) {
	mt := testkit.Install(t)
	mt.On("GET", "/api/collections/categories/records").
		ReplyJSON(200, listPage([]models.Category{
			{ID: "x1", Name: "TOPS", Slug: "tops", Order: 1, Active: true},
		}))

	cat := NewCatalog(record.New("http://backend.test", ""), once...)

	got := cat.Categories()
	require.Len(t, got, 1)
	assert.Equal(t, "x1", got[0].ID)
}

func TestCategoriesFallBackToSeedsWhenBackendDown(t *testing.T) {
	mt := testkit.Install(t)
	mt.On("GET", "/api/collections/categories/records").ReplyError(500, "down")

	cat := NewCatalog(record.New("http://backend.test", ""), once...)

	got := cat.Categories()
	require.Len(t, got, 5)
	assert.Equal(t, "tops", got[0].Slug)
	assert.Equal(t, "upcycling", got[4].Slug)
}

func TestProductsFilterByCategorySlug(t *testing.T) {
	mt := testkit.Install(t)
	mt.On("GET", "/api/collections/product/records").ReplyJSON(200, listPage([]models.Product{}))

	cat := NewCatalog(record.New("http://backend.test", ""), once...)
	cat.Products("tops")

	calls := mt.Calls()
	require.Len(t, calls, 1)
	q := queryOf(t, calls[0].URL)
	assert.Equal(t, `category="tops"`, q.Get("filter"))
	assert.Equal(t, "-created", q.Get("sort"))
}

func TestProductsFallbackIsFilteredByCategory(t *testing.T) {
	mt := testkit.Install(t)
	mt.On("GET", "/api/collections/product/records").ReplyError(500, "down")

	cat := NewCatalog(record.New("http://backend.test", ""), once...)

	got := cat.Products("bottoms")
	require.Len(t, got, 2)
	for _, p := range got {
		assert.Equal(t, "bottoms", p.Category)
	}
}

func TestProductMissingEverywhereIsNil(t *testing.T) {
	mt := testkit.Install(t)
	mt.On("GET", "/api/collections/product/records/nope").ReplyError(404, "missing")

	cat := NewCatalog(record.New("http://backend.test", ""), once...)

	assert.Nil(t, cat.Product("nope"))
}

func TestProductFallsBackToSeedOnOutage(t *testing.T) {
	mt := testkit.Install(t)
	mt.On("GET", "/api/collections/product/records/1").ReplyError(500, "down")

	cat := NewCatalog(record.New("http://backend.test", ""), once...)

	p := cat.Product("1")
	require.NotNil(t, p)
	assert.Equal(t, "VOID TEE", p.Name)
}

func TestFeaturedFallbackExcludesNonFeaturedSeeds(t *testing.T) {
	mt := testkit.Install(t)
	mt.On("GET", "/api/collections/product/records").ReplyError(500, "down")

	cat := NewCatalog(record.New("http://backend.test", ""), once...)

	got := cat.Featured()
	require.NotEmpty(t, got)
	for _, p := range got {
		assert.True(t, p.Featured)
	}
	assert.NotContains(t,
		collectionNames(got), "ASCEND SET", "the one non-featured seed stays out")
}

func collectionNames(products []models.Product) []string {
	names := make([]string, len(products))
	for i, p := range products {
		names[i] = p.Name
	}
	return names
}

func TestSearchBlankQueryShortCircuits(t *testing.T) {
	mt := testkit.Install(t)

	cat := NewCatalog(record.New("http://backend.test", ""), once...)

	assert.Empty(t, cat.Search(""))
	assert.Empty(t, cat.Search("   \t "))
	assert.Equal(t, 0, mt.CallCount("", ""), "blank queries must not hit the backend")
}

func TestSearchSendsTildeFilter(t *testing.T) {
	mt := testkit.Install(t)
	mt.On("GET", "/api/collections/product/records").ReplyJSON(200, listPage([]models.Product{}))

	cat := NewCatalog(record.New("http://backend.test", ""), once...)
	cat.Search("  hoodie ")

	calls := mt.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t,
		`name ~ "hoodie" || description ~ "hoodie" || category ~ "hoodie"`,
		queryOf(t, calls[0].URL).Get("filter"))
}

func TestSearchFallbackMatchesCaseInsensitively(t *testing.T) {
	mt := testkit.Install(t)
	mt.On("GET", "/api/collections/product/records").ReplyError(500, "down")

	cat := NewCatalog(record.New("http://backend.test", ""), once...)

	got := cat.Search("void")
	require.Len(t, got, 1)
	assert.Equal(t, "VOID TEE", got[0].Name)

	// Category text matches too.
	assert.NotEmpty(t, cat.Search("UPCYCLING"))
}

func TestHeroSlidesFallBackToSeeds(t *testing.T) {
	mt := testkit.Install(t)
	mt.On("GET", "/api/collections/hero_slides/records").ReplyError(500, "down")

	cat := NewCatalog(record.New("http://backend.test", ""), once...)

	got := cat.HeroSlides()
	require.Len(t, got, 3)
	assert.Equal(t, "Collection 2025", got[0].Title)
}
