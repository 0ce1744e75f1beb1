package catalog

import (
	"slices"
	"testing"

	"cosmetics-storefront/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestFilterCategoryAndBrandIntersect(t *testing.T) {
	ix := NewSeedIndex()

	got := ix.List(Query{Category: "styling", Brand: "American Crew"})

	assert.Equal(t, []string{"1", "10"}, ids(got))
	for _, p := range got {
		assert.Equal(t, "styling", p.Category)
		assert.Equal(t, "American Crew", p.Brand)
	}
}

func TestFilterSearchMatchesNameOrBrandCaseInsensitive(t *testing.T) {
	ix := NewSeedIndex()

	assert.Equal(t, []string{"5", "11"}, ids(ix.List(Query{Search: "PRORASO"})))
	assert.Equal(t, []string{"7"}, ids(ix.List(Query{Search: "sauvage"})))
	assert.Empty(t, ix.List(Query{Search: "nothing like this"}))
}

func TestFilterIsIdempotentAndRestartable(t *testing.T) {
	ix := NewSeedIndex()
	q := Query{Category: "perfume", Sort: SortPriceAsc}

	seq := ix.Filter(q)
	first := slices.Collect(seq)
	second := slices.Collect(seq)

	assert.Equal(t, ids(first), ids(second))
	assert.Equal(t, ids(first), ids(ix.List(q)))
}

func TestDefaultSortKeepsInputOrder(t *testing.T) {
	ix := NewSeedIndex()

	got := ix.List(Query{Category: "face"})

	assert.Equal(t, []string{"5", "12"}, ids(got))
}

func TestPriceSortsAreReversed(t *testing.T) {
	ix := NewSeedIndex()

	asc := ids(ix.List(Query{Category: "perfume", Sort: SortPriceAsc}))
	desc := ids(ix.List(Query{Category: "perfume", Sort: SortPriceDesc}))

	assert.Equal(t, []string{"3", "7", "9"}, asc)
	slices.Reverse(desc)
	assert.Equal(t, asc, desc)
}

func TestRatingSortIsDescendingAndStable(t *testing.T) {
	ix := NewSeedIndex()

	got := ix.List(Query{Sort: SortRating})

	require.Len(t, got, ix.Len())
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Rating, got[i].Rating)
	}
	// products 3, 7 and 9 share the top rating and keep their input order
	assert.Equal(t, []string{"3", "7", "9"}, ids(got[:3]))
}

func TestFilterStopsEarly(t *testing.T) {
	ix := NewSeedIndex()

	n := 0
	for range ix.Filter(Query{}) {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestParseSortKey(t *testing.T) {
	assert.Equal(t, SortPriceDesc, ParseSortKey("price-desc"))
	assert.Equal(t, SortDefault, ParseSortKey("cheapest"))
	assert.Equal(t, SortDefault, ParseSortKey(""))
}

func TestGet(t *testing.T) {
	ix := NewSeedIndex()

	p, ok := ix.Get("7")
	require.True(t, ok)
	assert.Equal(t, "Dior", p.Brand)

	_, ok = ix.Get("404")
	assert.False(t, ok)
}

func TestSections(t *testing.T) {
	s := NewSeedIndex().Sections()

	assert.Equal(t, []string{"1", "3", "6", "7"}, ids(s.Featured))
	assert.Equal(t, []string{"4", "12"}, ids(s.New))
	assert.Equal(t, []string{"1", "2", "4", "8", "10", "11"}, ids(s.Professional))
}

func TestBrandsCollectedWhenMissing(t *testing.T) {
	ix := NewIndex([]models.Product{
		{ID: "a", Brand: "Dior", Price: decimal.NewFromInt(1)},
		{ID: "b", Brand: "Chanel", Price: decimal.NewFromInt(2)},
		{ID: "c", Brand: "Dior", Price: decimal.NewFromInt(3)},
	}, nil, nil)

	assert.Equal(t, []string{"Dior", "Chanel"}, ix.Brands())
}

func TestLiveSwap(t *testing.T) {
	live := NewLive(NewSeedIndex())
	before := live.Index()

	live.Swap(NewIndex(SeedProducts[:2], SeedCategories, nil))

	assert.Equal(t, 12, before.Len())
	assert.Equal(t, 2, live.Index().Len())
}
