package repo

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/scatch/internal/catalog"
	"github.com/Skotchmaster/scatch/internal/models"
)

func names(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

func TestListProducts_PriceBuckets(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	seedProducts(t, r,
		models.Product{Name: "A", Price: 400},
		models.Product{Name: "B", Price: 800},
		models.Product{Name: "C", Price: 2500},
	)

	f := catalog.ParseFilter(url.Values{"price": []string{"0-500", "2000+"}})
	got, err := r.ListProducts(context.Background(), f)
	require.NoError(t, err)

	// default order is reverse insertion
	assert.Equal(t, []string{"C", "A"}, names(got))
}

func TestListProducts_BucketBounds(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	seedProducts(t, r,
		models.Product{Name: "edge500", Price: 500},
		models.Product{Name: "edge1000", Price: 1000},
		models.Product{Name: "edge2000", Price: 2000},
		models.Product{Name: "over", Price: 2000.01},
	)

	tests := []struct {
		bucket string
		want   []string
	}{
		{"0-500", []string{"edge500"}},
		{"500-1000", []string{"edge1000"}},
		{"1000-2000", []string{"edge2000"}},
		{"2000+", []string{"over"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.bucket, func(t *testing.T) {
			t.Parallel()

			f := catalog.ParseFilter(url.Values{"price": []string{tt.bucket}})
			got, err := r.ListProducts(context.Background(), f)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, names(got))
		})
	}
}

func TestListProducts_SearchIsCaseInsensitiveSubstring(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	seedProducts(t, r,
		models.Product{Name: "Desk Lamp", Price: 100},
		models.Product{Name: "Floor LAMP", Price: 200},
		models.Product{Name: "Chair", Price: 300},
	)

	f := catalog.ParseFilter(url.Values{"search": []string{"lamp"}})
	got, err := r.ListProducts(context.Background(), f)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Desk Lamp", "Floor LAMP"}, names(got))
}

func TestListProducts_PriceAndDiscountGroupsAreANDed(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	seedProducts(t, r,
		models.Product{Name: "cheap-discounted", Price: 300, Discount: 20},
		models.Product{Name: "cheap-full", Price: 300, Discount: 0},
		models.Product{Name: "pricey-discounted", Price: 3000, Discount: 20},
	)

	f := catalog.ParseFilter(url.Values{
		"price":    []string{"0-500"},
		"discount": []string{"10"},
	})
	got, err := r.ListProducts(context.Background(), f)
	require.NoError(t, err)

	// a price bucket plus a discount threshold narrows, never widens
	assert.Equal(t, []string{"cheap-discounted"}, names(got))
}

func TestListProducts_DiscountThresholdsAreORed(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	seedProducts(t, r,
		models.Product{Name: "ten", Price: 100, Discount: 10},
		models.Product{Name: "thirty", Price: 100, Discount: 30},
		models.Product{Name: "none", Price: 100, Discount: 0},
	)

	f := catalog.ParseFilter(url.Values{"discount": []string{"25", "5"}})
	got, err := r.ListProducts(context.Background(), f)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"ten", "thirty"}, names(got))
}

func TestListProducts_CategoryDiscounted(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	seedProducts(t, r,
		models.Product{Name: "sale", Price: 100, Discount: 5},
		models.Product{Name: "full", Price: 100, Discount: 0},
	)

	f := catalog.ParseFilter(url.Values{"category": []string{"discounted"}})
	got, err := r.ListProducts(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, []string{"sale"}, names(got))
}

func TestListProducts_CategoryNewIsNoOp(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	seedProducts(t, r,
		models.Product{Name: "one", Price: 100},
		models.Product{Name: "two", Price: 200},
	)

	f := catalog.ParseFilter(url.Values{"category": []string{"new"}})
	got, err := r.ListProducts(context.Background(), f)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestListProducts_Sorting(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	now := time.Now()
	seedProducts(t, r,
		models.Product{Name: "mid", Price: 200, Discount: 5, CreatedAt: now.Add(-2 * time.Hour)},
		models.Product{Name: "cheap", Price: 100, Discount: 30, CreatedAt: now.Add(-1 * time.Hour)},
		models.Product{Name: "dear", Price: 300, Discount: 10, CreatedAt: now},
	)

	tests := []struct {
		sortby string
		want   []string
	}{
		{"newest", []string{"dear", "cheap", "mid"}},
		{"price-low", []string{"cheap", "mid", "dear"}},
		{"price-high", []string{"dear", "mid", "cheap"}},
		{"discount", []string{"cheap", "dear", "mid"}},
		{"popular", []string{"dear", "cheap", "mid"}},
		{"", []string{"dear", "cheap", "mid"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run("sortby="+tt.sortby, func(t *testing.T) {
			t.Parallel()

			values := url.Values{}
			if tt.sortby != "" {
				values.Set("sortby", tt.sortby)
			}
			got, err := r.ListProducts(context.Background(), catalog.ParseFilter(values))
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestListProducts_NoFiltersReturnsEverything(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	seedProducts(t, r,
		models.Product{Name: "one", Price: 1},
		models.Product{Name: "two", Price: 2},
		models.Product{Name: "three", Price: 3},
	)

	got, err := r.ListProducts(context.Background(), catalog.ParseFilter(url.Values{}))
	require.NoError(t, err)
	assert.Equal(t, []string{"three", "two", "one"}, names(got))
}
