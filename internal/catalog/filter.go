package catalog

import (
	"net/url"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

type PriceBucket string

const (
	BucketUpTo500    PriceBucket = "0-500"
	Bucket500To1000  PriceBucket = "500-1000"
	Bucket1000To2000 PriceBucket = "1000-2000"
	BucketOver2000   PriceBucket = "2000+"
)

type Category string

const (
	CategoryNew         Category = "new"
	CategoryDiscounted  Category = "discounted"
	CategoryBestsellers Category = "bestsellers"
)

type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortDiscount  SortKey = "discount"
	SortPopular   SortKey = "popular"
)

// Filter is the typed form of the /shop query string. Unrecognized values
// are dropped during parsing, never passed through to the store.
type Filter struct {
	Search    string
	Buckets   []PriceBucket
	Discounts []int
	Category  Category
	Sort      SortKey
}

func ParseFilter(values url.Values) Filter {
	f := Filter{
		Search: strings.TrimSpace(values.Get("search")),
		Sort:   SortPopular,
	}

	for _, raw := range values["price"] {
		switch b := PriceBucket(raw); b {
		case BucketUpTo500, Bucket500To1000, Bucket1000To2000, BucketOver2000:
			f.Buckets = append(f.Buckets, b)
		}
	}

	for _, raw := range values["discount"] {
		if threshold, err := strconv.Atoi(raw); err == nil && threshold >= 0 {
			f.Discounts = append(f.Discounts, threshold)
		}
	}

	switch c := Category(values.Get("category")); c {
	case CategoryNew, CategoryDiscounted, CategoryBestsellers:
		f.Category = c
	}

	switch s := SortKey(values.Get("sortby")); s {
	case SortNewest, SortPriceLow, SortPriceHigh, SortDiscount:
		f.Sort = s
	}

	return f
}

// Apply adds the filter's predicate and order to a product query. The price
// buckets are OR'd among themselves, the discount thresholds are OR'd among
// themselves, and the two groups are AND'd with each other and with the
// remaining conditions.
func (f Filter) Apply(q *gorm.DB) *gorm.DB {
	if f.Search != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(f.Search)+"%")
	}

	if len(f.Buckets) > 0 {
		conds := make([]string, 0, len(f.Buckets))
		args := make([]any, 0, 2*len(f.Buckets))
		for _, b := range f.Buckets {
			switch b {
			case BucketUpTo500:
				conds = append(conds, "price <= ?")
				args = append(args, 500.0)
			case Bucket500To1000:
				conds = append(conds, "(price > ? AND price <= ?)")
				args = append(args, 500.0, 1000.0)
			case Bucket1000To2000:
				conds = append(conds, "(price > ? AND price <= ?)")
				args = append(args, 1000.0, 2000.0)
			case BucketOver2000:
				conds = append(conds, "price > ?")
				args = append(args, 2000.0)
			}
		}
		q = q.Where(strings.Join(conds, " OR "), args...)
	}

	if len(f.Discounts) > 0 {
		conds := make([]string, 0, len(f.Discounts))
		args := make([]any, 0, len(f.Discounts))
		for _, threshold := range f.Discounts {
			conds = append(conds, "discount >= ?")
			args = append(args, float64(threshold))
		}
		q = q.Where(strings.Join(conds, " OR "), args...)
	}

	// "new" and "bestsellers" are accepted but add no predicate: the schema
	// has no attribute to filter on.
	if f.Category == CategoryDiscounted {
		q = q.Where("discount > 0")
	}

	switch f.Sort {
	case SortNewest:
		q = q.Order("created_at DESC, id DESC")
	case SortPriceLow:
		q = q.Order("price ASC, id DESC")
	case SortPriceHigh:
		q = q.Order("price DESC, id DESC")
	case SortDiscount:
		q = q.Order("discount DESC, id DESC")
	default:
		// No popularity metric is modeled; "popular" falls back to
		// newest-inserted first.
		q = q.Order("id DESC")
	}

	return q
}
