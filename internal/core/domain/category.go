package domain

import "strings"

// Category is a spending category. The set is fixed.
type Category string

const (
	CategoryFood          Category = "Food"
	CategoryTransport     Category = "Transport"
	CategoryBills         Category = "Bills"
	CategoryEntertainment Category = "Entertainment"
	CategoryShopping      Category = "Shopping"
	CategoryHealth        Category = "Health"
	CategoryEducation     Category = "Education"
	CategoryOther         Category = "Other"
)

// AllCategories lists every valid category in display order.
var AllCategories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryBills,
	CategoryEntertainment,
	CategoryShopping,
	CategoryHealth,
	CategoryEducation,
	CategoryOther,
}

// IsValid reports whether c is one of AllCategories. Matching is exact.
func (c Category) IsValid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory resolves s to a category, ignoring surrounding whitespace and case.
func ParseCategory(s string) (Category, bool) {
	trimmed := strings.TrimSpace(s)
	for _, known := range AllCategories {
		if strings.EqualFold(trimmed, string(known)) {
			return known, true
		}
	}
	return "", false
}
