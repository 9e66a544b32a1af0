package domain

// Category is the visual class a badge is drawn with
type Category string

const (
	CategorySuccess Category = "success"
	CategoryInfo    Category = "info"
	CategoryWarning Category = "warning"
	CategoryDanger  Category = "danger"
	CategoryNeutral Category = "neutral" // Default for anything unrecognized
)

// Categories returns every category in severity order, mildest first
func Categories() []Category {
	return []Category{
		CategoryNeutral,
		CategorySuccess,
		CategoryInfo,
		CategoryWarning,
		CategoryDanger,
	}
}

// Valid reports whether c is one of the fixed categories
func (c Category) Valid() bool {
	switch c {
	case CategorySuccess, CategoryInfo, CategoryWarning, CategoryDanger, CategoryNeutral:
		return true
	}
	return false
}
