package model

// Dimension is one categorical filter axis of the taxonomy.
type Dimension string

const (
	DimensionFoodType          Dimension = "food_type"
	DimensionDietaryType       Dimension = "dietary_type"
	DimensionPerk              Dimension = "perk"
	DimensionEstablishmentType Dimension = "establishment_type"
	DimensionPriceCategory     Dimension = "price_category"
)

// Dimensions lists all taxonomy dimensions in canonical order.
func Dimensions() []Dimension {
	return []Dimension{
		DimensionFoodType,
		DimensionDietaryType,
		DimensionPerk,
		DimensionEstablishmentType,
		DimensionPriceCategory,
	}
}

// TaxonomyEntry is one canonical category with its name in both supported
// languages.
type TaxonomyEntry struct {
	ID     int    `json:"id" firestore:"id"`
	NameHR string `json:"name_hr" firestore:"name_hr"`
	NameEN string `json:"name_en" firestore:"name_en"`
}

// TaxonomySet is the full taxonomy table export, one entry list per
// dimension. It changes rarely and is cacheable with a multi-minute TTL.
type TaxonomySet struct {
	Tables map[Dimension][]TaxonomyEntry
}

// Entries returns the table for one dimension, nil when absent.
func (s *TaxonomySet) Entries(d Dimension) []TaxonomyEntry {
	if s == nil || s.Tables == nil {
		return nil
	}
	return s.Tables[d]
}

// TaxonomyMatches maps a dimension to the ids whose names were found in the
// query text. A dimension with no matches is absent from the map, so
// downstream filtering treats "no opinion" distinctly from "explicitly
// excluded".
type TaxonomyMatches map[Dimension][]int
