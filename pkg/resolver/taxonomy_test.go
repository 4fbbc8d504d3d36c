package resolver_test

import (
	"testing"

	"github.com/dinver-app/dinver-sub005/pkg/model"
	"github.com/dinver-app/dinver-sub005/pkg/resolver"
	"github.com/m-mizutani/gt"
)

func testTaxonomySet() *model.TaxonomySet {
	return &model.TaxonomySet{
		Tables: map[model.Dimension][]model.TaxonomyEntry{
			model.DimensionFoodType: {
				{ID: 1, NameHR: "pizza", NameEN: "pizza"},
				{ID: 2, NameHR: "riblji specijaliteti", NameEN: "seafood"},
				{ID: 3, NameHR: "burger", NameEN: "burger"},
			},
			model.DimensionDietaryType: {
				{ID: 20, NameHR: "vegetarijansko", NameEN: "vegetarian"},
				{ID: 21, NameHR: "vegansko", NameEN: "vegan"},
			},
			model.DimensionPerk: {
				{ID: 10, NameHR: "terasa", NameEN: "terrace"},
				{ID: 11, NameHR: "parking", NameEN: "parking"},
				{ID: 12, NameHR: "stolica za djecu", NameEN: "high chair"},
			},
			model.DimensionEstablishmentType: {
				{ID: 40, NameHR: "kafić", NameEN: "cafe"},
			},
			model.DimensionPriceCategory: {
				{ID: 30, NameHR: "jeftino", NameEN: "cheap"},
				{ID: 31, NameHR: "fina gastronomija", NameEN: "fine dining"},
			},
		},
	}
}

func TestTaxonomyResolve(t *testing.T) {
	tax, err := resolver.NewTaxonomy()
	gt.NoError(t, err)
	set := testTaxonomySet()

	t.Run("synonym expansion reaches the food type", func(t *testing.T) {
		matches := tax.Resolve("gdje mogu pojesti dobru picu", set)
		gt.V(t, matches[model.DimensionFoodType]).Equal([]int{1})
	})

	t.Run("multiple perks in one question", func(t *testing.T) {
		matches := tax.Resolve("restoran s terasom i parkingom", set)
		gt.A(t, matches[model.DimensionPerk]).Length(2)
	})

	t.Run("variation table covers foreign forms", func(t *testing.T) {
		matches := tax.Resolve("dog friendly mjesto za rucak", set)
		gt.V(t, matches[model.DimensionPerk]).Equal([]int(nil))
		// "pet friendly" is a variation key, not a row name here, so no perk
		// resolves; dietary and food stay silent too.
		gt.False(t, len(matches[model.DimensionFoodType]) > 0)
	})

	t.Run("multi-word perk matches at substring level", func(t *testing.T) {
		matches := tax.Resolve("imaju li stolica za djecu", set)
		gt.V(t, matches[model.DimensionPerk]).Equal([]int{12})
	})

	t.Run("dietary type in english", func(t *testing.T) {
		matches := tax.Resolve("any vegan options nearby", set)
		gt.V(t, matches[model.DimensionDietaryType]).Equal([]int{21})
	})

	t.Run("absent dimension means no opinion", func(t *testing.T) {
		matches := tax.Resolve("gdje ima dobre pice", set)
		_, hasPerk := matches[model.DimensionPerk]
		gt.False(t, hasPerk)
	})

	t.Run("nil set resolves nothing", func(t *testing.T) {
		matches := tax.Resolve("pizza s terasom", nil)
		gt.A(t, matches[model.DimensionFoodType]).Length(0)
	})
}

func TestKnownKeywords(t *testing.T) {
	tax, err := resolver.NewTaxonomy()
	gt.NoError(t, err)

	items := tax.KnownItems()
	gt.A(t, items).Longer(5)
	gt.True(t, contains(items, "pizza"))
	gt.True(t, contains(items, "lignje"))

	perks := tax.KnownPerks()
	gt.True(t, contains(perks, "terasa"))
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
