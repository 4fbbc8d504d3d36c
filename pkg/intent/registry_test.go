package intent_test

import (
	"errors"
	"testing"

	"github.com/dinver-app/dinver-sub005/pkg/intent"
	"github.com/dinver-app/dinver-sub005/pkg/model"
	"github.com/m-mizutani/gt"
	"google.golang.org/genai"
)

func TestRegistrySpecs(t *testing.T) {
	registry, err := intent.NewRegistry()
	gt.NoError(t, err)

	tools := registry.Specs()
	gt.A(t, tools).Length(1)
	gt.A(t, tools[0].FunctionDeclarations).Length(6)
}

func TestRegistrySpecsOrderIsStable(t *testing.T) {
	want := []string{
		"find_items_nearby",
		"check_item_in_restaurant",
		"is_restaurant_open",
		"find_perk_nearby",
		"find_by_item_and_perk_nearby",
		"find_by_price_type",
	}

	for i := 0; i < 3; i++ {
		registry, err := intent.NewRegistry()
		gt.NoError(t, err)

		decls := registry.Specs()[0].FunctionDeclarations
		gt.A(t, decls).Length(len(want))
		for j, d := range decls {
			gt.V(t, d.Name).Equal(want[j])
		}
	}
}

func TestRegistryParse(t *testing.T) {
	registry, err := intent.NewRegistry()
	gt.NoError(t, err)

	t.Run("find_items_nearby with city", func(t *testing.T) {
		resolved, err := registry.Parse(genai.FunctionCall{
			Name: "find_items_nearby",
			Args: map[string]any{
				"item": "pizza",
				"city": "Zagreb",
			},
		})
		gt.NoError(t, err)
		gt.V(t, resolved.Name).Equal(model.IntentFindItemsNearby)
		gt.V(t, resolved.FindItemsNearby).NotNil()
		gt.V(t, resolved.FindItemsNearby.Item).Equal("pizza")
		gt.V(t, resolved.FindItemsNearby.City).Equal("Zagreb")
		gt.V(t, resolved.Geo()).NotNil()
	})

	t.Run("check_item_in_restaurant", func(t *testing.T) {
		resolved, err := registry.Parse(genai.FunctionCall{
			Name: "check_item_in_restaurant",
			Args: map[string]any{
				"restaurant": "Marabu",
				"item":       "lazanje",
			},
		})
		gt.NoError(t, err)
		gt.V(t, resolved.Name).Equal(model.IntentCheckItemInRestaurant)
		gt.V(t, resolved.CheckItemInRestaurant.Restaurant).Equal("Marabu")
		// Restaurant-scoped intents carry no geo arguments.
		gt.True(t, resolved.Geo() == nil)
	})

	t.Run("is_restaurant_open keeps the raw temporal text", func(t *testing.T) {
		resolved, err := registry.Parse(genai.FunctionCall{
			Name: "is_restaurant_open",
			Args: map[string]any{
				"restaurant": "Marabu",
				"when":       "sutra u 20:00",
			},
		})
		gt.NoError(t, err)
		gt.V(t, resolved.IsRestaurantOpen.When).Equal("sutra u 20:00")
	})

	t.Run("unknown tool is a distinct error", func(t *testing.T) {
		_, err := registry.Parse(genai.FunctionCall{Name: "drop_tables"})
		gt.Error(t, err)
		gt.True(t, errors.Is(err, intent.ErrUnknownTool))
	})

	t.Run("missing required argument", func(t *testing.T) {
		_, err := registry.Parse(genai.FunctionCall{
			Name: "find_items_nearby",
			Args: map[string]any{"city": "Zagreb"},
		})
		gt.Error(t, err)
		gt.True(t, errors.Is(err, intent.ErrInvalidArgs))
	})

	t.Run("wrong argument type", func(t *testing.T) {
		_, err := registry.Parse(genai.FunctionCall{
			Name: "find_items_nearby",
			Args: map[string]any{"item": 42},
		})
		gt.Error(t, err)
		gt.True(t, errors.Is(err, intent.ErrInvalidArgs))
	})

	t.Run("blank required argument fails semantic validation", func(t *testing.T) {
		_, err := registry.Parse(genai.FunctionCall{
			Name: "check_item_in_restaurant",
			Args: map[string]any{"restaurant": "  ", "item": "pizza"},
		})
		gt.Error(t, err)
		gt.True(t, errors.Is(err, intent.ErrInvalidArgs))
	})

	t.Run("perk search requires at least one perk", func(t *testing.T) {
		_, err := registry.Parse(genai.FunctionCall{
			Name: "find_perk_nearby",
			Args: map[string]any{"perks": []any{}},
		})
		gt.Error(t, err)
		gt.True(t, errors.Is(err, intent.ErrInvalidArgs))
	})

	t.Run("nil args map is tolerated by the decoder", func(t *testing.T) {
		_, err := registry.Parse(genai.FunctionCall{Name: "find_items_nearby"})
		gt.Error(t, err)
		gt.True(t, errors.Is(err, intent.ErrInvalidArgs))
	})
}
