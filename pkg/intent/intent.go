// Package intent defines the closed set of operations a turn can execute.
// Each intent is a tagged variant carrying its own typed argument struct;
// parsing reduces the oracle's untyped output to one variant or rejects it.
package intent

import (
	"strings"

	"github.com/dinver-app/dinver-sub005/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// ErrInvalidArgs marks a schema or semantic validation failure of oracle
// arguments. Callers map it to an AMBIGUOUS outcome, never a hard failure.
var ErrInvalidArgs = goerr.New("invalid intent arguments")

// GeoArgs are the shared location arguments of geo-dependent intents.
type GeoArgs struct {
	City     string   `json:"city,omitempty"`
	Lat      *float64 `json:"latitude,omitempty"`
	Lng      *float64 `json:"longitude,omitempty"`
	RadiusKm *float64 `json:"radius_km,omitempty"`
}

type FindItemsNearbyArgs struct {
	Item string `json:"item"`
	GeoArgs
}

func (a *FindItemsNearbyArgs) validate() error {
	if strings.TrimSpace(a.Item) == "" {
		return goerr.Wrap(ErrInvalidArgs, "item must not be empty")
	}
	return nil
}

type CheckItemInRestaurantArgs struct {
	Restaurant string `json:"restaurant"`
	Item       string `json:"item"`
	City       string `json:"city,omitempty"`
}

func (a *CheckItemInRestaurantArgs) validate() error {
	if strings.TrimSpace(a.Restaurant) == "" || strings.TrimSpace(a.Item) == "" {
		return goerr.Wrap(ErrInvalidArgs, "restaurant and item must not be empty")
	}
	return nil
}

type IsRestaurantOpenArgs struct {
	Restaurant string `json:"restaurant"`
	City       string `json:"city,omitempty"`
	// When is the raw temporal reference ("sutra", "petkom u 20:00"); the
	// temporal resolver turns it into an instant downstream.
	When string `json:"when,omitempty"`
}

func (a *IsRestaurantOpenArgs) validate() error {
	if strings.TrimSpace(a.Restaurant) == "" {
		return goerr.Wrap(ErrInvalidArgs, "restaurant must not be empty")
	}
	return nil
}

type FindPerkNearbyArgs struct {
	Perks []string `json:"perks"`
	GeoArgs
}

func (a *FindPerkNearbyArgs) validate() error {
	if len(a.Perks) == 0 {
		return goerr.Wrap(ErrInvalidArgs, "perks must not be empty")
	}
	return nil
}

type FindByPriceTypeArgs struct {
	PriceCategory     string `json:"price_category,omitempty"`
	EstablishmentType string `json:"establishment_type,omitempty"`
	GeoArgs
}

func (a *FindByPriceTypeArgs) validate() error {
	if strings.TrimSpace(a.PriceCategory) == "" && strings.TrimSpace(a.EstablishmentType) == "" {
		return goerr.Wrap(ErrInvalidArgs, "price_category or establishment_type is required")
	}
	return nil
}

type FindByItemAndPerkArgs struct {
	Item  string   `json:"item"`
	Perks []string `json:"perks"`
	GeoArgs
}

func (a *FindByItemAndPerkArgs) validate() error {
	if strings.TrimSpace(a.Item) == "" || len(a.Perks) == 0 {
		return goerr.Wrap(ErrInvalidArgs, "item and perks must not be empty")
	}
	return nil
}

// Resolved is the outcome of intent resolution: exactly one variant pointer
// is set, matching Name. Produced once per turn and never mutated.
type Resolved struct {
	Name model.IntentName

	FindItemsNearby       *FindItemsNearbyArgs
	CheckItemInRestaurant *CheckItemInRestaurantArgs
	IsRestaurantOpen      *IsRestaurantOpenArgs
	FindPerkNearby        *FindPerkNearbyArgs
	FindByPriceType       *FindByPriceTypeArgs
	FindByItemAndPerk     *FindByItemAndPerkArgs
}

// Geo returns the variant's location arguments, nil for intents without
// geo semantics.
func (r *Resolved) Geo() *GeoArgs {
	switch {
	case r.FindItemsNearby != nil:
		return &r.FindItemsNearby.GeoArgs
	case r.FindPerkNearby != nil:
		return &r.FindPerkNearby.GeoArgs
	case r.FindByPriceType != nil:
		return &r.FindByPriceType.GeoArgs
	case r.FindByItemAndPerk != nil:
		return &r.FindByItemAndPerk.GeoArgs
	}
	return nil
}

func (r *Resolved) validate() error {
	switch r.Name {
	case model.IntentFindItemsNearby:
		return r.FindItemsNearby.validate()
	case model.IntentCheckItemInRestaurant:
		return r.CheckItemInRestaurant.validate()
	case model.IntentIsRestaurantOpen:
		return r.IsRestaurantOpen.validate()
	case model.IntentFindByPerkNearby:
		return r.FindPerkNearby.validate()
	case model.IntentFindByPriceType:
		return r.FindByPriceType.validate()
	case model.IntentFindByItemAndPerk:
		return r.FindByItemAndPerk.validate()
	}
	return goerr.Wrap(ErrInvalidArgs, "unknown intent", goerr.V("name", r.Name))
}
