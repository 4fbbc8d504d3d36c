// Package repository is the narrow interface to the external domain data
// store: restaurant lookup by approximate name, menu-item search, and the
// taxonomy table export.
package repository

import (
	"context"

	"github.com/dinver-app/dinver-sub005/pkg/model"
	"github.com/dinver-app/dinver-sub005/pkg/resolver"
	"github.com/m-mizutani/goerr/v2"
)

// ErrRestaurantNotFound signals that no restaurant matched the approximate
// name lookup. Callers translate it to the RESTAURANT_NOT_FOUND outcome.
var ErrRestaurantNotFound = goerr.New("restaurant not found")

// RestaurantFilter narrows a restaurant search. The bounding box is a cheap
// pre-filter only; precise geo inclusion is decided by the caller with the
// great-circle distance.
type RestaurantFilter struct {
	BBox                 *resolver.BBox
	City                 string
	FoodTypeIDs          []int
	DietaryTypeIDs       []int
	PerkIDs              []int
	EstablishmentTypeIDs []int
	PriceCategoryIDs     []int
	Limit                int
}

// ItemScope scopes a menu-item search to one restaurant or to a candidate
// set produced by a geo pre-filter.
type ItemScope struct {
	RestaurantID  model.RestaurantID
	RestaurantIDs []model.RestaurantID
	Limit         int
}

// Repository defines the interface to the domain data store.
type Repository interface {
	// FindRestaurantByName resolves an approximate restaurant name, optionally
	// narrowed by city. Returns ErrRestaurantNotFound when nothing matches.
	FindRestaurantByName(ctx context.Context, name, city string) (*model.Restaurant, error)

	// SearchRestaurants returns restaurants matching the filter.
	SearchRestaurants(ctx context.Context, f *RestaurantFilter) ([]*model.Restaurant, error)

	// SearchMenuItems performs a text search over menu and drink items within
	// the given scope.
	SearchMenuItems(ctx context.Context, query string, scope *ItemScope) ([]*model.MenuItem, error)

	// Taxonomies returns the taxonomy table export. Implementations cache it
	// with a multi-minute TTL since it changes rarely.
	Taxonomies(ctx context.Context) (*model.TaxonomySet, error)

	// Close releases the underlying client.
	Close() error
}
