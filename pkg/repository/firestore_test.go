package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/dinver-app/dinver-sub005/pkg/repository"
	"github.com/dinver-app/dinver-sub005/pkg/resolver"
	"github.com/m-mizutani/gt"
)

func setupFirestore(t *testing.T) repository.Repository {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	if projectID == "" || databaseID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID and TEST_FIRESTORE_DATABASE_ID must be set to run Firestore tests")
	}

	repo, err := repository.New(context.Background(), projectID, databaseID)
	gt.NoError(t, err)

	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestFirestoreTaxonomies(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	set, err := repo.Taxonomies(ctx)
	gt.NoError(t, err)
	gt.V(t, set).NotNil()

	// Second call must come from the memoized copy.
	again, err := repo.Taxonomies(ctx)
	gt.NoError(t, err)
	gt.V(t, again).Equal(set)
}

func TestFirestoreFindRestaurantByName(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	name := os.Getenv("TEST_RESTAURANT_NAME")
	if name == "" {
		t.Skip("TEST_RESTAURANT_NAME must be set to run the name lookup test")
	}

	rest, err := repo.FindRestaurantByName(ctx, name, "")
	gt.NoError(t, err)
	gt.V(t, rest).NotNil()
	gt.True(t, resolver.NameMatch(name, rest.Name))
}

func TestFirestoreSearchRestaurantsByBBox(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	// Zagreb center, 8 km.
	bbox := resolver.BoundingBox(45.815, 15.9819, 8)
	rests, err := repo.SearchRestaurants(ctx, &repository.RestaurantFilter{BBox: &bbox})
	gt.NoError(t, err)

	for _, r := range rests {
		gt.True(t, bbox.Contains(r.Lat, r.Lng))
	}
}
