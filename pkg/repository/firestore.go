package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/dinver-app/dinver-sub005/pkg/model"
	"github.com/dinver-app/dinver-sub005/pkg/resolver"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const (
	collectionRestaurants = "restaurants"
	collectionMenuItems   = "menu_items"
	collectionTaxonomies  = "taxonomies"

	// taxonomyTTL bounds how long the rarely-changing taxonomy export is
	// served from memory.
	taxonomyTTL = 5 * time.Minute

	defaultSearchLimit = 200

	// Firestore caps "in" filters at 30 values per query.
	inQueryChunk = 30
)

// firestoreRepo implements Repository against Firestore.
type firestoreRepo struct {
	client *firestore.Client

	taxonomyMu      sync.Mutex
	taxonomies      *model.TaxonomySet
	taxonomyFetched time.Time
}

// New creates a Firestore-backed repository.
func New(ctx context.Context, projectID, database string, opts ...option.ClientOption) (Repository, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, database, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project", projectID), goerr.V("database", database))
	}
	return &firestoreRepo{client: client}, nil
}

func (r *firestoreRepo) Close() error {
	return r.client.Close()
}

func (r *firestoreRepo) FindRestaurantByName(ctx context.Context, name, city string) (*model.Restaurant, error) {
	q := r.client.Collection(collectionRestaurants).Limit(defaultSearchLimit)
	if city != "" {
		q = q.Where("city", "==", city)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var best *model.Restaurant
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate restaurants")
		}

		var rest model.Restaurant
		if err := doc.DataTo(&rest); err != nil {
			return nil, goerr.Wrap(err, "failed to decode restaurant", goerr.V("doc", doc.Ref.ID))
		}
		if !resolver.NameMatch(name, rest.Name) {
			continue
		}
		// Prefer an exact (case-insensitive) hit over the first fuzzy one.
		if strings.EqualFold(strings.TrimSpace(name), rest.Name) {
			return &rest, nil
		}
		if best == nil {
			cp := rest
			best = &cp
		}
	}

	if best == nil {
		return nil, goerr.Wrap(ErrRestaurantNotFound, "no name match", goerr.V("name", name), goerr.V("city", city))
	}
	return best, nil
}

func (r *firestoreRepo) SearchRestaurants(ctx context.Context, f *RestaurantFilter) ([]*model.Restaurant, error) {
	if f == nil {
		f = &RestaurantFilter{}
	}
	limit := f.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	q := r.client.Collection(collectionRestaurants).Query
	if f.City != "" {
		q = q.Where("city", "==", f.City)
	}
	// Firestore allows range conditions on a single field; latitude goes to
	// the server, longitude and the taxonomy filters are applied in memory.
	if f.BBox != nil {
		q = q.Where("lat", ">=", f.BBox.MinLat).Where("lat", "<=", f.BBox.MaxLat)
	}

	iter := q.Limit(defaultSearchLimit * 2).Documents(ctx)
	defer iter.Stop()

	var out []*model.Restaurant
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate restaurants")
		}

		var rest model.Restaurant
		if err := doc.DataTo(&rest); err != nil {
			return nil, goerr.Wrap(err, "failed to decode restaurant", goerr.V("doc", doc.Ref.ID))
		}
		if !matchesFilter(&rest, f) {
			continue
		}
		out = append(out, &rest)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func matchesFilter(rest *model.Restaurant, f *RestaurantFilter) bool {
	if f.BBox != nil && !f.BBox.Contains(rest.Lat, rest.Lng) {
		return false
	}
	// Every requested perk must be present (an "and" filter).
	for _, id := range f.PerkIDs {
		if !rest.HasPerk(id) {
			return false
		}
	}
	if !containsAny(rest.FoodTypeIDs, f.FoodTypeIDs) {
		return false
	}
	if !containsAny(rest.DietaryTypeIDs, f.DietaryTypeIDs) {
		return false
	}
	if !containsAny(rest.EstablishmentTypeIDs, f.EstablishmentTypeIDs) {
		return false
	}
	if len(f.PriceCategoryIDs) > 0 && !containsAny([]int{rest.PriceCategoryID}, f.PriceCategoryIDs) {
		return false
	}
	return true
}

// containsAny: matching one requested id of a dimension is enough. An empty
// request means no opinion.
func containsAny(have, want []int) bool {
	if len(want) == 0 {
		return true
	}
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

func (r *firestoreRepo) SearchMenuItems(ctx context.Context, query string, scope *ItemScope) ([]*model.MenuItem, error) {
	if scope == nil {
		scope = &ItemScope{}
	}
	limit := scope.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	ids := scope.RestaurantIDs
	if scope.RestaurantID != "" {
		ids = []model.RestaurantID{scope.RestaurantID}
	}

	var out []*model.MenuItem
	for _, chunk := range chunkIDs(ids, inQueryChunk) {
		q := r.client.Collection(collectionMenuItems).Query
		if len(chunk) > 0 {
			raw := make([]string, len(chunk))
			for i, id := range chunk {
				raw[i] = string(id)
			}
			q = q.Where("restaurant_id", "in", raw)
		}

		iter := q.Limit(defaultSearchLimit * 2).Documents(ctx)
		items, err := collectItems(iter, query, limit-len(out))
		iter.Stop()
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// chunkIDs splits the id set into Firestore-sized "in" chunks. An empty set
// yields one unscoped chunk.
func chunkIDs(ids []model.RestaurantID, size int) [][]model.RestaurantID {
	if len(ids) == 0 {
		return [][]model.RestaurantID{nil}
	}
	var chunks [][]model.RestaurantID
	for len(ids) > size {
		chunks = append(chunks, ids[:size])
		ids = ids[size:]
	}
	return append(chunks, ids)
}

func collectItems(iter *firestore.DocumentIterator, query string, limit int) ([]*model.MenuItem, error) {
	var out []*model.MenuItem
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			return out, nil
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate menu items")
		}

		var item model.MenuItem
		if err := doc.DataTo(&item); err != nil {
			return nil, goerr.Wrap(err, "failed to decode menu item", goerr.V("doc", doc.Ref.ID))
		}
		if !resolver.NameMatch(query, item.Name) && !resolver.NameMatch(query, item.NameEN) {
			continue
		}
		out = append(out, &item)
		if limit > 0 && len(out) >= limit {
			return out, nil
		}
	}
}

// taxonomyDoc is the Firestore layout of one dimension export.
type taxonomyDoc struct {
	Entries []model.TaxonomyEntry `firestore:"entries"`
}

func (r *firestoreRepo) Taxonomies(ctx context.Context) (*model.TaxonomySet, error) {
	r.taxonomyMu.Lock()
	defer r.taxonomyMu.Unlock()

	if r.taxonomies != nil && time.Since(r.taxonomyFetched) < taxonomyTTL {
		return r.taxonomies, nil
	}

	set := &model.TaxonomySet{Tables: make(map[model.Dimension][]model.TaxonomyEntry)}
	for _, dim := range model.Dimensions() {
		doc, err := r.client.Collection(collectionTaxonomies).Doc(string(dim)).Get(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to fetch taxonomy table", goerr.V("dimension", dim))
		}
		var td taxonomyDoc
		if err := doc.DataTo(&td); err != nil {
			return nil, goerr.Wrap(err, "failed to decode taxonomy table", goerr.V("dimension", dim))
		}
		set.Tables[dim] = td.Entries
	}

	r.taxonomies = set
	r.taxonomyFetched = time.Now()
	return set, nil
}
