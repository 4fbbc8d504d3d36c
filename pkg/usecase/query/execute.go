package query

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/dinver-app/dinver-sub005/pkg/hours"
	"github.com/dinver-app/dinver-sub005/pkg/intent"
	"github.com/dinver-app/dinver-sub005/pkg/model"
	"github.com/dinver-app/dinver-sub005/pkg/repository"
	"github.com/dinver-app/dinver-sub005/pkg/resolver"
	"github.com/m-mizutani/goerr/v2"
)

// resolveParams turns a routed intent into the typed parameter record:
// location backfill from the gazetteer or caller coordinates, radius
// clamping, taxonomy term resolution and temporal parsing. A non-empty
// outcome short-circuits the turn without a domain lookup.
func (u *UseCase) resolveParams(ctx context.Context, r *intent.Resolved, q *model.Query) (*model.ResolvedParams, model.OutcomeCode, error) {
	params := &model.ResolvedParams{
		PageSize: q.PageSize,
	}
	if params.PageSize <= 0 {
		params.PageSize = u.cfg.DefaultPageSize
	}

	switch r.Name {
	case model.IntentCheckItemInRestaurant:
		params.RestaurantName = r.CheckItemInRestaurant.Restaurant
		params.ItemQuery = r.CheckItemInRestaurant.Item
		params.City = r.CheckItemInRestaurant.City
		return params, "", nil

	case model.IntentIsRestaurantOpen:
		params.RestaurantName = r.IsRestaurantOpen.Restaurant
		params.City = r.IsRestaurantOpen.City
		if at, ok := u.temporal.Resolve(r.IsRestaurantOpen.When); ok {
			params.When = &at
		}
		return params, "", nil
	}

	set, err := u.repo.Taxonomies(ctx)
	if err != nil {
		return nil, "", goerr.Wrap(err, "failed to load taxonomies")
	}

	switch r.Name {
	case model.IntentFindItemsNearby:
		params.ItemQuery = r.FindItemsNearby.Item

	case model.IntentFindByPerkNearby:
		if !u.resolvePerks(params, r.FindPerkNearby.Perks, set) {
			return nil, model.OutcomeAmbiguous, nil
		}

	case model.IntentFindByItemAndPerk:
		params.ItemQuery = r.FindByItemAndPerk.Item
		if !u.resolvePerks(params, r.FindByItemAndPerk.Perks, set) {
			return nil, model.OutcomeAmbiguous, nil
		}

	case model.IntentFindByPriceType:
		text := strings.TrimSpace(r.FindByPriceType.PriceCategory + " " + r.FindByPriceType.EstablishmentType)
		matches := u.taxonomy.Resolve(text, set)
		params.PriceCategoryIDs = matches[model.DimensionPriceCategory]
		params.EstablishmentTypeIDs = matches[model.DimensionEstablishmentType]
		if len(params.PriceCategoryIDs) == 0 && len(params.EstablishmentTypeIDs) == 0 {
			return nil, model.OutcomeAmbiguous, nil
		}
	}

	if outcome := u.resolveLocation(params, r.Geo(), q); outcome != "" {
		return nil, outcome, nil
	}
	return params, "", nil
}

// resolvePerks maps perk terms to taxonomy ids. False means none of the
// terms resolved, so the search would be unconstrained.
func (u *UseCase) resolvePerks(params *model.ResolvedParams, terms []string, set *model.TaxonomySet) bool {
	matches := u.taxonomy.Resolve(strings.Join(terms, " "), set)
	params.PerkIDs = matches[model.DimensionPerk]
	params.DietaryTypeIDs = matches[model.DimensionDietaryType]
	return len(params.PerkIDs) > 0 || len(params.DietaryTypeIDs) > 0
}

// resolveLocation fills center and radius. Precedence for the center:
// explicit coordinates in the arguments, then a recognized city or
// neighborhood, then the caller's device coordinates. Radius precedence:
// argument, caller request, the place's implied radius, the default.
func (u *UseCase) resolveLocation(params *model.ResolvedParams, geo *intent.GeoArgs, q *model.Query) model.OutcomeCode {
	var impliedRadius float64

	switch {
	case geo != nil && geo.Lat != nil && geo.Lng != nil:
		params.Lat, params.Lng = geo.Lat, geo.Lng
		params.City = geo.City

	case geo != nil && geo.City != "":
		if place, ok := u.geo.ResolveCity(geo.City); ok {
			lat, lng := place.Lat, place.Lng
			params.Lat, params.Lng = &lat, &lng
			params.City = place.Name
			impliedRadius = place.RadiusKm
		} else if q.HasCoords() {
			params.Lat, params.Lng = q.Lat, q.Lng
			params.City = geo.City
		} else {
			return model.OutcomeMissingLocation
		}

	case q.HasCoords():
		params.Lat, params.Lng = q.Lat, q.Lng

	default:
		return model.OutcomeMissingLocation
	}

	switch {
	case geo != nil && geo.RadiusKm != nil && *geo.RadiusKm > 0:
		params.RadiusKm = *geo.RadiusKm
	case q.RadiusKm != nil && *q.RadiusKm > 0:
		params.RadiusKm = *q.RadiusKm
	case impliedRadius > 0:
		params.RadiusKm = impliedRadius
	default:
		params.RadiusKm = u.cfg.DefaultRadiusKm
	}
	params.RadiusKm = u.clampRadius(params.RadiusKm)

	return ""
}

func (u *UseCase) clampRadius(km float64) float64 {
	if km < 0.1 {
		return 0.1
	}
	if km > u.cfg.MaxRadiusKm {
		return u.cfg.MaxRadiusKm
	}
	return km
}

// execute runs the domain lookup for a resolved intent and returns the full
// sorted candidate list. List-producing intents go through the result cache;
// open-state projection is time dependent and never cached.
func (u *UseCase) execute(ctx context.Context, name model.IntentName, params *model.ResolvedParams) (model.ResultKind, []model.CandidateResult, model.OutcomeCode, error) {
	switch name {
	case model.IntentIsRestaurantOpen:
		return u.executeIsOpen(ctx, params)
	case model.IntentCheckItemInRestaurant:
		return u.executeCheckItem(ctx, params)
	}

	key := params.CanonicalKey(name)
	if cached, ok := u.results.Get(key); ok {
		return listKind(name), cached, listOutcome(cached), nil
	}

	var (
		results []model.CandidateResult
		err     error
	)
	switch name {
	case model.IntentFindItemsNearby, model.IntentFindByItemAndPerk:
		results, err = u.searchItemsNearby(ctx, params)
	case model.IntentFindByPerkNearby, model.IntentFindByPriceType:
		results, err = u.searchRestaurantsNearby(ctx, params)
	default:
		return model.ResultKindNone, nil, "", goerr.New("unsupported intent", goerr.V("name", name))
	}
	if err != nil {
		return model.ResultKindNone, nil, "", err
	}

	sortByDistance(results)
	u.results.Set(key, results)
	return listKind(name), results, listOutcome(results), nil
}

func listKind(name model.IntentName) model.ResultKind {
	switch name {
	case model.IntentFindItemsNearby, model.IntentFindByItemAndPerk, model.IntentCheckItemInRestaurant:
		return model.ResultKindMenuItems
	default:
		return model.ResultKindRestaurants
	}
}

func listOutcome(results []model.CandidateResult) model.OutcomeCode {
	if len(results) == 0 {
		return model.OutcomeNoResults
	}
	return model.OutcomeOK
}

// lookupRestaurant resolves a restaurant reference with the partner policy:
// a missing restaurant and a non-partner restaurant are distinct outcomes.
func (u *UseCase) lookupRestaurant(ctx context.Context, params *model.ResolvedParams) (*model.Restaurant, model.OutcomeCode, error) {
	rest, err := u.repo.FindRestaurantByName(ctx, params.RestaurantName, params.City)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return nil, model.OutcomeRestaurantNotFound, nil
		}
		return nil, "", goerr.Wrap(err, "restaurant lookup failed", goerr.V("name", params.RestaurantName))
	}
	if !rest.IsPartner {
		return nil, model.OutcomeNotPartner, nil
	}
	return rest, "", nil
}

func (u *UseCase) executeIsOpen(ctx context.Context, params *model.ResolvedParams) (model.ResultKind, []model.CandidateResult, model.OutcomeCode, error) {
	rest, outcome, err := u.lookupRestaurant(ctx, params)
	if err != nil || outcome != "" {
		return model.ResultKindNone, nil, outcome, err
	}

	at := u.temporal.Now()
	if params.When != nil {
		at = *params.When
	}
	state := hours.Project(rest.Hours, at)

	result := model.CandidateResult{Restaurant: rest, Open: &state}
	if params.Lat != nil && params.Lng != nil {
		result.DistanceKm = resolver.HaversineKm(*params.Lat, *params.Lng, rest.Lat, rest.Lng)
	}
	return model.ResultKindOpenState, []model.CandidateResult{result}, model.OutcomeOK, nil
}

func (u *UseCase) executeCheckItem(ctx context.Context, params *model.ResolvedParams) (model.ResultKind, []model.CandidateResult, model.OutcomeCode, error) {
	rest, outcome, err := u.lookupRestaurant(ctx, params)
	if err != nil || outcome != "" {
		return model.ResultKindNone, nil, outcome, err
	}

	items, err := u.repo.SearchMenuItems(ctx, params.ItemQuery, &repository.ItemScope{RestaurantID: rest.ID})
	if err != nil {
		return model.ResultKindNone, nil, "", goerr.Wrap(err, "menu item search failed")
	}

	results := make([]model.CandidateResult, 0, len(items))
	for _, item := range items {
		results = append(results, model.CandidateResult{Restaurant: rest, Item: item})
	}
	return model.ResultKindMenuItems, results, listOutcome(results), nil
}

// searchItemsNearby finds menu items inside the radius: bounding box
// pre-filter on restaurants, precise great-circle cut, then an item search
// scoped to the surviving ids.
func (u *UseCase) searchItemsNearby(ctx context.Context, params *model.ResolvedParams) ([]model.CandidateResult, error) {
	nearby, err := u.nearbyRestaurants(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(nearby) == 0 {
		return nil, nil
	}

	byID := make(map[model.RestaurantID]*candidate, len(nearby))
	ids := make([]model.RestaurantID, 0, len(nearby))
	for _, c := range nearby {
		byID[c.rest.ID] = c
		ids = append(ids, c.rest.ID)
	}

	items, err := u.repo.SearchMenuItems(ctx, params.ItemQuery, &repository.ItemScope{RestaurantIDs: ids})
	if err != nil {
		return nil, goerr.Wrap(err, "menu item search failed")
	}

	var results []model.CandidateResult
	for _, item := range items {
		c, ok := byID[item.RestaurantID]
		if !ok {
			continue
		}
		results = append(results, model.CandidateResult{
			Restaurant: c.rest,
			Item:       item,
			DistanceKm: c.distanceKm,
		})
	}
	return results, nil
}

func (u *UseCase) searchRestaurantsNearby(ctx context.Context, params *model.ResolvedParams) ([]model.CandidateResult, error) {
	nearby, err := u.nearbyRestaurants(ctx, params)
	if err != nil {
		return nil, err
	}
	results := make([]model.CandidateResult, 0, len(nearby))
	for _, c := range nearby {
		results = append(results, model.CandidateResult{
			Restaurant: c.rest,
			DistanceKm: c.distanceKm,
		})
	}
	return results, nil
}

type candidate struct {
	rest       *model.Restaurant
	distanceKm float64
}

// nearbyRestaurants applies the taxonomy filters plus the two-stage geo
// filter and drops non-partner restaurants.
func (u *UseCase) nearbyRestaurants(ctx context.Context, params *model.ResolvedParams) ([]*candidate, error) {
	bbox := resolver.BoundingBox(*params.Lat, *params.Lng, params.RadiusKm)
	rests, err := u.repo.SearchRestaurants(ctx, &repository.RestaurantFilter{
		BBox:                 &bbox,
		DietaryTypeIDs:       params.DietaryTypeIDs,
		PerkIDs:              params.PerkIDs,
		EstablishmentTypeIDs: params.EstablishmentTypeIDs,
		PriceCategoryIDs:     params.PriceCategoryIDs,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "restaurant search failed")
	}

	var nearby []*candidate
	for _, rest := range rests {
		if !rest.IsPartner {
			continue
		}
		d := resolver.HaversineKm(*params.Lat, *params.Lng, rest.Lat, rest.Lng)
		if d > params.RadiusKm {
			continue
		}
		nearby = append(nearby, &candidate{rest: rest, distanceKm: d})
	}
	return nearby, nil
}

// sortByDistance orders nearest first, breaking ties on restaurant id then
// item id so pagination windows stay stable between turns.
func sortByDistance(results []model.CandidateResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].DistanceKm != results[j].DistanceKm {
			return results[i].DistanceKm < results[j].DistanceKm
		}
		if results[i].Restaurant.ID != results[j].Restaurant.ID {
			return results[i].Restaurant.ID < results[j].Restaurant.ID
		}
		var li, lj string
		if results[i].Item != nil {
			li = results[i].Item.ID
		}
		if results[j].Item != nil {
			lj = results[j].Item.ID
		}
		return li < lj
	})
}
