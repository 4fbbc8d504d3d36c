package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ThreadID string

// NewThreadID generates a new unique ThreadID
func NewThreadID() ThreadID {
	return ThreadID(uuid.New().String())
}

// IntentName identifies one operation of the closed intent set.
type IntentName string

const (
	IntentFindItemsNearby        IntentName = "find_items_nearby"
	IntentCheckItemInRestaurant  IntentName = "check_item_in_restaurant"
	IntentIsRestaurantOpen       IntentName = "is_restaurant_open"
	IntentFindByPerkNearby       IntentName = "find_perk_nearby"
	IntentFindByPriceType        IntentName = "find_by_price_type"
	IntentFindByItemAndPerk      IntentName = "find_by_item_and_perk_nearby"
	IntentUnknown                IntentName = "unknown"
)

// ResolvedParams is the typed, validated argument record of a resolved
// intent. It is produced once per turn and never mutated afterwards;
// confirmation merges build a fresh copy.
type ResolvedParams struct {
	RestaurantName string     `json:"restaurant_name,omitempty"`
	ItemQuery      string     `json:"item_query,omitempty"`
	City           string     `json:"city,omitempty"`
	Lat            *float64   `json:"lat,omitempty"`
	Lng            *float64   `json:"lng,omitempty"`
	RadiusKm       float64    `json:"radius_km,omitempty"`
	When           *time.Time `json:"when,omitempty"`
	PageSize       int        `json:"page_size,omitempty"`

	FoodTypeIDs          []int `json:"food_type_ids,omitempty"`
	DietaryTypeIDs       []int `json:"dietary_type_ids,omitempty"`
	PerkIDs              []int `json:"perk_ids,omitempty"`
	EstablishmentTypeIDs []int `json:"establishment_type_ids,omitempty"`
	PriceCategoryIDs     []int `json:"price_category_ids,omitempty"`
}

// Clone returns a deep copy. Confirmation handling merges into a copy so the
// prior turn's record stays immutable.
func (p *ResolvedParams) Clone() *ResolvedParams {
	if p == nil {
		return nil
	}
	c := *p
	c.FoodTypeIDs = append([]int(nil), p.FoodTypeIDs...)
	c.DietaryTypeIDs = append([]int(nil), p.DietaryTypeIDs...)
	c.PerkIDs = append([]int(nil), p.PerkIDs...)
	c.EstablishmentTypeIDs = append([]int(nil), p.EstablishmentTypeIDs...)
	c.PriceCategoryIDs = append([]int(nil), p.PriceCategoryIDs...)
	if p.Lat != nil {
		lat := *p.Lat
		c.Lat = &lat
	}
	if p.Lng != nil {
		lng := *p.Lng
		c.Lng = &lng
	}
	if p.When != nil {
		w := *p.When
		c.When = &w
	}
	return &c
}

// CanonicalKey serializes the record into a stable, order-insensitive string
// used as the cache key and as the input of the pagination parameter hash.
// Fields are emitted in sorted key order and id arrays are sorted and
// joined, so two records with the same content always produce the same key.
func (p *ResolvedParams) CanonicalKey(intent IntentName) string {
	fields := map[string]string{
		"intent": string(intent),
	}
	if p != nil {
		if p.RestaurantName != "" {
			fields["restaurant"] = strings.ToLower(p.RestaurantName)
		}
		if p.ItemQuery != "" {
			fields["item"] = strings.ToLower(p.ItemQuery)
		}
		if p.City != "" {
			fields["city"] = strings.ToLower(p.City)
		}
		if p.Lat != nil && p.Lng != nil {
			fields["lat"] = strconv.FormatFloat(*p.Lat, 'f', 5, 64)
			fields["lng"] = strconv.FormatFloat(*p.Lng, 'f', 5, 64)
		}
		if p.RadiusKm > 0 {
			fields["radius_km"] = strconv.FormatFloat(p.RadiusKm, 'f', 2, 64)
		}
		if p.When != nil {
			fields["when"] = p.When.UTC().Format(time.RFC3339)
		}
		putIDs(fields, "food_types", p.FoodTypeIDs)
		putIDs(fields, "dietary_types", p.DietaryTypeIDs)
		putIDs(fields, "perks", p.PerkIDs)
		putIDs(fields, "establishment_types", p.EstablishmentTypeIDs)
		putIDs(fields, "price_categories", p.PriceCategoryIDs)
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(';')
		}
		fmt.Fprintf(&sb, "%s=%s", k, fields[k])
	}
	return sb.String()
}

func putIDs(fields map[string]string, key string, ids []int) {
	if len(ids) == 0 {
		return
	}
	sorted := append([]int(nil), ids...)
	sort.Ints(sorted)
	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = strconv.Itoa(id)
	}
	fields[key] = strings.Join(parts, ",")
}

// SuggestedAction is an optional follow-up hint stored in the session, e.g.
// "double the radius to N km". A bare affirmation on the next turn applies
// it.
type SuggestedAction struct {
	RadiusToKm float64 `json:"radius_to_km,omitempty"`
}

// SessionState is the ephemeral per-thread conversational state. It is never
// persisted to durable storage and expires after an inactivity window.
type SessionState struct {
	ThreadID        ThreadID
	LastIntent      IntentName
	LastParams      *ResolvedParams
	SuggestedAction *SuggestedAction
	LastResultIDs   []string
	UpdatedAt       time.Time
}
