package model

import "time"

type RestaurantID string

// Restaurant is a partner establishment as exported by the domain data
// store. Taxonomy attributes are id arrays into the corresponding dimension
// tables.
type Restaurant struct {
	ID        RestaurantID `json:"id" firestore:"id"`
	Name      string       `json:"name" firestore:"name"`
	City      string       `json:"city" firestore:"city"`
	Address   string       `json:"address,omitempty" firestore:"address"`
	Lat       float64      `json:"lat" firestore:"lat"`
	Lng       float64      `json:"lng" firestore:"lng"`
	IsPartner bool         `json:"is_partner" firestore:"is_partner"`

	FoodTypeIDs          []int `json:"food_type_ids,omitempty" firestore:"food_type_ids"`
	DietaryTypeIDs       []int `json:"dietary_type_ids,omitempty" firestore:"dietary_type_ids"`
	PerkIDs              []int `json:"perk_ids,omitempty" firestore:"perk_ids"`
	EstablishmentTypeIDs []int `json:"establishment_type_ids,omitempty" firestore:"establishment_type_ids"`
	PriceCategoryID      int   `json:"price_category_id,omitempty" firestore:"price_category_id"`

	Hours *OpeningHours `json:"hours,omitempty" firestore:"hours"`
}

// HasPerk reports whether the restaurant carries the given perk id.
func (r *Restaurant) HasPerk(id int) bool {
	for _, p := range r.PerkIDs {
		if p == id {
			return true
		}
	}
	return false
}

// MenuItem is a dish or drink owned by a restaurant.
type MenuItem struct {
	ID           string       `json:"id" firestore:"id"`
	RestaurantID RestaurantID `json:"restaurant_id" firestore:"restaurant_id"`
	Name         string       `json:"name" firestore:"name"`
	NameEN       string       `json:"name_en,omitempty" firestore:"name_en"`
	Price        float64      `json:"price" firestore:"price"`
	Currency     string       `json:"currency,omitempty" firestore:"currency"`
	ImageURL     string       `json:"image_url,omitempty" firestore:"image_url"`
}

// OpeningPeriod is one weekly opening window. Days are time.Weekday values
// (Sunday == 0). A period may span midnight by having CloseDay differ from
// OpenDay.
type OpeningPeriod struct {
	OpenDay  int `json:"open_day" firestore:"open_day"`
	OpenMin  int `json:"open_min" firestore:"open_min"`
	CloseDay int `json:"close_day" firestore:"close_day"`
	CloseMin int `json:"close_min" firestore:"close_min"`
}

// OpeningHours is the recurring weekly schedule plus date-keyed overrides.
// Override keys use the "2006-01-02" layout; an override replaces the whole
// weekly schedule for that calendar date.
type OpeningHours struct {
	Periods   []OpeningPeriod            `json:"periods" firestore:"periods"`
	Overrides map[string][]OpeningPeriod `json:"overrides,omitempty" firestore:"overrides"`
}

// HoursState is the open/closed projection of a schedule at an instant.
type HoursState string

const (
	HoursOpen   HoursState = "open"
	HoursClosed HoursState = "closed"
	// HoursUndefined means the schedule is absent or blank. Callers must not
	// claim "closed" when hours are simply unknown.
	HoursUndefined HoursState = "undefined"
)

// OpenState is the computed projection for a specific instant.
type OpenState struct {
	State    HoursState `json:"state"`
	OpensAt  *time.Time `json:"opens_at,omitempty"`
	ClosesAt *time.Time `json:"closes_at,omitempty"`
}
