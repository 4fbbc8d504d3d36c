package model

// Query is the immutable input of a single conversational turn.
type Query struct {
	Text     string
	Lat      *float64
	Lng      *float64
	RadiusKm *float64
	PageSize int
	Cursor   string
	ThreadID ThreadID
}

// HasCoords reports whether the caller supplied explicit coordinates.
func (q *Query) HasCoords() bool {
	return q != nil && q.Lat != nil && q.Lng != nil
}

// OutcomeCode is the machine-readable result of a turn. Outcome codes, not
// errors, are the primary signaling channel to callers.
type OutcomeCode string

const (
	OutcomeOK                 OutcomeCode = "OK"
	OutcomeMissingLocation    OutcomeCode = "MISSING_LOCATION"
	OutcomeRestaurantNotFound OutcomeCode = "RESTAURANT_NOT_FOUND"
	OutcomeNotPartner         OutcomeCode = "NOT_PARTNER"
	OutcomeNoResults          OutcomeCode = "NO_RESULTS"
	OutcomeAmbiguous          OutcomeCode = "AMBIGUOUS"
)

// ResultKind discriminates what the Results collection holds.
type ResultKind string

const (
	ResultKindRestaurants ResultKind = "restaurants"
	ResultKindMenuItems   ResultKind = "menu_items"
	ResultKindOpenState   ResultKind = "open_state"
	ResultKindNone        ResultKind = "none"
)

// PageInfo summarizes the pagination window of a response.
type PageInfo struct {
	Offset  int  `json:"offset"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasNext bool `json:"has_next"`
	HasPrev bool `json:"has_prev"`
}

// Response is the structured answer of one turn, consumed by the transport
// layer. Answer is always populated, even for empty or failed outcomes.
type Response struct {
	Kind       ResultKind        `json:"kind"`
	Outcome    OutcomeCode       `json:"outcome"`
	Answer     string            `json:"answer"`
	Results    []CandidateResult `json:"results"`
	NextCursor string            `json:"next_cursor,omitempty"`
	PrevCursor string            `json:"prev_cursor,omitempty"`
	PageInfo   PageInfo          `json:"page_info"`
}

// CandidateResult is a restaurant (optionally paired with a matched menu
// item) decorated with computed distance and, where relevant, an open/closed
// projection. Computed fresh per request.
type CandidateResult struct {
	Restaurant *Restaurant `json:"restaurant"`
	Item       *MenuItem   `json:"item,omitempty"`
	DistanceKm float64     `json:"distance_km"`
	Open       *OpenState  `json:"open,omitempty"`
}
