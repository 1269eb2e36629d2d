package strava

import (
	"time"
)

// Activity is a single Strava activity as returned by GET /athlete/activities.
// Numeric fields absent from the payload decode to zero.
type Activity struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Type               string    `json:"type"`
	SportType          string    `json:"sport_type"`
	StartDate          time.Time `json:"start_date"`
	StartDateLocal     string    `json:"start_date_local,omitempty"`
	Timezone           string    `json:"timezone,omitempty"`
	Distance           float64   `json:"distance"`             // meters
	TotalElevationGain float64   `json:"total_elevation_gain"` // meters
	MovingTime         int       `json:"moving_time"`          // seconds
	ElapsedTime        int       `json:"elapsed_time"`         // seconds
	AverageSpeed       float64   `json:"average_speed"`        // m/s
	MaxSpeed           float64   `json:"max_speed"`            // m/s
	Trainer            bool      `json:"trainer"`
	Commute            bool      `json:"commute"`
	Manual             bool      `json:"manual"`
	Private            bool      `json:"private"`
}

type Athlete struct {
	ID            int64  `json:"id"`
	Username      string `json:"username,omitempty"`
	Firstname     string `json:"firstname"`
	Lastname      string `json:"lastname"`
	City          string `json:"city,omitempty"`
	State         string `json:"state,omitempty"`
	Country       string `json:"country,omitempty"`
	Sex           string `json:"sex,omitempty"`
	Premium       bool   `json:"premium"`
	Summit        bool   `json:"summit"`
	Profile       string `json:"profile,omitempty"`
	ProfileMedium string `json:"profile_medium,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
	UpdatedAt     string `json:"updated_at,omitempty"`
}

// AthleteSummary is the athlete embedded in the token exchange response.
type AthleteSummary struct {
	ID        int64  `json:"id"`
	Username  string `json:"username,omitempty"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Country   string `json:"country,omitempty"`
	Profile   string `json:"profile,omitempty"`
}

type AuthToken struct {
	TokenType    string         `json:"token_type"`
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	ExpiresAt    int64          `json:"expires_at"`
	ExpiresIn    int64          `json:"expires_in"`
	Athlete      AthleteSummary `json:"athlete"`
}

// ActivitiesParams narrows GET /athlete/activities. Zero values are omitted,
// except PerPage which falls back to DefaultPerPage.
type ActivitiesParams struct {
	After   *time.Time
	Before  *time.Time
	PerPage int
}

// required-field views used to validate payloads at the boundary

type activityRequired struct {
	ID        *int64  `json:"id"`
	Type      *string `json:"type"`
	SportType *string `json:"sport_type"`
	StartDate *string `json:"start_date"`
}

type athleteRequired struct {
	ID *int64 `json:"id"`
}
