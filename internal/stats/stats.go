package stats

import (
	"strings"
	"time"

	"github.com/2beens/cyclingprofile/internal/strava"
)

// AthleteStats is a pure fold over a filtered set of activities.
type AthleteStats struct {
	TotalDistance      float64 `json:"totalDistance"`      // meters
	TotalRides         int     `json:"totalRides"`
	TotalElevationGain float64 `json:"totalElevationGain"` // meters
	TotalMovingTime    int     `json:"totalMovingTime"`    // seconds
}

// IsCycling matches type "Ride" or any sport type mentioning Bike or Ride
// (MountainBikeRide, EBikeRide, GravelRide, VirtualRide...).
func IsCycling(a strava.Activity) bool {
	return a.Type == "Ride" ||
		strings.Contains(a.SportType, "Bike") ||
		strings.Contains(a.SportType, "Ride")
}

func FilterCycling(activities []strava.Activity) []strava.Activity {
	filtered := make([]strava.Activity, 0, len(activities))
	for _, a := range activities {
		if IsCycling(a) {
			filtered = append(filtered, a)
		}
	}
	return filtered
}

// FilterByDateRange keeps activities started within [start, end], both ends inclusive.
func FilterByDateRange(activities []strava.Activity, start, end time.Time) []strava.Activity {
	filtered := make([]strava.Activity, 0, len(activities))
	for _, a := range activities {
		if !a.StartDate.Before(start) && !a.StartDate.After(end) {
			filtered = append(filtered, a)
		}
	}
	return filtered
}

func Aggregate(activities []strava.Activity) AthleteStats {
	s := AthleteStats{}
	for _, a := range activities {
		s.TotalDistance += a.Distance
		s.TotalElevationGain += a.TotalElevationGain
		s.TotalMovingTime += a.MovingTime
		s.TotalRides++
	}
	return s
}

// ForPeriod filters to cycling, then to [now - days, now], then aggregates.
func ForPeriod(activities []strava.Activity, days int, now time.Time) AthleteStats {
	start := now.AddDate(0, 0, -days)
	return Aggregate(FilterByDateRange(FilterCycling(activities), start, now))
}

func LastWeek(activities []strava.Activity, now time.Time) AthleteStats {
	return ForPeriod(activities, PeriodWeek.Days(), now)
}

func Last30Days(activities []strava.Activity, now time.Time) AthleteStats {
	return ForPeriod(activities, Period30Days.Days(), now)
}

func Last60Days(activities []strava.Activity, now time.Time) AthleteStats {
	return ForPeriod(activities, Period60Days.Days(), now)
}
