package dashboard

import (
	"fmt"
	"math"

	"github.com/2beens/cyclingprofile/internal/stats"

	"github.com/dustin/go-humanize"
)

func FormatDistance(meters float64) string {
	km := meters / 1000
	if km >= 1000 {
		return fmt.Sprintf("%.1fk km", km/1000)
	}
	return fmt.Sprintf("%.1f km", km)
}

func FormatElevation(meters float64) string {
	return humanize.Comma(int64(math.Round(meters))) + " m"
}

func FormatDuration(seconds int) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

func LoadingMessage(period stats.Period) string {
	switch period {
	case stats.PeriodWeek:
		return "Loading last week stats..."
	case stats.Period60Days:
		return "Loading last 60 days stats..."
	default:
		return "Loading last 30 days stats..."
	}
}
