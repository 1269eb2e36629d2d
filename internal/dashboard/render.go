package dashboard

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/2beens/cyclingprofile/internal/strava"
)

// Render writes a plain text rendition of the view.
func Render(w io.Writer, view View) error {
	switch view.State {
	case StateLoading:
		_, err := fmt.Fprintln(w, LoadingMessage(view.Period))
		return err
	case StateError:
		msg := "Failed to load profile"
		if view.Err != nil {
			msg = view.Err.Error()
		}
		_, err := fmt.Fprintf(w, "Unable to load profile\n%s\n", msg)
		return err
	case StateSuccess:
		if view.Profile == nil {
			return errors.New("success view without profile")
		}
		return renderProfile(w, view.Profile)
	default:
		return fmt.Errorf("unknown view state: %d", view.State)
	}
}

func renderProfile(w io.Writer, profile *ProfileResponse) error {
	athlete := profile.Athlete
	header := strings.TrimSpace(athlete.Firstname + " " + athlete.Lastname)
	if _, err := fmt.Fprintf(w, "%s\n%s\n\n", header, athleteSubtitle(athlete)); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Time Period:\t%s\n", profile.Period)
	fmt.Fprintf(tw, "Total Distance:\t%s\n", FormatDistance(profile.Stats.TotalDistance))
	fmt.Fprintf(tw, "Total Rides:\t%d\n", profile.Stats.TotalRides)
	fmt.Fprintf(tw, "Elevation Gain:\t%s\n", FormatElevation(profile.Stats.TotalElevationGain))
	fmt.Fprintf(tw, "Moving Time:\t%s\n", FormatDuration(profile.Stats.TotalMovingTime))
	return tw.Flush()
}

func athleteSubtitle(athlete strava.Athlete) string {
	var location string
	switch {
	case athlete.City != "" && athlete.State != "":
		location = athlete.City + ", " + athlete.State
	case athlete.City != "":
		location = athlete.City
	case athlete.State != "":
		location = athlete.State
	default:
		location = "Location not set"
	}
	if athlete.Premium {
		location += " • Premium"
	}
	return location
}
