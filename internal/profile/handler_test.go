package profile_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/2beens/cyclingprofile/internal/profile"
	"github.com/2beens/cyclingprofile/internal/stats"
	"github.com/2beens/cyclingprofile/internal/strava"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func testActivities() []strava.Activity {
	return []strava.Activity{
		{ID: 1, Type: "Ride", SportType: "Ride", StartDate: now.AddDate(0, 0, -2), Distance: 20_000, TotalElevationGain: 150, MovingTime: 3_600},
		{ID: 2, Type: "Run", SportType: "Run", StartDate: now.AddDate(0, 0, -3), Distance: 8_000, TotalElevationGain: 40, MovingTime: 2_400},
		{ID: 3, Type: "Ride", SportType: "GravelRide", StartDate: now.AddDate(0, 0, -20), Distance: 60_000, TotalElevationGain: 900, MovingTime: 10_800},
		{ID: 4, Type: "Ride", SportType: "Ride", StartDate: now.AddDate(0, 0, -50), Distance: 40_000, TotalElevationGain: 300, MovingTime: 5_400},
	}
}

func newRouter(stravaClient *MockstravaClient) *mux.Router {
	r := mux.NewRouter()
	profile.NewHandler(stravaClient).WithNowFunc(func() time.Time { return now }).SetupRoutes(r)
	return r
}

func getProfile(r http.Handler, query, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/profile"+query, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestHandleGetProfile(t *testing.T) {
	testCases := []struct {
		name           string
		query          string
		expectedPeriod string
		expectedStats  stats.AthleteStats
	}{
		{
			name:           "DefaultPeriod",
			query:          "",
			expectedPeriod: "Last 30 days",
			expectedStats:  stats.AthleteStats{TotalDistance: 80_000, TotalRides: 2, TotalElevationGain: 1_050, TotalMovingTime: 14_400},
		},
		{
			name:           "LastWeek",
			query:          "?period=7",
			expectedPeriod: "Last week",
			expectedStats:  stats.AthleteStats{TotalDistance: 20_000, TotalRides: 1, TotalElevationGain: 150, TotalMovingTime: 3_600},
		},
		{
			name:           "Last60Days",
			query:          "?period=60",
			expectedPeriod: "Last 60 days",
			expectedStats:  stats.AthleteStats{TotalDistance: 120_000, TotalRides: 3, TotalElevationGain: 1_350, TotalMovingTime: 19_800},
		},
		{
			name:           "UnknownPeriodFallsBack",
			query:          "?period=365",
			expectedPeriod: "Last 30 days",
			expectedStats:  stats.AthleteStats{TotalDistance: 80_000, TotalRides: 2, TotalElevationGain: 1_050, TotalMovingTime: 14_400},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			stravaClient := NewMockstravaClient(ctrl)
			stravaClient.EXPECT().
				FetchAthlete(gomock.Any(), "good-token").
				Return(&strava.Athlete{ID: 4242, Firstname: "Eddy", Lastname: "Merckx"}, nil)
			stravaClient.EXPECT().
				FetchActivities(gomock.Any(), "good-token", strava.ActivitiesParams{PerPage: 100}).
				Return(testActivities(), nil)

			rr := getProfile(newRouter(stravaClient), tc.query, "Bearer good-token")
			require.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var resp profile.Response
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			require.NotNil(t, resp.Athlete)
			assert.Equal(t, int64(4242), resp.Athlete.ID)
			assert.Equal(t, "Eddy", resp.Athlete.Firstname)
			assert.Equal(t, tc.expectedPeriod, resp.Period)
			assert.Equal(t, tc.expectedStats, resp.Stats)
		})
	}
}

func TestHandleGetProfile_ResponseShape(t *testing.T) {
	ctrl := gomock.NewController(t)
	stravaClient := NewMockstravaClient(ctrl)
	stravaClient.EXPECT().FetchAthlete(gomock.Any(), "good-token").Return(&strava.Athlete{ID: 1}, nil)
	stravaClient.EXPECT().FetchActivities(gomock.Any(), "good-token", gomock.Any()).Return(nil, nil)

	rr := getProfile(newRouter(stravaClient), "", "Bearer good-token")
	require.Equal(t, http.StatusOK, rr.Code)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
	assert.Contains(t, raw, "athlete")
	assert.Contains(t, raw, "period")
	assert.JSONEq(t, `{"totalDistance":0,"totalRides":0,"totalElevationGain":0,"totalMovingTime":0}`, string(raw["stats"]))
}

func TestHandleGetProfile_Unauthorized(t *testing.T) {
	testCases := []struct {
		name       string
		authHeader string
	}{
		{name: "NoHeader"},
		{name: "WrongScheme", authHeader: "Basic Zm9vOmJhcg=="},
		{name: "EmptyToken", authHeader: "Bearer "},
		{name: "BlankToken", authHeader: "Bearer    "},
		{name: "NoSpace", authHeader: "Bearertoken"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			stravaClient := NewMockstravaClient(ctrl)
			// no upstream traffic without a token
			stravaClient.EXPECT().FetchAthlete(gomock.Any(), gomock.Any()).Times(0)
			stravaClient.EXPECT().FetchActivities(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

			rr := getProfile(newRouter(stravaClient), "?period=7", tc.authHeader)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.JSONEq(t, `{"error":"Access token required"}`, rr.Body.String())
		})
	}
}

func TestHandleGetProfile_UpstreamFailure(t *testing.T) {
	testCases := []struct {
		name          string
		athleteErr    error
		activitiesErr error
	}{
		{
			name:       "AthleteFails",
			athleteErr: &strava.UpstreamError{Endpoint: "athlete", StatusCode: http.StatusUnauthorized, Status: "401 Unauthorized"},
		},
		{
			name:          "ActivitiesFails",
			activitiesErr: fmt.Errorf("strava activities: %w", strava.ErrSchemaMismatch),
		},
		{
			name:          "BothFail",
			athleteErr:    context.DeadlineExceeded,
			activitiesErr: context.DeadlineExceeded,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			stravaClient := NewMockstravaClient(ctrl)
			stravaClient.EXPECT().
				FetchAthlete(gomock.Any(), "good-token").
				DoAndReturn(func(ctx context.Context, _ string) (*strava.Athlete, error) {
					if tc.athleteErr != nil {
						return nil, tc.athleteErr
					}
					return &strava.Athlete{ID: 1}, nil
				}).
				MaxTimes(1)
			stravaClient.EXPECT().
				FetchActivities(gomock.Any(), "good-token", gomock.Any()).
				DoAndReturn(func(ctx context.Context, _ string, _ strava.ActivitiesParams) ([]strava.Activity, error) {
					if tc.activitiesErr != nil {
						return nil, tc.activitiesErr
					}
					return testActivities(), nil
				}).
				MaxTimes(1)

			rr := getProfile(newRouter(stravaClient), "", "Bearer good-token")
			assert.Equal(t, http.StatusInternalServerError, rr.Code)
			assert.JSONEq(t, `{"error":"Failed to fetch profile data"}`, rr.Body.String())
			assert.NotContains(t, rr.Body.String(), "401")
		})
	}
}

func TestHandleGetProfile_FailureCancelsSibling(t *testing.T) {
	ctrl := gomock.NewController(t)
	stravaClient := NewMockstravaClient(ctrl)

	siblingCanceled := make(chan struct{})
	stravaClient.EXPECT().
		FetchAthlete(gomock.Any(), "good-token").
		Return(nil, &strava.UpstreamError{Endpoint: "athlete", StatusCode: http.StatusInternalServerError, Status: "500 Internal Server Error"})
	stravaClient.EXPECT().
		FetchActivities(gomock.Any(), "good-token", gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, _ strava.ActivitiesParams) ([]strava.Activity, error) {
			select {
			case <-ctx.Done():
				close(siblingCanceled)
				return nil, ctx.Err()
			case <-time.After(5 * time.Second):
				return testActivities(), nil
			}
		})

	rr := getProfile(newRouter(stravaClient), "", "Bearer good-token")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	select {
	case <-siblingCanceled:
	default:
		t.Fatal("activities fetch was not canceled after the athlete fetch failed")
	}
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer abc.def")
	token, err := profile.BearerToken(req)
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	req.Header.Set("Authorization", "bearer abc.def")
	_, err = profile.BearerToken(req)
	assert.ErrorIs(t, err, profile.ErrMissingToken)
}
