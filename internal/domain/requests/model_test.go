package requests

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Transitions(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusPending, StatusAccepted, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusInProgress, false},
		{StatusAccepted, StatusInProgress, true},
		{StatusAccepted, StatusRejected, false},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, true},
		{StatusCompleted, StatusCancelled, false},
		{StatusRejected, StatusAccepted, false},
		{StatusCancelled, StatusPending, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}

	for _, s := range []Status{StatusCompleted, StatusRejected, StatusCancelled} {
		assert.True(t, s.IsTerminal(), s)
	}
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, Status("bogus").Valid())
}

func TestTransitionTo_StampsOnce(t *testing.T) {
	t1 := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	r := ServiceRequest{Status: StatusPending}
	require.True(t, r.TransitionTo(StatusAccepted, t1))
	require.NotNil(t, r.AcceptedAt)
	assert.Equal(t, t1, *r.AcceptedAt)

	require.True(t, r.TransitionTo(StatusInProgress, t2))
	assert.Equal(t, t1, *r.AcceptedAt)
	assert.Equal(t, t2, *r.StartedAt)
	assert.Nil(t, r.CompletedAt)

	assert.False(t, r.TransitionTo(StatusAccepted, t2))
	assert.Equal(t, StatusInProgress, r.Status)
}

func TestCounterParty(t *testing.T) {
	r := ServiceRequest{OwnerID: "owner", ProviderUserID: "prov"}
	assert.Equal(t, "prov", r.CounterParty("owner"))
	assert.Equal(t, "owner", r.CounterParty("prov"))
	assert.Equal(t, "", r.CounterParty("stranger"))
	assert.False(t, r.IsParty(""))
}

func TestQuote(t *testing.T) {
	rate := 20.0
	tests := []struct {
		name       string
		startDate  string
		endDate    string
		startTime  string
		endTime    string
		rate       *float64
		wantHours  float64
		wantAmount float64
	}{
		{"working day", "2024-01-01", "2024-01-01", "09:00", "17:00", &rate, 8, 160},
		{"minimum one hour", "2024-01-01", "2024-01-01", "09:00", "09:30", &rate, 1, 20},
		{"no rate", "2024-01-01", "2024-01-01", "09:00", "17:00", nil, 8, 0},
		{"defaults whole day", "2024-01-01", "", "", "", &rate, 23 + 59.0/60, 479.67},
		{"inverted range", "2024-01-02", "2024-01-01", "09:00", "09:00", &rate, 1, 20},
		{"seconds accepted", "2024-01-01", "2024-01-02", "10:00:00", "10:00:00", &rate, 24, 480},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, start, end, err := NormalizeSchedule(tt.startDate, tt.endDate, tt.startTime, tt.endTime)
			require.NoError(t, err)
			hours, amount := Quote(start, end, tt.rate)
			assert.InDelta(t, tt.wantHours, hours, 1e-9)
			assert.InDelta(t, tt.wantAmount, amount, 1e-9)
		})
	}
}

func TestNormalizeSchedule_Defaults(t *testing.T) {
	s, _, _, err := NormalizeSchedule("2024-05-10", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, Schedule{StartDate: "2024-05-10", EndDate: "2024-05-10", StartTime: "00:00", EndTime: "23:59"}, s)

	_, _, _, err = NormalizeSchedule("10/05/2024", "", "", "")
	assert.Error(t, err)
}
