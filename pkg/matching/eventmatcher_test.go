package matching

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/models"
)

type fakeCalendar struct {
	events []models.CalendarEvent
	err    error
	calls  int
}

func (c *fakeCalendar) ListEvents(ctx context.Context, sport string, from, to time.Time) ([]models.CalendarEvent, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	var out []models.CalendarEvent
	for _, event := range c.events {
		if event.Sport == sport && !event.StartTime.Before(from) && !event.StartTime.After(to) {
			out = append(out, event)
		}
	}
	return out, nil
}

type fakeRecorder struct {
	matches []*models.EventMatch
	err     error
}

func (r *fakeRecorder) Record(ctx context.Context, match *models.EventMatch) error {
	if r.err != nil {
		return r.err
	}
	r.matches = append(r.matches, match)
	return nil
}

func newTestEventMatcher(calendar *fakeCalendar, recorder *fakeRecorder) *EventMatcher {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	return NewEventMatcher(logger, calendar, recorder, DefaultEventMatcherConfig())
}

func TestEventMatcher_FindExistingEvent(t *testing.T) {
	kickoff := time.Date(2026, 4, 12, 19, 0, 0, 0, time.UTC)

	calendar := &fakeCalendar{events: []models.CalendarEvent{
		{ID: "evt-1", Sport: "Baseball", HomeTeam: "New York Yankees", AwayTeam: "Boston Red Sox", StartTime: kickoff.Add(2 * time.Hour)},
		{ID: "evt-2", Sport: "Baseball", HomeTeam: "New York Yankees", AwayTeam: "Boston Red Sox", StartTime: kickoff.Add(5 * time.Hour)},
		{ID: "evt-3", Sport: "Baseball", HomeTeam: "New York Mets", AwayTeam: "Atlanta Braves", StartTime: kickoff.Add(time.Hour)},
		{ID: "evt-4", Sport: "Baseball", HomeTeam: "New York Yankees", AwayTeam: "Boston Red Sox", StartTime: kickoff.Add(20 * time.Hour)},
	}}
	recorder := &fakeRecorder{}
	matcher := newTestEventMatcher(calendar, recorder)

	t.Run("closest qualifying event wins", func(t *testing.T) {
		event, err := matcher.FindExistingEvent(context.Background(), "game-1", "New York Yankees", "Boston Red Sox", "Baseball", kickoff)
		require.NoError(t, err)
		require.NotNil(t, event)
		assert.Equal(t, "evt-1", event.ID, "evt-2 is further away and evt-4 is outside the window")
	})

	t.Run("match is recorded with similarity and delta", func(t *testing.T) {
		require.NotEmpty(t, recorder.matches)
		match := recorder.matches[0]
		assert.Equal(t, "game-1", match.SourceGameID)
		assert.Equal(t, "evt-1", match.EventID)
		assert.Equal(t, 1.0, match.HomeSimilarity)
		assert.Equal(t, 1.0, match.AwaySimilarity)
		assert.Equal(t, int64(2*60*60), match.KickoffDelta)
	})

	t.Run("idempotent for identical inputs", func(t *testing.T) {
		first, err := matcher.FindExistingEvent(context.Background(), "game-1", "New York Yankees", "Boston Red Sox", "Baseball", kickoff)
		require.NoError(t, err)
		second, err := matcher.FindExistingEvent(context.Background(), "game-1", "New York Yankees", "Boston Red Sox", "Baseball", kickoff)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("no qualifying event returns nil without error", func(t *testing.T) {
		event, err := matcher.FindExistingEvent(context.Background(), "game-2", "Chicago Cubs", "St. Louis Cardinals", "Baseball", kickoff)
		require.NoError(t, err)
		assert.Nil(t, event)
	})
}

func TestEventMatcher_FindExistingEvent_TeamThreshold(t *testing.T) {
	kickoff := time.Date(2026, 4, 12, 19, 0, 0, 0, time.UTC)

	calendar := &fakeCalendar{events: []models.CalendarEvent{
		{ID: "evt-1", Sport: "Baseball", HomeTeam: "NY Yankees", AwayTeam: "Boston Red Sox", StartTime: kickoff},
	}}
	matcher := newTestEventMatcher(calendar, &fakeRecorder{})

	t.Run("punctuation and abbreviation variance passes the looser bar", func(t *testing.T) {
		event, err := matcher.FindExistingEvent(context.Background(), "game-1", "Yankees NY", "Boston Red Sox", "Baseball", kickoff)
		require.NoError(t, err)
		require.NotNil(t, event)
		assert.Equal(t, "evt-1", event.ID)
	})

	t.Run("one side below threshold disqualifies the event", func(t *testing.T) {
		event, err := matcher.FindExistingEvent(context.Background(), "game-1", "Yankees NY", "Toronto Blue Jays", "Baseball", kickoff)
		require.NoError(t, err)
		assert.Nil(t, event)
	})
}

func TestEventMatcher_FindExistingEvent_DeltaTieBreak(t *testing.T) {
	kickoff := time.Date(2026, 4, 12, 19, 0, 0, 0, time.UTC)

	// equal kickoff deltas; evt-b matches the names exactly so its combined
	// similarity is higher
	calendar := &fakeCalendar{events: []models.CalendarEvent{
		{ID: "evt-a", Sport: "Baseball", HomeTeam: "New York Yankees B", AwayTeam: "Boston Red Sox B", StartTime: kickoff.Add(time.Hour)},
		{ID: "evt-b", Sport: "Baseball", HomeTeam: "New York Yankees", AwayTeam: "Boston Red Sox", StartTime: kickoff.Add(-time.Hour)},
	}}
	matcher := newTestEventMatcher(calendar, &fakeRecorder{})

	event, err := matcher.FindExistingEvent(context.Background(), "game-1", "New York Yankees", "Boston Red Sox", "Baseball", kickoff)
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, "evt-b", event.ID)
}

func TestEventMatcher_FindExistingEvent_UpstreamUnavailable(t *testing.T) {
	kickoff := time.Date(2026, 4, 12, 19, 0, 0, 0, time.UTC)

	calendar := &fakeCalendar{err: fmt.Errorf("dial tcp: connection refused")}
	matcher := newTestEventMatcher(calendar, &fakeRecorder{})

	event, err := matcher.FindExistingEvent(context.Background(), "game-1", "New York Yankees", "Boston Red Sox", "Baseball", kickoff)
	assert.Nil(t, event)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrUpstreamUnavailable))
}

func TestEventMatcher_FindExistingEvent_RecorderFailureIsNonFatal(t *testing.T) {
	kickoff := time.Date(2026, 4, 12, 19, 0, 0, 0, time.UTC)

	calendar := &fakeCalendar{events: []models.CalendarEvent{
		{ID: "evt-1", Sport: "Baseball", HomeTeam: "New York Yankees", AwayTeam: "Boston Red Sox", StartTime: kickoff},
	}}
	recorder := &fakeRecorder{err: fmt.Errorf("connection refused")}
	matcher := newTestEventMatcher(calendar, recorder)

	event, err := matcher.FindExistingEvent(context.Background(), "game-1", "New York Yankees", "Boston Red Sox", "Baseball", kickoff)
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, "evt-1", event.ID)
}
