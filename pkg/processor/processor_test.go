package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/models"
)

type fakeClassifier struct {
	outcomes []*models.ResolutionOutcome
}

func (c *fakeClassifier) ProcessRecord(ctx context.Context, record *models.IncomingRecord) *models.ResolutionOutcome {
	outcome := &models.ResolutionOutcome{
		SourceGameID: record.SourceGameID,
		Status:       models.ResolutionStatusReady,
		Resolved:     map[string]string{},
		Missing:      []string{},
	}
	c.outcomes = append(c.outcomes, outcome)
	return outcome
}

type fakePublisher struct {
	published []*models.ResolutionOutcome
	err       error
}

func (p *fakePublisher) PublishClassification(ctx context.Context, outcome *models.ResolutionOutcome) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, outcome)
	return nil
}

func newTestProcessor(classifier *fakeClassifier, publisher *fakePublisher) *Processor {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	return NewProcessor(logger, classifier, publisher)
}

func gameMessage(t *testing.T, record *models.IncomingRecord) *kafka.IncomingMessage {
	t.Helper()
	payload, err := json.Marshal(record)
	require.NoError(t, err)
	msg := &kafka.IncomingMessage{Value: payload}
	require.NoError(t, msg.ParseRecord())
	return msg
}

func validRecord() *models.IncomingRecord {
	return &models.IncomingRecord{
		SourceGameID: "game-1",
		Sport:        "BASEBALL",
		HomeTeam:     "NY Yankees",
		AwayTeam:     "Boston Red Sox",
		KickoffTime:  time.Date(2026, 4, 12, 19, 0, 0, 0, time.UTC),
	}
}

func TestProcessor_HandleMessage(t *testing.T) {
	classifier := &fakeClassifier{}
	publisher := &fakePublisher{}
	processor := newTestProcessor(classifier, publisher)

	err := processor.HandleMessage(context.Background(), gameMessage(t, validRecord()))
	require.NoError(t, err)

	require.Len(t, classifier.outcomes, 1)
	require.Len(t, publisher.published, 1)
	assert.Equal(t, "game-1", publisher.published[0].SourceGameID)
}

func TestProcessor_HandleMessage_InvalidRecordIsDropped(t *testing.T) {
	classifier := &fakeClassifier{}
	publisher := &fakePublisher{}
	processor := newTestProcessor(classifier, publisher)

	record := validRecord()
	record.HomeTeam = ""

	// nil means the offset commits and the malformed record is not retried
	err := processor.HandleMessage(context.Background(), gameMessage(t, record))
	require.NoError(t, err)
	assert.Empty(t, classifier.outcomes)
	assert.Empty(t, publisher.published)
}

func TestProcessor_HandleMessage_PublishFailureRetries(t *testing.T) {
	classifier := &fakeClassifier{}
	publisher := &fakePublisher{err: fmt.Errorf("broker unreachable")}
	processor := newTestProcessor(classifier, publisher)

	// an error means the offset is not committed and the record redelivers
	err := processor.HandleMessage(context.Background(), gameMessage(t, validRecord()))
	require.Error(t, err)
}

func TestProcessor_HandleMessage_NoParsedRecord(t *testing.T) {
	processor := newTestProcessor(&fakeClassifier{}, &fakePublisher{})

	err := processor.HandleMessage(context.Background(), &kafka.IncomingMessage{})
	require.NoError(t, err)
}
