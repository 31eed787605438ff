// Package processor bridges streaming ingestion and resolution: each
// consumed game record is classified and its outcome published.
package processor

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"

	"github.com/Ramsey-B/fern/internal/tracing"
	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/metrics"
	"github.com/Ramsey-B/fern/pkg/models"
)

// Classifier resolves one record to its terminal classification.
type Classifier interface {
	ProcessRecord(ctx context.Context, record *models.IncomingRecord) *models.ResolutionOutcome
}

// Publisher emits classification outcomes downstream.
type Publisher interface {
	PublishClassification(ctx context.Context, outcome *models.ResolutionOutcome) error
}

// Processor is the Kafka message handler.
type Processor struct {
	logger     ectologger.Logger
	classifier Classifier
	publisher  Publisher
	validate   *validator.Validate
}

// NewProcessor creates a new Processor.
func NewProcessor(logger ectologger.Logger, classifier Classifier, publisher Publisher) *Processor {
	return &Processor{
		logger:     logger,
		classifier: classifier,
		publisher:  publisher,
		validate:   validator.New(),
	}
}

// HandleMessage classifies one consumed record and publishes the outcome.
//
// Invalid records are logged and dropped (returning nil commits the offset;
// a malformed record never becomes valid on redelivery). A publish failure
// returns an error so the offset is not committed and the record retries.
func (p *Processor) HandleMessage(ctx context.Context, msg *kafka.IncomingMessage) error {
	ctx, span := tracing.StartSpan(ctx, "processor.Processor.HandleMessage")
	defer span.End()

	record := msg.Record
	if record == nil {
		p.logger.WithContext(ctx).Error("message has no parsed record")
		metrics.MessagesConsumedTotal.WithLabelValues("invalid").Inc()
		return nil
	}

	if err := p.validate.Struct(record); err != nil {
		p.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"source_game_id": record.SourceGameID,
		}).Error("dropping invalid game record")
		metrics.MessagesConsumedTotal.WithLabelValues("invalid").Inc()
		return nil
	}

	outcome := p.classifier.ProcessRecord(ctx, record)

	if p.publisher != nil {
		if err := p.publisher.PublishClassification(ctx, outcome); err != nil {
			metrics.MessagesConsumedTotal.WithLabelValues("publish_failed").Inc()
			return err
		}
	}

	metrics.MessagesConsumedTotal.WithLabelValues("processed").Inc()
	return nil
}
