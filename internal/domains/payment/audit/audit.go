// Package audit keeps a copy of gateway callbacks that were refused.
package audit

//go:generate go run go.uber.org/mock/mockgen -source=./audit.go -destination=../mocks/audit_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"path"
	"time"

	"workspace/infras/s3"
	"workspace/internal/domains/payment/gateway"
	"workspace/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	rootDirectory = "callbacks"
	dateLayout    = "2006-01-02"
	contentType   = "application/json"
)

type Record struct {
	ID         string              `json:"id"`
	Gateway    string              `json:"gateway"`
	Reason     string              `json:"reason"`
	ReceivedAt time.Time           `json:"received_at"`
	Callback   gateway.RawCallback `json:"callback"`
}

type Archiver interface {
	// Archive stores the callback in the background. Failures are only logged.
	Archive(ctx context.Context, gatewayName, reason string, raw gateway.RawCallback)
}

type archiverImpl struct {
	storage s3.S3
}

func New(storage s3.S3) Archiver {
	return &archiverImpl{storage: storage}
}

func (a *archiverImpl) Archive(ctx context.Context, gatewayName, reason string, raw gateway.RawCallback) {
	record := Record{
		ID:         uuid.NewString(),
		Gateway:    gatewayName,
		Reason:     reason,
		ReceivedAt: timezone.NowUTC(),
		Callback:   raw,
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if _, err := a.store(c, record); err != nil {
			log.Error().Err(err).Str("gateway", gatewayName).Str("record_id", record.ID).Msg("failed to archive callback")
		}
	}()
}

// store writes the record synchronously and returns its object key.
func (a *archiverImpl) store(ctx context.Context, record Record) (string, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return "", err //nolint:wrapcheck
	}

	directory := path.Join(rootDirectory, record.Gateway, record.ReceivedAt.Format(dateLayout))
	fileName := record.ID + ".json"

	if _, err = a.storage.PutObject(ctx, directory, fileName, contentType, data); err != nil {
		return "", err //nolint:wrapcheck
	}

	return path.Join(directory, fileName), nil
}
