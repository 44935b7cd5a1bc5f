package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"workspace/infras/otel"
	"workspace/infras/postgres"
	"workspace/internal/domains/refund/model"
	gDto "workspace/shared/dto"
	gRepo "workspace/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Refund interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.RefundRequest) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.RefundRequest, error)
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.RefundRequest, error)
	ExistTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (bool, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.RefundRequest]
}

func New(db *postgres.Connection, otel otel.Otel) Refund {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.RefundRequest](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
