package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"workspace/infras/otel"
	"workspace/infras/postgres"
	"workspace/internal/domains/blockedslot/model"
	gDto "workspace/shared/dto"
	gRepo "workspace/shared/repository"

	"github.com/jmoiron/sqlx"
)

type BlockedSlot interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.BlockedSlot) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.BlockedSlot, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.BlockedSlot, error)
	ExistTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (bool, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.BlockedSlot]
}

func New(db *postgres.Connection, otel otel.Otel) BlockedSlot {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.BlockedSlot](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
