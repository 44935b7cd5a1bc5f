package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"workspace/infras/otel"
	"workspace/infras/postgres"
	"workspace/internal/domains/room/model"
	"workspace/shared"
	"workspace/shared/constant"
	gRepo "workspace/shared/repository"
)

// Room is the read side of the listing directory.
type Room interface {
	GetByID(ctx context.Context, id string) (model.Room, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Room]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Room {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Room](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

// GetByID returns a zero Room when the id is unknown.
func (r *repositoryImpl) GetByID(ctx context.Context, id string) (model.Room, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.GetByID")
	defer scope.End()

	room, err := r.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		scope.TraceError(err)

		return room, fmt.Errorf("failed to get room: %w", err)
	}

	return room, nil
}
