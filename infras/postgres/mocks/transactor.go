package mocks

import (
	"context"

	"workspace/infras/postgres"

	"github.com/jmoiron/sqlx"
)

type transactorImpl struct{}

// WithinTx implements postgres.Transactor without a database; fn receives a nil transaction.
func (t *transactorImpl) WithinTx(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) error {
	return fn(ctx, nil)
}

func NewTransactor() postgres.Transactor {
	return &transactorImpl{}
}
