package persistence

import (
	"context"
	"database/sql"

	"github.com/store/backend/internal/domain/shared"
	"gorm.io/gorm"
)

type txKey struct{}

// withTx returns a context carrying the transaction handle. Repositories
// created from the same GormUnitOfWork pick it up via session.
func withTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// txFrom extracts the transaction handle from the context, if any.
func txFrom(ctx context.Context) *gorm.DB {
	tx, _ := ctx.Value(txKey{}).(*gorm.DB)
	return tx
}

// session returns the handle repositories must use for the given
// context: the enclosing transaction when one is open, the base
// connection otherwise.
func session(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx := txFrom(ctx); tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// GormUnitOfWork implements shared.UnitOfWork over a GORM connection.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a new GormUnitOfWork
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Do runs fn in a transaction with the default isolation level. Nested
// calls join the already-open transaction instead of starting a new one.
func (u *GormUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return u.run(ctx, &sql.TxOptions{}, fn)
}

// DoSerializable runs fn in a serializable transaction.
func (u *GormUnitOfWork) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return u.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

func (u *GormUnitOfWork) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	if txFrom(ctx) != nil {
		return fn(ctx)
	}
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(withTx(ctx, tx))
	}, opts)
}

// Ensure GormUnitOfWork implements UnitOfWork
var _ shared.UnitOfWork = (*GormUnitOfWork)(nil)
