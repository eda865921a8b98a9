package shared

import "context"

// UnitOfWork runs a function inside a single database transaction.
// Repositories called with the context passed to fn join the same
// transaction; any returned error rolls everything back.
type UnitOfWork interface {
	// Do runs fn in a transaction with the default isolation level.
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	// DoSerializable runs fn in a serializable transaction. Used for
	// operations that read stock or block layouts and write back
	// decisions derived from those reads.
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}
