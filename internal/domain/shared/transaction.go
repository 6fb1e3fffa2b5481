package shared

import "context"

// TransactionManager runs a unit of work atomically.
// Repositories called with the context passed to fn join the transaction;
// any error returned by fn rolls every write back.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
