package ports

import (
	"context"

	"github.com/upslab/labportal/internal/core/domain"
)

// TransactionRepository persists the request audit trail.
type TransactionRepository interface {
	Insert(ctx context.Context, tx domain.Transaction) error
}
