package packageusage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/avdeevsm/BMS-SlotService/internal/domain"
	"github.com/avdeevsm/BMS-SlotService/pkg/dbmetrics"
	"github.com/avdeevsm/BMS-SlotService/pkg/psqlbuilder"
)

// Repository репозиторий леджера расхода пакетных подписок.
// Дебет и кредит выполняются одним UPDATE: инвариант
// original = remaining + used сохраняется на каждой операции.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория леджера
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetBySubscriptionAndService получает строку леджера для пары (подписка, услуга).
// Внутри транзакции строка блокируется через FOR UPDATE.
func (r *Repository) GetBySubscriptionAndService(ctx context.Context, subscriptionID, serviceID int64) (*domain.PackageSubscriptionUsage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"subscription_id",
		"service_id",
		"original_quantity",
		"remaining_quantity",
		"used_quantity",
		"created_at",
		"updated_at",
	).
		From("package_subscription_usage").
		Where(squirrel.Eq{"subscription_id": subscriptionID}).
		Where(squirrel.Eq{"service_id": serviceID})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySubscriptionAndService - build select query: %v", ErrBuildQuery, err)
	}

	var u domain.PackageSubscriptionUsage
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&u.ID,
		&u.SubscriptionID,
		&u.ServiceID,
		&u.OriginalQuantity,
		&u.RemainingQuantity,
		&u.UsedQuantity,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrUsageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySubscriptionAndService - scan usage: %v", ErrScanRow, err)
	}

	u.CreatedAt = createdAt.Time
	u.UpdatedAt = updatedAt.Time

	return &u, nil
}

// Debit списывает одну единицу пакета при создании бронирования.
// Защита remaining_quantity > 0 выполняется в WHERE: ноль затронутых
// строк означает исчерпанный пакет либо отсутствие строки леджера.
func (r *Repository) Debit(ctx context.Context, subscriptionID, serviceID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("package_subscription_usage").
		Set("remaining_quantity", squirrel.Expr("remaining_quantity - 1")).
		Set("used_quantity", squirrel.Expr("used_quantity + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"subscription_id": subscriptionID}).
		Where(squirrel.Eq{"service_id": serviceID}).
		Where(squirrel.Gt{"remaining_quantity": 0}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Debit - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Debit - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Debit - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrPackageExhausted
	}

	return nil
}

// Credit возвращает qty единиц пакета при отмене бронирования.
// Возврат best-effort: used_quantity зажимается нулём, remaining —
// original_quantity, оба зажима согласованы одним LEAST.
func (r *Repository) Credit(ctx context.Context, subscriptionID, serviceID int64, qty int) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	// Возвращаем не больше, чем реально израсходовано
	query, args, err := psqlbuilder.Update("package_subscription_usage").
		Set("remaining_quantity", squirrel.Expr("remaining_quantity + LEAST(used_quantity, ?)", qty)).
		Set("used_quantity", squirrel.Expr("used_quantity - LEAST(used_quantity, ?)", qty)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"subscription_id": subscriptionID}).
		Where(squirrel.Eq{"service_id": serviceID}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: Credit - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: Credit - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: Credit - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}
