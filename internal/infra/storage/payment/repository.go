package payment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с платежами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория платежей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает платёж, привязанный к покупке пакета
func (r *Repository) Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("payments").
		Columns(
			"package_customer_id",
			"amount",
			"gateway",
			"status",
			"date_time",
		).
		Values(
			payment.PackageCustomerID,
			payment.Amount,
			payment.Gateway,
			payment.Status,
			payment.DateTime,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&payment.ID,
		&createdAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	payment.CreatedAt = createdAt.Time

	return payment, nil
}

// GetByPackageCustomerID получает платежи покупки пакета
func (r *Repository) GetByPackageCustomerID(ctx context.Context, packageCustomerID int64) ([]*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"package_customer_id",
		"amount",
		"gateway",
		"status",
		"date_time",
		"created_at",
	).
		From("payments").
		Where(squirrel.Eq{"package_customer_id": packageCustomerID}).
		OrderBy("created_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByPackageCustomerID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByPackageCustomerID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanPayments(rows)
}

// DeleteByPackageCustomerID удаляет платежи покупки (компенсация отката)
func (r *Repository) DeleteByPackageCustomerID(ctx context.Context, packageCustomerID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("payments").
		Where(squirrel.Eq{"package_customer_id": packageCustomerID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteByPackageCustomerID - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeleteByPackageCustomerID - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

// scanPayments сканирует результаты запроса в слайс платежей
func (r *Repository) scanPayments(rows *sql.Rows) ([]*domain.Payment, error) {
	payments := make([]*domain.Payment, 0)

	for rows.Next() {
		var payment domain.Payment
		var createdAt sql.NullTime

		err := rows.Scan(
			&payment.ID,
			&payment.PackageCustomerID,
			&payment.Amount,
			&payment.Gateway,
			&payment.Status,
			&payment.DateTime,
			&createdAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanPayments - scan row: %v", ErrScanRow, err)
		}

		payment.CreatedAt = createdAt.Time

		payments = append(payments, &payment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanPayments - rows error: %v", ErrScanRow, err)
	}

	return payments, nil
}
