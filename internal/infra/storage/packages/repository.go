package packages

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с пакетами услуг
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория пакетов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает пакет по ID вместе со связанными услугами
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Package, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"price",
		"discount",
		"calculated_price",
		"deposit",
		"deposit_enabled",
		"shared_capacity",
		"quantity_shared",
		"status",
		"created_at",
	).
		From("packages").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var pkg domain.Package
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&pkg.ID,
		&pkg.Name,
		&pkg.Price,
		&pkg.Discount,
		&pkg.CalculatedPrice,
		&pkg.Deposit,
		&pkg.DepositEnabled,
		&pkg.SharedCapacity,
		&pkg.QuantityShared,
		&pkg.Status,
		&createdAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrPackageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan package: %v", ErrScanRow, err)
	}

	pkg.CreatedAt = createdAt.Time

	if err := r.loadServices(ctx, executor, &pkg); err != nil {
		return nil, err
	}

	return &pkg, nil
}

// loadServices догружает услуги пакета с их квотами кредитов
func (r *Repository) loadServices(ctx context.Context, executor DBExecutor, pkg *domain.Package) error {
	query, args, err := psqlbuilder.Select(
		"service_id",
		"quantity",
	).
		From("package_services").
		Where(squirrel.Eq{"package_id": pkg.ID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: loadServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadServices - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var service domain.PackageService
		if err := rows.Scan(&service.ServiceID, &service.Quantity); err != nil {
			return fmt.Errorf("%w: loadServices - scan row: %v", ErrScanRow, err)
		}
		pkg.Services = append(pkg.Services, service)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadServices - rows error: %v", ErrScanRow, err)
	}

	return nil
}
