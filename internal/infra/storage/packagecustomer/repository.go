package packagecustomer

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с покупками пакетов и их кредитными слотами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория покупок пакетов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает покупку пакета вместе с её кредитными слотами.
// ID покупки и слотов проставляются в переданную структуру.
// Предполагается вызов внутри транзакции: частично созданная покупка
// без слотов бесполезна.
func (r *Repository) Create(ctx context.Context, pc *domain.PackageCustomer) (*domain.PackageCustomer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var taxJSON interface{}
	if pc.Tax != nil {
		raw, err := json.Marshal(pc.Tax)
		if err != nil {
			return nil, fmt.Errorf("%w: Create - marshal tax: %v", ErrBuildQuery, err)
		}
		taxJSON = raw
	}

	query, args, err := psqlbuilder.Insert("package_customers").
		Columns(
			"package_id",
			"customer_id",
			"price",
			"tax",
			"start_date",
			"end_date",
			"purchased",
			"bookings_count",
			"status",
			"coupon_id",
		).
		Values(
			pc.PackageID,
			pc.CustomerID,
			pc.Price,
			taxJSON,
			pc.Start,
			pc.End,
			pc.Purchased,
			pc.BookingsCount,
			pc.Status,
			pc.CouponID,
		).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&pc.ID); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	for _, slot := range pc.Services {
		slot.PackageCustomerID = pc.ID
		if err := r.createSlot(ctx, executor, slot); err != nil {
			return nil, err
		}
	}

	return pc, nil
}

// createSlot создает один кредитный слот покупки
func (r *Repository) createSlot(ctx context.Context, executor DBExecutor, slot *domain.PackageCustomerService) error {
	query, args, err := psqlbuilder.Insert("package_customer_services").
		Columns(
			"package_customer_id",
			"service_id",
			"provider_id",
			"location_id",
			"bookings_count",
		).
		Values(
			slot.PackageCustomerID,
			slot.ServiceID,
			slot.ProviderID,
			slot.LocationID,
			slot.BookingsCount,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: createSlot - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&slot.ID, &createdAt); err != nil {
		return fmt.Errorf("%w: createSlot - execute insert: %v", ErrExecQuery, err)
	}
	slot.CreatedAt = createdAt.Time

	return nil
}

// GetByID получает покупку пакета по ID вместе с кредитными слотами
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.PackageCustomer, error) {
	purchases, err := r.get(ctx, squirrel.Eq{"id": id}, false)
	if err != nil {
		return nil, err
	}
	if len(purchases) == 0 {
		return nil, ErrPackageCustomerNotFound
	}
	return purchases[0], nil
}

// GetByCustomerID получает покупки клиента вместе с кредитными слотами.
// Внутри транзакции строки покупок блокируются FOR UPDATE - используется
// оркестратором для проверки лимита покупок без гонки.
func (r *Repository) GetByCustomerID(ctx context.Context, customerID int64) ([]*domain.PackageCustomer, error) {
	return r.get(ctx, squirrel.Eq{"customer_id": customerID}, dbmetrics.IsInTransaction(ctx))
}

// GetByServiceID получает покупки, среди слотов которых есть указанная услуга
func (r *Repository) GetByServiceID(ctx context.Context, serviceID int64) ([]*domain.PackageCustomer, error) {
	return r.get(ctx, squirrel.Expr(
		"id IN (SELECT package_customer_id FROM package_customer_services WHERE service_id = ?)",
		serviceID,
	), false)
}

// CountByCustomerAndPackage считает не-отменённые покупки пакета клиентом
// (для лимита частоты покупок)
func (r *Repository) CountByCustomerAndPackage(ctx context.Context, customerID, packageID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("package_customers").
		Where(squirrel.Eq{"customer_id": customerID, "package_id": packageID}).
		Where(squirrel.NotEq{"status": domain.PackageCustomerStatusCanceled}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountByCustomerAndPackage - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountByCustomerAndPackage - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// UpdateStatus обновляет статус покупки пакета
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.PackageCustomerStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("package_customers").
		Set("status", status).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrPackageCustomerNotFound
	}

	return nil
}

// Delete удаляет покупку пакета вместе с кредитными слотами
// (компенсация отката оркестратора)
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	slotQuery, slotArgs, err := psqlbuilder.Delete("package_customer_services").
		Where(squirrel.Eq{"package_customer_id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build slot delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, slotQuery, slotArgs...); err != nil {
		return fmt.Errorf("%w: Delete - execute slot delete: %v", ErrExecQuery, err)
	}

	query, args, err := psqlbuilder.Delete("package_customers").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrPackageCustomerNotFound
	}

	return nil
}

// get выбирает покупки по условию и догружает их кредитные слоты
func (r *Repository) get(ctx context.Context, where interface{}, forUpdate bool) ([]*domain.PackageCustomer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"package_id",
		"customer_id",
		"price",
		"tax",
		"start_date",
		"end_date",
		"purchased",
		"bookings_count",
		"status",
		"coupon_id",
	).
		From("package_customers").
		Where(where).
		OrderBy("purchased ASC, id ASC")

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: get - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: get - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	purchases, err := r.scanPackageCustomers(rows)
	if err != nil {
		return nil, err
	}

	if err := r.loadSlots(ctx, executor, purchases); err != nil {
		return nil, err
	}

	return purchases, nil
}

// loadSlots догружает кредитные слоты покупок одним запросом,
// сохраняя порядок вставки слотов
func (r *Repository) loadSlots(ctx context.Context, executor DBExecutor, purchases []*domain.PackageCustomer) error {
	if len(purchases) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.PackageCustomer, len(purchases))
	ids := make([]int64, 0, len(purchases))
	for _, pc := range purchases {
		byID[pc.ID] = pc
		ids = append(ids, pc.ID)
	}

	query, args, err := psqlbuilder.Select(
		"id",
		"package_customer_id",
		"service_id",
		"provider_id",
		"location_id",
		"bookings_count",
		"created_at",
	).
		From("package_customer_services").
		Where(squirrel.Eq{"package_customer_id": ids}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: loadSlots - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadSlots - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var slot domain.PackageCustomerService
		var createdAt sql.NullTime

		err := rows.Scan(
			&slot.ID,
			&slot.PackageCustomerID,
			&slot.ServiceID,
			&slot.ProviderID,
			&slot.LocationID,
			&slot.BookingsCount,
			&createdAt,
		)
		if err != nil {
			return fmt.Errorf("%w: loadSlots - scan row: %v", ErrScanRow, err)
		}
		slot.CreatedAt = createdAt.Time

		if pc, ok := byID[slot.PackageCustomerID]; ok {
			pc.Services = append(pc.Services, &slot)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadSlots - rows error: %v", ErrScanRow, err)
	}

	return nil
}

// scanPackageCustomers сканирует результаты запроса в слайс покупок
func (r *Repository) scanPackageCustomers(rows *sql.Rows) ([]*domain.PackageCustomer, error) {
	purchases := make([]*domain.PackageCustomer, 0)

	for rows.Next() {
		var pc domain.PackageCustomer
		var taxRaw []byte
		var end sql.NullTime

		err := rows.Scan(
			&pc.ID,
			&pc.PackageID,
			&pc.CustomerID,
			&pc.Price,
			&taxRaw,
			&pc.Start,
			&end,
			&pc.Purchased,
			&pc.BookingsCount,
			&pc.Status,
			&pc.CouponID,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanPackageCustomers - scan row: %v", ErrScanRow, err)
		}

		if end.Valid {
			pc.End = &end.Time
		}
		if len(taxRaw) > 0 {
			var tax domain.Tax
			if err := json.Unmarshal(taxRaw, &tax); err != nil {
				return nil, fmt.Errorf("%w: scanPackageCustomers - unmarshal tax: %v", ErrScanRow, err)
			}
			pc.Tax = &tax
		}

		purchases = append(purchases, &pc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanPackageCustomers - rows error: %v", ErrScanRow, err)
	}

	return purchases, nil
}
