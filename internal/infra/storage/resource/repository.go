package resource

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с ресурсами и их привязками
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория ресурсов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetAll получает все активные ресурсы вместе с привязками.
// Привязки возвращаются в порядке вставки - порядок значим для
// детерминизма разворачивания shared-ресурсов.
func (r *Repository) GetAll(ctx context.Context) ([]*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"quantity",
		"count_additional_people",
		"scope",
	).
		From("resources").
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAll - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAll - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	resources, err := r.scanResources(rows)
	if err != nil {
		return nil, err
	}

	if err := r.loadBindings(ctx, executor, resources); err != nil {
		return nil, err
	}

	return resources, nil
}

// GetLocationIDs получает ID всех локаций бизнеса
func (r *Repository) GetLocationIDs(ctx context.Context) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id").
		From("locations").
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetLocationIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetLocationIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: GetLocationIDs - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetLocationIDs - rows error: %v", ErrScanRow, err)
	}

	return ids, nil
}

// loadBindings догружает привязки ресурсов одним запросом
func (r *Repository) loadBindings(ctx context.Context, executor DBExecutor, resources []*domain.Resource) error {
	if len(resources) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.Resource, len(resources))
	ids := make([]int64, 0, len(resources))
	for _, res := range resources {
		byID[res.ID] = res
		ids = append(ids, res.ID)
	}

	query, args, err := psqlbuilder.Select(
		"resource_id",
		"entity_type",
		"entity_id",
	).
		From("resource_bindings").
		Where(squirrel.Eq{"resource_id": ids}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: loadBindings - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadBindings - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var resourceID int64
		var binding domain.ResourceBinding

		if err := rows.Scan(&resourceID, &binding.EntityType, &binding.EntityID); err != nil {
			return fmt.Errorf("%w: loadBindings - scan row: %v", ErrScanRow, err)
		}

		if res, ok := byID[resourceID]; ok {
			res.Bindings = append(res.Bindings, binding)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadBindings - rows error: %v", ErrScanRow, err)
	}

	return nil
}

// scanResources сканирует результаты запроса в слайс ресурсов
func (r *Repository) scanResources(rows *sql.Rows) ([]*domain.Resource, error) {
	resources := make([]*domain.Resource, 0)

	for rows.Next() {
		var resource domain.Resource

		err := rows.Scan(
			&resource.ID,
			&resource.Name,
			&resource.Quantity,
			&resource.CountAdditionalPeople,
			&resource.Scope,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanResources - scan row: %v", ErrScanRow, err)
		}

		resources = append(resources, &resource)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanResources - rows error: %v", ErrScanRow, err)
	}

	return resources, nil
}
