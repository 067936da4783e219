package appointment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с записями и визитами клиентов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает запись вместе с визитами клиентов.
// ID записи и визитов проставляются в переданную структуру.
func (r *Repository) Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"service_id",
			"provider_id",
			"location_id",
			"booking_start",
			"booking_end",
			"status",
		).
		Values(
			appointment.ServiceID,
			appointment.ProviderID,
			appointment.LocationID,
			appointment.BookingStart,
			appointment.BookingEnd,
			appointment.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appointment.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	appointment.CreatedAt = createdAt.Time
	appointment.UpdatedAt = updatedAt.Time

	for _, booking := range appointment.Bookings {
		if err := r.createBooking(ctx, executor, appointment.ID, booking); err != nil {
			return nil, err
		}
	}

	return appointment, nil
}

// createBooking создает один визит клиента внутри записи
func (r *Repository) createBooking(ctx context.Context, executor DBExecutor, appointmentID int64, booking *domain.CustomerBooking) error {
	query, args, err := psqlbuilder.Insert("customer_bookings").
		Columns(
			"appointment_id",
			"customer_id",
			"persons",
			"status",
			"package_customer_service_id",
			"coupon_id",
		).
		Values(
			appointmentID,
			booking.CustomerID,
			booking.Persons,
			booking.Status,
			booking.PackageCustomerServiceID,
			booking.CouponID,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: createBooking - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&booking.ID, &createdAt); err != nil {
		return fmt.Errorf("%w: createBooking - execute insert: %v", ErrExecQuery, err)
	}
	booking.CreatedAt = createdAt.Time

	return nil
}

// GetWithFilter получает записи по фильтру вместе с визитами клиентов.
// Внутри транзакции строки записей блокируются FOR UPDATE - оркестратор
// читает занятость перед бронированием.
func (r *Repository) GetWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"service_id",
		"provider_id",
		"location_id",
		"booking_start",
		"booking_end",
		"status",
		"created_at",
		"updated_at",
	).
		From("appointments").
		OrderBy("booking_start ASC, id ASC")

	if filter.ProviderID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"provider_id": *filter.ProviderID})
	}
	if filter.ServiceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": *filter.ServiceID})
	}
	if filter.LocationID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"location_id": *filter.LocationID})
	}
	if filter.CustomerID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Expr(
			"id IN (SELECT appointment_id FROM customer_bookings WHERE customer_id = ?)",
			*filter.CustomerID,
		))
	}
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_start": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_start": *filter.EndDate})
	}
	if filter.ExcludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *filter.ExcludeID})
	}

	if !filter.IncludeInactive {
		inactiveStatusStrings := make([]string, len(domain.InactiveAppointmentStatuses))
		for i, s := range domain.InactiveAppointmentStatuses {
			inactiveStatusStrings[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": inactiveStatusStrings})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	appointments, err := r.scanAppointments(rows)
	if err != nil {
		return nil, err
	}

	if err := r.loadBookings(ctx, executor, appointments); err != nil {
		return nil, err
	}

	return appointments, nil
}

// UpdateSlotReference переписывает ссылку визита на кредитный слот пакета.
// Узкое однострочное обновление - используется сверкой переисчерпанных слотов.
func (r *Repository) UpdateSlotReference(ctx context.Context, bookingID int64, slotID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("customer_bookings").
		Set("package_customer_service_id", slotID).
		Where(squirrel.Eq{"id": bookingID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateSlotReference - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateSlotReference - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateSlotReference - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// Delete удаляет запись вместе с визитами клиентов
// (компенсация отката оркестратора)
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	bookingQuery, bookingArgs, err := psqlbuilder.Delete("customer_bookings").
		Where(squirrel.Eq{"appointment_id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build booking delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, bookingQuery, bookingArgs...); err != nil {
		return fmt.Errorf("%w: Delete - execute booking delete: %v", ErrExecQuery, err)
	}

	query, args, err := psqlbuilder.Delete("appointments").
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
		return ErrAppointmentNotFound
	}

	return nil
}

// loadBookings догружает визиты клиентов одним запросом
func (r *Repository) loadBookings(ctx context.Context, executor DBExecutor, appointments []*domain.Appointment) error {
	if len(appointments) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.Appointment, len(appointments))
	ids := make([]int64, 0, len(appointments))
	for _, a := range appointments {
		byID[a.ID] = a
		ids = append(ids, a.ID)
	}

	query, args, err := psqlbuilder.Select(
		"id",
		"appointment_id",
		"customer_id",
		"persons",
		"status",
		"package_customer_service_id",
		"coupon_id",
		"created_at",
	).
		From("customer_bookings").
		Where(squirrel.Eq{"appointment_id": ids}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: loadBookings - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadBookings - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var booking domain.CustomerBooking
		var appointmentID int64
		var createdAt sql.NullTime

		err := rows.Scan(
			&booking.ID,
			&appointmentID,
			&booking.CustomerID,
			&booking.Persons,
			&booking.Status,
			&booking.PackageCustomerServiceID,
			&booking.CouponID,
			&createdAt,
		)
		if err != nil {
			return fmt.Errorf("%w: loadBookings - scan row: %v", ErrScanRow, err)
		}
		booking.CreatedAt = createdAt.Time

		if a, ok := byID[appointmentID]; ok {
			a.Bookings = append(a.Bookings, &booking)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadBookings - rows error: %v", ErrScanRow, err)
	}

	return nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func (r *Repository) scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		var appointment domain.Appointment
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&appointment.ID,
			&appointment.ServiceID,
			&appointment.ProviderID,
			&appointment.LocationID,
			&appointment.BookingStart,
			&appointment.BookingEnd,
			&appointment.Status,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}

		appointment.CreatedAt = createdAt.Time
		appointment.UpdatedAt = updatedAt.Time

		appointments = append(appointments, &appointment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}
