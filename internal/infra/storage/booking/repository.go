package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/parkeasy/booking-service/internal/domain"
	"github.com/parkeasy/booking-service/pkg/dbmetrics"
	"github.com/parkeasy/booking-service/pkg/psqlbuilder"
)

// bookingColumns порядок колонок, используемый всеми SELECT этого репозитория
var bookingColumns = []string{
	"id",
	"user_id",
	"parking_lot_id",
	"parking_lot_name",
	"price_per_hour",
	"vehicle_type",
	"vehicle_number",
	"start_time",
	"end_time",
	"duration_hours",
	"total_price",
	"status",
	"payment_status",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Вызывается внутри транзакции создания брони (после Reserve на ledger),
// чтобы откат вернул занятое место.
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"user_id",
			"parking_lot_id",
			"parking_lot_name",
			"price_per_hour",
			"vehicle_type",
			"vehicle_number",
			"start_time",
			"end_time",
			"duration_hours",
			"total_price",
			"status",
			"payment_status",
		).
		Values(
			b.UserID,
			b.ParkingLotID,
			b.ParkingLotName,
			b.PricePerHour,
			b.VehicleType,
			b.VehicleNumber,
			b.StartTime,
			b.EndTime,
			b.DurationHours,
			b.TotalPrice,
			b.Status,
			b.PaymentStatus,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&b.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return b, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings, err := r.scanBookings(rows)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, ErrBookingNotFound
	}

	return bookings[0], nil
}

// GetByUserID получает историю бронирований пользователя, новые сверху.
// Опционально фильтрует по статусу.
func (r *Repository) GetByUserID(ctx context.Context, filter domain.UserBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": filter.UserID}).
		OrderBy("created_at DESC")

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetByLotID получает бронирования парковки, опционально по статусу
func (r *Repository) GetByLotID(ctx context.Context, filter domain.LotBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"parking_lot_id": filter.ParkingLotID}).
		OrderBy("created_at DESC")

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByLotID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByLotID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetByOwner получает бронирования по всем парковкам владельца
func (r *Repository) GetByOwner(ctx context.Context, ownerUserID int64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	columns := make([]string, len(bookingColumns))
	for i, c := range bookingColumns {
		columns[i] = "b." + c
	}

	query, args, err := psqlbuilder.Select(columns...).
		From("bookings b").
		Join("parking_lots l ON l.id = b.parking_lot_id").
		Where(squirrel.Eq{"l.owner_user_id": ownerUserID}).
		OrderBy("b.created_at DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByOwner - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByOwner - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// List возвращает страницу всех бронирований (админский листинг) и общее количество
func (r *Repository) List(ctx context.Context, filter domain.ListBookingsFilter) ([]*domain.Booking, int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	countQuery, countArgs, err := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - build count query: %v", ErrBuildQuery, err)
	}

	var total int64
	if err := executor.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%w: List - scan count: %v", ErrScanRow, err)
	}

	offset := uint64((filter.Page - 1) * filter.Limit)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		OrderBy("created_at DESC").
		Limit(uint64(filter.Limit)).
		Offset(offset).
		ToSql()

	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings, err := r.scanBookings(rows)
	if err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

// FindDueForExpiration находит активные бронирования с истекшим окном.
// Фильтр по статусу делает повторный проход reconciler'а no-op'ом.
func (r *Repository) FindDueForExpiration(ctx context.Context, now time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"status": domain.StatusActive}).
		Where(squirrel.LtOrEq{"end_time": now}).
		OrderBy("end_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindDueForExpiration - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindDueForExpiration - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// TransitionFromActive условно переводит бронирование из active в терминальный
// статус. Возвращает false, если бронирование уже не active (проигрыш гонки
// cancel/expire) - вызывающая сторона НЕ должна освобождать место повторно.
func (r *Repository) TransitionFromActive(ctx context.Context, id int64, target domain.BookingStatus) (bool, error) {
	if !domain.IsValidBookingStatus(target) || target == domain.StatusActive {
		return false, ErrInvalidStatus
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", target).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.StatusActive}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: TransitionFromActive - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: TransitionFromActive - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: TransitionFromActive - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected == 1, nil
}

// Cancel условно отменяет активное бронирование, фиксируя причину и время.
// Возвращает false при проигрыше гонки (бронирование уже финализировано).
func (r *Repository) Cancel(ctx context.Context, id int64, reason *string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.StatusActive}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected == 1, nil
}

// UpdatePaymentStatus записывает статус оплаты, полученный от платежного коллаборатора
func (r *Repository) UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("payment_status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdatePaymentStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdatePaymentStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdatePaymentStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// GetOwnerStats агрегирует статистику бронирований по парковкам владельца
func (r *Repository) GetOwnerStats(ctx context.Context, ownerUserID int64) (*domain.OwnerStats, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"COUNT(*)",
		fmt.Sprintf("COUNT(*) FILTER (WHERE b.status = '%s')", domain.StatusActive),
		fmt.Sprintf("COUNT(*) FILTER (WHERE b.status = '%s')", domain.StatusCompleted),
		fmt.Sprintf("COUNT(*) FILTER (WHERE b.status = '%s')", domain.StatusCancelled),
		fmt.Sprintf("COUNT(*) FILTER (WHERE b.status = '%s')", domain.StatusExpired),
		fmt.Sprintf("COALESCE(SUM(b.total_price) FILTER (WHERE b.payment_status = '%s'), 0)", domain.PaymentPaid),
	).
		From("bookings b").
		Join("parking_lots l ON l.id = b.parking_lot_id").
		Where(squirrel.Eq{"l.owner_user_id": ownerUserID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetOwnerStats - build select query: %v", ErrBuildQuery, err)
	}

	var stats domain.OwnerStats
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&stats.TotalBookings,
		&stats.ActiveBookings,
		&stats.CompletedBookings,
		&stats.CancelledBookings,
		&stats.ExpiredBookings,
		&stats.TotalRevenue,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: GetOwnerStats - scan stats: %v", ErrScanRow, err)
	}

	return &stats, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		var b domain.Booking
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&b.ID,
			&b.UserID,
			&b.ParkingLotID,
			&b.ParkingLotName,
			&b.PricePerHour,
			&b.VehicleType,
			&b.VehicleNumber,
			&b.StartTime,
			&b.EndTime,
			&b.DurationHours,
			&b.TotalPrice,
			&b.Status,
			&b.PaymentStatus,
			&b.CancellationReason,
			&b.CancelledAt,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}

		b.CreatedAt = createdAt.Time
		b.UpdatedAt = updatedAt.Time

		bookings = append(bookings, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
