package parkinglot

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/parkeasy/booking-service/internal/domain"
	"github.com/parkeasy/booking-service/pkg/dbmetrics"
	"github.com/parkeasy/booking-service/pkg/psqlbuilder"
)

// Repository репозиторий парковок. Инкапсулирует slot ledger:
// атомарные Reserve/Release через условные UPDATE на стороне БД,
// без read-modify-write в приложении.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория парковок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую парковку. Счетчик занятости начинается с carsParked
// (обычно 0; сиды могут задать walk-in занятость).
func (r *Repository) Create(ctx context.Context, lot *domain.ParkingLot) (*domain.ParkingLot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("parking_lots").
		Columns(
			"name",
			"address",
			"city",
			"total_slots",
			"cars_parked",
			"price_per_hour",
			"owner_user_id",
		).
		Values(
			lot.Name,
			lot.Address,
			lot.City,
			lot.TotalSlots,
			lot.CarsParked,
			lot.PricePerHour,
			lot.OwnerUserID,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&lot.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	lot.CreatedAt = createdAt.Time
	lot.UpdatedAt = updatedAt.Time

	return lot, nil
}

// GetByID получает парковку по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.ParkingLot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"address",
		"city",
		"total_slots",
		"cars_parked",
		"price_per_hour",
		"owner_user_id",
		"created_at",
		"updated_at",
	).
		From("parking_lots").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanLot(executor.QueryRowContext(ctx, query, args...), "GetByID")
}

// List возвращает все парковки (геопоиск вне зоны ответственности сервиса)
func (r *Repository) List(ctx context.Context) ([]*domain.ParkingLot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"address",
		"city",
		"total_slots",
		"cars_parked",
		"price_per_hour",
		"owner_user_id",
		"created_at",
		"updated_at",
	).
		From("parking_lots").
		OrderBy("name ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanLots(rows)
}

// GetByOwner возвращает парковки владельца
func (r *Repository) GetByOwner(ctx context.Context, ownerUserID int64) ([]*domain.ParkingLot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"address",
		"city",
		"total_slots",
		"cars_parked",
		"price_per_hour",
		"owner_user_id",
		"created_at",
		"updated_at",
	).
		From("parking_lots").
		Where(squirrel.Eq{"owner_user_id": ownerUserID}).
		OrderBy("name ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByOwner - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByOwner - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanLots(rows)
}

// Update обновляет редактируемые владельцем поля парковки.
// Уменьшение вместимости ниже текущей занятости запрещено условием в самом UPDATE.
func (r *Repository) Update(ctx context.Context, id int64, name string, totalSlots int, pricePerHour float64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("parking_lots").
		Set("name", name).
		Set("total_slots", totalSlots).
		Set("price_per_hour", pricePerHour).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.LtOrEq{"cars_parked": totalSlots}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		// Либо лот отсутствует, либо новая вместимость меньше занятости
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrCapacityBelowOccupied
	}

	return nil
}

// Reserve атомарно занимает одно место: инкремент cars_parked строго при
// наличии свободной емкости. Конкурирующие брони одного лота сериализуются
// на этом UPDATE. Ноль затронутых строк = мест нет.
func (r *Repository) Reserve(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("parking_lots").
		Set("cars_parked", squirrel.Expr("cars_parked + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Expr("cars_parked < total_slots")).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Reserve - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Reserve - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Reserve - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrNoSlotsAvailable
	}

	return nil
}

// Release атомарно освобождает одно место. Декремент не опускает счетчик
// ниже нуля; ноль затронутых строк сигнализируется ErrNothingToRelease,
// вызывающая сторона решает, считать ли это проблемой.
func (r *Repository) Release(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("parking_lots").
		Set("cars_parked", squirrel.Expr("cars_parked - 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Gt{"cars_parked": 0}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Release - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Release - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Release - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrNothingToRelease
	}

	return nil
}

// scanLot сканирует одну строку парковки
func (r *Repository) scanLot(row *sql.Row, method string) (*domain.ParkingLot, error) {
	var lot domain.ParkingLot
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&lot.ID,
		&lot.Name,
		&lot.Address,
		&lot.City,
		&lot.TotalSlots,
		&lot.CarsParked,
		&lot.PricePerHour,
		&lot.OwnerUserID,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrLotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan parking lot: %v", ErrScanRow, method, err)
	}

	lot.CreatedAt = createdAt.Time
	lot.UpdatedAt = updatedAt.Time

	return &lot, nil
}

// scanLots сканирует результаты запроса в слайс парковок
func (r *Repository) scanLots(rows *sql.Rows) ([]*domain.ParkingLot, error) {
	lots := make([]*domain.ParkingLot, 0)

	for rows.Next() {
		var lot domain.ParkingLot
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&lot.ID,
			&lot.Name,
			&lot.Address,
			&lot.City,
			&lot.TotalSlots,
			&lot.CarsParked,
			&lot.PricePerHour,
			&lot.OwnerUserID,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanLots - scan row: %v", ErrScanRow, err)
		}

		lot.CreatedAt = createdAt.Time
		lot.UpdatedAt = updatedAt.Time

		lots = append(lots, &lot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanLots - rows error: %v", ErrScanRow, err)
	}

	return lots, nil
}
