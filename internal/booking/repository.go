package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/item-sharing-backend/internal/pkg/page"
)

type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id int64) (*Booking, error)

	// UpdateStatus performs the conditional transition from -> to in a
	// single statement and reports whether a row was changed. A false
	// result for an existing booking means the gate was already taken.
	UpdateStatus(ctx context.Context, id int64, from, to Status) (bool, error)

	// ListByBooker and ListByOwner return bookings in the state bucket,
	// ordered by start_time descending, on store-native page boundaries.
	ListByBooker(ctx context.Context, bookerID int64, state StateFilter, now time.Time, p page.Page) ([]*Booking, error)
	ListByOwner(ctx context.Context, ownerID int64, state StateFilter, now time.Time, p page.Page) ([]*Booking, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	query, args, err := psql.Insert("public.bookings").
		Columns("start_time", "end_time", "item_id", "booker_id", "status").
		Values(b.Start, b.End, b.ItemID, b.BookerID, b.Status).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).Scan(&b.ID)
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	query, args, err := psql.Select("id", "start_time", "end_time", "item_id", "booker_id", "status").
		From("public.bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	var b Booking
	if err := r.pool.QueryRow(ctx, query, args...).
		Scan(&b.ID, &b.Start, &b.End, &b.ItemID, &b.BookerID, &b.Status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return &b, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id int64, from, to Status) (bool, error) {
	query, args, err := psql.Update("public.bookings").
		Set("status", to).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build update booking status query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update booking status failed: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *pgxRepository) ListByBooker(ctx context.Context, bookerID int64, state StateFilter, now time.Time, p page.Page) ([]*Booking, error) {
	query := psql.Select("b.id", "b.start_time", "b.end_time", "b.item_id", "b.booker_id", "b.status").
		From("public.bookings b").
		Where(squirrel.Eq{"b.booker_id": bookerID})

	return r.listFiltered(ctx, query, state, now, p)
}

func (r *pgxRepository) ListByOwner(ctx context.Context, ownerID int64, state StateFilter, now time.Time, p page.Page) ([]*Booking, error) {
	query := psql.Select("b.id", "b.start_time", "b.end_time", "b.item_id", "b.booker_id", "b.status").
		From("public.bookings b").
		Join("public.items i ON b.item_id = i.id").
		Where(squirrel.Eq{"i.owner_id": ownerID})

	return r.listFiltered(ctx, query, state, now, p)
}

// listFiltered pushes the state bucket down into the query so listing
// stays paginable, then applies ordering and page-bucket pagination.
func (r *pgxRepository) listFiltered(ctx context.Context, query squirrel.SelectBuilder, state StateFilter, now time.Time, p page.Page) ([]*Booking, error) {
	switch state {
	case FilterAll:
		// no temporal constraint
	case FilterCurrent:
		query = query.Where(squirrel.LtOrEq{"b.start_time": now}).
			Where(squirrel.Gt{"b.end_time": now})
	case FilterPast:
		query = query.Where(squirrel.Lt{"b.end_time": now})
	case FilterFuture:
		query = query.Where(squirrel.Gt{"b.start_time": now})
	case FilterWaiting:
		query = query.Where(squirrel.Eq{"b.status": StatusWaiting})
	case FilterRejected:
		query = query.Where(squirrel.Eq{"b.status": StatusRejected})
	default:
		return nil, ErrUnknownState
	}

	query = query.
		OrderBy("b.start_time DESC").
		Limit(uint64(p.Limit())).
		Offset(uint64(p.Offset()))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(&b.ID, &b.Start, &b.End, &b.ItemID, &b.BookerID, &b.Status); err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}
	return bookings, rows.Err()
}
