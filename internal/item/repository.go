package item

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
	Create(ctx context.Context, i *Item) error
	GetByID(ctx context.Context, id int64) (*Item, error)
	Update(ctx context.Context, i *Item) error
	ListByOwner(ctx context.Context, ownerID int64, p page.Page) ([]*Item, error)
	Search(ctx context.Context, text string, p page.Page) ([]*Item, error)
	ListByIDs(ctx context.Context, ids []int64) ([]*Item, error)
	ListByRequestIDs(ctx context.Context, requestIDs []int64) ([]*Item, error)

	CreateComment(ctx context.Context, c *Comment) error
	ListCommentsByItems(ctx context.Context, itemIDs []int64) ([]Comment, error)

	// LastBookings and NextBookings return, per item, the latest approved
	// booking started before now and the earliest one starting after now.
	LastBookings(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]*BookingStamp, error)
	NextBookings(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]*BookingStamp, error)

	// HasFinishedBooking reports whether the user has an approved booking
	// of the item that already ended. Gates comment creation.
	HasFinishedBooking(ctx context.Context, itemID, userID int64, now time.Time) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func (r *pgxRepository) Create(ctx context.Context, i *Item) error {
	query, args, err := psql.Insert("public.items").
		Columns("name", "description", "is_available", "owner_id", "request_id").
		Values(i.Name, i.Description, i.Available, i.OwnerID, i.RequestID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create item query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).Scan(&i.ID)
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Item, error) {
	query, args, err := psql.Select("id", "name", "description", "is_available", "owner_id", "request_id").
		From("public.items").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get item query failed: %w", err)
	}

	var i Item
	if err := r.pool.QueryRow(ctx, query, args...).
		Scan(&i.ID, &i.Name, &i.Description, &i.Available, &i.OwnerID, &i.RequestID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get item failed: %w", err)
	}
	return &i, nil
}

func (r *pgxRepository) Update(ctx context.Context, i *Item) error {
	query, args, err := psql.Update("public.items").
		Set("name", i.Name).
		Set("description", i.Description).
		Set("is_available", i.Available).
		Where(squirrel.Eq{"id": i.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update item query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update item failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) ListByOwner(ctx context.Context, ownerID int64, p page.Page) ([]*Item, error) {
	query, args, err := psql.Select("id", "name", "description", "is_available", "owner_id", "request_id").
		From("public.items").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("id").
		Limit(uint64(p.Limit())).
		Offset(uint64(p.Offset())).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list items query failed: %w", err)
	}

	return r.queryItems(ctx, query, args...)
}

func (r *pgxRepository) Search(ctx context.Context, text string, p page.Page) ([]*Item, error) {
	pattern := "%" + text + "%"
	query, args, err := psql.Select("id", "name", "description", "is_available", "owner_id", "request_id").
		From("public.items").
		Where(squirrel.Eq{"is_available": true}).
		Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"description": pattern},
		}).
		OrderBy("id").
		Limit(uint64(p.Limit())).
		Offset(uint64(p.Offset())).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build search items query failed: %w", err)
	}

	return r.queryItems(ctx, query, args...)
}

func (r *pgxRepository) ListByIDs(ctx context.Context, ids []int64) ([]*Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	const query = `
		SELECT id, name, description, is_available, owner_id, request_id
		FROM public.items
		WHERE id = ANY($1)
	`
	return r.queryItems(ctx, query, ids)
}

func (r *pgxRepository) ListByRequestIDs(ctx context.Context, requestIDs []int64) ([]*Item, error) {
	if len(requestIDs) == 0 {
		return nil, nil
	}

	const query = `
		SELECT id, name, description, is_available, owner_id, request_id
		FROM public.items
		WHERE request_id = ANY($1)
	`
	return r.queryItems(ctx, query, requestIDs)
}

func (r *pgxRepository) queryItems(ctx context.Context, query string, args ...any) ([]*Item, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query items failed: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		var i Item
		if err := rows.Scan(&i.ID, &i.Name, &i.Description, &i.Available, &i.OwnerID, &i.RequestID); err != nil {
			return nil, fmt.Errorf("scan item failed: %w", err)
		}
		items = append(items, &i)
	}
	return items, rows.Err()
}

func (r *pgxRepository) CreateComment(ctx context.Context, c *Comment) error {
	const query = `
		INSERT INTO public.comments (text, item_id, author_id, created)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	return r.pool.QueryRow(ctx, query, c.Text, c.ItemID, c.AuthorID, c.Created).Scan(&c.ID)
}

func (r *pgxRepository) ListCommentsByItems(ctx context.Context, itemIDs []int64) ([]Comment, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	const query = `
		SELECT c.id, c.text, c.item_id, c.author_id, u.name, c.created
		FROM public.comments c
		JOIN public.users u ON c.author_id = u.id
		WHERE c.item_id = ANY($1)
		ORDER BY c.created DESC
	`

	rows, err := r.pool.Query(ctx, query, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("list comments failed: %w", err)
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.Text, &c.ItemID, &c.AuthorID, &c.AuthorName, &c.Created); err != nil {
			return nil, fmt.Errorf("scan comment failed: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *pgxRepository) LastBookings(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]*BookingStamp, error) {
	const query = `
		SELECT DISTINCT ON (item_id) item_id, id, booker_id, start_time, end_time
		FROM public.bookings
		WHERE item_id = ANY($1) AND status = 'APPROVED' AND start_time < $2
		ORDER BY item_id, start_time DESC
	`
	return r.queryStamps(ctx, query, itemIDs, now)
}

func (r *pgxRepository) NextBookings(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]*BookingStamp, error) {
	const query = `
		SELECT DISTINCT ON (item_id) item_id, id, booker_id, start_time, end_time
		FROM public.bookings
		WHERE item_id = ANY($1) AND status = 'APPROVED' AND start_time > $2
		ORDER BY item_id, start_time ASC
	`
	return r.queryStamps(ctx, query, itemIDs, now)
}

func (r *pgxRepository) queryStamps(ctx context.Context, query string, itemIDs []int64, now time.Time) (map[int64]*BookingStamp, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, query, itemIDs, now)
	if err != nil {
		return nil, fmt.Errorf("query booking stamps failed: %w", err)
	}
	defer rows.Close()

	stamps := make(map[int64]*BookingStamp)
	for rows.Next() {
		var itemID int64
		var s BookingStamp
		if err := rows.Scan(&itemID, &s.ID, &s.BookerID, &s.Start, &s.End); err != nil {
			return nil, fmt.Errorf("scan booking stamp failed: %w", err)
		}
		stamps[itemID] = &s
	}
	return stamps, rows.Err()
}

func (r *pgxRepository) HasFinishedBooking(ctx context.Context, itemID, userID int64, now time.Time) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1
			FROM public.bookings
			WHERE item_id = $1 AND booker_id = $2 AND status = 'APPROVED' AND end_time < $3
		)
	`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, itemID, userID, now).Scan(&exists); err != nil {
		return false, fmt.Errorf("check finished booking failed: %w", err)
	}
	return exists, nil
}
