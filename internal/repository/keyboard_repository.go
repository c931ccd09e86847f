package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"splitkb-catalog/internal/domain"
)

var (
	ErrKeyboardNotFound = errors.New("keyboard not found")
)

// KeyboardFilter holds the optional criteria for listing keyboards.
// Pointer fields distinguish "not set" from zero values; a nil pointer
// means the axis is not filtered at all.
type KeyboardFilter struct {
	MinPrice         *int64
	MaxPrice         *int64
	IncludeNullPrice bool // include boards without a price alongside a price bound
	OnlyNullPrice    bool // DIY only; when set, price bounds are ignored
	KeyRanges        []string
	KeyboardType     *domain.KeyboardType
	IsWireless       *bool
	HasCursorControl *bool
	Search           string
}

// KeyboardRepository defines the interface for keyboard data access.
type KeyboardRepository interface {
	Create(ctx context.Context, kb *domain.Keyboard) error
	Update(ctx context.Context, kb *domain.Keyboard) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Keyboard, error)
	FindByIDs(ctx context.Context, ids []int64) ([]*domain.Keyboard, error)
	List(ctx context.Context, filter KeyboardFilter, sortBy domain.SortOption, page, limit int) ([]*domain.Keyboard, int, error)
}

type keyboardRepository struct {
	db *sql.DB
}

// NewKeyboardRepository creates a new instance of KeyboardRepository.
func NewKeyboardRepository(db *sql.DB) KeyboardRepository {
	return &keyboardRepository{db: db}
}

const keyboardColumns = "id, name, price, link, image_path, key_count_range, keyboard_type, is_wireless, has_cursor_control, created_at, updated_at"

func scanKeyboard(row interface{ Scan(...any) error }) (*domain.Keyboard, error) {
	kb := &domain.Keyboard{}
	err := row.Scan(
		&kb.ID,
		&kb.Name,
		&kb.Price,
		&kb.Link,
		&kb.ImagePath,
		&kb.KeyCountRange,
		&kb.KeyboardType,
		&kb.Tags.IsWireless,
		&kb.Tags.HasCursorControl,
		&kb.CreatedAt,
		&kb.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return kb, nil
}

// Create inserts a new keyboard; the database assigns id and timestamps.
func (r *keyboardRepository) Create(ctx context.Context, kb *domain.Keyboard) error {
	query := `
		INSERT INTO keyboards (name, price, link, image_path, key_count_range, keyboard_type, is_wireless, has_cursor_control)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		kb.Name,
		kb.Price,
		kb.Link,
		kb.ImagePath,
		kb.KeyCountRange,
		kb.KeyboardType,
		kb.Tags.IsWireless,
		kb.Tags.HasCursorControl,
	).Scan(&kb.ID, &kb.CreatedAt, &kb.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create keyboard: %w", err)
	}

	return nil
}

// Update overwrites an existing keyboard; updated_at is server-assigned.
func (r *keyboardRepository) Update(ctx context.Context, kb *domain.Keyboard) error {
	query := `
		UPDATE keyboards
		SET name = $2, price = $3, link = $4, image_path = $5,
		    key_count_range = $6, keyboard_type = $7, is_wireless = $8,
		    has_cursor_control = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		kb.ID,
		kb.Name,
		kb.Price,
		kb.Link,
		kb.ImagePath,
		kb.KeyCountRange,
		kb.KeyboardType,
		kb.Tags.IsWireless,
		kb.Tags.HasCursorControl,
	).Scan(&kb.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return ErrKeyboardNotFound
		}
		return fmt.Errorf("failed to update keyboard: %w", err)
	}

	return nil
}

// Delete removes a keyboard from the database.
func (r *keyboardRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM keyboards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete keyboard: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrKeyboardNotFound
	}

	return nil
}

// FindByID retrieves a keyboard by ID.
func (r *keyboardRepository) FindByID(ctx context.Context, id int64) (*domain.Keyboard, error) {
	query := fmt.Sprintf(`SELECT %s FROM keyboards WHERE id = $1`, keyboardColumns)

	kb, err := scanKeyboard(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrKeyboardNotFound
		}
		return nil, fmt.Errorf("failed to find keyboard by ID: %w", err)
	}

	return kb, nil
}

// FindByIDs retrieves the keyboards matching the given IDs. Missing IDs
// are silently absent from the result; the caller decides whether that
// is an error.
func (r *keyboardRepository) FindByIDs(ctx context.Context, ids []int64) ([]*domain.Keyboard, error) {
	if len(ids) == 0 {
		return []*domain.Keyboard{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf(
		`SELECT %s FROM keyboards WHERE id IN (%s)`,
		keyboardColumns, strings.Join(placeholders, ", "),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find keyboards by IDs: %w", err)
	}
	defer rows.Close()

	keyboards := []*domain.Keyboard{}
	for rows.Next() {
		kb, err := scanKeyboard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan keyboard: %w", err)
		}
		keyboards = append(keyboards, kb)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating keyboards: %w", err)
	}

	return keyboards, nil
}

// buildWhere translates a KeyboardFilter into a WHERE clause and its
// arguments. Bucket tokens are matched by exact string equality only,
// never as patterns, so tokens containing '*' are safe.
func buildWhere(filter KeyboardFilter) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}
	argIndex := 1

	next := func() int {
		n := argIndex
		argIndex++
		return n
	}

	// Price axis. DIY-only wins over any price bound.
	switch {
	case filter.OnlyNullPrice:
		conditions = append(conditions, "price IS NULL")
	case filter.MinPrice != nil || filter.MaxPrice != nil:
		bounds := []string{}
		if filter.MinPrice != nil {
			bounds = append(bounds, fmt.Sprintf("price >= $%d", next()))
			args = append(args, *filter.MinPrice)
		}
		if filter.MaxPrice != nil {
			bounds = append(bounds, fmt.Sprintf("price <= $%d", next()))
			args = append(args, *filter.MaxPrice)
		}
		priceCond := "(" + strings.Join(bounds, " AND ") + ")"
		if filter.IncludeNullPrice {
			priceCond = "(" + priceCond + " OR price IS NULL)"
		}
		conditions = append(conditions, priceCond)
	case !filter.IncludeNullPrice:
		conditions = append(conditions, "price IS NOT NULL")
	}

	if len(filter.KeyRanges) > 0 {
		placeholders := make([]string, len(filter.KeyRanges))
		for i, token := range filter.KeyRanges {
			placeholders[i] = fmt.Sprintf("$%d", next())
			args = append(args, token)
		}
		conditions = append(conditions, fmt.Sprintf("key_count_range IN (%s)", strings.Join(placeholders, ", ")))
	}

	if filter.KeyboardType != nil {
		conditions = append(conditions, fmt.Sprintf("keyboard_type = $%d", next()))
		args = append(args, *filter.KeyboardType)
	}

	if filter.IsWireless != nil {
		conditions = append(conditions, fmt.Sprintf("is_wireless = $%d", next()))
		args = append(args, *filter.IsWireless)
	}

	if filter.HasCursorControl != nil {
		conditions = append(conditions, fmt.Sprintf("has_cursor_control = $%d", next()))
		args = append(args, *filter.HasCursorControl)
	}

	if s := strings.TrimSpace(filter.Search); s != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", next()))
		args = append(args, "%"+s+"%")
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

func orderBy(sortBy domain.SortOption) string {
	switch sortBy {
	case domain.SortNameDesc:
		return "LOWER(name) DESC"
	case domain.SortPriceAsc:
		return "price ASC NULLS LAST"
	case domain.SortPriceDesc:
		return "price DESC NULLS LAST"
	default:
		return "LOWER(name) ASC"
	}
}

// List retrieves keyboards matching the filter with sorting and
// pagination, returning the page and the total match count.
func (r *keyboardRepository) List(ctx context.Context, filter KeyboardFilter, sortBy domain.SortOption, page, limit int) ([]*domain.Keyboard, int, error) {
	whereClause, args := buildWhere(filter)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM keyboards %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count keyboards: %w", err)
	}

	offset := (page - 1) * limit

	query := fmt.Sprintf(`
		SELECT %s
		FROM keyboards
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, keyboardColumns, whereClause, orderBy(sortBy), len(args)+1, len(args)+2)

	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list keyboards: %w", err)
	}
	defer rows.Close()

	keyboards := []*domain.Keyboard{}
	for rows.Next() {
		kb, err := scanKeyboard(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan keyboard: %w", err)
		}
		keyboards = append(keyboards, kb)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating keyboards: %w", err)
	}

	return keyboards, total, nil
}
