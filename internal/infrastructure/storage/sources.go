package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"NewsScanner/internal/domain"
	"NewsScanner/internal/ports"
)

var sourceColumns = []string{
	"url", "name", "description", "date_added", "last_modified", "last_refreshed",
}

// SourceRepository persists the list of monitored feeds.
type SourceRepository struct {
	db *sql.DB
}

var _ ports.SourceRepository = (*SourceRepository)(nil)

func NewSourceRepository(db *sql.DB) *SourceRepository {
	return &SourceRepository{db: db}
}

// UpsertSource inserts the source or updates its name and description. The
// original date_added survives updates. The stored row is returned.
func (r *SourceRepository) UpsertSource(ctx context.Context, s domain.Source) (domain.Source, error) {
	now := time.Now().UTC()
	dateAdded := s.DateAdded
	if dateAdded.IsZero() {
		dateAdded = now
	}

	sqlStr, args, err := psql.Insert("sources").
		Columns(sourceColumns...).
		Values(s.URL, s.Name, s.Description, dateAdded, now, nullTime(s.LastRefreshed)).
		Suffix(`ON CONFLICT (url) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			last_modified = EXCLUDED.last_modified
		RETURNING ` + strings.Join(sourceColumns, ", ")).
		ToSql()
	if err != nil {
		return domain.Source{}, fmt.Errorf("build upsert source: %w", err)
	}

	stored, err := scanSource(r.db.QueryRowContext(ctx, sqlStr, args...))
	if err != nil {
		return domain.Source{}, storageErr(fmt.Sprintf("upsert source %s", s.URL), err)
	}
	return *stored, nil
}

// GetByURL returns the source for url, or nil when it is not tracked.
func (r *SourceRepository) GetByURL(ctx context.Context, url string) (*domain.Source, error) {
	sqlStr, args, err := psql.Select(sourceColumns...).
		From("sources").
		Where(sq.Eq{"url": url}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get source: %w", err)
	}

	source, err := scanSource(r.db.QueryRowContext(ctx, sqlStr, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr(fmt.Sprintf("get source %s", url), err)
	}
	return source, nil
}

// ListAll returns every tracked source, oldest first.
func (r *SourceRepository) ListAll(ctx context.Context) ([]domain.Source, error) {
	sqlStr, args, err := psql.Select(sourceColumns...).
		From("sources").
		OrderBy("date_added ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list sources: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, storageErr("list sources", err)
	}
	defer rows.Close()

	var sources []domain.Source
	for rows.Next() {
		var (
			s         domain.Source
			refreshed sql.NullTime
		)
		if err := rows.Scan(&s.URL, &s.Name, &s.Description, &s.DateAdded, &s.LastModified, &refreshed); err != nil {
			return nil, storageErr("scan source row", err)
		}
		if refreshed.Valid {
			s.LastRefreshed = refreshed.Time
		}
		sources = append(sources, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate sources", err)
	}
	return sources, nil
}

// TouchRefreshed records the moment a scan of the source completed.
func (r *SourceRepository) TouchRefreshed(ctx context.Context, url string, at time.Time) error {
	sqlStr, args, err := psql.Update("sources").
		Set("last_refreshed", at.UTC()).
		Where(sq.Eq{"url": url}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build touch source: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return storageErr(fmt.Sprintf("touch source %s", url), err)
	}
	return nil
}

// Delete removes the source row. Stored articles from the source stay.
func (r *SourceRepository) Delete(ctx context.Context, url string) error {
	sqlStr, args, err := psql.Delete("sources").
		Where(sq.Eq{"url": url}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete source: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return storageErr(fmt.Sprintf("delete source %s", url), err)
	}
	return nil
}

func scanSource(row *sql.Row) (*domain.Source, error) {
	var (
		s         domain.Source
		refreshed sql.NullTime
	)
	if err := row.Scan(&s.URL, &s.Name, &s.Description, &s.DateAdded, &s.LastModified, &refreshed); err != nil {
		return nil, err
	}
	if refreshed.Valid {
		s.LastRefreshed = refreshed.Time
	}
	return &s, nil
}
