package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"NewsScanner/internal/domain"
	"NewsScanner/internal/ports"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var articleColumns = []string{
	"url", "title", "origin", "publication_date", "host",
	"raw_content", "cleaned_text",
	"words", "sentences", "paragraphs", "characters", "syllables",
	"word_syllables", "complex_words",
	"flesch", "flesch_kincaid", "smog", "dale_chall", "dale_chall_grade",
	"coleman_liau", "gunning_fog", "spache", "automated_readability",
	"analyzed_at",
}

// ArticleRepository persists analyzed articles into Postgres, one row per
// unique URL.
type ArticleRepository struct {
	db *sql.DB
}

var _ ports.ArticleRepository = (*ArticleRepository)(nil)

// NewArticleRepository wires an injected connection handle.
func NewArticleRepository(db *sql.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// UpsertArticle inserts or fully replaces the row for the article's URL.
// Every column is rewritten on conflict so a re-scan leaves no stale fields.
func (r *ArticleRepository) UpsertArticle(ctx context.Context, a domain.Article) error {
	query := psql.Insert("articles").
		Columns(articleColumns...).
		Values(
			a.URL, a.Title, nullStr(a.Origin), nullTime(a.PublicationDate), a.Host,
			a.RawContent, a.CleanedText,
			a.Stats.Words, a.Stats.Sentences, a.Stats.Paragraphs, a.Stats.Characters, a.Stats.Syllables,
			a.Stats.AvgWordSyllables, a.Stats.ComplexWords,
			a.Scores.Flesch, a.Scores.FleschKincaid, a.Scores.Smog, a.Scores.DaleChall, a.Scores.DaleChallGrade,
			a.Scores.ColemanLiau, a.Scores.GunningFog, a.Scores.Spache, a.Scores.AutomatedReadability,
			a.AnalyzedAt,
		).
		Suffix(`ON CONFLICT (url) DO UPDATE SET
			title = EXCLUDED.title,
			origin = EXCLUDED.origin,
			publication_date = EXCLUDED.publication_date,
			host = EXCLUDED.host,
			raw_content = EXCLUDED.raw_content,
			cleaned_text = EXCLUDED.cleaned_text,
			words = EXCLUDED.words,
			sentences = EXCLUDED.sentences,
			paragraphs = EXCLUDED.paragraphs,
			characters = EXCLUDED.characters,
			syllables = EXCLUDED.syllables,
			word_syllables = EXCLUDED.word_syllables,
			complex_words = EXCLUDED.complex_words,
			flesch = EXCLUDED.flesch,
			flesch_kincaid = EXCLUDED.flesch_kincaid,
			smog = EXCLUDED.smog,
			dale_chall = EXCLUDED.dale_chall,
			dale_chall_grade = EXCLUDED.dale_chall_grade,
			coleman_liau = EXCLUDED.coleman_liau,
			gunning_fog = EXCLUDED.gunning_fog,
			spache = EXCLUDED.spache,
			automated_readability = EXCLUDED.automated_readability,
			analyzed_at = EXCLUDED.analyzed_at`)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert article: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return storageErr(fmt.Sprintf("upsert article %s", a.URL), err)
	}
	return nil
}

// CountBySource counts stored articles that originate from one feed.
func (r *ArticleRepository) CountBySource(ctx context.Context, sourceURL string) (int, error) {
	sqlStr, args, err := psql.Select("COUNT(*)").
		From("articles").
		Where(sq.Eq{"origin": sourceURL}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		return 0, storageErr(fmt.Sprintf("count articles for %s", sourceURL), err)
	}
	return count, nil
}

// LatestBySource returns the newest article of a feed by publication date,
// or nil when the feed has no stored articles.
func (r *ArticleRepository) LatestBySource(ctx context.Context, sourceURL string) (*domain.Article, error) {
	sqlStr, args, err := psql.Select(articleColumns...).
		From("articles").
		Where(sq.Eq{"origin": sourceURL}).
		OrderBy("publication_date DESC NULLS LAST").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build latest query: %w", err)
	}

	article, err := scanArticle(r.db.QueryRowContext(ctx, sqlStr, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr(fmt.Sprintf("latest article for %s", sourceURL), err)
	}
	return article, nil
}

// AggregateByHost averages stats and scores per hostname across feed-sourced
// articles, skipping hosts below the minimum article count.
func (r *ArticleRepository) AggregateByHost(ctx context.Context, minArticles int) ([]domain.HostReadability, error) {
	if minArticles < 1 {
		minArticles = 1
	}

	sqlStr, args, err := psql.Select(
		"host",
		"MIN(origin) AS origin",
		"COUNT(*) AS articles",
		"AVG(words)", "AVG(sentences)", "AVG(word_syllables)",
		"AVG(flesch)", "AVG(flesch_kincaid)", "AVG(smog)", "AVG(dale_chall)",
		"AVG(coleman_liau)", "AVG(gunning_fog)", "AVG(spache)", "AVG(automated_readability)",
	).
		From("articles").
		Where(sq.NotEq{"origin": nil}).
		Where(sq.NotEq{"host": ""}).
		GroupBy("host").
		Having(sq.GtOrEq{"COUNT(*)": minArticles}).
		OrderBy("AVG(flesch) DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build aggregate query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, storageErr("aggregate readability by host", err)
	}
	defer rows.Close()

	var results []domain.HostReadability
	for rows.Next() {
		var h domain.HostReadability
		if err := rows.Scan(
			&h.Host, &h.Origin, &h.Articles,
			&h.AvgWords, &h.AvgSentences, &h.AvgWordSyllables,
			&h.AvgFlesch, &h.AvgFleschKincaid, &h.AvgSmog, &h.AvgDaleChall,
			&h.AvgColemanLiau, &h.AvgGunningFog, &h.AvgSpache, &h.AvgAutomatedReadability,
		); err != nil {
			return nil, storageErr("scan host aggregate", err)
		}
		results = append(results, h)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate host aggregates", err)
	}
	return results, nil
}

func scanArticle(row *sql.Row) (*domain.Article, error) {
	var (
		a       domain.Article
		origin  sql.NullString
		pubDate sql.NullTime
	)
	err := row.Scan(
		&a.URL, &a.Title, &origin, &pubDate, &a.Host,
		&a.RawContent, &a.CleanedText,
		&a.Stats.Words, &a.Stats.Sentences, &a.Stats.Paragraphs, &a.Stats.Characters, &a.Stats.Syllables,
		&a.Stats.AvgWordSyllables, &a.Stats.ComplexWords,
		&a.Scores.Flesch, &a.Scores.FleschKincaid, &a.Scores.Smog, &a.Scores.DaleChall, &a.Scores.DaleChallGrade,
		&a.Scores.ColemanLiau, &a.Scores.GunningFog, &a.Scores.Spache, &a.Scores.AutomatedReadability,
		&a.AnalyzedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Origin = origin.String
	if pubDate.Valid {
		a.PublicationDate = pubDate.Time
	}
	return &a, nil
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, domain.ErrStorage, err)
}
