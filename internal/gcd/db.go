package gcd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/go-sql-driver/mysql"

	"longbox/internal/logging"
)

// DB wraps the local dump connection.
type DB struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open connects to the dump using a mysql DSN.
func Open(dsn string, logger *slog.Logger) (*DB, error) {
	if dsn == "" {
		return nil, errors.New("gcd dsn required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open gcd database: %w", err)
	}
	return &DB{db: db, logger: logging.WithComponent(logger, "gcd")}, nil
}

// Close releases the connection pool.
func (d *DB) Close() error {
	return d.db.Close()
}

// SeriesList finds dump series by exact name.
func (d *DB) SeriesList(ctx context.Context, name string) ([]Series, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, name, year_began FROM gcd_series WHERE name = ? ORDER BY year_began`, name)
	if err != nil {
		return nil, fmt.Errorf("query series: %w", err)
	}
	defer rows.Close()

	var series []Series
	for rows.Next() {
		var s Series
		if err := rows.Scan(&s.ID, &s.Name, &s.YearBegan); err != nil {
			return nil, fmt.Errorf("scan series: %w", err)
		}
		series = append(series, s)
	}
	return series, rows.Err()
}

// Issues finds dump issues by series and issue number, skipping variant
// printings. The free-form price, barcode, and page columns are normalized
// on the way out.
func (d *DB) Issues(ctx context.Context, seriesID int64, number string) ([]Issue, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, series_id, number, price, barcode, page_count, rating
		   FROM gcd_issue
		  WHERE series_id = ? AND number = ? AND variant_of_id IS NULL`, seriesID, number)
	if err != nil {
		return nil, fmt.Errorf("query issues: %w", err)
	}
	defer rows.Close()

	var issues []Issue
	for rows.Next() {
		var (
			issue                         Issue
			price, barcode, pages, rating sql.NullString
		)
		if err := rows.Scan(&issue.ID, &issue.Series, &issue.Number, &price, &barcode, &pages, &rating); err != nil {
			return nil, fmt.Errorf("scan issue: %w", err)
		}
		issue.Number = normalizeNumber(issue.Number)
		issue.Price = parsePrice(price.String)
		issue.Barcode = normalizeBarcode(barcode.String)
		issue.Pages = parsePages(pages.String)
		issue.Rating = strings.TrimSpace(rating.String)
		issues = append(issues, issue)
	}
	return issues, rows.Err()
}

// StoryTitles lists the story titles printed in an issue, in page order.
func (d *DB) StoryTitles(ctx context.Context, issueID int64) ([]string, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT title FROM gcd_story WHERE issue_id = ? AND type_id = 19 ORDER BY sequence_number`, issueID)
	if err != nil {
		return nil, fmt.Errorf("query stories: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("scan story title: %w", err)
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

func (d *DB) storyIDs(ctx context.Context, issueID int64) ([]int64, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id FROM gcd_story WHERE issue_id = ? AND type_id = 19`, issueID)
	if err != nil {
		return nil, fmt.Errorf("query story ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan story id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (d *DB) reprintOriginIssues(ctx context.Context, storyID int64) ([]int64, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT s.issue_id
		   FROM gcd_reprint r
		   JOIN gcd_story s ON s.id = r.origin_id
		  WHERE r.target_id = ?`, storyID)
	if err != nil {
		return nil, fmt.Errorf("query reprint origins: %w", err)
	}
	defer rows.Close()

	var issueIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan origin issue: %w", err)
		}
		issueIDs = append(issueIDs, id)
	}
	return issueIDs, rows.Err()
}

func (d *DB) reprintIssue(ctx context.Context, issueID int64) (ReprintIssue, error) {
	var (
		issue           ReprintIssue
		publicationType sql.NullString
	)
	err := d.db.QueryRowContext(ctx,
		`SELECT i.id, s.name, i.number, s.year_began, s.publication_type
		   FROM gcd_issue i
		   JOIN gcd_series s ON s.id = i.series_id
		  WHERE i.id = ?`, issueID).
		Scan(&issue.ID, &issue.Series, &issue.Number, &issue.YearBegan, &publicationType)
	if err != nil {
		return ReprintIssue{}, fmt.Errorf("query reprint issue %d: %w", issueID, err)
	}
	issue.Collection = isCollection(publicationType.String)
	return issue, nil
}

// Reprints walks from a dump issue to every distinct issue whose stories it
// reprints.
func (d *DB) Reprints(ctx context.Context, issueID int64) ([]ReprintIssue, error) {
	stories, err := d.storyIDs(ctx, issueID)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool)
	var reprints []ReprintIssue
	for _, storyID := range stories {
		origins, err := d.reprintOriginIssues(ctx, storyID)
		if err != nil {
			return nil, err
		}
		for _, originID := range origins {
			if seen[originID] || originID == issueID {
				continue
			}
			seen[originID] = true
			issue, err := d.reprintIssue(ctx, originID)
			if err != nil {
				return nil, err
			}
			reprints = append(reprints, issue)
		}
	}
	d.logger.Debug("reprint walk complete",
		logging.Int64("issue_id", issueID),
		logging.Int("stories", len(stories)),
		logging.Int("reprints", len(reprints)),
	)
	return reprints, nil
}
