package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

type Cache struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

func Open(dbPath string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	c := &Cache{readDB: readDB, writeDB: writeDB}
	if err := c.init(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) init() error {
	_, err := c.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS articles (
			slug          TEXT PRIMARY KEY,
			title         TEXT NOT NULL,
			url           TEXT NOT NULL,
			date          TEXT NOT NULL,
			main_category TEXT NOT NULL DEFAULT '',
			teaser        TEXT NOT NULL DEFAULT '',
			fetched_at    DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_articles_date ON articles(date DESC);
		CREATE INDEX IF NOT EXISTS idx_articles_category ON articles(main_category);

		CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (c *Cache) Close() error {
	var errs []error
	if c.readDB != nil {
		errs = append(errs, c.readDB.Close())
	}
	if c.writeDB != nil {
		errs = append(errs, c.writeDB.Close())
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

func (c *Cache) UpsertArticles(articles []Article) error {
	tx, err := c.writeDB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO articles (slug, title, url, date, main_category, teaser, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
			title = excluded.title,
			url = excluded.url,
			date = excluded.date,
			main_category = CASE WHEN excluded.main_category != '' THEN excluded.main_category ELSE articles.main_category END,
			teaser = CASE WHEN excluded.teaser != '' THEN excluded.teaser ELSE articles.teaser END,
			fetched_at = excluded.fetched_at
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, a := range articles {
		_, err := stmt.Exec(a.Slug, a.Title, a.URL, a.Date, a.MainCategory, a.Teaser, a.FetchedAt)
		if err != nil {
			return fmt.Errorf("upserting article %s: %w", a.Slug, err)
		}
	}

	return tx.Commit()
}

// GetArticles returns articles newest first. A zero Limit returns the
// whole corpus, which the date brush plots in full.
func (c *Cache) GetArticles(opts QueryOpts) ([]Article, error) {
	var (
		where []string
		args  []interface{}
	)

	if opts.DateFrom != "" {
		where = append(where, "date >= ?")
		args = append(args, opts.DateFrom)
	}
	if opts.DateTo != "" {
		where = append(where, "date <= ?")
		args = append(args, opts.DateTo)
	}
	if opts.Category != "" {
		where = append(where, "main_category = ?")
		args = append(args, opts.Category)
	}
	if opts.Search != "" {
		where = append(where, "(title LIKE ? OR teaser LIKE ?)")
		term := "%" + opts.Search + "%"
		args = append(args, term, term)
	}

	query := "SELECT slug, title, url, date, main_category, teaser, fetched_at FROM articles"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date DESC, slug"
	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	rows, err := c.readDB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		var a Article
		if err := rows.Scan(&a.Slug, &a.Title, &a.URL, &a.Date, &a.MainCategory, &a.Teaser, &a.FetchedAt); err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// Categories lists distinct main categories, sorted.
func (c *Cache) Categories() ([]string, error) {
	rows, err := c.readDB.Query("SELECT DISTINCT main_category FROM articles WHERE main_category != '' ORDER BY main_category")
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var cat string
		if err := rows.Scan(&cat); err != nil {
			return nil, err
		}
		out = append(out, cat)
	}
	return out, rows.Err()
}

// Prune deletes articles dated before the given YYYY-MM-DD day.
func (c *Cache) Prune(before string) (int64, error) {
	res, err := c.writeDB.Exec("DELETE FROM articles WHERE date < ?", before)
	if err != nil {
		return 0, fmt.Errorf("pruning articles: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		if _, err := c.writeDB.Exec("VACUUM"); err != nil {
			return n, fmt.Errorf("vacuum: %w", err)
		}
	}
	return n, nil
}

// Stats returns the article count and on-disk size of the database.
func (c *Cache) Stats(dbPath string) (int, int64, error) {
	var count int
	if err := c.readDB.QueryRow("SELECT COUNT(*) FROM articles").Scan(&count); err != nil {
		return 0, 0, fmt.Errorf("counting articles: %w", err)
	}
	info, err := os.Stat(dbPath)
	if err != nil {
		return count, 0, fmt.Errorf("stat %s: %w", dbPath, err)
	}
	return count, info.Size(), nil
}

func (c *Cache) NeedsRefresh(interval time.Duration) bool {
	var value string
	err := c.readDB.QueryRow("SELECT value FROM meta WHERE key = 'last_refresh'").Scan(&value)
	if err != nil {
		return true
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return true
	}
	return time.Since(t) > interval
}

func (c *Cache) SetLastRefresh() error {
	_, err := c.writeDB.Exec(`
		INSERT INTO meta (key, value) VALUES ('last_refresh', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, time.Now().Format(time.RFC3339))
	return err
}
