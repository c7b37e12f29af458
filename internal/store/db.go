package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/medghazouan/bidayalab/internal/models"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// sqliteDriver keeps every collection in its own table of JSON documents.
type sqliteDriver struct {
	db *sql.DB
}

// SQLiteOpener returns an Opener for the SQLite database at dataSourceName.
func SQLiteOpener(dataSourceName string) Opener {
	return func(ctx context.Context) (Driver, error) {
		return OpenSQLite(ctx, dataSourceName)
	}
}

func OpenSQLite(ctx context.Context, dataSourceName string) (Driver, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, err
	}
	// One writer at a time; SQLite would otherwise answer SQLITE_BUSY under load.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return &sqliteDriver{db: db}, nil
}

var identRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func ident(name string) (string, error) {
	if !identRe.MatchString(name) {
		return "", fmt.Errorf("invalid identifier %q", name)
	}
	return `"` + name + `"`, nil
}

func (d *sqliteDriver) EnsureCollection(ctx context.Context, def Definition) error {
	table, err := ident(def.Name)
	if err != nil {
		return err
	}

	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			created_at INTEGER NOT NULL,
			doc TEXT NOT NULL
		)`, table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS "%s_created_at" ON %s(created_at)`, def.Name, table),
	}
	for _, field := range def.Unique {
		if _, err := ident(field); err != nil {
			return err
		}
		stmts = append(stmts, fmt.Sprintf(
			`CREATE UNIQUE INDEX IF NOT EXISTS "%s_%s_key" ON %s(json_extract(doc, '$.%s'))`,
			def.Name, field, table, field))
	}

	for _, stmt := range stmts {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure collection %s: %w", def.Name, err)
		}
	}
	return nil
}

func (d *sqliteDriver) Insert(ctx context.Context, coll string, doc Document) error {
	table, err := ident(coll)
	if err != nil {
		return err
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	m := doc.DocMeta()
	query := fmt.Sprintf(`INSERT INTO %s (id, created_at, doc) VALUES (?, ?, ?)`, table)
	_, err = d.db.ExecContext(ctx, query, m.ID, m.CreatedAt.UnixNano(), string(body))
	return mapSQLiteError(err)
}

func (d *sqliteDriver) Replace(ctx context.Context, coll string, doc Document) error {
	table, err := ident(coll)
	if err != nil {
		return err
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE %s SET doc = ? WHERE id = ?`, table)
	res, err := d.db.ExecContext(ctx, query, string(body), doc.DocMeta().ID)
	if err != nil {
		return mapSQLiteError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (d *sqliteDriver) Delete(ctx context.Context, coll, id string) error {
	table, err := ident(coll)
	if err != nil {
		return err
	}
	_, err = d.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, table), id)
	return err
}

func (d *sqliteDriver) Get(ctx context.Context, coll, id string, out any) error {
	table, err := ident(coll)
	if err != nil {
		return err
	}
	var body string
	err = d.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT doc FROM %s WHERE id = ?`, table), id).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrNotFound
		}
		return err
	}
	return json.Unmarshal([]byte(body), out)
}

func (d *sqliteDriver) FindOne(ctx context.Context, coll, field string, value any, out any) error {
	table, err := ident(coll)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`SELECT doc FROM %s WHERE json_extract(doc, ?) = ? ORDER BY created_at DESC, id DESC LIMIT 1`, table)
	var body string
	err = d.db.QueryRowContext(ctx, query, "$."+field, value).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrNotFound
		}
		return err
	}
	return json.Unmarshal([]byte(body), out)
}

func (d *sqliteDriver) List(ctx context.Context, coll string, out any) error {
	table, err := ident(coll)
	if err != nil {
		return err
	}
	rows, err := d.db.QueryContext(ctx, fmt.Sprintf(`SELECT doc FROM %s ORDER BY created_at DESC, id DESC`, table))
	if err != nil {
		return err
	}
	defer rows.Close()

	// Decode the whole result as one JSON array so out gets fresh values.
	var buf strings.Builder
	buf.WriteByte('[')
	first := true
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return err
		}
		if !first {
			buf.WriteByte(',')
		}
		buf.WriteString(body)
		first = false
	}
	if err := rows.Err(); err != nil {
		return err
	}
	buf.WriteByte(']')
	return json.Unmarshal([]byte(buf.String()), out)
}

func (d *sqliteDriver) Count(ctx context.Context, coll, field string, value any) (int64, error) {
	table, err := ident(coll)
	if err != nil {
		return 0, err
	}
	var count int64
	if field == "" {
		err = d.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)).Scan(&count)
	} else {
		query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE json_extract(doc, ?) = ?`, table)
		err = d.db.QueryRowContext(ctx, query, "$."+field, value).Scan(&count)
	}
	return count, err
}

func (d *sqliteDriver) Close(context.Context) error {
	return d.db.Close()
}

func mapSQLiteError(err error) error {
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}
