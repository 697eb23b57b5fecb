package pgbridge

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Row is one result row keyed by column name.
type Row map[string]any

// FetchVal returns the value at column 0 of the first result row.
func (db *DB) FetchVal(ctx context.Context, query Query, args ...any) (any, error) {
	return db.FetchValAt(ctx, query, 0, args...)
}

// FetchValAt returns the value at the given zero-based column index of the
// first result row.
func (db *DB) FetchValAt(ctx context.Context, query Query, column int, args ...any) (any, error) {
	text, err := query.queryText(db.literalizer)
	if err != nil {
		return nil, err
	}
	var val any
	err = db.withConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, text, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		if !rows.Next() {
			if err := rows.Err(); err != nil {
				return err
			}
			return pgx.ErrNoRows
		}
		values, err := rows.Values()
		if err != nil {
			return err
		}
		if column < 0 || column >= len(values) {
			return fmt.Errorf("pgbridge: column index %d out of range (%d columns)", column, len(values))
		}
		val = values[column]
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return val, nil
}

// Fetch returns all result rows in order. An empty result is a nil slice,
// not an error.
func (db *DB) Fetch(ctx context.Context, query Query, args ...any) ([]Row, error) {
	text, err := query.queryText(db.literalizer)
	if err != nil {
		return nil, err
	}
	var out []Row
	err = db.withConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, text, args...)
		if err != nil {
			return err
		}
		collected, err := pgx.CollectRows(rows, rowToMap)
		if err != nil {
			return err
		}
		out = collected
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FetchRow returns the first result row. Good for insert/update/delete
// statements with a RETURNING clause. No row yields pgx.ErrNoRows.
func (db *DB) FetchRow(ctx context.Context, query Query, args ...any) (Row, error) {
	text, err := query.queryText(db.literalizer)
	if err != nil {
		return nil, err
	}
	var out Row
	err = db.withConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, text, args...)
		if err != nil {
			return err
		}
		row, err := pgx.CollectOneRow(rows, rowToMap)
		if err != nil {
			return err
		}
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Exec runs a statement with no row result and returns the driver's
// command tag (rows affected, operation kind).
func (db *DB) Exec(ctx context.Context, query Query, args ...any) (pgconn.CommandTag, error) {
	text, err := query.queryText(db.literalizer)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	var tag pgconn.CommandTag
	err = db.withConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		t, err := conn.Exec(ctx, text, args...)
		if err != nil {
			return err
		}
		tag = t
		return nil
	})
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	return tag, nil
}

// rowToMap collects one pgx row into a column-name-keyed map.
func rowToMap(row pgx.CollectableRow) (Row, error) {
	values, err := row.Values()
	if err != nil {
		return nil, err
	}
	fields := row.FieldDescriptions()
	out := make(Row, len(fields))
	for i, fd := range fields {
		out[fd.Name] = values[i]
	}
	return out, nil
}
