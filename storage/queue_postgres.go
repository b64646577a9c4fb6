package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createPendingPostsTable = `
CREATE TABLE IF NOT EXISTS pending_posts (
    position BIGSERIAL PRIMARY KEY,
    post_id  TEXT NOT NULL
)`

// PostgresQueue keeps the pending queue in a single postgres table, ordered
// by insertion position.
type PostgresQueue struct {
	pool *pgxpool.Pool
}

func NewPostgresQueue(ctx context.Context, connString string) (*PostgresQueue, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, createPendingPostsTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating pending_posts table: %w", err)
	}
	return &PostgresQueue{pool: pool}, nil
}

func (q *PostgresQueue) Load(ctx context.Context) ([]string, error) {
	rows, err := q.pool.Query(ctx, `SELECT post_id FROM pending_posts ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (q *PostgresQueue) Save(ctx context.Context, ids []string) error {
	tx, err := q.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE pending_posts RESTART IDENTITY`); err != nil {
		return err
	}
	if len(ids) > 0 {
		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"pending_posts"},
			[]string{"post_id"},
			pgx.CopyFromSlice(len(ids), func(i int) ([]any, error) {
				return []any{ids[i]}, nil
			}),
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (q *PostgresQueue) Close() error {
	q.pool.Close()
	return nil
}
