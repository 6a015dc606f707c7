package demos

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"structuredqa"
	"structuredqa/dataset"
)

// PostgresStore keeps examples in a pgvector table and orders by cosine
// distance.
type PostgresStore struct {
	conn  *pgx.Conn
	embed EmbeddingFunc
}

// NewPostgresStore makes sure the demos table exists. With drop set the
// table is recreated.
func NewPostgresStore(ctx context.Context, conn *pgx.Conn, embed EmbeddingFunc, drop bool) (*PostgresStore, error) {
	if err := createTable(ctx, conn, drop); err != nil {
		return nil, err
	}
	return &PostgresStore{conn: conn, embed: embed}, nil
}

func createTable(ctx context.Context, conn *pgx.Conn, drop bool) error {
	log := structuredqa.Logger
	if _, err := conn.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return err
	}
	if drop {
		log.Info("Drop table, Create table")
		if _, err := conn.Exec(ctx, "DROP TABLE IF EXISTS demos"); err != nil {
			return err
		}
	}
	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS demos (id bigserial PRIMARY KEY, content text, inputs text[], fields jsonb, embedding vector(%d))", Dimensions)
	if _, err := conn.Exec(ctx, stmt); err != nil {
		return err
	}
	_, err := conn.Exec(ctx, "CREATE INDEX IF NOT EXISTS demos_embedding_idx ON demos USING hnsw (embedding vector_cosine_ops)")
	return err
}

func (s *PostgresStore) Add(ctx context.Context, examples []dataset.Example) error {
	log := structuredqa.Logger
	sql := "INSERT INTO demos (content, inputs, fields, embedding) VALUES ($1, $2, $3, $4)"
	for i, e := range examples {
		content := Content(e)
		embedding, err := s.embed(ctx, content)
		if err != nil {
			return fmt.Errorf("embed example %d: %w", i, err)
		}
		log.Debug("SQL", "sql", sql, "example", i)
		if _, err := s.conn.Exec(ctx, sql, content, e.Inputs, e.Fields, pgvector.NewVector(embedding)); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) Nearest(ctx context.Context, text string, k int) ([]dataset.Example, error) {
	if k <= 0 {
		return nil, nil
	}
	embedding, err := s.embed(ctx, text)
	if err != nil {
		return nil, err
	}
	rows, err := s.conn.Query(ctx,
		"SELECT inputs, fields FROM demos ORDER BY embedding <=> $1 LIMIT $2",
		pgvector.NewVector(embedding), k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []dataset.Example
	for rows.Next() {
		var inputs []string
		var fields map[string]string
		if err := rows.Scan(&inputs, &fields); err != nil {
			return nil, err
		}
		out = append(out, dataset.NewExample(fields, inputs...))
	}
	return out, rows.Err()
}
