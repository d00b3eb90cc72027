package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wptable/rankmatrix/migrations"
)

// postgresStore keeps every collection in one JSONB table.
type postgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to connString and verifies the connection.
func NewPostgres(ctx context.Context, connString string) (Store, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &postgresStore{pool: pool}, nil
}

// RunMigrations applies the embedded SQL migrations to connString.
func RunMigrations(connString string) error {
	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, connString)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

func (p *postgresStore) Find(ctx context.Context, collection string) ([]Document, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT body FROM documents WHERE collection = $1 ORDER BY id`, collection)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}

	docs, err := pgx.CollectRows(rows, pgx.RowTo[Document])
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", collection, err)
	}
	return docs, nil
}

func (p *postgresStore) FindOne(ctx context.Context, collection string) (Document, error) {
	var doc Document
	err := p.pool.QueryRow(ctx,
		`SELECT body FROM documents WHERE collection = $1 ORDER BY id LIMIT 1`, collection).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	return doc, nil
}

func (p *postgresStore) Insert(ctx context.Context, collection string, docs ...Document) error {
	batch := &pgx.Batch{}
	for _, d := range docs {
		body, err := json.Marshal(d)
		if err != nil {
			return fmt.Errorf("encode %s document: %w", collection, err)
		}
		batch.Queue(`INSERT INTO documents (collection, body) VALUES ($1, $2)`, collection, body)
	}

	if err := p.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert %s: %w", collection, err)
	}
	return nil
}

func (p *postgresStore) Count(ctx context.Context, collection string) (int, error) {
	var n int
	if err := p.pool.QueryRow(ctx,
		`SELECT count(*) FROM documents WHERE collection = $1`, collection).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return n, nil
}

func (p *postgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *postgresStore) Close() error {
	p.pool.Close()
	return nil
}
