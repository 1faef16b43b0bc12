package postgres

import (
	"context"
	"database/sql"
	"time"

	"climatesolutions/models"

	_ "github.com/lib/pq"
)

const (
	pingTimeout = 5 * time.Second

	// Pool limits sized for a small hosted database.
	maxOpenConns    = 5
	maxIdleConns    = 2
	connMaxLifetime = 30 * time.Minute
)

// PostgresDB holds the catalog connection pool.
type PostgresDB struct {
	Conn   *sql.DB
	Ctx    context.Context
	Cancel context.CancelFunc
	URL    string
}

func NewPostgresDB(url string) *PostgresDB {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	return &PostgresDB{
		Ctx:    ctx,
		Cancel: cancel,
		URL:    url,
	}
}

// Connect opens the pool and pings it once.
func (p *PostgresDB) Connect() error {
	pool, err := sql.Open("postgres", p.URL)
	if err != nil {
		return models.NewConnectionError(err, "unable to open catalog database: %v", err)
	}
	pool.SetMaxOpenConns(maxOpenConns)
	pool.SetMaxIdleConns(maxIdleConns)
	pool.SetConnMaxLifetime(connMaxLifetime)

	if err := pool.PingContext(p.Ctx); err != nil {
		_ = pool.Close()
		return models.NewConnectionError(err, "catalog database unreachable: %v", err)
	}
	p.Conn = pool
	return nil
}

func (p *PostgresDB) Disconnect() error {
	p.Cancel()
	if p.Conn == nil {
		return nil
	}
	return p.Conn.Close()
}

func (p *PostgresDB) GetContext() context.Context {
	return p.Ctx
}
