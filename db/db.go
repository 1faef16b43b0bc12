package db

import "context"

type DBType string

const (
	Postgres DBType = "postgres"
	Mongo    DBType = "mongo"
	SQLite   DBType = "sqlite"
)

// DB is a store connection opened once at startup and closed on shutdown.
type DB interface {
	Connect() error
	Disconnect() error
	GetContext() context.Context
}
