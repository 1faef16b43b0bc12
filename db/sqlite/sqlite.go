package sqlite

import (
	"context"
	"io/fs"
	"os"
	"path"
	"time"

	"climatesolutions/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLiteDB opens the catalog through GORM. It backs local runs and tests
// where no PostgreSQL server is available.
type SQLiteDB struct {
	Gorm   *gorm.DB
	Ctx    context.Context
	Cancel context.CancelFunc
	Path   string
	Debug  bool
}

func NewSQLiteDB(dbPath string, debug bool) *SQLiteDB {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	return &SQLiteDB{
		Ctx:    ctx,
		Cancel: cancel,
		Path:   dbPath,
		Debug:  debug,
	}
}

func (s *SQLiteDB) Connect() error {
	dsn := s.Path
	if dsn != ":memory:" {
		if err := os.MkdirAll(path.Dir(dsn), fs.ModePerm); err != nil {
			return models.NewConnectionError(err, "unable to create SQLite folder: %v", err)
		}
		dsn += "?cache=shared&_journal_mode=WAL&_foreign_keys=on"
	} else {
		dsn = "file::memory:?cache=shared&_foreign_keys=on"
	}

	gormLogger := logger.Discard
	if s.Debug {
		gormLogger = logger.Default
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		return models.NewConnectionError(err, "unable to open SQLite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return models.NewConnectionError(err, "unable to open SQLite: %v", err)
	}
	if _, err := sqlDB.ExecContext(s.Ctx, "PRAGMA foreign_keys = ON;"); err != nil {
		return models.NewConnectionError(err, "unable to enable SQLite foreign keys: %v", err)
	}

	s.Gorm = db
	return nil
}

func (s *SQLiteDB) Disconnect() error {
	s.Cancel()
	if s.Gorm == nil {
		return nil
	}
	sqlDB, err := s.Gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *SQLiteDB) GetContext() context.Context {
	return s.Ctx
}
