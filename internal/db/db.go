package db

import (
	"database/sql"
	"fmt"

	"blog_api/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"
)

// Open returns a handle bound to a single long-lived connection. Concurrent
// queries queue on that connection inside database/sql.
func Open(DBCfg *config.DBConfig) (*sql.DB, error) {
	dsn, err := DSN(DBCfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(DBCfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		if cerr := db.Close(); cerr != nil {
			logrus.WithError(cerr).Warn("Failed to close database connection")
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"driver":   DBCfg.Driver,
		"database": DBCfg.Name,
	}).Info("Database connection established successfully")
	return db, nil
}

func DSN(DBCfg *config.DBConfig) (string, error) {
	switch DBCfg.Driver {
	case DriverPostgres:
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			DBCfg.Host, DBCfg.Port, DBCfg.User, DBCfg.Password, DBCfg.Name, DBCfg.SSLMode), nil
	case DriverSQLite:
		if DBCfg.Name == "" {
			return "", fmt.Errorf("sqlite3 requires DB_NAME to be a file path or :memory:")
		}
		return DBCfg.Name, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", DBCfg.Driver)
	}
}
