// Package database opens the MySQL database of the person service and keeps its schema up to
// date.
package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"gitlab.com/dirk.krummacker/person-service/internal/config"
)

// DSN builds the data source name for the go-sql-driver from the configuration. Timestamps are
// parsed into time.Time values in UTC. Affected rows of an UPDATE count matched rows, also when
// no value changed.
func DSN(cfg *config.Config) string {
	mc := mysql.NewConfig()
	mc.User = cfg.DBUser
	mc.Passwd = cfg.DBPassword
	mc.Net = "tcp"
	mc.Addr = cfg.DBHost
	mc.DBName = cfg.DBName
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.ClientFoundRows = true
	return mc.FormatDSN()
}

// CreateDatabase initializes and returns a database connection pool. No connection is
// established until the first statement is executed or Ping is called.
func CreateDatabase(cfg *config.Config) (*sql.DB, error) {
	sqlDB, err := sql.Open("mysql", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLifetime)
	return sqlDB, nil
}
