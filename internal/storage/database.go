package storage

import (
	"database/sql"
	"fmt"
	"regexp"

	"github.com/go-sql-driver/mysql"
)

var databaseName = regexp.MustCompile(`^[A-Za-z0-9_$]{1,64}$`)

// ensureDatabase connects to the server named by cfg without selecting a
// database and creates cfg.DBName if it does not exist yet.
func ensureDatabase(cfg *mysql.Config) (created bool, err error) {
	if !isValidDatabaseName(cfg.DBName) {
		return false, fmt.Errorf("invalid database name: %s", cfg.DBName)
	}

	server := cfg.Clone()
	server.DBName = ""
	db, err := sql.Open("mysql", server.FormatDSN())
	if err != nil {
		return false, fmt.Errorf("failed to connect to database server: %w", err)
	}
	defer db.Close()

	exists, err := databaseExists(db, cfg.DBName)
	if err != nil {
		return false, fmt.Errorf("failed to check database %s: %w", cfg.DBName, err)
	}
	if exists {
		return false, nil
	}
	if _, err := db.Exec(fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", cfg.DBName)); err != nil {
		return false, fmt.Errorf("failed to create database %s: %w", cfg.DBName, err)
	}
	return true, nil
}

// databaseExists checks if a database exists
func databaseExists(db *sql.DB, dbName string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT SCHEMA_NAME FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?)"
	err := db.QueryRow(query, dbName).Scan(&exists)
	return exists, err
}

// isValidDatabaseName allows only unquoted MySQL identifier characters
func isValidDatabaseName(name string) bool {
	return databaseName.MatchString(name)
}
