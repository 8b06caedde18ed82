package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-sql-driver/mysql"

	"nbl/internal/domain"
)

const createRunsTable = `CREATE TABLE IF NOT EXISTS nbl_runs (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	created_at DATETIME NOT NULL,
	test_status VARCHAR(16) NOT NULL,
	test_time DOUBLE NOT NULL,
	n_tests INT NOT NULL,
	n_skips INT NOT NULL,
	n_failures INT NOT NULL,
	n_errors INT NOT NULL,
	meta LONGTEXT NOT NULL,
	shortresults LONGTEXT NOT NULL
)`

const insertRun = `INSERT INTO nbl_runs
	(created_at, test_status, test_time, n_tests, n_skips, n_failures, n_errors, meta, shortresults)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectLatestRun = `SELECT test_status, test_time, n_tests, n_skips, n_failures, n_errors, meta, shortresults
	FROM nbl_runs ORDER BY id DESC LIMIT 1`

// MySQLStorage keeps a history of runs in the nbl_runs table
type MySQLStorage struct {
	db  *sql.DB
	log logr.Logger
}

// NormalizeDSN validates a go-sql-driver DSN and turns on time parsing
func NormalizeDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid database DSN: %w", err)
	}
	if cfg.DBName == "" {
		return "", fmt.Errorf("invalid database DSN: no database name")
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// OpenMySQL connects to the database, creating it and the runs table if needed
func OpenMySQL(dsn string, log logr.Logger) (*MySQLStorage, error) {
	dsn, err := NormalizeDSN(dsn)
	if err != nil {
		return nil, err
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	created, err := ensureDatabase(cfg)
	if err != nil {
		return nil, err
	}
	if created {
		log.Info("created results database", "database", cfg.DBName)
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database server: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database server: %w", err)
	}
	if _, err := db.Exec(createRunsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create nbl_runs table: %w", err)
	}
	return &MySQLStorage{db: db, log: log}, nil
}

// Close closes the connection pool
func (s *MySQLStorage) Close() error {
	return s.db.Close()
}

// Save appends one row for the run
func (s *MySQLStorage) Save(result *domain.RunResult, meta domain.RunMeta) error {
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal run meta: %w", err)
	}
	shortJSON, err := json.Marshal(result.ShortResults)
	if err != nil {
		return fmt.Errorf("marshal shortresults: %w", err)
	}

	res, err := s.db.Exec(insertRun,
		time.Now().UTC(), result.TestStatus, result.TestTime,
		result.NTests, result.NSkips, result.NFailures, result.NErrors,
		string(metaJSON), string(shortJSON))
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		s.log.V(1).Info("stored run", "table", "nbl_runs", "id", id)
	}
	return nil
}

// Load returns the most recent run
func (s *MySQLStorage) Load() (*domain.StoredRun, error) {
	var (
		run       domain.StoredRun
		metaJSON  string
		shortJSON string
	)
	err := s.db.QueryRow(selectLatestRun).Scan(
		&run.Result.TestStatus, &run.Result.TestTime,
		&run.Result.NTests, &run.Result.NSkips, &run.Result.NFailures, &run.Result.NErrors,
		&metaJSON, &shortJSON)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no stored runs")
	}
	if err != nil {
		return nil, fmt.Errorf("query latest run: %w", err)
	}
	if err := json.Unmarshal([]byte(metaJSON), &run.Meta); err != nil {
		return nil, fmt.Errorf("parse run meta: %w", err)
	}
	if err := json.Unmarshal([]byte(shortJSON), &run.Result.ShortResults); err != nil {
		return nil, fmt.Errorf("parse shortresults: %w", err)
	}
	return &run, nil
}
