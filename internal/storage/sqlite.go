// internal/storage/sqlite.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"mcp-kids-nutrition/internal/models"
)

// ErrNotFound is returned when the requested history entry does not exist.
var ErrNotFound = errors.New("not found")

type SQLiteStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

// busyTimeoutMillis bounds how long a writer waits on a locked database.
const busyTimeoutMillis = 5000

func NewSQLiteStorage(dbPath string, logger *zap.Logger) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection serializes writes and keeps ":memory:" databases
	// from splitting across pooled connections.
	db.SetMaxOpenConns(1)

	storage := &SQLiteStorage{db: db, logger: logger}
	if err := storage.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("history storage initialized", zap.String("db_path", dbPath))
	return storage, nil
}

// dsn appends the busy timeout pragma to a database path.
func dsn(dbPath string) string {
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_pragma=busy_timeout(%d)", dbPath, sep, busyTimeoutMillis)
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS exchanges (
        seq INTEGER PRIMARY KEY AUTOINCREMENT,
        id TEXT NOT NULL UNIQUE,
        question TEXT NOT NULL,
        response TEXT NOT NULL,
        source TEXT NOT NULL,
        created_at TEXT NOT NULL
    );

    CREATE INDEX IF NOT EXISTS idx_exchanges_created_at ON exchanges(created_at);
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// SaveExchange stores a question/answer pair, assigning an id and timestamp
// when they are missing.
func (s *SQLiteStorage) SaveExchange(ex *models.Exchange) error {
	if ex.ID == "" {
		ex.ID = uuid.NewString()
	}
	if ex.CreatedAt.IsZero() {
		ex.CreatedAt = time.Now().UTC()
	}

	query := `
        INSERT INTO exchanges (id, question, response, source, created_at)
        VALUES (?, ?, ?, ?, ?)
    `
	_, err := s.db.Exec(query,
		ex.ID, ex.Question, ex.Response, string(ex.Source), ex.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to insert exchange: %w", err)
	}
	return nil
}

// LatestExchange returns the most recently saved exchange, or ErrNotFound.
func (s *SQLiteStorage) LatestExchange() (*models.Exchange, error) {
	exchanges, err := s.GetExchanges(1)
	if err != nil {
		return nil, err
	}
	if len(exchanges) == 0 {
		return nil, ErrNotFound
	}
	return exchanges[0], nil
}

// GetExchanges lists up to limit exchanges, newest first.
func (s *SQLiteStorage) GetExchanges(limit int) ([]*models.Exchange, error) {
	query := `
        SELECT id, question, response, source, created_at
        FROM exchanges
        ORDER BY seq DESC
        LIMIT ?
    `

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchanges: %w", err)
	}
	defer rows.Close()

	exchanges := []*models.Exchange{}
	for rows.Next() {
		ex := &models.Exchange{}
		var source, createdAt string

		if err := rows.Scan(&ex.ID, &ex.Question, &ex.Response, &source, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan exchange: %w", err)
		}
		if ex.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		ex.Source = models.ReplySource(source)

		exchanges = append(exchanges, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read exchanges: %w", err)
	}

	return exchanges, nil
}

// GetExchange loads one exchange by id.
func (s *SQLiteStorage) GetExchange(id string) (*models.Exchange, error) {
	ex := &models.Exchange{}
	var source, createdAt string

	err := s.db.QueryRow(`
        SELECT id, question, response, source, created_at
        FROM exchanges
        WHERE id = ?
    `, id).Scan(&ex.ID, &ex.Question, &ex.Response, &source, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query exchange %s: %w", id, err)
	}

	if ex.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	ex.Source = models.ReplySource(source)
	return ex, nil
}

// Ping checks that the database is reachable.
func (s *SQLiteStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
