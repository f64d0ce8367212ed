package packageusage

import (
	"context"
	"database/sql"
)

// DBExecutor интерфейс исполнителя запросов (*sql.DB, *sql.Tx или dbmetrics.DB)
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}
