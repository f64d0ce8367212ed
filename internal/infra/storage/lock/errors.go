package lock

import "errors"

var (
	// ErrBuildQuery возвращается при ошибке сборки SQL-запроса
	ErrBuildQuery = errors.New("lock storage: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL-запроса
	ErrExecQuery = errors.New("lock storage: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования строки результата
	ErrScanRow = errors.New("lock storage: failed to scan row")

	// ErrLockNotFound возвращается, когда блокировка не найдена
	ErrLockNotFound = errors.New("lock storage: reservation lock not found")
)
