package catalog

import "errors"

var (
	// ErrBuildQuery возвращается при ошибке сборки SQL-запроса
	ErrBuildQuery = errors.New("catalog storage: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL-запроса
	ErrExecQuery = errors.New("catalog storage: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования строки результата
	ErrScanRow = errors.New("catalog storage: failed to scan row")

	// ErrShiftNotFound возвращается, когда смена не найдена
	ErrShiftNotFound = errors.New("catalog storage: shift not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("catalog storage: service not found")
)
