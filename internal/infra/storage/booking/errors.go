package booking

import "errors"

var (
	// ErrBuildQuery возвращается при ошибке сборки SQL-запроса
	ErrBuildQuery = errors.New("booking storage: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL-запроса
	ErrExecQuery = errors.New("booking storage: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования строки результата
	ErrScanRow = errors.New("booking storage: failed to scan row")

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking storage: booking not found")
)
