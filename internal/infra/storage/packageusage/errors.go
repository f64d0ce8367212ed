package packageusage

import "errors"

var (
	// ErrBuildQuery возвращается при ошибке сборки SQL-запроса
	ErrBuildQuery = errors.New("packageusage storage: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL-запроса
	ErrExecQuery = errors.New("packageusage storage: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования строки результата
	ErrScanRow = errors.New("packageusage storage: failed to scan row")

	// ErrUsageNotFound возвращается, когда строка леджера не найдена
	ErrUsageNotFound = errors.New("packageusage storage: usage row not found")

	// ErrPackageExhausted возвращается, когда остаток пакета равен нулю
	// (или строка для пары подписка/услуга отсутствует)
	ErrPackageExhausted = errors.New("packageusage storage: no remaining package quantity")
)
