package acquire_lock

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("acquire_lock: slot not found")

	// ErrSlotUnavailable возвращается, когда слот помечен недоступным
	ErrSlotUnavailable = errors.New("acquire_lock: slot is not available")

	// ErrCapacityExceeded возвращается, когда свободной вместимости
	// (за вычетом активных блокировок) не хватает на запрошенное количество.
	// Текст всегда содержит свободное и запрошенное количество — он
	// показывается пользователю.
	ErrCapacityExceeded = errors.New("acquire_lock: capacity exceeded")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("acquire_lock: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("acquire_lock: internal error")
)
