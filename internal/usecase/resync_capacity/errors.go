package resync_capacity

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("resync_capacity: service not found")

	// ErrInvalidConfiguration возвращается, когда услуга не использует
	// общий пул вместимости либо пул не задан
	ErrInvalidConfiguration = errors.New("resync_capacity: service is not service based")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("resync_capacity: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("resync_capacity: internal error")
)
