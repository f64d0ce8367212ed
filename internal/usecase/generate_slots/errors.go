package generate_slots

import "errors"

var (
	// ErrShiftNotFound возвращается, когда смена не найдена
	ErrShiftNotFound = errors.New("generate_slots: shift not found")

	// ErrInvalidConfiguration возвращается при некорректной конфигурации:
	// окно смены короче длительности услуги, отсутствует пул вместимости,
	// не найдено ни одного сотрудника для employee_based услуги
	ErrInvalidConfiguration = errors.New("generate_slots: invalid shift/service configuration")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("generate_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("generate_slots: internal error")
)
