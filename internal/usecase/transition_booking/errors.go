package transition_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("transition_booking: booking not found")

	// ErrSlotNotFound возвращается, когда слот бронирования не найден
	ErrSlotNotFound = errors.New("transition_booking: slot not found")

	// ErrInvalidTransition возвращается, когда граф статусов запрещает переход
	ErrInvalidTransition = errors.New("transition_booking: status transition not allowed")

	// ErrCapacityExceeded возвращается, когда подтверждение бронирования
	// увело бы available_capacity слота в минус. Текст всегда содержит
	// доступное и запрошенное количество — он показывается пользователю.
	ErrCapacityExceeded = errors.New("transition_booking: capacity exceeded")

	// ErrPackageExhausted возвращается, когда у пакетной подписки нет
	// остатка по услуге (или строка леджера отсутствует)
	ErrPackageExhausted = errors.New("transition_booking: no remaining package quantity")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("transition_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("transition_booking: internal error")
)
