package generate_slots

import "time"

// Request модель запроса на генерацию слотов
type Request struct {
	ShiftID   int64     // ID смены
	StartDate time.Time // Начало диапазона (включительно, без времени)
	EndDate   time.Time // Конец диапазона (включительно, без времени)
}

// Response модель ответа генерации слотов
type Response struct {
	SlotsCreated int   // Количество созданных слотов
	SlotsDeleted int64 // Количество удалённых слотов прошлой генерации
}
