package resync_capacity

// Request модель запроса на пересинхронизацию вместимости одной услуги.
// ServiceID == 0 означает массовый проход по всем service-based услугам.
type Request struct {
	ServiceID int64
}

// ServiceResult результат пересинхронизации по одной услуге
type ServiceResult struct {
	ServiceID    int64 // ID услуги
	NewCapacity  int   // Применённый пул вместимости
	SlotsUpdated int64 // Сколько будущих слотов обновлено
}

// Response модель ответа пересинхронизации
type Response struct {
	Services          []ServiceResult // Результаты по услугам
	TotalSlotsUpdated int64           // Суммарно обновлено слотов
}
