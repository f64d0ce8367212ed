package acquire_lock

import "time"

// Request модель запроса на резервацию вместимости слота на время checkout
type Request struct {
	SlotID      int64  // ID слота
	SessionID   string // Идентификатор checkout-сессии
	ReservedQty int    // Сколько мест резервируем (> 0)
	TTLSeconds  int    // Время жизни блокировки; 0 = значение по умолчанию
}

// Response модель ответа с созданной блокировкой
type Response struct {
	LockID      int64     // ID блокировки
	SlotID      int64     // ID слота
	ReservedQty int       // Зарезервированное количество
	ExpiresAt   time.Time // Момент истечения
}
