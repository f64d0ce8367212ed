package domain

// Default configuration values
const (
	DefaultLockTTLSeconds          = 120
	DefaultEmployeeCapacityPerSlot = 1
	DefaultMaxGenerationDays       = 92
)

// Business validation constants
const (
	MinLockTTLSeconds = 10
	MaxLockTTLSeconds = 3600
	MaxReservedQty    = 100
	MaxVisitorCount   = 100
)

// RoleEmployee роль сотрудника, используемая fallback-резолюцией назначений
const RoleEmployee = "employee"

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
