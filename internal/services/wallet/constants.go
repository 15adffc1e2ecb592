package wallet

// Wallet statuses
const (
	StatusActive = "active"
	StatusLocked = "locked"
)

// Default pagination bounds for history queries.
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)
