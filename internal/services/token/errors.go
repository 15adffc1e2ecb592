package token

import "errors"

// Ledger errors
var (
	ErrInvalidAmount     = errors.New("invalid token amount")
	ErrUnauthorized      = errors.New("authority does not control the source account")
	ErrInsufficientUnits = errors.New("insufficient units in source account")
	ErrSupplyCapExceeded = errors.New("mint would exceed the asset supply cap")
	ErrAccountExists     = errors.New("token account already exists")
)
