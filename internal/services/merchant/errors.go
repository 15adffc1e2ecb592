package merchant

import "errors"

var (
	ErrMerchantNotFound     = errors.New("merchant not found")
	ErrMerchantExists       = errors.New("merchant already registered for this authority")
	ErrBusinessNameRequired = errors.New("business name is required")
	ErrBusinessNameTooLong  = errors.New("business name exceeds 100 characters")
)
