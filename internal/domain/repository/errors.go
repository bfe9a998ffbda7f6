package repository

import "errors"

// Errors returned by stores when a write cannot be applied. They are wrapped
// with the offending record, so match them with errors.Is.
var (
	ErrNotFound          = errors.New("record not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrCorruptQuantity   = errors.New("stored quantity is not a valid integer")
	ErrStaleWrite        = errors.New("record changed since it was read")
)
