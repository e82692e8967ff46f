package expire_bookings

import "errors"

var (
	// ErrInternal возвращается, когда sweep не смог даже получить список кандидатов
	ErrInternal = errors.New("expire_bookings: internal error")
)
