package order

import "errors"

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrDeletionForbidden = errors.New("only pending orders can be deleted")
	ErrInvalidDateRange  = errors.New("date_from must not be after date_to")
	ErrInvalidPagination = errors.New("invalid pagination parameters")
)
