package product

import "errors"

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrMissingSearchParams = errors.New("at least one of q or category is required")
)
