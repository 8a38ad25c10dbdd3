package service

import "errors"

var (
	ErrInvoiceNotFound = errors.New("invoice not found")
	// ErrConcurrentUpdate means another request changed the invoice between
	// the balance check and the write; the caller may retry.
	ErrConcurrentUpdate = errors.New("invoice was modified concurrently, retry the request")
)
