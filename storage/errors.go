package storage

import "errors"

var (
	ErrNotFound    = errors.New("storage: block not found")
	ErrInvalidCID  = errors.New("storage: invalid cid")
	ErrCIDMismatch = errors.New("storage: cid mismatch")
	ErrImmutable   = errors.New("storage: immutable block mismatch")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func IsCIDMismatch(err error) bool { return errors.Is(err, ErrCIDMismatch) }
