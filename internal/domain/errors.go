package domain

import "errors"

var (
	ErrInvalidPool     = errors.New("invalid pool")
	ErrUnknownPoolKind = errors.New("unknown pool kind")
	ErrInvalidRoute    = errors.New("invalid route")
)
