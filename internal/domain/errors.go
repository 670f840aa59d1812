package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrRateLimited      = errors.New("rate limited")
	ErrInvalidAccount   = errors.New("invalid steam id or profile url")
	ErrResolveFailed    = errors.New("could not resolve steam id")
	ErrUnsupportedApp   = errors.New("unsupported app id")
	ErrInventoryPrivate = errors.New("inventory is private")
	ErrInventoryEmpty   = errors.New("inventory has no items for this game")
)
