package middleware

import "errors"

var (
	errTokenBlacklisted = errors.New("token is blacklisted")
	errInvalidToken     = errors.New("invalid token")
)
