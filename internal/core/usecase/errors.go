package usecase

import "errors"

var (
	// ErrInvalidCredentials covers unknown usernames and wrong
	// passwords alike, so login failures don't leak which one it was.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidAmount carries the message the API exposes verbatim.
	ErrInvalidAmount = errors.New("Monto no válido")
	ErrNoRecharges   = errors.New("no recharges found for user")
)
