package main

import "errors"

// Intent rejection classes. None of these are surfaced to other clients.
var (
	ErrMalformedIntent = errors.New("malformed intent")
	ErrUnknownIdentity = errors.New("unknown identity")
	ErrNotFound        = errors.New("not found")
	ErrIllegalInState  = errors.New("illegal in current state")
	ErrBlocked         = errors.New("movement blocked")
)
