package storage

import "errors"

var (
	ErrItemNotFound = errors.New("gallery item not found")
	ErrJobNotFound  = errors.New("generation job not found")
)
