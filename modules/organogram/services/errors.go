package services

import (
	"github.com/go-faster/errors"
)

var (
	// ErrNotDisplayable means the hierarchy has no top post and cannot be drawn.
	ErrNotDisplayable = errors.New("organogram is not displayable")
	ErrInvalidVintage = errors.New("invalid vintage")
	ErrNilInput       = errors.New("nil input")
)
