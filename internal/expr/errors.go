package expr

import "errors"

var (
	ErrEmpty             = errors.New("empty expression")
	ErrSyntax            = errors.New("syntax error")
	ErrUnknownIdentifier = errors.New("unknown identifier")
	ErrNonFinite         = errors.New("non-finite result")
)
