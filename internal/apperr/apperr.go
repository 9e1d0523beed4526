// Package apperr porte la taxonomie d'erreurs des moteurs : les couches
// métier renvoient un Kind, la frontière HTTP le traduit en code.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	Invalid Kind = iota + 1 // entrée malformée (id, enum, quantité)
	NotFound
	Forbidden
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func Invalidf(format string, args ...any) *Error {
	return &Error{Kind: Invalid, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: NotFound, Message: fmt.Sprintf(format, args...)}
}

func Forbiddenf(format string, args ...any) *Error {
	return &Error{Kind: Forbidden, Message: fmt.Sprintf(format, args...)}
}

// KindOf extrait le Kind d'une erreur, 0 si elle n'en porte pas
// (faute non classée, traduite en 500 à la frontière).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind teste la taxonomie à travers les wrappings %w.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
