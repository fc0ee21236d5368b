// Package apperr define los tipos de error de dominio compartidos por todos los módulos.
// Cada handler traduce estos errores al mismo sobre JSON; el texto del mensaje es lo que ve el cliente.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation       Kind = "validation_error"
	KindPermissionDenied Kind = "permission_denied"
	KindNotFound         Kind = "not_found"
	KindInvalidState     Kind = "invalid_state_transition"
	KindDuplicate        Kind = "duplicate_entry"
	KindAuthRequired     Kind = "authentication_required"
)

type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return string(e.Kind)
	}
	return e.Msg
}

// Is permite errors.Is(err, apperr.ErrNotFound) contra cualquier mensaje del mismo kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Msg == "" || t.Msg == e.Msg)
}

// Sentinels (sin mensaje) para comparar con errors.Is.
var (
	ErrValidation       = &Error{Kind: KindValidation}
	ErrPermissionDenied = &Error{Kind: KindPermissionDenied}
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrInvalidState     = &Error{Kind: KindInvalidState}
	ErrDuplicate        = &Error{Kind: KindDuplicate}
	ErrAuthRequired     = &Error{Kind: KindAuthRequired}
)

func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func PermissionDenied(format string, args ...any) error {
	return &Error{Kind: KindPermissionDenied, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func InvalidState(format string, args ...any) error {
	return &Error{Kind: KindInvalidState, Msg: fmt.Sprintf(format, args...)}
}

func Duplicate(format string, args ...any) error {
	return &Error{Kind: KindDuplicate, Msg: fmt.Sprintf(format, args...)}
}

func AuthRequired() error {
	return &Error{Kind: KindAuthRequired, Msg: "Authentication required"}
}

// KindOf devuelve el kind del primer *Error en la cadena, o "" si no es un error de dominio.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
