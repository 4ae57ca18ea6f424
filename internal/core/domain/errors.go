package domain

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	// Нет ответа от сервиса бронирования или таймаут
	ErrorKindNetworkFailure ErrorKind = "network_failure"
	// Сервис ответил 4xx/5xx с сообщением
	ErrorKindServerRejection ErrorKind = "server_rejection"
	// Слот заполнился между чтением и записью
	ErrorKindCapacityExceeded ErrorKind = "capacity_exceeded"
	// Некорректные критерии, до сети не доходит
	ErrorKindValidationFailure ErrorKind = "validation_failure"
)

type Error struct {
	Kind    ErrorKind
	Message string
	// HTTP статус ответа сервиса, если он был
	Status int
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func NewNetworkError(message string) *Error {
	return &Error{Kind: ErrorKindNetworkFailure, Message: message}
}

func NewServerRejectionError(status int, message string) *Error {
	return &Error{Kind: ErrorKindServerRejection, Message: message, Status: status}
}

func NewCapacityExceededError(message string) *Error {
	return &Error{Kind: ErrorKindCapacityExceeded, Message: message}
}

func NewValidationError(message string) *Error {
	return &Error{Kind: ErrorKindValidationFailure, Message: message}
}

// ErrorKindOf достает вид ошибки из цепочки оберток
func ErrorKindOf(err error) (ErrorKind, bool) {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind, true
	}
	return "", false
}

func IsErrorKind(err error, kind ErrorKind) bool {
	actual, ok := ErrorKindOf(err)
	return ok && actual == kind
}
