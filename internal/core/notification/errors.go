package notification

import "errors"

var (
	ErrInvalidID            = errors.New("notification: invalid id")
	ErrInvalidEmployeeID    = errors.New("notification: invalid employee id")
	ErrInvalidMessage       = errors.New("notification: invalid message")
	ErrInvalidSeverity      = errors.New("notification: invalid severity")
	ErrInvalidRecipient     = errors.New("notification: invalid recipient")
	ErrInvalidPageSize      = errors.New("notification: invalid page size")
	ErrInvalidPageToken     = errors.New("notification: invalid page token")
	ErrForbidden            = errors.New("notification: forbidden")
	ErrNotificationNotFound = errors.New("notification: not found")
	ErrEmployeeNotFound     = errors.New("notification: employee not found")
)
