package employee

import "errors"

var (
	ErrInvalidID               = errors.New("employee: invalid id")
	ErrInvalidFullName         = errors.New("employee: invalid full name")
	ErrInvalidEmail            = errors.New("employee: invalid email")
	ErrInvalidPassportNumber   = errors.New("employee: invalid passport number")
	ErrInvalidPageSize         = errors.New("employee: invalid page size")
	ErrInvalidPageToken        = errors.New("employee: invalid page token")
	ErrInvalidActor            = errors.New("employee: invalid actor")
	ErrEmployeeNotFound        = errors.New("employee: not found")
	ErrPassportAlreadyExists   = errors.New("employee: passport number already exists")
	ErrVersionConflict         = errors.New("employee: version conflict")
	ErrForbidden               = errors.New("employee: forbidden")
	ErrDocumentRequired        = errors.New("employee: required document missing")
	ErrStepAlreadyRecorded     = errors.New("employee: step event already recorded")
	ErrNotificationUndelivered = errors.New("employee: notification dispatch failed")
)
