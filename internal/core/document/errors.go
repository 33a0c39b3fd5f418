package document

import "errors"

var (
	ErrInvalidID         = errors.New("document: invalid id")
	ErrInvalidEmployeeID = errors.New("document: invalid employee id")
	ErrInvalidType       = errors.New("document: invalid type")
	ErrInvalidStatus     = errors.New("document: invalid review status")
	ErrInvalidFileName   = errors.New("document: invalid file name")
	ErrEmptyContent      = errors.New("document: empty content")
	ErrContentTooLarge   = errors.New("document: content too large")
	ErrCommentRequired   = errors.New("document: rejection requires a comment")
	ErrAlreadyReviewed   = errors.New("document: already reviewed")
	ErrForbidden         = errors.New("document: forbidden")
	ErrDocumentNotFound  = errors.New("document: not found")
	ErrEmployeeNotFound  = errors.New("document: employee not found")
)
