package service

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidCopyright   = "INVALID_COPYRIGHT"
	CodeArtistNotFound     = "ARTIST_NOT_FOUND"
	CodeArtistExists       = "ARTIST_EXISTS"
	CodePercentageMismatch = "COPYRIGHT_PERCENTAGE_ERROR"
	CodeSingleNotFound     = "SINGLE_NOT_FOUND"
	CodeAlbumNotFound      = "ALBUM_NOT_FOUND"
	CodeStatNotFound       = "STAT_NOT_FOUND"
	CodeGenreExists        = "GENRE_EXISTS"
	CodeGenreNotFound      = "GENRE_NOT_FOUND"
	CodeGenreInUse         = "GENRE_IN_USE"
	CodeInternal           = "INTERNAL_ERROR"
	CodeFieldNotModifiable = "FIELD_NOT_MODIFIABLE"
)

// AppError is a client-facing failure. Two AppErrors match under errors.Is
// when their codes are equal.
type AppError struct {
	Code    string
	Message string
	Field   string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

var (
	ErrValidation         = &AppError{Code: CodeValidation, Message: "invalid request"}
	ErrInvalidCopyright   = &AppError{Code: CodeInvalidCopyright, Message: "a copyright needs either an artistId or an ownerName"}
	ErrArtistNotFound     = &AppError{Code: CodeArtistNotFound, Message: "artist not found"}
	ErrArtistExists       = &AppError{Code: CodeArtistExists, Message: "artist with this email already exists"}
	ErrPercentageMismatch = &AppError{Code: CodePercentageMismatch, Message: "copyright percentages must add up to 100"}
	ErrSingleNotFound     = &AppError{Code: CodeSingleNotFound, Message: "single not found"}
	ErrAlbumNotFound      = &AppError{Code: CodeAlbumNotFound, Message: "album not found"}
	ErrStatNotFound       = &AppError{Code: CodeStatNotFound, Message: "stat not found"}
	ErrGenreExists        = &AppError{Code: CodeGenreExists, Message: "genre already exists"}
	ErrGenreNotFound      = &AppError{Code: CodeGenreNotFound, Message: "genre not found"}
	ErrGenreInUse         = &AppError{Code: CodeGenreInUse, Message: "genre is still used by singles"}
	ErrInternal           = &AppError{Code: CodeInternal, Message: "internal server error"}
)

func fieldError(base *AppError, field, message string) *AppError {
	if message == "" {
		message = base.Message
	}
	return &AppError{Code: base.Code, Message: message, Field: field}
}

// internalError hides err behind INTERNAL_ERROR while keeping it unwrappable
// for logging.
func internalError(err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}
	return &AppError{Code: CodeInternal, Message: ErrInternal.Message, Err: err}
}

func isNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
