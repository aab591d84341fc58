package error

import "net/http"

// GenericError is implemented by every typed REST-facing error so the
// recovery middleware can map it onto a status code and error code.
type GenericError interface {
	Error() string
	ErrCode() string
	StatusCode() int
}

type ValidationError string

func (err ValidationError) Error() string {
	return string(err)
}

func (err ValidationError) ErrCode() string {
	return "VALIDATION_ERROR"
}

func (err ValidationError) StatusCode() int {
	return http.StatusBadRequest
}

type NotFoundError string

func (err NotFoundError) Error() string {
	return string(err)
}

func (err NotFoundError) ErrCode() string {
	return "NOT_FOUND_ERROR"
}

func (err NotFoundError) StatusCode() int {
	return http.StatusNotFound
}

type WorkspaceUnavailableError string

func (err WorkspaceUnavailableError) Error() string {
	return string(err)
}

func (err WorkspaceUnavailableError) ErrCode() string {
	return "WORKSPACE_UNAVAILABLE"
}

func (err WorkspaceUnavailableError) StatusCode() int {
	return http.StatusForbidden
}

type StorageError string

func (err StorageError) Error() string {
	return string(err)
}

func (err StorageError) ErrCode() string {
	return "STORAGE_ERROR"
}

func (err StorageError) StatusCode() int {
	return http.StatusInternalServerError
}
