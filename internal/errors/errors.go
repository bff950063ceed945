package errors

import (
	"fmt"
)

type Fields map[string]interface{}

// APIError is the error contract returned by request handlers and service
// operations. It carries a stable numeric code, a user-facing message and an
// expected HTTP status so the transport layer can format a response without
// knowing which operation failed.
type APIError interface {
	error
	Code() int
	Message() string
	ExpectedHTTPStatus() int
	GetFields() Fields
	SetDetail(format string, args ...interface{}) APIError
	SetFields(f Fields) APIError
	WithHTTPStatus(s int) APIError
}

type apiError struct {
	message            string
	code               int
	expectedHTTPStatus int
	fields             Fields
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%s [%d]", e.message, e.code)
}

func (e *apiError) Message() string {
	return e.message
}

func (e *apiError) Code() int {
	return e.code
}

func (e *apiError) ExpectedHTTPStatus() int {
	return e.expectedHTTPStatus
}

func (e *apiError) GetFields() Fields {
	return e.fields
}

func (e *apiError) SetDetail(format string, args ...interface{}) APIError {
	e.message = fmt.Sprintf("%s: %s", e.message, fmt.Sprintf(format, args...))

	return e
}

func (e *apiError) SetFields(f Fields) APIError {
	e.fields = f

	return e
}

func (e *apiError) WithHTTPStatus(s int) APIError {
	e.expectedHTTPStatus = s

	return e
}

func def(message string, code int, httpStatus int) func() APIError {
	return func() APIError {
		return &apiError{
			message:            message,
			code:               code,
			expectedHTTPStatus: httpStatus,
			fields:             Fields{},
		}
	}
}

// From promotes a plain error to an APIError. An error that already is an
// APIError passes through unchanged.
func From(err error) APIError {
	switch e := err.(type) {
	case APIError:
		return e
	default:
		return ErrInternalServerError().SetDetail(err.Error())
	}
}

// Generic (10xxx)
var (
	ErrUnauthorized        = def("Authentication Required", 10401, 401)
	ErrInsufficientAccess  = def("Insufficient Access", 10403, 403)
	ErrUnknownRoute        = def("Unknown Route", 10404, 404)
	ErrInvalidRequest      = def("Invalid Request", 10410, 400)
	ErrEmptyField          = def("Empty Field", 10411, 400)
	ErrBadObjectID         = def("Bad Object ID", 10412, 400)
	ErrInternalServerError = def("Internal Server Error", 10500, 500)
)

// Trips (20xxx)
var (
	ErrUnknownTrip       = def("Unknown Trip", 20404, 404)
	ErrTripEditConflict  = def("Trip Edit Failed", 20409, 409)
	ErrPresenceWriteFail = def("Presence Update Failed", 20500, 500)
)
