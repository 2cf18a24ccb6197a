package models

type ErrorNotFound struct{ Message string }

func (e ErrorNotFound) Error() string { return e.Message }

type ErrorUnauthorized struct{ Message string }

func (e ErrorUnauthorized) Error() string { return e.Message }

type ErrorForbidden struct{ Message string }

func (e ErrorForbidden) Error() string { return e.Message }

type ErrorConflict struct{ Message string }

func (e ErrorConflict) Error() string { return e.Message }

type ErrorBadRequest struct{ Message string }

func (e ErrorBadRequest) Error() string { return e.Message }

type ErrorInternalServer struct{ Message string }

func (e ErrorInternalServer) Error() string { return e.Message }

var (
	ErrNotFound           = ErrorNotFound{Message: "record not found"}
	ErrInvalidCredentials = ErrorUnauthorized{Message: "invalid username or password"}
	ErrForbidden          = ErrorForbidden{Message: "you do not have access to this page"}
	ErrInvalidStatus      = ErrorBadRequest{Message: "invalid status"}
	ErrInvalidRole        = ErrorBadRequest{Message: "invalid role"}
)
