package rest

import "net/http"

// HTTPError carries a status code alongside a standard message.
type HTTPError struct {
	Code    int
	Message Message
}

func (e HTTPError) Error() string { return string(e.Message) }

func BadRequest() HTTPError      { return HTTPError{Code: http.StatusBadRequest, Message: "invalid request body"} }
func Unauthorized() HTTPError    { return HTTPError{Code: http.StatusUnauthorized, Message: MsgUnauthorized} }
func NotFound() HTTPError        { return HTTPError{Code: http.StatusNotFound, Message: MsgNotFound} }
func InternalServer() HTTPError  { return HTTPError{Code: http.StatusInternalServerError, Message: MsgInternalError} }
