package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/logistics-id/signalhub/internal/validate"
)

// Context bundles a request/response pair, matching the teacher's
// transport/rest.Context shape. Bind validates with a new
// validate.Validator on each call.
type Context struct {
	context.Context

	Response http.ResponseWriter
	Request  *http.Request
}

// Bind decodes the JSON request body into v and validates it.
func (c *Context) Bind(v any) error {
	if c.Request.ContentLength > 0 {
		if err := json.NewDecoder(c.Request.Body).Decode(v); err != nil {
			return BadRequest()
		}
	}

	if vr, ok := v.(validate.Request); ok {
		if resp := validate.New().Request(vr); !resp.Valid {
			return resp
		}
		return nil
	}
	if resp := validate.New().Struct(v); !resp.Valid {
		return resp
	}
	return nil
}

func (c *Context) JSON(code int, body any) error {
	c.Response.Header().Set("Content-Type", "application/json")
	c.Response.WriteHeader(code)
	return json.NewEncoder(c.Response).Encode(body)
}

// Error writes a standard error response for err, matching it against
// the known error shapes (HTTPError, *validate.Response) before falling
// back to a generic 500.
func (c *Context) Error(err error) error {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return c.JSON(httpErr.Code, ResponseBody{Success: false, Message: string(httpErr.Message)})
	}

	var validationErr *validate.Response
	if errors.As(err, &validationErr) {
		return c.JSON(http.StatusUnprocessableEntity, ResponseBody{
			Success: false,
			Message: string(MsgValidationError),
			Errors:  validationErr.GetMessages(),
		})
	}

	return c.JSON(http.StatusInternalServerError, ResponseBody{Success: false, Message: string(MsgInternalError), Errors: err.Error()})
}

// Respond writes a 200 success envelope around data, or delegates to
// Error when err is non-nil.
func (c *Context) Respond(data any, err error) error {
	if err != nil {
		return c.Error(err)
	}
	return c.JSON(http.StatusOK, ResponseBody{Success: true, Message: string(MsgSuccess), Data: data})
}

func (c *Context) Param(key string) string {
	return mux.Vars(c.Request)[key]
}
