package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Err is the body of every failed request.
type Err struct {
	Err            error  `json:"-"`
	HTTPStatusCode int    `json:"-"`
	StatusText     string `json:"status_text"`
	ErrorText      string `json:"error_text,omitempty"`
}

func (e *Err) Error() string {
	if e.Err == nil {
		return e.StatusText
	}
	return e.Err.Error()
}

func (e *Err) Unwrap() error {
	return e.Err
}

// RenderErr aborts the request with e. Server errors are logged with their
// full chain; the client only sees the status text.
func RenderErr(ctx *gin.Context, e *Err) {
	fields := []zap.Field{
		zap.String("request_id", requestid.Get(ctx)),
		zap.String("method", ctx.Request.Method),
		zap.String("path", ctx.FullPath()),
		zap.Int("status", e.HTTPStatusCode),
		zap.Error(e.Err),
	}
	if e.HTTPStatusCode >= http.StatusInternalServerError {
		zap.L().Error("request failed", fields...)
	} else {
		zap.L().Debug("request rejected", fields...)
	}

	ctx.AbortWithStatusJSON(e.HTTPStatusCode, e)
}

func ErrBadRequest(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     http.StatusText(http.StatusBadRequest),
		ErrorText:      err.Error(),
	}
}

func ErrConflict(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusConflict,
		StatusText:     http.StatusText(http.StatusConflict),
		ErrorText:      err.Error(),
	}
}

func ErrNotFound(entity, key string, value any) *Err {
	err := fmt.Errorf("%s with %s %v not found", entity, key, value)

	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusNotFound,
		StatusText:     http.StatusText(http.StatusNotFound),
		ErrorText:      err.Error(),
	}
}

func ErrUnauthorized(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusUnauthorized,
		StatusText:     http.StatusText(http.StatusUnauthorized),
		ErrorText:      "authentication required",
	}
}

// ErrWrongCredentials never says which of email or password was wrong.
func ErrWrongCredentials(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusUnauthorized,
		StatusText:     http.StatusText(http.StatusUnauthorized),
		ErrorText:      "invalid email or password",
	}
}

func ErrPermissionDenied(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusForbidden,
		StatusText:     http.StatusText(http.StatusForbidden),
		ErrorText:      err.Error(),
	}
}

func ErrInternalServerError(err error) *Err {
	if err == nil {
		err = errors.New("unknown error")
	}

	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		StatusText:     http.StatusText(http.StatusInternalServerError),
	}
}
