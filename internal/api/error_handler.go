package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Ruturaj-007/video-platform-api/internal/controller"
	"github.com/Ruturaj-007/video-platform-api/internal/service"
	"github.com/Ruturaj-007/video-platform-api/internal/storage"
)

// errorKinds maps each sentinel kind the services return to its HTTP status.
// The sentinel message is what the client sees; wrapped causes stay in logs.
var errorKinds = []struct {
	err    error
	status int
}{
	{service.ErrFieldsRequired, http.StatusBadRequest},
	{service.ErrIdentifierRequired, http.StatusBadRequest},
	{service.ErrAvatarRequired, http.StatusBadRequest},
	{storage.ErrUserExists, http.StatusConflict},
	{storage.ErrUserNotFound, http.StatusNotFound},
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrUnauthorized, http.StatusUnauthorized},
	{service.ErrTokenExpired, http.StatusUnauthorized},
	{service.ErrTokenInvalid, http.StatusUnauthorized},
	{service.ErrTokenMalformed, http.StatusUnauthorized},
	{service.ErrUploadFailed, http.StatusInternalServerError},
}

// ErrorHandler converts every error escaping a handler into the response
// envelope. Nothing propagates to the transport layer unhandled, and 5xx
// details are logged, never echoed.
func ErrorHandler(log *zap.SugaredLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, message := classify(err)

		if status >= http.StatusInternalServerError {
			log.Errorw("request failed", "error", err, "uri", c.Request().RequestURI)
		}

		if jsonErr := c.JSON(status, controller.Response{
			Success:    false,
			StatusCode: status,
			Message:    message,
		}); jsonErr != nil {
			log.Errorw("failed to write json response", "error", jsonErr)
		}
	}
}

func classify(err error) (int, string) {
	for _, kind := range errorKinds {
		if errors.Is(err, kind.err) {
			return kind.status, kind.err.Error()
		}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	return http.StatusInternalServerError, "internal server error"
}
