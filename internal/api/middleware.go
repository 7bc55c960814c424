package api

import (
	"strings"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/Ruturaj-007/video-platform-api/internal/controller"
	"github.com/Ruturaj-007/video-platform-api/internal/service"
)

const bearerPrefix = "Bearer "

// AccessTokenMiddleware resolves the current user from the access-token
// cookie, falling back to an Authorization bearer header, and stores the
// user in the echo context. Requests without a verifiable token get 401
// via the central error handler.
func AccessTokenMiddleware(authService *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ""
			if cookie, err := c.Cookie(controller.AccessTokenCookie); err == nil {
				token = cookie.Value
			}
			if token == "" {
				header := c.Request().Header.Get(echo.HeaderAuthorization)
				if strings.HasPrefix(header, bearerPrefix) {
					token = strings.TrimPrefix(header, bearerPrefix)
				}
			}
			if token == "" {
				return service.ErrUnauthorized
			}

			user, err := authService.VerifyAccess(c.Request().Context(), token)
			if err != nil {
				return err
			}

			c.Set(controller.CurrentUserKey, user)
			return next(c)
		}
	}
}

func GetLoggerMiddlewareConfig(a *API) echomiddleware.RequestLoggerConfig {
	return echomiddleware.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogError:  true,

		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", c.Request().Method,
				"uri", v.URI,
				"status", v.Status,
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
				a.log.Errorw("Request", fields...)
			} else {
				a.log.Infow("Request", fields...)
			}
			return nil
		},
	}
}
