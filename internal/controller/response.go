package controller

import "github.com/labstack/echo/v4"

// Response is the envelope every endpoint answers with, success or failure.
type Response struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data,omitempty"`
}

func respond(ctx echo.Context, status int, message string, data any) error {
	return ctx.JSON(status, Response{
		Success:    status < 400,
		StatusCode: status,
		Message:    message,
		Data:       data,
	})
}
