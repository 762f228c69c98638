package api

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/abhisek/syncrate/internal/logger"
	"github.com/abhisek/syncrate/internal/profile"
	"github.com/abhisek/syncrate/internal/store"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeInvalidInput = "INVALID_INPUT"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeHTTP         = "HTTP_ERROR"
	CodeInternal     = "INTERNAL_ERROR"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// inputError is a client mistake the handler has already described.
type inputError struct {
	msg string
}

func (e *inputError) Error() string { return e.msg }

func badRequest(msg string) error {
	return &inputError{msg: msg}
}

// ErrorHandler renders handler errors as ErrorResponse bodies.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		log := logger.Get()

		var in *inputError
		var fe *fiber.Error
		switch {
		case errors.As(err, &in):
			return reply(c, http.StatusBadRequest, CodeInvalidInput, in.msg)
		case errors.Is(err, profile.ErrInvalidName):
			return reply(c, http.StatusBadRequest, CodeInvalidInput, err.Error())
		case errors.Is(err, store.ErrNotFound):
			return reply(c, http.StatusNotFound, CodeNotFound, err.Error())
		case errors.Is(err, profile.ErrDuplicateName), errors.Is(err, store.ErrConflict):
			return reply(c, http.StatusConflict, CodeConflict, err.Error())
		case errors.As(err, &fe):
			log.Warn("fiber error", zap.Int("code", fe.Code), zap.String("message", fe.Message))
			return reply(c, fe.Code, CodeHTTP, fe.Message)
		}

		log.Error("unhandled API error", zap.String("path", c.Path()), zap.Error(err))
		return reply(c, http.StatusInternalServerError, CodeInternal, "internal server error")
	}
}

func reply(c *fiber.Ctx, status int, code, msg string) error {
	return c.Status(status).JSON(ErrorResponse{Code: code, Message: msg, Status: status})
}
