package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"kriyatec.com/medstore-api/pkg/shared/invoice"
)

type Error struct {
	Status  int                  `json:"status"`
	Code    string               `json:"code"`
	Message string               `json:"message"`
	Fields  []invoice.FieldError `json:"errors,omitempty"`
}

type Success struct {
	Status   int         `json:"status"`
	Data     interface{} `json:"data"`
	ErrorMsg string      `json:"error_msg"`
}

func (e *Error) Error() string {
	return e.Message
}

func EntityNotFound(m string) *Error {
	return &Error{Status: 404, Code: "entity-not-found", Message: m}
}

func BadRequest(m string) *Error {
	return &Error{Status: 400, Code: "bad-request", Message: m}
}

// InvalidInput is a 400 that lists the offending fields.
func InvalidInput(m string, fields []invoice.FieldError) *Error {
	return &Error{Status: 400, Code: "invalid-input", Message: m, Fields: fields}
}

func Conflict(m string) *Error {
	return &Error{Status: 409, Code: "conflict", Message: m}
}

func BadGateway(m string) *Error {
	return &Error{Status: 502, Code: "bad-gateway", Message: m}
}

func Unexpected(m string) *Error {
	return &Error{Status: 500, Code: "internal-server", Message: m}
}

func SuccessResponse(c *fiber.Ctx, data interface{}) error {
	return c.JSON(&Success{Status: 200, Data: data, ErrorMsg: ""})
}

func CreatedResponse(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(&Success{Status: 201, Data: data, ErrorMsg: ""})
}

// AsError maps any handler error onto the API error shape.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	var invalid *invoice.InvalidBillError
	if errors.As(err, &invalid) {
		return InvalidInput("invalid bill", invalid.Fields)
	}
	if errors.Is(err, invoice.ErrExportFailed) {
		return &Error{Status: 502, Code: "export-failed", Message: err.Error()}
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return &Error{Status: fe.Code, Code: "http-error", Message: fe.Message}
	}
	return Unexpected(err.Error())
}
