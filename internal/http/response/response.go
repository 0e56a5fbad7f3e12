// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков.
//
// Успешный ответ: {status_code, message, data, meta?}.
// Ответ с ошибкой: {status_code, message}.
package response

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"
)

// Стандартные сообщения об ошибках.
const (
	MsgInternalError  = "Internal Server Error"
	MsgInvalidBody    = "Invalid request body"
	MsgInvalidToken   = "Invalid or expired token"
	MsgNotFound       = "Not Found"
	MsgValidationFail = "Validation failed"
)

// Response описывает стандартную структуру успешного JSON‑ответа.
type Response struct {
	StatusCode int    `json:"status_code" example:"200"`
	Message    string `json:"message" example:"OK"`
	Data       any    `json:"data"`
	Meta       any    `json:"meta,omitempty"`
}

// ErrorResponse - структура ответа с ошибкой.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	StatusCode int    `json:"status_code" example:"400"`
	Message    string `json:"message" example:"Invalid request body"`
}

// OK возвращает успешный Response.
func OK(status int, message string, data any) Response {
	return Response{
		StatusCode: status,
		Message:    message,
		Data:       data,
	}
}

// Error возвращает ErrorResponse с переданными кодом и сообщением.
func Error(status int, message string) ErrorResponse {
	return ErrorResponse{
		StatusCode: status,
		Message:    message,
	}
}

// Success пишет успешный ответ. meta добавляется, только если передан.
func Success(w http.ResponseWriter, r *http.Request, status int, message string, data any, meta ...any) {
	resp := OK(status, message, data)
	if len(meta) > 0 {
		resp.Meta = meta[0]
	}
	render.Status(r, status)
	render.JSON(w, r, resp)
}

// Fail пишет ответ с ошибкой.
func Fail(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, Error(status, message))
}

// InternalError пишет 500 с общим сообщением, детали остаются в логах.
func InternalError(w http.ResponseWriter, r *http.Request) {
	Fail(w, r, http.StatusInternalServerError, MsgInternalError)
}

// ErrEmptyBody возвращается DecodeJSON для пустого тела запроса.
var ErrEmptyBody = errors.New("request body is empty")

// DecodeJSON разбирает тело запроса в v.
func DecodeJSON(r *http.Request, v any) error {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return err
	}
	return nil
}

// NewValidator создает валидатор, который называет поля по json-тегам.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	if err := v.RegisterValidation("maxbytes", maxBytes); err != nil {
		panic(err)
	}
	return v
}

// maxBytes ограничивает длину строки в байтах, а не в символах.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

// Validate проверяет структуру и при ошибке пишет 422.
// Возвращает false, если ответ уже записан.
func Validate(w http.ResponseWriter, r *http.Request, v *validator.Validate, req any) bool {
	err := v.Struct(req)
	if err == nil {
		return true
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		Fail(w, r, http.StatusUnprocessableEntity, MsgValidationFail)
		return false
	}
	render.Status(r, http.StatusUnprocessableEntity)
	render.JSON(w, r, ValidationError(errs))
	return false
}

// ValidationError формирует ответ 422 по первому нарушению в виде "<поле> <причина>".
func ValidationError(errs validator.ValidationErrors) ErrorResponse {
	if len(errs) == 0 {
		return Error(http.StatusUnprocessableEntity, MsgValidationFail)
	}
	return Error(http.StatusUnprocessableEntity, errs[0].Field()+" "+reason(errs[0]))
}

func reason(err validator.FieldError) string {
	switch err.ActualTag() {
	case "required":
		return "field required"
	case "email":
		return "value is not a valid email address"
	case "min":
		return fmt.Sprintf("should have at least %s characters", err.Param())
	case "max":
		return fmt.Sprintf("should have at most %s characters", err.Param())
	case "maxbytes":
		return fmt.Sprintf("must be at most %s bytes", err.Param())
	default:
		return "is not valid"
	}
}
