// Package apperror define o erro de aplicação devolvido por serviços e handlers.
//
// Todo erro que chega na borda HTTP é convertido em *AppError; o que não for
// um AppError vira INTERNAL_ERROR com mensagem genérica.
package apperror

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeInvalidBody  = "INVALID_BODY"
	CodeBadRequest   = "BAD_REQUEST"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeRateLimited  = "RATE_LIMITED"
	CodeUnavailable  = "SERVICE_UNAVAILABLE"
	CodeInternal     = "INTERNAL_ERROR"
)

type AppError struct {
	Status  int                 `json:"status"`
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fieldErrors,omitempty"`
	Err     error               `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return e.Code + ": " + e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func New(status int, code, message string) *AppError {
	return &AppError{Status: status, Code: code, Message: message}
}

// Validation cria um 400 com erros por campo.
func Validation(fields map[string][]string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Code: CodeValidation, Message: "dados inválidos", Fields: fields}
}

// Field é o atalho para um único campo inválido.
func Field(name, message string) *AppError {
	return Validation(map[string][]string{name: {message}})
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, CodeBadRequest, message)
}

func Unauthorized(message string) *AppError {
	if message == "" {
		message = "não autenticado"
	}
	return New(http.StatusUnauthorized, CodeUnauthorized, message)
}

func Forbidden(message string) *AppError {
	if message == "" {
		message = "permissões insuficientes para acessar este recurso"
	}
	return New(http.StatusForbidden, CodeForbidden, message)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, CodeNotFound, message)
}

func Conflict(message string) *AppError {
	return New(http.StatusConflict, CodeConflict, message)
}

func TooManyRequests() *AppError {
	return New(http.StatusTooManyRequests, CodeRateLimited, "muitas tentativas, aguarde e tente novamente")
}

func Unavailable(message string, err error) *AppError {
	return &AppError{Status: http.StatusServiceUnavailable, Code: CodeUnavailable, Message: message, Err: err}
}

func Internal(err error) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Code: CodeInternal, Message: "erro interno", Err: err}
}

// From devolve o *AppError da cadeia de err ou normaliza para erro interno.
func From(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// Is reporta se err carrega um AppError com o código informado.
func Is(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// FromBinding converte erros do binding do gin (validator + json) em AppError.
func FromBinding(err error) *AppError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string][]string, len(verrs))
		for _, fe := range verrs {
			name := fe.Field()
			fields[name] = append(fields[name], message(fe))
		}
		return Validation(fields)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return New(http.StatusBadRequest, CodeInvalidBody, "corpo da requisição vazio")
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return Field(typeErr.Field, "tipo inválido")
	case errors.As(err, &syntaxErr):
		return New(http.StatusBadRequest, CodeInvalidBody, "JSON inválido")
	}
	return &AppError{Status: http.StatusBadRequest, Code: CodeInvalidBody, Message: "corpo da requisição inválido", Err: err}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "campo obrigatório"
	case "email":
		return "e-mail inválido"
	case "min":
		if fe.Kind().String() == "string" {
			return "deve ter pelo menos " + fe.Param() + " caracteres"
		}
		return "deve ser no mínimo " + fe.Param()
	case "max":
		if fe.Kind().String() == "string" {
			return "deve ter no máximo " + fe.Param() + " caracteres"
		}
		return "deve ser no máximo " + fe.Param()
	case "oneof":
		return "valor deve ser um de: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "len":
		return "deve ter " + fe.Param() + " caracteres"
	case "gtfield":
		return "deve ser posterior a " + fe.Param()
	case "cpf":
		return "CPF inválido"
	case "datetime":
		return "data inválida, use o formato " + fe.Param()
	case "gt":
		return "deve ser maior que " + fe.Param()
	}
	return "valor inválido"
}

// FieldNames lista os campos com erro em ordem; útil em logs e testes.
func (e *AppError) FieldNames() []string {
	out := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
