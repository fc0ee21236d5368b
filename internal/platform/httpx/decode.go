package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"petcare-marketplace/internal/domain/apperr"
)

const maxBodyBytes = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeJSON decodifica el body (máx 1MB). Body vacío => v queda en zero value.
func DecodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var te *json.UnmarshalTypeError
		if errors.As(err, &te) && te.Field != "" {
			return apperr.Validation("invalid value for field %s: expected %s", te.Field, te.Type.String())
		}
		return apperr.Validation("invalid json")
	}
	return nil
}

// Validate aplica los tags `validate` del payload y devuelve ValidationError.
// msg reemplaza el detalle por campo cuando el contrato exige un texto fijo.
func Validate(v any, msg string) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	if msg != "" {
		return apperr.Validation("%s", msg)
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Validation("invalid input")
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field())+" ("+fe.Tag()+")")
	}
	return apperr.Validation("invalid fields: %s", strings.Join(fields, ", "))
}
