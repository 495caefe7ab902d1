package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"jbovertime/models"
	"jbovertime/overtime"
)

const maxBodyBytes = 1 << 20

var requestRules = newRequestRules()

func newRequestRules() *validator.Validate {
	v := validator.New()
	if err := overtime.RegisterValidations(v); err != nil {
		panic(err)
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decode reads a JSON body into dst and validates its struct tags.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return badRequest("corpo da requisição inválido")
	}

	if err := requestRules.Struct(dst); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return badRequest(strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// fieldError converts a single validation failure into a readable message.
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " é obrigatório"
	case "email":
		return field + " deve ser um e-mail válido"
	case "clock":
		return field + " deve estar no formato HH:MM"
	case "gt":
		return fmt.Sprintf("%s deve ser maior que %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s deve ter no máximo %s caracteres", field, fe.Param())
	default:
		return fmt.Sprintf("%s inválido (%s)", field, fe.Tag())
	}
}

func idParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, badRequest("identificador inválido")
	}
	return id, nil
}

// filterFromQuery reads month, year and user_id. Values that do not parse
// are ignored.
func filterFromQuery(r *http.Request) models.OvertimeFilter {
	q := r.URL.Query()

	var filter models.OvertimeFilter
	if m, err := strconv.Atoi(q.Get("month")); err == nil {
		filter.Month = m
	}
	if y, err := strconv.Atoi(q.Get("year")); err == nil {
		filter.Year = y
	}
	if id, err := uuid.Parse(q.Get("user_id")); err == nil {
		filter.UserID = &id
	}
	return filter
}
