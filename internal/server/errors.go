package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	auditdomain "github.com/smallbiznis/utilitydesk/internal/audit/domain"
	authdomain "github.com/smallbiznis/utilitydesk/internal/auth/domain"
	"github.com/smallbiznis/utilitydesk/internal/authorization"
	billingdomain "github.com/smallbiznis/utilitydesk/internal/billing/domain"
	customerdomain "github.com/smallbiznis/utilitydesk/internal/customer/domain"
	meterdomain "github.com/smallbiznis/utilitydesk/internal/meter/domain"
	"github.com/smallbiznis/utilitydesk/internal/store"
	tariffdomain "github.com/smallbiznis/utilitydesk/internal/tariff/domain"
	utilitydomain "github.com/smallbiznis/utilitydesk/internal/utility/domain"
	"github.com/smallbiznis/utilitydesk/pkg/db/pagination"
)

const (
	typeValidation       = "validation_error"
	typeNotFound         = "not_found"
	typeConflict         = "conflict"
	typeStoreUnavailable = "store_unavailable"
	typeUnauthorized     = "unauthorized"
	typeForbidden        = "forbidden"
	typeRateLimited      = "rate_limited"
	typeInternal         = "internal_error"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrRateLimited    = errors.New("rate_limited")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

// bindError turns a gin binding failure into field errors.
func bindError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		out := make([]ValidationError, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			snake := toSnake(fe.Field())
			field := snakeToCamel(snake)
			out = append(out, ValidationError{
				Field:   field,
				Code:    "invalid_" + snake,
				Message: fmt.Sprintf("%s failed %s", field, fe.Tag()),
			})
		}
		return &ValidationErrors{Errors: out}
	}
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{Type: typeInternal, Code: typeInternal, Message: "internal server error"}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    typeValidation,
			Code:    vErr.Errors[0].Code,
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if kind := billingdomain.KindOf(err); kind != "" {
		return mapBillingError(kind, err)
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authorization.ErrInvalidActor),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrInvalidToken),
		errors.Is(err, authdomain.ErrTokenExpired):
		return http.StatusUnauthorized, payloadFor(typeUnauthorized, err, "unauthorized")
	case errors.Is(err, ErrForbidden),
		errors.Is(err, authorization.ErrForbidden):
		return http.StatusForbidden, payloadFor(typeForbidden, err, "forbidden")
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, payloadFor(typeRateLimited, err, "too many requests")
	case isValidationError(err):
		code := err.Error()
		return http.StatusBadRequest, errorPayload{
			Type:    typeValidation,
			Code:    code,
			Message: "validation error",
			Errors: []ValidationError{
				{Field: validationErrorField(code), Code: code, Message: "invalid value"},
			},
		}
	case isNotFoundError(err):
		return http.StatusNotFound, payloadFor(typeNotFound, err, "not found")
	case isConflictError(err):
		return http.StatusConflict, payloadFor(typeConflict, err, "conflict")
	case errors.Is(err, store.ErrUnavailable):
		return http.StatusServiceUnavailable, payloadFor(typeStoreUnavailable, store.ErrUnavailable, "store unavailable")
	default:
		return http.StatusInternalServerError, errorPayload{Type: typeInternal, Code: typeInternal, Message: "internal server error"}
	}
}

func mapBillingError(kind billingdomain.Kind, err error) (int, errorPayload) {
	code := billingdomain.CodeOf(err)
	payload := errorPayload{Type: string(kind), Code: code, Message: err.Error()}

	var missing *billingdomain.ReadingMissingError
	var inUse *billingdomain.TariffInUseError
	switch {
	case errors.As(err, &missing):
		for _, meterID := range missing.MeterIDs {
			payload.Errors = append(payload.Errors, ValidationError{
				Field:   "meterId",
				Code:    code,
				Message: fmt.Sprintf("meter %s has no reading for %s", meterID, missing.Period),
			})
		}
	case errors.As(err, &inUse):
		payload.Errors = []ValidationError{{
			Field:   "tariffId",
			Code:    code,
			Message: fmt.Sprintf("referenced by %d bill(s)", inUse.Count),
		}}
	}

	switch kind {
	case billingdomain.KindValidation:
		payload.Message = "validation error"
		if len(payload.Errors) == 0 {
			payload.Errors = []ValidationError{{Field: validationErrorField(code), Code: code, Message: "invalid value"}}
		}
		return http.StatusBadRequest, payload
	case billingdomain.KindNotFound:
		return http.StatusNotFound, payload
	case billingdomain.KindConflict:
		return http.StatusConflict, payload
	default:
		payload.Message = "store unavailable"
		return http.StatusServiceUnavailable, payload
	}
}

func payloadFor(typ string, err error, message string) errorPayload {
	code := err.Error()
	if strings.ContainsAny(code, " :") {
		code = typ
	}
	return errorPayload{Type: typ, Code: code, Message: message}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil && len(vErr.Errors) > 0 {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	for _, target := range []error{
		ErrInvalidRequest,
		pagination.ErrInvalidPageToken,
		authdomain.ErrInvalidRole,
		authdomain.ErrInvalidUsername,
		authdomain.ErrInvalidFullName,
		authdomain.ErrInvalidPassword,
		customerdomain.ErrInvalidID,
		customerdomain.ErrInvalidName,
		customerdomain.ErrInvalidType,
		customerdomain.ErrInvalidEmail,
		customerdomain.ErrInvalidPhone,
		meterdomain.ErrInvalidID,
		meterdomain.ErrInvalidCustomer,
		meterdomain.ErrInvalidUtility,
		meterdomain.ErrInvalidStatus,
		meterdomain.ErrInvalidLocation,
		meterdomain.ErrInvalidPeriod,
		meterdomain.ErrUnknownCustomer,
		meterdomain.ErrUnknownUtility,
		tariffdomain.ErrInvalidID,
		tariffdomain.ErrInvalidUtility,
		tariffdomain.ErrInvalidName,
		tariffdomain.ErrInvalidRate,
		tariffdomain.ErrInvalidMinUnits,
		tariffdomain.ErrInvalidFixedCharge,
		tariffdomain.ErrUnknownUtility,
		utilitydomain.ErrInvalidID,
		utilitydomain.ErrInvalidName,
		utilitydomain.ErrInvalidUnit,
		auditdomain.ErrInvalidAction,
		auditdomain.ErrInvalidTargetType,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, authdomain.ErrStaffNotFound),
		errors.Is(err, customerdomain.ErrNotFound),
		errors.Is(err, meterdomain.ErrNotFound),
		errors.Is(err, tariffdomain.ErrNotFound),
		errors.Is(err, utilitydomain.ErrNotFound):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, authdomain.ErrStaffExists),
		errors.Is(err, customerdomain.ErrExists),
		errors.Is(err, meterdomain.ErrExists),
		errors.Is(err, tariffdomain.ErrExists),
		errors.Is(err, utilitydomain.ErrExists):
		return true
	default:
		return false
	}
}

// classifyErrorForLog reports the response type and code for request logs.
func classifyErrorForLog(err error) (string, string) {
	_, payload := mapError(err)
	return payload.Type, payload.Code
}

func validationErrorField(code string) string {
	field, ok := strings.CutPrefix(code, "invalid_")
	if !ok {
		return ""
	}
	return snakeToCamel(field)
}

func snakeToCamel(value string) string {
	parts := strings.Split(value, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}

func toSnake(value string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range value {
		if r >= 'A' && r <= 'Z' {
			if prevLower {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			prevLower = false
			continue
		}
		b.WriteRune(r)
		prevLower = true
	}
	return b.String()
}
