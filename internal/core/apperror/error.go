// Package apperror defines the ledger's error codes. Every error a client can
// act on (a bad scan, a duplicate chassis, a sale in the wrong state) is an
// *AppError; anything else surfaces as INTERNAL_ERROR.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	// 5xx
	CodeInternal = "INTERNAL_ERROR"
	CodeDatabase = "DATABASE_ERROR"

	// 400 and 422
	CodeValidation      = "VALIDATION_ERROR"
	CodeVehicleMismatch = "VEHICLE_MISMATCH"

	// 404
	CodeNotFound        = "NOT_FOUND"
	CodeChassisNotFound = "CHASSIS_NOT_FOUND"

	// 409
	CodeConflict             = "CONFLICT"
	CodeDuplicate            = "DUPLICATE_ENTRY"
	CodeDuplicateChassis     = "DUPLICATE_CHASSIS"
	CodeVehicleAlreadyLinked = "VEHICLE_ALREADY_LINKED"
	CodeInvalidTransition    = "INVALID_TRANSITION"
)

// AppError is rendered to clients as {code, message, details}. Err stays
// server-side and is only logged.
type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
	HTTPStatus int            `json:"-"`
	Err        error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail sets one details entry.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause attaches the server-side cause.
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// NewValidation reports a malformed or incomplete request.
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFound reports a missing branch, sale, mapping or load.
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewChassisNotFound is returned when a scanned chassis number is not in the ledger.
// Operators usually recover by re-scanning.
func NewChassisNotFound(chassisNo string) *AppError {
	return &AppError{
		Code:       CodeChassisNotFound,
		Message:    fmt.Sprintf("Chassis %s not found in inventory", chassisNo),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"chassis_no": chassisNo},
	}
}

// NewVehicleMismatch reports a scanned vehicle whose model/variant/color differs from the sale.
func NewVehicleMismatch(requested, scanned map[string]string) *AppError {
	return &AppError{
		Code: CodeVehicleMismatch,
		Message: fmt.Sprintf("Vehicle mismatch: sale requested %s, scanned vehicle is %s",
			describe(requested), describe(scanned)),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"requested": requested, "scanned": scanned},
	}
}

func describe(fields map[string]string) string {
	parts := make([]string, 0, 3)
	for _, k := range []string{"model", "variant", "color"} {
		if v, ok := fields[k]; ok {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " / ")
}

// NewInternal hides err behind a generic message.
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewDatabase wraps an unexpected storage failure.
func NewDatabase(op string, err error) *AppError {
	return &AppError{
		Code:       CodeDatabase,
		Message:    fmt.Sprintf("database error during %s", op),
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewConflict reports a state clash that is not a duplicate key.
func NewConflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewDuplicate reports a unique key that is already taken.
func NewDuplicate(entity, field, value string) *AppError {
	return &AppError{
		Code:       CodeDuplicate,
		Message:    fmt.Sprintf("%s with this %s already exists", entity, field),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "field": field, "value": value},
	}
}

// NewDuplicateChassis lists chassis numbers that already exist in the ledger.
func NewDuplicateChassis(chassis []string) *AppError {
	return &AppError{
		Code:       CodeDuplicateChassis,
		Message:    fmt.Sprintf("Chassis already in inventory: %s", strings.Join(chassis, ", ")),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"chassis_no": chassis},
	}
}

// NewVehicleAlreadyLinked reports a vehicle that is bound to another sale.
func NewVehicleAlreadyLinked(chassisNo, status string, saleID *int64) *AppError {
	e := &AppError{
		Code:       CodeVehicleAlreadyLinked,
		Message:    fmt.Sprintf("Vehicle %s is not available (status: %s)", chassisNo, status),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"chassis_no": chassisNo, "status": status},
	}
	if saleID != nil {
		e.Message = fmt.Sprintf("Vehicle %s is already linked to sale %d (status: %s)", chassisNo, *saleID, status)
		e.Details["sale_id"] = *saleID
	}
	return e
}

// NewInvalidTransition reports a state change the workflow does not allow.
func NewInvalidTransition(entity string, from, to any) *AppError {
	return &AppError{
		Code:       CodeInvalidTransition,
		Message:    fmt.Sprintf("%s cannot move from %v to %v", entity, from, to),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "from": fmt.Sprint(from), "to": fmt.Sprint(to)},
	}
}

func IsAppError(err error) bool {
	_, ok := AsAppError(err)
	return ok
}

// AsAppError finds the first *AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus is the status err renders with; 500 for plain errors.
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// IsNotFound checks for any not-found code.
func IsNotFound(err error) bool {
	return GetHTTPStatus(err) == http.StatusNotFound && IsAppError(err)
}

// IsConflict checks for any conflict code.
func IsConflict(err error) bool {
	return GetHTTPStatus(err) == http.StatusConflict && IsAppError(err)
}

// IsValidation checks for validation and mismatch codes.
func IsValidation(err error) bool {
	return Is(err, CodeValidation) || Is(err, CodeVehicleMismatch)
}
