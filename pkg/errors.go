package pkg

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// ExposeErrorDetails copies the underlying error text into ErrorResponse.Details.
// Off unless the service is configured with APP_EXPOSE_ERROR_DETAILS.
var ExposeErrorDetails = false

// Reusable errors
var (
	SqlErrForeignKeyViolation = errors.New("foreign key violation")
	SqlErrUniqueViolation     = errors.New("unique violation")
	SqlError                  = errors.New("sql error")
)

// PostgreSQL error codes the API maps to client errors.
const (
	PgUniqueViolation        = "23505"
	PgForeignKeyViolation    = "23503"
	PgCheckViolation         = "23514"
	PgNotNullViolation       = "23502"
	PgInvalidTextRepr        = "22P02"
	PgStringDataTruncation   = "22001"
	PgNumericValueOutOfRange = "22003"
)

// ErrorCode defines a standardized error code
type ErrorCode struct {
	Code    string
	Status  int
	Message string // default message
}

var (
	// Generic app
	ErrInvalidInputCode   = ErrorCode{Code: "APP_INVALID_INPUT", Status: http.StatusBadRequest, Message: "invalid input"}
	ErrServerCode         = ErrorCode{Code: "APP_INTERNAL", Status: http.StatusInternalServerError, Message: "internal server error"}
	ErrRecordNotFoundCode = ErrorCode{Code: "APP_NOT_FOUND", Status: http.StatusNotFound, Message: "record not found"}

	// SQL layer
	ErrSQLUnknownCode   = ErrorCode{Code: "SQL_UNKNOWN", Status: http.StatusInternalServerError, Message: "sql error"}
	ErrSQLConflictCode  = ErrorCode{Code: "SQL_CONFLICT", Status: http.StatusConflict, Message: "sql conflict"}
	ErrSQLDuplicateCode = ErrorCode{Code: "SQL_DUPLICATE", Status: http.StatusConflict, Message: "duplicate record"}
	ErrSQLInvalidInput  = ErrorCode{Code: "SQL_INVALID_INPUT", Status: http.StatusBadRequest, Message: "invalid input"}
)

type AppError struct {
	Code    ErrorCode
	Message string // public-facing message
	Cause   error  // internal cause (wrapped)
}

func (e AppError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}
func (e AppError) Unwrap() error { return e.Cause }

func NewAppError(code ErrorCode, msg string, cause error) error {
	if msg == "" {
		msg = code.Message
	}
	return AppError{Code: code, Message: msg, Cause: cause}
}

// NewNotFoundError reports a missing entity, e.g. "customer not found".
func NewNotFoundError(entity string, cause error) error {
	return NewAppError(ErrRecordNotFoundCode, entity+" not found", cause)
}

// NewInvalidInputError reports a request that failed binding or validation.
func NewInvalidInputError(msg string, cause error) error {
	return NewAppError(ErrInvalidInputCode, msg, cause)
}

// IsNotFound reports whether err carries the not-found code.
func IsNotFound(err error) bool {
	var appErr AppError
	return errors.As(err, &appErr) && appErr.Code.Code == ErrRecordNotFoundCode.Code
}

// ErrorResponse defines the standardized error response format.
// The message is always carried under the "error" key.
type ErrorResponse struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ToErrorResponse converts an error into an ErrorResponse, logging details and optionally exposing error messages.
// If the error is not an AppError, it is converted to a generic 500 error.
func ToErrorResponse(logger *zap.Logger, traceID string, err error) ErrorResponse {
	var appErr AppError
	if errors.As(err, &appErr) {
		resp := ErrorResponse{
			Status:  appErr.Code.Status,
			Code:    appErr.Code.Code,
			Message: appErr.Message,
		}
		if appErr.Code.Status >= http.StatusInternalServerError {
			logger.Error("application error", zap.String(TraceId, traceID), zap.Error(err))
		} else {
			logger.Info("request rejected", zap.String(TraceId, traceID), zap.String("code", appErr.Code.Code), zap.Error(err))
		}
		if ExposeErrorDetails {
			resp.Details = err.Error()
		}
		return resp
	}
	// Unknown error : 500
	resp := ErrorResponse{
		Status:  ErrServerCode.Status,
		Code:    ErrServerCode.Code,
		Message: ErrServerCode.Message,
	}
	logger.Error("application error", zap.String(TraceId, traceID), zap.Error(err))
	if ExposeErrorDetails {
		resp.Details = err.Error()
	}
	return resp
}

// HandleSQLError maps pg errors -> AppError with proper codes/status.
// entity names the resource in the not-found message.
func HandleSQLError(traceId string, logger *zap.Logger, entity string, err error) error {
	var appErr AppError
	if errors.As(err, &appErr) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.Is(err, pgx.ErrNoRows) {
		logger.Debug("sql error : no records found", zap.String(TraceId, traceId), zap.String("entity", entity))
		return NewNotFoundError(entity, err)
	}
	if !errors.As(err, &pgErr) {
		logger.Error("sql error : unknown", zap.String(TraceId, traceId), zap.Error(err))
		return NewAppError(ErrSQLUnknownCode, "sql error", err)
	}

	// Log rich pg error context
	logger.Warn("sql error",
		zap.String(TraceId, traceId),
		zap.String("code", pgErr.Code),
		zap.String("message", pgErr.Message),
		zap.String("detail", pgErr.Detail),
		zap.String("table", pgErr.TableName),
		zap.String("constraint", pgErr.ConstraintName),
	)

	switch pgErr.Code {
	case PgUniqueViolation:
		return NewAppError(ErrSQLDuplicateCode, fmt.Sprintf("%s already exists", entity), errors.Join(SqlErrUniqueViolation, err))
	case PgForeignKeyViolation:
		return NewAppError(ErrSQLConflictCode, foreignKeyMessage(entity, pgErr), errors.Join(SqlErrForeignKeyViolation, err))
	case PgInvalidTextRepr:
		return NewAppError(ErrSQLInvalidInput, "invalid input syntax", errors.Join(SqlError, err))
	case PgStringDataTruncation:
		return NewAppError(ErrSQLInvalidInput, "value too long for column", errors.Join(SqlError, err))
	case PgNumericValueOutOfRange:
		return NewAppError(ErrSQLInvalidInput, "numeric value out of range", errors.Join(SqlError, err))
	case PgCheckViolation, PgNotNullViolation:
		return NewAppError(ErrSQLInvalidInput, "value violates constraint", errors.Join(SqlError, err))
	default:
		return NewAppError(ErrSQLUnknownCode, "sql error", errors.Join(SqlError, err))
	}
}

// foreignKeyMessage distinguishes a write that points at a missing parent
// from a delete that is blocked by dependent rows.
func foreignKeyMessage(entity string, pgErr *pgconn.PgError) string {
	if pgErr.TableName != "" && isDependentTable(entity, pgErr.TableName) {
		return fmt.Sprintf("%s is still referenced by %s", entity, pgErr.TableName)
	}
	return fmt.Sprintf("%s references a record that does not exist", entity)
}

// isDependentTable reports whether table holds rows that point at entity.
func isDependentTable(entity, table string) bool {
	switch entity {
	case EntityCustomer:
		return table == "orders" || table == "customer_accounts"
	case EntityProduct:
		return table == "order_products"
	}
	return false
}
