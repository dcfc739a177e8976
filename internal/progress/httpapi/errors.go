package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	cerrors "github.com/park285/stellar-mind-go/internal/common/errors"
	commonhttputil "github.com/park285/stellar-mind-go/internal/common/httputil"
	"github.com/park285/stellar-mind-go/internal/progress/service"
)

const (
	apiErrorInvalidRequest     = "INVALID_REQUEST"
	apiErrorValidation         = "VALIDATION_FAILED"
	apiErrorNotLoaded          = "PROFILE_NOT_LOADED"
	apiErrorInvariantViolation = "INVARIANT_VIOLATION"
	apiErrorRemoteTransport    = "REMOTE_TRANSPORT_FAILED"
	apiErrorRemoteMissing      = "REMOTE_DATA_MISSING"
	apiErrorMalformedPayload   = "MALFORMED_PAYLOAD"
	apiErrorTimeout            = "TIMEOUT"
	apiErrorNotFound           = "NOT_FOUND"
	apiErrorResetUnsupported   = "RESET_UNSUPPORTED"
	apiErrorInternalError      = "INTERNAL_ERROR"
)

// statusFor: 에러 분류를 HTTP 상태 코드와 API 에러 코드로 바꾼다.
func statusFor(err error) (int, string) {
	var validationErrors validator.ValidationErrors

	switch {
	case errors.As(err, &validationErrors):
		return http.StatusUnprocessableEntity, apiErrorValidation
	case errors.Is(err, service.ErrResetUnsupported):
		return http.StatusNotImplemented, apiErrorResetUnsupported
	case errors.Is(err, service.ErrProfileNotLoaded):
		return http.StatusServiceUnavailable, apiErrorNotLoaded
	case cerrors.IsInvariantViolation(err):
		return http.StatusUnprocessableEntity, apiErrorInvariantViolation
	case cerrors.IsTransportFailure(err):
		return http.StatusBadGateway, apiErrorRemoteTransport
	case cerrors.IsMissingRemoteData(err):
		return http.StatusNotFound, apiErrorRemoteMissing
	case cerrors.IsMalformedPayload(err):
		return http.StatusConflict, apiErrorMalformedPayload
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, apiErrorTimeout
	default:
		return http.StatusInternalServerError, apiErrorInternalError
	}
}

func respondError(w http.ResponseWriter, err error, logEvent string, logger *slog.Logger) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error(logEvent, "err", err, "status", status)
	} else {
		logger.Warn(logEvent, "err", err, "status", status)
	}
	_ = commonhttputil.WriteErrorJSON(w, status, code, err.Error())
}
