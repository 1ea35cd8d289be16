package assessments

import (
	"errors"
	"net/http"

	"credit-backend/internal/bureaus"
	"credit-backend/internal/llm"
	"credit-backend/internal/profiles"
	"credit-backend/internal/scoring"
	"credit-backend/internal/shared/storage/object"
)

var (
	ErrInvalidInput   = errors.New("invalid assessment request")
	ErrReportNotFound = errors.New("report not found")
	// ErrLLM marks transport failures talking to the model.
	ErrLLM = llm.ErrTransport
)

// Classify maps a service error to an HTTP status and error code. ok is
// false for errors this package does not recognize.
func Classify(err error) (status int, code string, ok bool) {
	switch {
	case err == nil:
		return 0, "", false
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, profiles.ErrInvalidAadhaar),
		errors.Is(err, profiles.ErrInvalidPAN),
		errors.Is(err, scoring.ErrUnknownVariant),
		errors.Is(err, object.ErrInvalidKey):
		return http.StatusBadRequest, "validation_error", true
	case errors.Is(err, scoring.ErrScoreOutOfRange),
		errors.Is(err, scoring.ErrDegenerateRange),
		errors.Is(err, scoring.ErrNoScores):
		return http.StatusUnprocessableEntity, "score_out_of_range", true
	case errors.Is(err, ErrReportNotFound):
		return http.StatusNotFound, "not_found", true
	case errors.Is(err, bureaus.ErrBureauUnavailable):
		return http.StatusServiceUnavailable, "bureau_unavailable", true
	case errors.Is(err, llm.ErrNotConfigured):
		return http.StatusServiceUnavailable, "llm_not_configured", true
	case errors.Is(err, llm.ErrMalformedResponse):
		return http.StatusBadGateway, "malformed_ai_response", true
	case errors.Is(err, ErrLLM):
		return http.StatusBadGateway, "llm_error", true
	default:
		return 0, "", false
	}
}
