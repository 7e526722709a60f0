package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/example/omnipath/internal/crowd"
	"github.com/example/omnipath/internal/karma"
	"github.com/example/omnipath/internal/payments"
	"github.com/example/omnipath/internal/pooling"
	"github.com/example/omnipath/internal/routesvc"
	"github.com/example/omnipath/internal/sos"
	"github.com/example/omnipath/internal/stations"
	"github.com/example/omnipath/internal/weather"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeOK wraps the payload in the {"success": true, ...} envelope.
func writeOK(w http.ResponseWriter, fields map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

// writeError maps a domain error onto the {error, message} body and the
// conventional status code: validation and business-rule violations are
// 400, unknown entities are 404, everything else is 500.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]any{
		"error":   errorLabel(err),
		"message": err.Error(),
	})
}

func statusFor(err error) int {
	var ve *pooling.ValidationError
	switch {
	case errors.As(err, &ve),
		errors.Is(err, pooling.ErrPoolFull),
		errors.Is(err, pooling.ErrAlreadyMember),
		errors.Is(err, pooling.ErrNotAMember),
		errors.Is(err, pooling.ErrInvalidTransition),
		errors.Is(err, crowd.ErrMissingStation),
		errors.Is(err, crowd.ErrMissingCrowd),
		errors.Is(err, weather.ErrMissingFields),
		errors.Is(err, sos.ErrMissingFields),
		errors.Is(err, karma.ErrMissingFields),
		errors.Is(err, karma.ErrInsufficientPoints),
		errors.Is(err, payments.ErrMissingFields),
		errors.Is(err, payments.ErrPaymentExpired),
		errors.Is(err, payments.ErrDeclined),
		errors.Is(err, routesvc.ErrMissingEndpoints),
		errors.Is(err, stations.ErrInvalidVote):
		return http.StatusBadRequest
	case errors.Is(err, pooling.ErrPoolNotFound),
		errors.Is(err, sos.ErrCaseNotFound),
		errors.Is(err, karma.ErrRewardNotFound),
		errors.Is(err, payments.ErrPaymentNotFound),
		errors.Is(err, stations.ErrStationNotFound),
		errors.Is(err, stations.ErrAmenityNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func errorLabel(err error) string {
	switch statusFor(err) {
	case http.StatusBadRequest:
		return "Bad request"
	case http.StatusNotFound:
		return "Not found"
	default:
		return "Internal server error"
	}
}

func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
