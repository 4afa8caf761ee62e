package permission

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveMutation(t *testing.T) {
	testCases := []struct {
		name    string
		res     Result
		err     error
		outcome string
	}{
		{"success", Result{ID: 1}, nil, "success"},
		{"refused", failure(ErrConflict, "role is referenced"), nil, "refused"},
		{"error", Result{}, errors.New("connection reset"), "error"}, //nolint:goerr113
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			counter := mutationsTotal.WithLabelValues("metrics_test", tc.outcome)
			before := testutil.ToFloat64(counter)

			observeMutation("metrics_test", tc.res, tc.err)

			assert.InDelta(t, before+1, testutil.ToFloat64(counter), 0)
		})
	}
}

func TestObserveDecision(t *testing.T) {
	allowed := decisionsTotal.WithLabelValues("true", string(SourceUser))
	denied := decisionsTotal.WithLabelValues("false", string(SourceNone))

	beforeAllowed, beforeDenied := testutil.ToFloat64(allowed), testutil.ToFloat64(denied)

	observeDecision(Decision{Allowed: true, Source: SourceUser})
	observeDecision(Decision{Source: SourceNone})
	observeDecision(Decision{Source: SourceNone})

	assert.InDelta(t, beforeAllowed+1, testutil.ToFloat64(allowed), 0)
	assert.InDelta(t, beforeDenied+2, testutil.ToFloat64(denied), 0)
}
