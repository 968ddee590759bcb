package service

import (
	"github.com/vantagepay/checkout-gateway/internal/models"
)

// hardRejectStatuses are processor statuses that mean the transaction was not
// accepted for processing at all.
var hardRejectStatuses = map[string]bool{
	models.StatusDeclined:               true,
	models.StatusInvalidRequest:         true,
	models.StatusAuthorizedRiskDeclined: true,
	models.StatusServerError:            true,
}

// Classify maps a raw authorization response to a normalized outcome.
//
// Approved is driven by the processor status alone, never the HTTP status:
// it is true when the processor accepted the request for processing, which
// includes transactions parked in fraud review. StatusApproved is true only
// for the literal AUTHORIZED status. The two are computed by distinct rules
// and a response can be approved yet not status-approved; that combination
// routes to the review branch of the dispatcher. The HTTP status matters
// only for responses with no interpretable status at all, which classify as
// no-response.
func Classify(resp *models.AuthorizationResponse) models.ClassifiedOutcome {
	if resp == nil || resp.Body == nil || resp.Body.Status == "" {
		return models.ClassifiedOutcome{NoResponse: true}
	}

	rawStatus := resp.Body.Status

	return models.ClassifiedOutcome{
		Approved:       !hardRejectStatuses[rawStatus],
		StatusApproved: rawStatus == models.StatusAuthorized,
		RawStatus:      rawStatus,
	}
}
