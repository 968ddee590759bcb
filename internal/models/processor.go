package models

// Processor-side transaction statuses. Approval decisions are driven by these
// values, not by the HTTP status of the response.
const (
	StatusAuthorized              = "AUTHORIZED"
	StatusPartialAuthorized       = "PARTIAL_AUTHORIZED"
	StatusAuthorizedPendingReview = "AUTHORIZED_PENDING_REVIEW"
	StatusAuthorizedRiskDeclined  = "AUTHORIZED_RISK_DECLINED"
	StatusPendingReview           = "PENDING_REVIEW"
	StatusDeclined                = "DECLINED"
	StatusInvalidRequest          = "INVALID_REQUEST"
	StatusServerError             = "SERVER_ERROR"
)

type ClientReferenceInformation struct {
	Code string `json:"code"`
}

type ProcessingInformation struct {
	Capture           bool     `json:"capture,omitempty"`
	CommerceIndicator string   `json:"commerceIndicator,omitempty"`
	ActionList        []string `json:"actionList,omitempty"`
}

type TokenInformation struct {
	TransientTokenJWT string `json:"transientTokenJwt,omitempty"`
}

type AmountDetails struct {
	TotalAmount string `json:"totalAmount"`
	Currency    string `json:"currency"`
}

type BillTo struct {
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Address1   string `json:"address1,omitempty"`
	Address2   string `json:"address2,omitempty"`
	Locality   string `json:"locality,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phoneNumber,omitempty"`
}

type OrderInformation struct {
	AmountDetails AmountDetails `json:"amountDetails"`
	BillTo        *BillTo       `json:"billTo,omitempty"`
	ShipTo        *BillTo       `json:"shipTo,omitempty"`
}

type DeviceInformation struct {
	IPAddress            string `json:"ipAddress,omitempty"`
	FingerprintSessionID string `json:"fingerprintSessionId,omitempty"`
}

type BuyerInformation struct {
	MerchantCustomerID string `json:"merchantCustomerId,omitempty"`
}

// CreatePaymentRequest is the outbound authorization payload. Fields mirror
// the processor's payment API models; optional sections are pointers so they
// are omitted entirely when absent.
type CreatePaymentRequest struct {
	ClientReferenceInformation ClientReferenceInformation `json:"clientReferenceInformation"`
	ProcessingInformation      ProcessingInformation      `json:"processingInformation"`
	TokenInformation           *TokenInformation          `json:"tokenInformation,omitempty"`
	OrderInformation           OrderInformation           `json:"orderInformation"`
	DeviceInformation          *DeviceInformation         `json:"deviceInformation,omitempty"`
	BuyerInformation           *BuyerInformation          `json:"buyerInformation,omitempty"`
}

type ProcessorInformation struct {
	ApprovalCode  string `json:"approvalCode,omitempty"`
	ResponseCode  string `json:"responseCode,omitempty"`
	TransactionID string `json:"transactionId,omitempty"`
	AVSCode       string `json:"avs,omitempty"`
}

type ErrorInformation struct {
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

type PaymentInstrument struct {
	ID string `json:"id,omitempty"`
}

type ResponseTokenInformation struct {
	PaymentInstrument *PaymentInstrument `json:"paymentInstrument,omitempty"`
	Customer          *PaymentInstrument `json:"customer,omitempty"`
}

// PaymentResponse is the processor's reply to an authorization, capture,
// reversal or refund call.
type PaymentResponse struct {
	ID                         string                     `json:"id"`
	Status                     string                     `json:"status"`
	ReconciliationID           string                     `json:"reconciliationId,omitempty"`
	ClientReferenceInformation ClientReferenceInformation `json:"clientReferenceInformation"`
	ProcessorInformation       *ProcessorInformation      `json:"processorInformation,omitempty"`
	ErrorInformation           *ErrorInformation          `json:"errorInformation,omitempty"`
	TokenInformation           *ResponseTokenInformation  `json:"tokenInformation,omitempty"`
}

// AuthorizationResponse pairs a payment response body with the HTTP status it
// arrived under. Created once per authorization attempt and never mutated.
// Body is nil when the call itself failed.
type AuthorizationResponse struct {
	HTTPStatusCode int
	Body           *PaymentResponse
}

// ClassifiedOutcome is the normalized view of one authorization response.
//
// Approved and StatusApproved are computed by distinct rules: Approved means
// the processor accepted the request for processing at all, StatusApproved
// means the status permits immediate settlement. A response can be approved
// and still held for review (Approved true, StatusApproved false).
type ClassifiedOutcome struct {
	Approved       bool
	StatusApproved bool
	RawStatus      string
	NoResponse     bool
}

// Result is the dispatcher's explicit outcome: Success false with a non-empty
// Error is a decline or rejected request, never an ambiguous absent value.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
