package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vantagepay/checkout-gateway/internal/models"
	"github.com/vantagepay/checkout-gateway/internal/telemetry"
)

// APIError is returned when the payment API call itself failed: transport
// error, unreadable body, or a 5xx with no interpretable payload.
type APIError struct {
	Operation  string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("payment api %s failed (http %d): %s", e.Operation, e.StatusCode, e.Message)
}

// Client talks to the remote payment API. All calls are synchronous with no
// internal retry loop; timeouts belong to the injected http.Client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	merchantID string
	apiKey     string
}

func NewClient(httpClient *http.Client, baseURL, merchantID, apiKey string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		merchantID: merchantID,
		apiKey:     apiKey,
	}
}

// CreatePayment sends an authorization request and returns the raw response
// paired with its HTTP status. A nil response with a non-nil error means the
// call never produced an interpretable body.
func (c *Client) CreatePayment(ctx context.Context, req *models.CreatePaymentRequest) (*models.AuthorizationResponse, error) {
	body, status, err := c.post(ctx, "create_payment", "/pts/v2/payments", req)
	if err != nil {
		return nil, err
	}
	return &models.AuthorizationResponse{HTTPStatusCode: status, Body: body}, nil
}

// CapturePayment settles a previously authorized payment.
func (c *Client) CapturePayment(ctx context.Context, paymentID string, amount models.AmountDetails) (*models.PaymentResponse, error) {
	req := map[string]interface{}{
		"clientReferenceInformation": models.ClientReferenceInformation{Code: uuid.NewString()},
		"orderInformation":           models.OrderInformation{AmountDetails: amount},
	}
	body, _, err := c.post(ctx, "capture", fmt.Sprintf("/pts/v2/payments/%s/captures", paymentID), req)
	return body, err
}

// ReverseAuthorization cancels a held authorization that will not be captured.
func (c *Client) ReverseAuthorization(ctx context.Context, paymentID string, amount models.AmountDetails, reason string) (*models.PaymentResponse, error) {
	req := map[string]interface{}{
		"clientReferenceInformation": models.ClientReferenceInformation{Code: uuid.NewString()},
		"reversalInformation": map[string]interface{}{
			"amountDetails": amount,
			"reason":        reason,
		},
	}
	body, _, err := c.post(ctx, "auth_reversal", fmt.Sprintf("/pts/v2/payments/%s/reversals", paymentID), req)
	return body, err
}

// RefundPayment refunds a settled payment.
func (c *Client) RefundPayment(ctx context.Context, paymentID string, amount models.AmountDetails) (*models.PaymentResponse, error) {
	req := map[string]interface{}{
		"clientReferenceInformation": models.ClientReferenceInformation{Code: uuid.NewString()},
		"orderInformation":           models.OrderInformation{AmountDetails: amount},
	}
	body, _, err := c.post(ctx, "refund", fmt.Sprintf("/pts/v2/payments/%s/refunds", paymentID), req)
	return body, err
}

// GetPayment fetches the current state of a transaction, used by the review
// poller to finalize orders left in fraud review.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*models.PaymentResponse, error) {
	start := time.Now()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/tss/v2/transactions/"+paymentID, nil)
	if err != nil {
		return nil, &APIError{Operation: "get_payment", Message: err.Error()}
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &APIError{Operation: "get_payment", Message: err.Error()}
	}
	defer resp.Body.Close()
	telemetry.ProcessorLatency.WithLabelValues("get_payment").Observe(time.Since(start).Seconds())

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Operation: "get_payment", StatusCode: resp.StatusCode, Message: err.Error()}
	}

	var body models.PaymentResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, &APIError{Operation: "get_payment", StatusCode: resp.StatusCode, Message: "uninterpretable response body"}
	}
	return &body, nil
}

func (c *Client) post(ctx context.Context, operation, path string, payload interface{}) (*models.PaymentResponse, int, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, &APIError{Operation: operation, Message: err.Error()}
	}

	telemetry.Logger.Info("payment api request",
		zap.String("operation", operation),
		zap.ByteString("payload", MaskPayload(raw)),
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, 0, &APIError{Operation: operation, Message: err.Error()}
	}
	c.setHeaders(httpReq)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, 0, &APIError{Operation: operation, Message: err.Error()}
	}
	defer resp.Body.Close()
	telemetry.ProcessorLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	respRaw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &APIError{Operation: operation, StatusCode: resp.StatusCode, Message: err.Error()}
	}

	telemetry.Logger.Info("payment api response",
		zap.String("operation", operation),
		zap.Int("http_status", resp.StatusCode),
		zap.String("correlation_id", resp.Header.Get("v-c-correlation-id")),
		zap.ByteString("payload", MaskPayload(respRaw)),
	)

	var body models.PaymentResponse
	if err := json.Unmarshal(respRaw, &body); err != nil {
		return nil, resp.StatusCode, &APIError{Operation: operation, StatusCode: resp.StatusCode, Message: "uninterpretable response body"}
	}
	return &body, resp.StatusCode, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("v-c-merchant-id", c.merchantID)
}
