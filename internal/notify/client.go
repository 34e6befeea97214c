// Package notify is the client for the external notification service that
// confirms an alert setup to the user. The call is synchronous and never
// retried here: a retry could double-send a user-facing message, so failures
// are reported to the caller who decides whether to resubmit.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"syscall"
	"time"

	"aqalert/pkg/logger"
	"aqalert/pkg/mask"
)

const requestIDHeader = "x-request-id"

type Category string

const (
	CategoryConnectionRefused Category = "connection_refused"
	CategoryTimeout           Category = "timeout"
	CategoryUpstreamRejected  Category = "upstream_rejected"
	CategoryMalformedResponse Category = "malformed_response"
	CategoryOther             Category = "other"
)

// GatewayError classifies a failed notification call. Status and Body are
// set only for CategoryUpstreamRejected.
type GatewayError struct {
	Category Category
	Status   int
	Body     string
	Err      error
}

func (e *GatewayError) Error() string {
	if e.Category == CategoryUpstreamRejected {
		return fmt.Sprintf("notification service rejected request: status %d: %s", e.Status, e.Body)
	}
	if e.Err != nil {
		return fmt.Sprintf("notification service call failed (%s): %v", e.Category, e.Err)
	}
	return fmt.Sprintf("notification service call failed (%s)", e.Category)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

type Personalisation struct {
	Location string `json:"location"`
}

// Payload is the wire shape of the confirmation request. Location carries
// the raw string as the user submitted it, not the normalized form.
type Payload struct {
	PhoneNumber     string          `json:"phoneNumber,omitempty"`
	EmailAddress    string          `json:"emailAddress,omitempty"`
	TemplateID      string          `json:"templateId"`
	Personalisation Personalisation `json:"personalisation"`
}

type Client struct {
	serviceURL string
	httpClient *http.Client
	log        *logger.Logger
}

func NewClient(serviceURL string, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		serviceURL: serviceURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Send posts the confirmation payload, propagating correlationID in the
// x-request-id header. A nil return means the service acknowledged the send.
func (c *Client) Send(ctx context.Context, payload Payload, correlationID string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &GatewayError{Category: CategoryOther, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serviceURL, bytes.NewReader(body))
	if err != nil {
		return &GatewayError{Category: CategoryOther, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(requestIDHeader, correlationID)

	c.log.Info("Calling notification service",
		"request_id", correlationID,
		"service_url", c.serviceURL,
		"phone_number", mask.Phone(payload.PhoneNumber),
		"email_address", mask.Email(payload.EmailAddress),
		"template_id", mask.TemplateID(payload.TemplateID),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		gerr := classifyTransportError(err)
		c.log.Error("Notification service call failed",
			"request_id", correlationID,
			"category", string(gerr.Category),
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return gerr
	}
	defer resp.Body.Close()

	respBody, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Error("Notification service returned error response",
			"request_id", correlationID,
			"status", resp.StatusCode,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return &GatewayError{
			Category: CategoryUpstreamRejected,
			Status:   resp.StatusCode,
			Body:     string(respBody),
		}
	}

	if readErr != nil {
		return &GatewayError{Category: CategoryMalformedResponse, Err: readErr}
	}

	// An empty 2xx body is an acknowledgement; a non-empty body must at
	// least be valid JSON.
	if len(respBody) > 0 && !json.Valid(respBody) {
		c.log.Error("Notification service returned unparseable body",
			"request_id", correlationID,
			"status", resp.StatusCode,
		)
		return &GatewayError{
			Category: CategoryMalformedResponse,
			Err:      errors.New("response body is not valid JSON"),
		}
	}

	c.log.Info("Notification service call completed",
		"request_id", correlationID,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return nil
}

func classifyTransportError(err error) *GatewayError {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return &GatewayError{Category: CategoryConnectionRefused, Err: err}
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &GatewayError{Category: CategoryTimeout, Err: err}
	}

	return &GatewayError{Category: CategoryOther, Err: err}
}
