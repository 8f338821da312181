package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gatewaydomain "github.com/coursebay/coursebay/internal/gateway/domain"
)

const apiBase = "https://api.stripe.com"

type checkoutSession struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	PaymentIntent string            `json:"payment_intent"`
	PaymentStatus string            `json:"payment_status"`
	Metadata      map[string]string `json:"metadata"`
}

type stripeErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Client talks to the Stripe Checkout Sessions API over plain HTTP. The
// bounded client timeout is the only retry/timeout policy imposed here.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func New(apiKey string) *Client {
	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: apiBase,
		client:  &http.Client{Timeout: 12 * time.Second},
	}
}

func (c *Client) CreateSession(ctx context.Context, req gatewaydomain.CreateSessionRequest) (gatewaydomain.Session, error) {
	values := url.Values{}
	values.Set("mode", "payment")
	values.Set("payment_method_types[]", "card")
	if req.CustomerEmail != "" {
		values.Set("customer_email", req.CustomerEmail)
	}
	values.Set("line_items[0][price_data][currency]", strings.ToLower(req.Currency))
	values.Set("line_items[0][price_data][product_data][name]", req.Description)
	values.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(req.AmountMinor, 10))
	values.Set("line_items[0][quantity]", "1")
	values.Set("success_url", req.SuccessURL)
	values.Set("cancel_url", req.CancelURL)
	for key, value := range req.Metadata {
		values.Set(fmt.Sprintf("metadata[%s]", key), value)
	}

	session, err := c.doRequest(ctx, http.MethodPost, "/v1/checkout/sessions", values)
	if err != nil {
		return gatewaydomain.Session{}, err
	}
	if session.URL == "" {
		return gatewaydomain.Session{}, fmt.Errorf("%w: session has no redirect url", gatewaydomain.ErrProvider)
	}

	return gatewaydomain.Session{Ref: session.ID, URL: session.URL}, nil
}

func (c *Client) RetrieveSession(ctx context.Context, ref string) (gatewaydomain.SessionStatus, error) {
	session, err := c.doRequest(ctx, http.MethodGet, "/v1/checkout/sessions/"+url.PathEscape(ref), nil)
	if err != nil {
		return gatewaydomain.SessionStatus{}, err
	}

	return gatewaydomain.SessionStatus{
		Settled:   session.PaymentStatus == "paid",
		ChargeRef: session.PaymentIntent,
		Metadata:  session.Metadata,
	}, nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, values url.Values) (checkoutSession, error) {
	if c.apiKey == "" {
		return checkoutSession{}, fmt.Errorf("%w: api key not configured", gatewaydomain.ErrProvider)
	}

	body := ""
	if values != nil {
		body = values.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, strings.NewReader(body))
	if err != nil {
		return checkoutSession{}, fmt.Errorf("%w: %v", gatewaydomain.ErrProvider, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if values != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return checkoutSession{}, fmt.Errorf("%w: %v", gatewaydomain.ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return checkoutSession{}, gatewaydomain.ErrSessionNotFound
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var stripeErr stripeErrorResponse
		message := "stripe request failed"
		if err := json.NewDecoder(resp.Body).Decode(&stripeErr); err == nil {
			if trimmed := strings.TrimSpace(stripeErr.Error.Message); trimmed != "" {
				message = trimmed
			}
		}
		return checkoutSession{}, fmt.Errorf("%w: %s", gatewaydomain.ErrProvider, message)
	}

	var session checkoutSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return checkoutSession{}, fmt.Errorf("%w: %v", gatewaydomain.ErrProvider, err)
	}
	if session.ID == "" {
		return checkoutSession{}, fmt.Errorf("%w: invalid response", gatewaydomain.ErrProvider)
	}
	return session, nil
}
