package stripe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	gatewaydomain "github.com/coursebay/coursebay/internal/gateway/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New("sk_test_123")
	client.baseURL = server.URL
	return client
}

func TestCreateSessionEncodesCheckoutRequest(t *testing.T) {
	var gotForm map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/checkout/sessions" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk_test_123" {
			t.Fatalf("unexpected authorization header %q", auth)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotForm = map[string]string{}
		for key := range r.PostForm {
			gotForm[key] = r.PostForm.Get(key)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_test_1","url":"https://checkout.stripe.com/pay/cs_test_1"}`))
	})

	session, err := client.CreateSession(context.Background(), gatewaydomain.CreateSessionRequest{
		AmountMinor:   49900,
		Currency:      "INR",
		Description:   "Advanced Go",
		CustomerEmail: "asha@example.com",
		SuccessURL:    "https://x.example/booking/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     "https://x.example/booking/cancel",
		Metadata:      map[string]string{"booking_id": "BK-1"},
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if session.Ref != "cs_test_1" {
		t.Fatalf("expected ref cs_test_1, got %s", session.Ref)
	}
	if session.URL == "" {
		t.Fatalf("expected redirect url")
	}

	expect := map[string]string{
		"mode":                                          "payment",
		"line_items[0][price_data][currency]":           "inr",
		"line_items[0][price_data][unit_amount]":        "49900",
		"line_items[0][price_data][product_data][name]": "Advanced Go",
		"line_items[0][quantity]":                       "1",
		"customer_email":                                "asha@example.com",
		"metadata[booking_id]":                          "BK-1",
	}
	for key, want := range expect {
		if gotForm[key] != want {
			t.Fatalf("form[%s] = %q, want %q", key, gotForm[key], want)
		}
	}
}

func TestCreateSessionNormalizesProviderError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"message":"Your card was declined."}}`))
	})

	_, err := client.CreateSession(context.Background(), gatewaydomain.CreateSessionRequest{
		AmountMinor: 100, Currency: "inr", Description: "x",
		SuccessURL: "https://x.example/s", CancelURL: "https://x.example/c",
	})
	if !errors.Is(err, gatewaydomain.ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
	if want := "Your card was declined."; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected message %q in %v", want, err)
	}
}

func TestRetrieveSessionMapsSettlement(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/checkout/sessions/cs_test_1" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "cs_test_1",
			"payment_status": "paid",
			"payment_intent": "pi_1",
			"metadata": {"booking_id": "BK-1"}
		}`))
	})

	status, err := client.RetrieveSession(context.Background(), "cs_test_1")
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if !status.Settled {
		t.Fatalf("expected settled")
	}
	if status.ChargeRef != "pi_1" {
		t.Fatalf("expected charge ref pi_1, got %s", status.ChargeRef)
	}
	if status.Metadata["booking_id"] != "BK-1" {
		t.Fatalf("expected metadata round-trip, got %v", status.Metadata)
	}
}

func TestRetrieveSessionUnknownRef(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"message":"No such checkout.session"}}`))
	})

	_, err := client.RetrieveSession(context.Background(), "cs_missing")
	if !errors.Is(err, gatewaydomain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
