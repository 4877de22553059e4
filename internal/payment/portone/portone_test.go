package portone

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func newTestServer(t *testing.T, paymentHandler http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/users/getToken", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("token method want POST got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":0,"message":null,"response":{"access_token":"tok_1","expired_at":1700000000,"now":1699990000}}`))
	})
	mux.HandleFunc("/payments/", paymentHandler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestClientGetPayment(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "tok_1" {
			t.Errorf("authorization header want tok_1 got %s", got)
		}
		if !strings.HasSuffix(r.URL.Path, "/imp_001") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"code":0,"response":{"imp_uid":"imp_001","merchant_uid":"mid_1","status":"paid","amount":53000,"pay_method":"card","paid_at":1699990000}}`))
	})
	client := NewClient(Config{APIKey: "key", APISecret: "secret", BaseURL: server.URL + "/"})

	token, err := client.GetAccessToken(context.Background())
	if err != nil {
		t.Fatalf("get token failed: %v", err)
	}
	payment, err := client.GetPayment(context.Background(), token, "imp_001")
	if err != nil {
		t.Fatalf("get payment failed: %v", err)
	}
	if payment.Status != "paid" || !payment.Amount.Equal(decimal.NewFromInt(53000)) {
		t.Fatalf("unexpected payment: %+v", payment)
	}
	if payment.PaidTime() == nil {
		t.Fatalf("paid time should be parsed")
	}
}

func TestClientUnconfigured(t *testing.T) {
	client := NewClient(Config{APIKey: " ", APISecret: ""})
	if client.Configured() {
		t.Fatalf("client without credentials should be unconfigured")
	}
	if _, err := client.GetAccessToken(context.Background()); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("want ErrConfigInvalid got %v", err)
	}
}

func TestClientPaymentNotFoundAndInvalid(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/missing"):
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"code":-1,"message":"not found","response":null}`))
		case strings.HasSuffix(r.URL.Path, "/broken"):
			_, _ = w.Write([]byte(`not-json`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
	client := NewClient(Config{APIKey: "key", APISecret: "secret", BaseURL: server.URL})

	if _, err := client.GetPayment(context.Background(), "tok_1", "missing"); !errors.Is(err, ErrPaymentNotFound) {
		t.Fatalf("want ErrPaymentNotFound got %v", err)
	}
	if _, err := client.GetPayment(context.Background(), "tok_1", "broken"); !errors.Is(err, ErrResponseInvalid) {
		t.Fatalf("want ErrResponseInvalid for bad body got %v", err)
	}
	if _, err := client.GetPayment(context.Background(), "tok_1", "error"); !errors.Is(err, ErrResponseInvalid) {
		t.Fatalf("want ErrResponseInvalid for 500 got %v", err)
	}
}

func TestClientAuthFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":-1,"message":"invalid key","response":null}`))
	}))
	defer server.Close()
	client := NewClient(Config{APIKey: "key", APISecret: "wrong", BaseURL: server.URL})
	if _, err := client.GetAccessToken(context.Background()); !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("want ErrAuthFailed got %v", err)
	}
}

func TestClientQueryTimeout(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(500 * time.Millisecond):
		case <-r.Context().Done():
		}
	})
	client := NewClient(Config{
		APIKey:       "key",
		APISecret:    "secret",
		BaseURL:      server.URL,
		QueryTimeout: 50 * time.Millisecond,
	})
	if _, err := client.GetPayment(context.Background(), "tok_1", "imp_slow"); !errors.Is(err, ErrTimeout) {
		t.Fatalf("want ErrTimeout got %v", err)
	}
}

func TestClientCircuitOpensOnTransportFailures(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	baseURL := server.URL
	server.Close()

	client := NewClient(Config{
		APIKey:      "key",
		APISecret:   "secret",
		BaseURL:     baseURL,
		MaxFailures: 2,
		OpenTimeout: time.Minute,
	})
	for i := 0; i < 2; i++ {
		if _, err := client.GetAccessToken(context.Background()); !errors.Is(err, ErrRequestFailed) {
			t.Fatalf("attempt %d want ErrRequestFailed got %v", i, err)
		}
	}
	if _, err := client.GetAccessToken(context.Background()); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("want ErrCircuitOpen after consecutive failures got %v", err)
	}
	if atomic.LoadInt32(&hits) != 0 {
		t.Fatalf("closed server should never be hit")
	}
}

func TestClientBusinessErrorsDoNotTripBreaker(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	client := NewClient(Config{APIKey: "key", APISecret: "secret", BaseURL: server.URL, MaxFailures: 1})
	for i := 0; i < 3; i++ {
		if _, err := client.GetPayment(context.Background(), "tok_1", "imp_x"); !errors.Is(err, ErrPaymentNotFound) {
			t.Fatalf("attempt %d want ErrPaymentNotFound got %v", i, err)
		}
	}
}
