package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	idemmemory "github.com/avendano/comanda/internal/idempotency/memory"
	"github.com/avendano/comanda/internal/kafka"
	orderhttp "github.com/avendano/comanda/internal/orders/adapters/http"
	"github.com/avendano/comanda/internal/orders/adapters/memory"
	"github.com/avendano/comanda/internal/orders/app"
	"github.com/avendano/comanda/internal/orders/domain"
	"github.com/avendano/comanda/internal/orders/metrics"
	"github.com/avendano/comanda/internal/orders/ports"
)

const (
	testPaymentMethodID = "3f0a6f2a-6f0e-4f2e-9a3c-1d2e3f4a5b6c"
	testUserID          = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
	testProductID       = "b5f8c3d2-1a2b-4c3d-8e9f-0a1b2c3d4e5f"
	testProductID2      = "d4c3b2a1-5e6f-4a3b-9c8d-7e6f5a4b3c2d"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	repo := memory.NewRepository()

	payments := memory.NewPaymentMethodStore()
	payments.Add(ports.PaymentMethod{ID: domain.PaymentMethodID(testPaymentMethodID), Name: "card", Active: true})

	products := memory.NewProductStore()
	products.Add(ports.Product{ID: domain.ProductID(testProductID), Name: "empanada", UnitPrice: decimal.RequireFromString("5.00"), Currency: "USD"})
	products.Add(ports.Product{ID: domain.ProductID(testProductID2), Name: "arepa", UnitPrice: decimal.RequireFromString("10.00"), Currency: "USD"})

	meter := sdkmetric.NewMeterProvider().Meter("test")
	appMetrics, err := metrics.NewMetrics(meter)
	if err != nil {
		t.Fatalf("NewMetrics() failed: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := app.NewService(repo, payments, products, kafka.NewNoopPublisher(), idemmemory.NewStore(), logger, appMetrics)

	mux := http.NewServeMux()
	orderhttp.NewHandler(service).Register(mux)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func createOrder(t *testing.T, server *httptest.Server, idemKey string) map[string]any {
	t.Helper()

	payload := map[string]any{
		"address":           "123 Main St",
		"currency":          "USD",
		"payment_method_id": testPaymentMethodID,
		"user_id":           testUserID,
		"lines": []map[string]any{
			{"product_id": testProductID, "quantity": 2},
			{"product_id": testProductID2, "quantity": 1},
		},
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, server.URL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Idempotency-Key", idemKey)

	resp, err := server.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, raw)
	}

	var decoded struct {
		Order map[string]any `json:"order"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return decoded.Order
}

func doJSON(t *testing.T, server *httptest.Server, method, path string, payload any) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(context.Background(), method, server.URL+path, body)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}

	resp, err := server.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestCreateOrderEndpoint(t *testing.T) {
	t.Run("creates an order and returns the summary", func(t *testing.T) {
		server := newTestServer(t)

		order := createOrder(t, server, "key-1")

		if order["status"] != "CREATED" {
			t.Errorf("expected status CREATED, got %v", order["status"])
		}
		if order["total"] != "20" && order["total"] != "20.00" {
			t.Errorf("expected total 20, got %v", order["total"])
		}
		lines, ok := order["lines"].([]any)
		if !ok || len(lines) != 2 {
			t.Fatalf("expected 2 lines, got %v", order["lines"])
		}
		first, _ := lines[0].(map[string]any)
		if first["product_name"] != "empanada" {
			t.Errorf("expected product name empanada, got %v", first["product_name"])
		}
	})

	t.Run("replays the stored response for a duplicate key", func(t *testing.T) {
		server := newTestServer(t)

		first := createOrder(t, server, "dup-key")
		second := createOrder(t, server, "dup-key")

		if first["id"] != second["id"] {
			t.Errorf("expected same order id on replay, got %v and %v", first["id"], second["id"])
		}

		// A distinct key creates a distinct order.
		third := createOrder(t, server, "other-key")
		if third["id"] == first["id"] {
			t.Error("expected a new order for a new idempotency key")
		}
	})

	t.Run("requires the Idempotency-Key header", func(t *testing.T) {
		server := newTestServer(t)

		resp := doJSON(t, server, http.MethodPost, "/v1/orders", map[string]any{})
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})
}

func TestErrorStatusMapping(t *testing.T) {
	server := newTestServer(t)
	order := createOrder(t, server, "mapping-key")
	orderID, _ := order["id"].(string)

	t.Run("validation errors map to 400", func(t *testing.T) {
		req, _ := http.NewRequestWithContext(context.Background(), http.MethodPost, server.URL+"/v1/orders", bytes.NewReader([]byte(`{"address":""}`)))
		req.Header.Set("Idempotency-Key", "invalid-payload-key")
		resp, err := server.Client().Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("unknown order maps to 404", func(t *testing.T) {
		resp := doJSON(t, server, http.MethodGet, "/v1/orders/"+testUserID, nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.StatusCode)
		}
	})

	t.Run("disallowed transition maps to 422", func(t *testing.T) {
		resp := doJSON(t, server, http.MethodPut, "/v1/orders/"+orderID+"/status", map[string]string{"status": "DELIVERED"})
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Errorf("expected 422, got %d", resp.StatusCode)
		}
	})

	t.Run("edit outside CREATED maps to 422", func(t *testing.T) {
		resp := doJSON(t, server, http.MethodPut, "/v1/orders/"+orderID+"/status", map[string]string{"status": "PAID"})
		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", resp.StatusCode)
		}

		resp = doJSON(t, server, http.MethodPatch, "/v1/orders/"+orderID, map[string]string{"address": "456 Side St"})
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Errorf("expected 422, got %d", resp.StatusCode)
		}
	})
}

func TestOrderLifecycleEndpoints(t *testing.T) {
	server := newTestServer(t)
	order := createOrder(t, server, "lifecycle-key")
	orderID, _ := order["id"].(string)

	t.Run("get returns the order", func(t *testing.T) {
		resp := doJSON(t, server, http.MethodGet, "/v1/orders/"+orderID, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}

		var decoded struct {
			Order map[string]any `json:"order"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if decoded.Order["id"] != orderID {
			t.Errorf("expected id %s, got %v", orderID, decoded.Order["id"])
		}
	})

	t.Run("patch updates fields while CREATED", func(t *testing.T) {
		resp := doJSON(t, server, http.MethodPatch, "/v1/orders/"+orderID, map[string]string{"address": "456 Side St"})
		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", resp.StatusCode)
		}

		resp = doJSON(t, server, http.MethodGet, "/v1/orders/"+orderID, nil)
		var decoded struct {
			Order map[string]any `json:"order"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if decoded.Order["address"] != "456 Side St" {
			t.Errorf("expected updated address, got %v", decoded.Order["address"])
		}
	})

	t.Run("list filters by status", func(t *testing.T) {
		resp := doJSON(t, server, http.MethodGet, "/v1/orders?status=CREATED", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}

		var decoded struct {
			Orders []map[string]any `json:"orders"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(decoded.Orders) != 1 {
			t.Fatalf("expected 1 order, got %d", len(decoded.Orders))
		}

		resp = doJSON(t, server, http.MethodGet, "/v1/orders?status=SHIPPED", nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400 for unknown status filter, got %d", resp.StatusCode)
		}
	})

	t.Run("status walk ends in DELIVERED", func(t *testing.T) {
		for _, status := range []string{"PAID", "PREPARING", "READY", "DELIVERED"} {
			resp := doJSON(t, server, http.MethodPut, fmt.Sprintf("/v1/orders/%s/status", orderID), map[string]string{"status": status})
			if resp.StatusCode != http.StatusNoContent {
				t.Fatalf("transition to %s: expected 204, got %d", status, resp.StatusCode)
			}
		}

		resp := doJSON(t, server, http.MethodGet, "/v1/orders/"+orderID, nil)
		var decoded struct {
			Order map[string]any `json:"order"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if decoded.Order["status"] != "DELIVERED" {
			t.Errorf("expected status DELIVERED, got %v", decoded.Order["status"])
		}
	})

	t.Run("delete removes the order", func(t *testing.T) {
		resp := doJSON(t, server, http.MethodDelete, "/v1/orders/"+orderID, nil)
		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", resp.StatusCode)
		}

		resp = doJSON(t, server, http.MethodGet, "/v1/orders/"+orderID, nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404 after delete, got %d", resp.StatusCode)
		}
	})
}
