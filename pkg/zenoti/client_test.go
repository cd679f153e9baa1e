package zenoti

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/LiftOffLLC/zenoti-sdk/pkg/errors"
	"github.com/LiftOffLLC/zenoti-sdk/pkg/retry"
)

type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
	ttls  map[string]int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string][]byte{}, ttls: map[string]int{}}
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.items[key]
	if !ok {
		return nil, assert.AnError
	}
	return value, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte, expirationSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	m.ttls[key] = expirationSeconds
	return nil
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]Option{WithBaseURL(server.URL + "/"), WithHTTPClient(server.Client())}, opts...)
	client, err := New("secret-key", opts...)
	require.NoError(t, err)
	return client
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New("  ")
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidArgument(err))
	assert.Equal(t, "api_key", apperrors.FieldOf(err))
}

func TestClient_SendsHeaders(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/centers", r.URL.Path)
		assert.Equal(t, "apikey secret-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json; charset=UTF-8", r.Header.Get("Accept"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		_, _ = w.Write([]byte(`{"centers":[{"id":"c1"}]}`))
	})

	out, err := client.Centers.List(context.Background(), map[string][]string{"page": {"2"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"centers":[{"id":"c1"}]}`, string(out))
}

func TestClient_NonOKStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"Message":"Invalid API key"}`))
	})

	_, err := client.Services.List(context.Background(), "c1")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeExternal, appErr.Type)
	assert.Equal(t, http.StatusUnauthorized, appErr.StatusCode)
	assert.Equal(t, "Invalid API key", appErr.Message)
}

func TestClient_NonOKStatusUsesBodyCode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"center not found","code":404}`))
	})

	_, err := client.Centers.Therapists(context.Background(), "missing")

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.StatusCode)
	assert.Equal(t, "center not found", appErr.Message)
}

func TestClient_ErrorInsideOKResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Error":{"Message":"Slot no longer available","StatusCode":409}}`))
	})

	_, err := client.Bookings.ReserveSlot(context.Background(), "b1", "2026-03-27T10:00:00")

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.StatusCode)
	assert.Equal(t, "Slot no longer available", appErr.Message)
}

func TestClient_CachesGetResponses(t *testing.T) {
	var calls atomic.Int32
	cache := newMemoryCache()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"services":[]}`))
	}, WithCache(cache, 2*time.Minute))

	for range 3 {
		out, err := client.Services.List(context.Background(), "c1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"services":[]}`, string(out))
	}

	assert.Equal(t, int32(1), calls.Load())
	require.Len(t, cache.ttls, 1)
	for key, ttl := range cache.ttls {
		assert.Contains(t, key, "zenoti:")
		assert.Equal(t, 120, ttl)
	}
}

func TestClient_CacheIsScopedPerAPIKey(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"tenant":"` + r.Header.Get("Authorization") + `"}`))
	}))
	t.Cleanup(server.Close)

	cache := newMemoryCache()
	newClient := func(key string) *Client {
		client, err := New(key, WithBaseURL(server.URL), WithHTTPClient(server.Client()), WithCache(cache, time.Minute))
		require.NoError(t, err)
		return client
	}
	tenantA, tenantB := newClient("tenant-a"), newClient("tenant-b")

	type body struct {
		Tenant string `json:"tenant"`
	}
	for _, tc := range []struct {
		client *Client
		want   string
	}{
		{tenantA, "apikey tenant-a"},
		{tenantB, "apikey tenant-b"},
		{tenantA, "apikey tenant-a"},
	} {
		raw, err := tc.client.Guests.Cards(context.Background(), "g1", "c1")
		require.NoError(t, err)
		var got body
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, tc.want, got.Tenant)
	}

	assert.Equal(t, int32(2), calls.Load())
	assert.Len(t, cache.items, 2)
	for key := range cache.items {
		assert.NotContains(t, key, "tenant-")
	}
}

func TestClient_SkipCache(t *testing.T) {
	var calls atomic.Int32
	cache := newMemoryCache()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{}`))
	}, WithCache(cache, time.Minute))

	for range 2 {
		require.NoError(t, client.Get(SkipCache(context.Background()), "/v1/centers", nil, nil))
	}
	assert.Equal(t, int32(2), calls.Load())
	assert.Empty(t, cache.items)
}

func TestEmployees_BlockOutTimesAreNeverCached(t *testing.T) {
	var calls atomic.Int32
	cache := newMemoryCache()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"block_out_times":[]}`))
	}, WithCache(cache, time.Minute))

	for range 2 {
		_, err := client.Employees.BlockOutTimes(context.Background(), "c1", "2026-03-27")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), calls.Load())
	assert.Empty(t, cache.items)
}

func TestNew_TimeoutAfterNilHTTPClient(t *testing.T) {
	client, err := New("key", WithHTTPClient(nil), WithTimeout(3*time.Second))
	require.NoError(t, err)
	require.NotNil(t, client.httpClient)
	assert.Equal(t, 3*time.Second, client.httpClient.Timeout)
}

func TestNew_TimeoutDoesNotModifyCallerClient(t *testing.T) {
	own := &http.Client{Timeout: time.Minute}
	client, err := New("key", WithTimeout(2*time.Second), WithHTTPClient(own))
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, client.httpClient.Timeout)
	assert.Equal(t, time.Minute, own.Timeout)
}

func TestClient_DoesNotCacheWrites(t *testing.T) {
	var calls atomic.Int32
	cache := newMemoryCache()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{}`))
	}, WithCache(cache, time.Minute))

	for range 2 {
		_, err := client.Bookings.Confirm(context.Background(), "b1", "")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), calls.Load())
	assert.Empty(t, cache.items)
}

func TestClient_RequiresIDs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := client.Invoices.Get(context.Background(), "")
	assert.Equal(t, "invoice_id", apperrors.FieldOf(err))

	_, err = client.Employees.BlockOutTimes(context.Background(), "", "2026-03-27")
	assert.Equal(t, "center_id", apperrors.FieldOf(err))
}

func TestClient_RateLimitHonoursContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}, WithRateLimit(0.001, 1))

	_, err := client.Centers.List(context.Background(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = client.Centers.List(ctx, nil)
	assert.Equal(t, apperrors.ErrorTypeExternal, apperrors.TypeOf(err))
}

func fastRetry() retry.Config {
	return retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}
}

func TestClient_RetriesTransientGets(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"services":[]}`))
	}, WithRetry(fastRetry()))

	_, err := client.Services.List(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}, WithRetry(fastRetry()))

	_, err := client.Services.List(context.Background(), "c1")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_DoesNotRetryWrites(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, WithRetry(fastRetry()))

	err := client.Post(context.Background(), "/v1/guests", nil, map[string]string{"a": "b"}, nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(apperrors.NewExternalError("dial", assert.AnError)))
	assert.True(t, IsTransient(apperrors.NewExternalStatusError(http.StatusTooManyRequests, "slow down")))
	assert.False(t, IsTransient(apperrors.NewExternalStatusError(http.StatusNotFound, "missing")))
	assert.False(t, IsTransient(apperrors.NewInternalError("encode", assert.AnError)))
	assert.False(t, IsTransient(assert.AnError))
}

func TestBookings_CreateAndCancel(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		switch r.URL.Path {
		case "/v1/bookings":
			assert.Equal(t, http.MethodPost, r.Method)
			assert.JSONEq(t, `{
				"center_id":"c1",
				"is_only_catalog_employees":true,
				"date":"2026-03-27",
				"guests":[{"id":"g1","items":[{"item":{"id":"s1"},"therapist":{"id":"t1"}}]}]
			}`, string(body))
			_, _ = w.Write([]byte(`{"id":"booking-1"}`))
		case "/v1/invoices/inv-1/cancel":
			assert.Equal(t, http.MethodPut, r.Method)
			assert.JSONEq(t, `{"comments":"guest request"}`, string(body))
			_, _ = w.Write([]byte(`{"success":true}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	booking, err := client.Bookings.Create(context.Background(), CreateBookingRequest{
		CenterID:               "c1",
		ServiceID:              "s1",
		GuestID:                "g1",
		TherapistID:            "t1",
		IsOnlyCatalogEmployees: true,
		Date:                   "2026-03-27",
	})
	require.NoError(t, err)
	assert.Equal(t, "booking-1", booking.ID)

	_, err = client.Bookings.Cancel(context.Background(), "inv-1", "guest request")
	require.NoError(t, err)
}

func TestInvoices_RequestShapes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		switch r.URL.Path {
		case "/v1/invoices/inv-1":
			assert.Equal(t, []string{"InvoiceItems", "Transactions"}, r.URL.Query()["expand"])
		case "/v1/invoices/inv-1/invoiceitems/item-9":
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.JSONEq(t, `{"comments":"damaged"}`, string(body))
		case "/v1/invoices/inv-1/online_payments":
			assert.JSONEq(t, `{"account_id":"card-1","center_id":"c1"}`, string(body))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{}`))
	})
	ctx := context.Background()

	_, err := client.Invoices.Get(ctx, "inv-1")
	require.NoError(t, err)
	_, err = client.Invoices.RemoveProduct(ctx, "inv-1", "item-9", "damaged")
	require.NoError(t, err)
	_, err = client.Guests.PayByCard(ctx, CardPayment{InvoiceID: "inv-1", CardID: "card-1", CenterID: "c1"})
	require.NoError(t, err)
}

func TestGiftCards_ConfirmReturnsInvoiceID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/invoices/giftcards", r.URL.Path)
		var payload map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		cards := payload["giftcards"].([]any)
		card := cards[0].(map[string]any)
		assert.Equal(t, "tpl-1", card["template_id"])
		assert.Equal(t, map[string]any{"name": "Ana", "email": "ana@example.com"}, card["recepient"])
		_, _ = w.Write([]byte(`{"invoice_id":"inv-42"}`))
	})

	id, err := client.GiftCards.Confirm(context.Background(), GiftCardRequest{
		CenterID:       "c1",
		GuestID:        "g1",
		TemplateID:     "tpl-1",
		RecipientName:  "Ana",
		RecipientEmail: "ana@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "inv-42", id)
}
