//go:build integration

package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"testing"
	"time"

	ckafka "github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orderTopic = "orders.created.test"

// startServer runs the full app against disposable Postgres, Redis and Kafka.
func startServer(t *testing.T) (baseURL, brokers string) {
	t.Helper()
	dsn := startPostgres(t)
	redisAddr := startRedis(t)
	brokers = startKafka(t)

	port, err := getFreePort()
	require.NoError(t, err)
	t.Setenv("APP_PORT", strconv.Itoa(port))
	t.Setenv("APP_PRIMARY_DB_ADDR", dsn)
	t.Setenv("APP_REPLICA_DB_ADDR", dsn)
	t.Setenv("APP_REDIS_ADDR", redisAddr)
	t.Setenv("APP_KAFKA_BROKERS", brokers)
	t.Setenv("APP_KAFKA_ORDER_TOPIC", orderTopic)
	t.Setenv("APP_KAFKA_PARTITION", "1")
	t.Setenv("APP_BCRYPT_COST", "4")

	pkg.InitLogger()
	srv, _, cleanup, err := NewApp(context.Background(), pkg.Logger)
	require.NoError(t, err)
	go func() { _ = srv.ListenAndServe() }()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
		cleanup()
	})

	baseURL = fmt.Sprintf("http://127.0.0.1:%d", port)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, waitForReady(ctx, baseURL+"/health"))
	return baseURL, brokers
}

func call(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func callList(t *testing.T, url string) []map[string]any {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createdID(t *testing.T, resp *http.Response, body map[string]any) int64 {
	t.Helper()
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	return int64(body["data"].(map[string]any)["id"].(float64))
}

func TestEcommerceAPI_EndToEnd(t *testing.T) {
	baseURL, brokers := startServer(t)

	resp, body := call(t, http.MethodPost, baseURL+"/customers",
		map[string]any{"name": "Ada", "email": "ada@x.io", "phone": "555"})
	customer := createdID(t, resp, body)
	resp, body = call(t, http.MethodPost, baseURL+"/customers",
		map[string]any{"name": "Grace", "email": "", "phone": ""})
	other := createdID(t, resp, body)

	resp, body = call(t, http.MethodPut, fmt.Sprintf("%s/customers/%d", baseURL, customer),
		map[string]any{"name": "Ada L", "email": "ada@x.io", "phone": "556"})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "Ada L", body["data"].(map[string]any)["name"])
	customers := callList(t, baseURL+"/customers")
	assert.Len(t, customers, 2)

	resp, body = call(t, http.MethodPost, baseURL+"/products", map[string]any{"name": "Lamp", "price": 19.99})
	p1 := createdID(t, resp, body)
	resp, body = call(t, http.MethodPost, baseURL+"/products", map[string]any{"name": "Mug", "price": 4.5})
	p2 := createdID(t, resp, body)

	// Twice, so the second read is served from Redis.
	for i := 0; i < 2; i++ {
		resp, body = call(t, http.MethodGet, fmt.Sprintf("%s/products/%d", baseURL, p1), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 19.99, body["price"])
	}

	// The update evicts the cached copy.
	resp, body = call(t, http.MethodPut, fmt.Sprintf("%s/products/%d", baseURL, p1), map[string]any{"name": "Lamp", "price": 21})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	resp, body = call(t, http.MethodGet, fmt.Sprintf("%s/products/%d", baseURL, p1), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(21), body["price"])
	assert.Len(t, callList(t, baseURL+"/products"), 2)

	resp, body = call(t, http.MethodPost, baseURL+"/customeraccounts",
		map[string]any{"username": "ada", "password": "pw", "customer_id": customer})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	resp, _ = call(t, http.MethodPost, baseURL+"/customeraccounts",
		map[string]any{"username": "ada", "password": "pw", "customer_id": customer})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp, body = call(t, http.MethodPost, baseURL+"/customeraccounts",
		map[string]any{"username": "grace", "password": "pw", "customer_id": other})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	accountURL := fmt.Sprintf("%s/customeraccounts/%d", baseURL, customer)
	resp, body = call(t, http.MethodGet, accountURL, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "ada", body["username"])
	assert.NotContains(t, body, "password")
	assert.Equal(t, "Ada L", body["customer"].(map[string]any)["name"])

	resp, body = call(t, http.MethodPut, accountURL, map[string]any{"username": "grace", "password": "pw2"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode, body)
	assert.Equal(t, pkg.ErrSQLDuplicateCode.Code, body["code"])
	resp, body = call(t, http.MethodPut, accountURL, map[string]any{"username": "ada2", "password": "pw2"})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "ada2", body["data"].(map[string]any)["username"])
	resp, body = call(t, http.MethodPut, baseURL+"/customeraccounts/999", map[string]any{})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, body)

	otherAccountURL := fmt.Sprintf("%s/customeraccounts/%d", baseURL, other)
	resp, body = call(t, http.MethodDelete, otherAccountURL, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	resp, _ = call(t, http.MethodGet, otherAccountURL, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = call(t, http.MethodPost, baseURL+"/orders",
		map[string]any{"customer_id": customer, "product_ids": []int64{p1, p2, 999, p1}})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	order := body["data"].(map[string]any)["order"].(map[string]any)
	orderID := int64(order["id"].(float64))

	resp, body = call(t, http.MethodGet, fmt.Sprintf("%s/orders/%d", baseURL, orderID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["products"], 2)

	resp, body = call(t, http.MethodDelete, fmt.Sprintf("%s/customers/%d", baseURL, customer), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, body)
	resp, body = call(t, http.MethodDelete, fmt.Sprintf("%s/products/%d", baseURL, p2), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, body)

	resp, body = call(t, http.MethodPost, baseURL+"/orders", map[string]any{"customer_id": 999, "product_ids": []int64{}})
	assert.Equal(t, http.StatusConflict, resp.StatusCode, body)

	event := consumeOrderEvent(t, brokers)
	assert.Equal(t, orderID, event.OrderID)
	assert.Equal(t, customer, event.CustomerID)
	assert.ElementsMatch(t, []int64{p1, p2}, event.ProductIDs)
}

func consumeOrderEvent(t *testing.T, brokers string) views.OrderCreatedEvent {
	t.Helper()
	consumer, err := ckafka.NewConsumer(&ckafka.ConfigMap{
		"bootstrap.servers": brokers,
		"group.id":          "ecommerce-api-integration",
		"auto.offset.reset": "earliest",
	})
	require.NoError(t, err)
	defer consumer.Close()
	require.NoError(t, consumer.SubscribeTopics([]string{orderTopic}, nil))

	msg, err := consumer.ReadMessage(30 * time.Second)
	require.NoError(t, err)
	var event views.OrderCreatedEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, strconv.FormatInt(event.OrderID, 10), string(msg.Key))
	return event
}
