package services

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kendall-kelly/printshop-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLocalReceiptStore(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalReceiptStore(dir)
	ctx := context.Background()

	key, err := store.Save(ctx, "DTF-001", receiptHeader(t, "slip.PNG", []byte("png-bytes")))
	require.NoError(t, err)
	assert.Regexp(t, `^DTF-001_[0-9a-f-]{36}\.png$`, key)

	content, err := os.ReadFile(filepath.Join(dir, key))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), content)

	url, err := store.URL(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/receipts/"+key, url)

	require.NoError(t, store.Delete(ctx, key))
	_, err = os.Stat(filepath.Join(dir, key))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, store.Delete(ctx, key))
	assert.NoError(t, store.Delete(ctx, ""))
}

func TestNewReceiptStore_DefaultsToLocal(t *testing.T) {
	cfg := testutil.TestConfig()
	cfg.UploadDir = t.TempDir()

	store, err := NewReceiptStore(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	local, ok := store.(*LocalReceiptStore)
	require.True(t, ok)
	assert.Equal(t, cfg.UploadDir, local.Dir())
}

func TestNewReceiptStore_S3WhenBucketSet(t *testing.T) {
	cfg := testutil.TestConfig()
	cfg.AWSS3Bucket = "printshop-receipts"
	cfg.AWSAccessKeyID = "AKIATEST"
	cfg.AWSSecretAccessKey = "secret"

	store, err := NewReceiptStore(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	_, ok := store.(*S3ReceiptStore)
	assert.True(t, ok)

	// presigning is local and needs no network
	url, err := store.URL(context.Background(), "receipts/DTF-001/x.png")
	require.NoError(t, err)
	assert.Contains(t, url, "printshop-receipts")
	assert.Contains(t, url, "X-Amz-Signature")
}

func TestMockReceiptStore(t *testing.T) {
	store := NewMockReceiptStore()
	ctx := context.Background()

	var _ ReceiptStore = store
	key, err := store.Save(ctx, "DTF-001", receiptHeader(t, "a.pdf", []byte("pdf")))
	require.NoError(t, err)
	assert.True(t, store.Exists(key))
	assert.Len(t, store.Files(), 1)

	_, err = store.URL(ctx, "missing")
	assert.Error(t, err)

	require.NoError(t, store.Delete(ctx, key))
	assert.False(t, store.Exists(key))
}

func TestNoopSummaryCache(t *testing.T) {
	var cache SummaryCache = NoopSummaryCache{}
	ctx := context.Background()

	gen, err := cache.Generation(ctx)
	require.NoError(t, err)
	require.NoError(t, cache.Set(ctx, gen, nil))
	s, ok, err := cache.Get(ctx)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, s)
	assert.NoError(t, cache.Invalidate(ctx))
}

func TestNewRedisSummaryCache_Unreachable(t *testing.T) {
	_, err := NewRedisSummaryCache("127.0.0.1:1", "", 0, time.Minute, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to redis")
}

func TestEventEncoding(t *testing.T) {
	ev := newEvent(EventPaymentRecorded, "DTF-001", fixedNow, PaymentRecordedPayload{
		PaymentID: 3,
		Cash:      d("400"),
		Transfer:  d("0"),
		Amount:    d("400"),
		Balance:   d("600"),
		Status:    "InProgress",
	})

	raw, err := encodeEvent(ev)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "payment.recorded", decoded["type"])
	assert.Equal(t, "DTF-001", decoded["orderId"])
	assert.NotEmpty(t, decoded["id"])

	payload := decoded["payload"].(map[string]any)
	assert.Equal(t, float64(400), payload["cash"])
	assert.Equal(t, float64(600), payload["balance"])
	assert.Equal(t, "InProgress", payload["status"])
}

func TestNewKafkaEventBus(t *testing.T) {
	bus := NewKafkaEventBus([]string{"localhost:9092"}, "printshop.events", zap.NewNop())
	require.NotNil(t, bus)
	assert.Equal(t, "printshop.events", bus.writer.Topic)
	assert.NoError(t, bus.Close())
}

func TestKafkaEventBus_PublishDoesNotWaitForBroker(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	// nothing listens on port 1
	bus := NewKafkaEventBus([]string{"127.0.0.1:1"}, "printshop.events", zap.New(core))
	bus.timeout = 500 * time.Millisecond

	start := time.Now()
	err := bus.Publish(context.Background(), newEvent(EventOrderDeleted, "DTF-001", start, nil))
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)

	require.NoError(t, bus.Close())
	assert.Equal(t, 1, logs.FilterMessage("Failed to deliver event").Len())
}

func TestValidationError(t *testing.T) {
	err := invalid("phone", "must match 03XXXXXXXXX")
	assert.Equal(t, "phone: must match 03XXXXXXXXX", err.Error())
	assert.ErrorIs(t, err, ErrValidation)
}
