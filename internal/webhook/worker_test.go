package webhook

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shenikar/incident_reporting_service/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorker(cfg *config.Config) *WebhookWorker {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах
	return NewWebhookWorker(nil, logger, cfg)
}

func TestProcessWebhookEvent_DeliversSignedPayload(t *testing.T) {
	payload := `{"event":"incident.created","incident_id":1}`
	var gotBody, gotSignature string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		gotSignature = r.Header.Get(signatureHeader)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	worker := newTestWorker(&config.Config{
		WebhookURL:        srv.URL,
		WebhookSecret:     "secret",
		WebhookTimeout:    time.Second,
		WebhookMaxRetries: 3,
		WebhookBaseDelay:  time.Millisecond,
	})

	worker.processWebhookEvent(context.Background(), IncidentEvent{Event: EventIncidentCreated, IncidentID: 1}, payload)

	assert.Equal(t, payload, gotBody)
	assert.Equal(t, generateHMACSHA256(payload, "secret"), gotSignature)
}

func TestProcessWebhookEvent_RetriesOnFailure(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	worker := newTestWorker(&config.Config{
		WebhookURL:        srv.URL,
		WebhookTimeout:    time.Second,
		WebhookMaxRetries: 5,
		WebhookBaseDelay:  time.Millisecond,
	})

	worker.processWebhookEvent(context.Background(), IncidentEvent{Event: EventIncidentDeleted, IncidentID: 7}, `{}`)

	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestProcessWebhookEvent_GivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	worker := newTestWorker(&config.Config{
		WebhookURL:        srv.URL,
		WebhookTimeout:    time.Second,
		WebhookMaxRetries: 2,
		WebhookBaseDelay:  time.Millisecond,
	})

	worker.processWebhookEvent(context.Background(), IncidentEvent{Event: EventIncidentUpdated, IncidentID: 2}, `{}`)

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestProcessWebhookEvent_SkipsWithoutURL(t *testing.T) {
	worker := newTestWorker(&config.Config{WebhookMaxRetries: 3})

	require.NotPanics(t, func() {
		worker.processWebhookEvent(context.Background(), IncidentEvent{Event: EventIncidentCreated, IncidentID: 1}, `{}`)
	})
}

func TestSleepCtx_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.False(t, sleepCtx(ctx, time.Hour))
	assert.True(t, sleepCtx(context.Background(), time.Millisecond))
}
