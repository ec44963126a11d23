package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"framewatch/internal/config"
	"framewatch/internal/dao"
	"framewatch/pkg/log"
)

type stubPublisher struct {
	topics []string
	bodies [][]byte
	err    error
}

func (s *stubPublisher) Publish(topic string, body []byte) error {
	s.topics = append(s.topics, topic)
	s.bodies = append(s.bodies, body)
	return s.err
}

func TestDispatcherUnconfiguredIsNoop(t *testing.T) {
	d := NewDispatcher(&config.WatchListConfig{}, nil, log.NewLogger())

	assert.False(t, d.Configured())
	// Must not panic with no channels.
	d.Dispatch(context.Background(), "hello", nil)
}

func TestDispatchBothChannels(t *testing.T) {
	var smsBody []byte
	sms := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		smsBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer sms.Close()

	pub := &stubPublisher{}
	d := NewDispatcher(&config.WatchListConfig{
		NotifyPhone: "+15555550100",
		NotifyTopic: "alerts",
		SMSEndpoint: sms.URL,
	}, pub, log.NewLogger())

	require.True(t, d.Configured())

	labels := []dao.DetectedLabel{{Name: "Dog", Confidence: 91, OnWatchList: true}}
	d.Dispatch(context.Background(), "dog spotted", labels)

	var req smsRequest
	require.NoError(t, json.Unmarshal(smsBody, &req))
	assert.Equal(t, "+15555550100", req.To)
	assert.Equal(t, "dog spotted", req.Text)

	require.Len(t, pub.topics, 1)
	assert.Equal(t, "alerts", pub.topics[0])
	var payload dao.AlertPayload
	require.NoError(t, json.Unmarshal(pub.bodies[0], &payload))
	assert.Equal(t, "dog spotted", payload.Message)
	require.Len(t, payload.Labels, 1)
	assert.True(t, payload.Labels[0].OnWatchList)
}

func TestSMSFailureDoesNotSuppressTopic(t *testing.T) {
	sms := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer sms.Close()

	pub := &stubPublisher{}
	d := NewDispatcher(&config.WatchListConfig{
		NotifyPhone: "+15555550100",
		NotifyTopic: "alerts",
		SMSEndpoint: sms.URL,
	}, pub, log.NewLogger())

	d.Dispatch(context.Background(), "msg", nil)

	assert.Len(t, pub.topics, 1)
}

func TestTopicOnlyConfiguration(t *testing.T) {
	pub := &stubPublisher{}
	d := NewDispatcher(&config.WatchListConfig{
		NotifyTopic: "alerts",
	}, pub, log.NewLogger())

	require.True(t, d.Configured())
	d.Dispatch(context.Background(), "msg", nil)

	assert.Len(t, pub.topics, 1)
}

func TestSMSClientSendsBearerToken(t *testing.T) {
	var auth string
	sms := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer sms.Close()

	cli := NewSMSClient(sms.URL, "secret")
	require.NoError(t, cli.Send(context.Background(), "+1", "hi"))

	assert.Equal(t, "Bearer secret", auth)
}
