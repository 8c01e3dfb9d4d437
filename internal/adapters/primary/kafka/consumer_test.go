package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/admin/cosmic-connect/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	sarama.ConsumerGroupSession
	ctx    context.Context
	marked []int64
}

func (s *fakeSession) Context() context.Context { return s.ctx }

func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.marked = append(s.marked, msg.Offset)
}

type fakeClaim struct {
	sarama.ConsumerGroupClaim
	messages chan *sarama.ConsumerMessage
}

func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.messages }

type recordingHandler struct {
	keys    []string
	headers []map[string]string
	fail    map[string]error
}

func (h *recordingHandler) HandleMessage(_ context.Context, key string, _ []byte, headers map[string]string) error {
	h.keys = append(h.keys, key)
	h.headers = append(h.headers, headers)
	return h.fail[key]
}

func TestConsumeClaimMarksEveryMessage(t *testing.T) {
	handler := &recordingHandler{fail: map[string]error{
		"bad":      errors.New("malformed"),
		"business": domain.WrapBusinessError(errors.New("already handled")),
	}}
	h := &consumerGroupHandler{handler: handler, log: logger.Discard(), topic: "events"}

	claim := &fakeClaim{messages: make(chan *sarama.ConsumerMessage, 4)}
	claim.messages <- &sarama.ConsumerMessage{Key: []byte("ok"), Offset: 1, Headers: []*sarama.RecordHeader{
		{Key: []byte("event_type"), Value: []byte("payment.submitted")},
	}}
	claim.messages <- &sarama.ConsumerMessage{Key: []byte("bad"), Offset: 2}
	claim.messages <- &sarama.ConsumerMessage{Key: []byte("business"), Offset: 3}
	close(claim.messages)

	session := &fakeSession{ctx: context.Background()}
	require.NoError(t, h.ConsumeClaim(session, claim))

	assert.Equal(t, []string{"ok", "bad", "business"}, handler.keys)
	assert.Equal(t, "payment.submitted", handler.headers[0]["event_type"])
	assert.Equal(t, []int64{1, 2, 3}, session.marked)
}

func TestConsumeClaimStopsOnSessionEnd(t *testing.T) {
	h := &consumerGroupHandler{handler: &recordingHandler{}, log: logger.Discard(), topic: "events"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	session := &fakeSession{ctx: ctx}
	assert.NoError(t, h.ConsumeClaim(session, &fakeClaim{messages: make(chan *sarama.ConsumerMessage)}))
	assert.Empty(t, session.marked)
}
