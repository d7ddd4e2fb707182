package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cafehub/internal/model"
)

type stubSender struct {
	got []model.ResetMail
	err error
}

func (s *stubSender) SendResetCode(_ context.Context, mail model.ResetMail) error {
	if s.err != nil {
		return s.err
	}
	s.got = append(s.got, mail)
	return nil
}

type stubAck struct {
	acked, nacked, requeued bool
}

func (a *stubAck) Ack(bool) error {
	a.acked = true
	return nil
}

func (a *stubAck) Nack(_ bool, requeue bool) error {
	a.nacked = true
	a.requeued = requeue
	return nil
}

func TestProcess(t *testing.T) {
	payload, err := json.Marshal(model.ResetMail{To: "alice@x.com", Username: "alice", Code: "123456"})
	require.NoError(t, err)

	t.Run("delivered mail is acked", func(t *testing.T) {
		sender := &stubSender{}
		w := NewResetMailWorker(nil, sender, "q", zap.NewNop())
		ack := &stubAck{}

		w.process(context.Background(), payload, ack)

		assert.True(t, ack.acked)
		require.Len(t, sender.got, 1)
		assert.Equal(t, "123456", sender.got[0].Code)
	})

	t.Run("delivery failure is dropped", func(t *testing.T) {
		w := NewResetMailWorker(nil, &stubSender{err: errors.New("smtp down")}, "q", zap.NewNop())
		ack := &stubAck{}

		w.process(context.Background(), payload, ack)

		assert.True(t, ack.nacked)
		assert.False(t, ack.requeued)
	})

	t.Run("undecodable body is dropped", func(t *testing.T) {
		sender := &stubSender{}
		w := NewResetMailWorker(nil, sender, "q", zap.NewNop())
		ack := &stubAck{}

		w.process(context.Background(), []byte("{"), ack)

		assert.True(t, ack.nacked)
		assert.Empty(t, sender.got)
	})
}
