package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/flightsurety/surety-node/core/types"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher(t *testing.T) {
	t.Parallel()
	w := &fakeWriter{}
	kp := newKafkaPublisher(w, nil)

	passenger := types.HexToAddress("0x18467bbb64a8edf890201d526c35957d82be3d95")
	kp.Publish(&InsuranceWithdrawnEvent{Passenger: passenger, Amount: "1500000000000000000"})
	kp.Notify(&OperatingStatusEvent{Operational: true})

	require.Len(t, w.msgs, 2)
	assert.Equal(t, TypeInsuranceWithdrawnEvent, string(w.msgs[0].Key))

	var envelope struct {
		Type  string                  `json:"type"`
		Value InsuranceWithdrawnEvent `json:"value"`
	}
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &envelope))
	assert.Equal(t, TypeInsuranceWithdrawnEvent, envelope.Type)
	assert.Equal(t, passenger, envelope.Value.Passenger)
	assert.Equal(t, "1500000000000000000", envelope.Value.Amount)

	require.NoError(t, kp.Close())
	assert.True(t, w.closed)
}
