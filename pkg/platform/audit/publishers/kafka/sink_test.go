package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	audit "protocolo/pkg/platform/audit"
)

type fakeProducer struct {
	records []*kgo.Record
	err     error
	closed  bool
}

func (f *fakeProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	var out kgo.ProduceResults
	for _, r := range rs {
		if f.err == nil {
			f.records = append(f.records, r)
		}
		out = append(out, kgo.ProduceResult{Record: r, Err: f.err})
	}
	return out
}

func (f *fakeProducer) Close() { f.closed = true }

func TestSinkProducesKeyedRecords(t *testing.T) {
	producer := &fakeProducer{}
	sink := New(producer, "protocolo.audit")

	event := audit.Event{
		Category: audit.CategoryCompliance,
		Subject:  "proc-1",
		Action:   string(audit.EventProcessCreated),
		Actor:    "ana",
	}
	require.NoError(t, sink.Append(context.Background(), event))
	require.Len(t, producer.records, 1)

	rec := producer.records[0]
	assert.Equal(t, "protocolo.audit", rec.Topic)
	assert.Equal(t, []byte("proc-1"), rec.Key)

	var decoded audit.Event
	require.NoError(t, json.Unmarshal(rec.Value, &decoded))
	assert.Equal(t, "ana", decoded.Actor)
	assert.Equal(t, string(audit.EventProcessCreated), decoded.Action)

	sink.Close()
	assert.True(t, producer.closed)
}

func TestSinkOpensBreakerAfterFailures(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	producer := &fakeProducer{err: errors.New("broker down")}
	sink := New(producer, "audit", WithBreaker(2, time.Minute, clock))
	ctx := context.Background()

	assert.Error(t, sink.Append(ctx, audit.Event{}))
	assert.Error(t, sink.Append(ctx, audit.Event{}))
	assert.ErrorIs(t, sink.Append(ctx, audit.Event{}), ErrCircuitOpen)

	// cooldown elapsed: one attempt goes through and succeeds
	now = now.Add(2 * time.Minute)
	producer.err = nil
	require.NoError(t, sink.Append(ctx, audit.Event{Subject: "p"}))
	require.NoError(t, sink.Append(ctx, audit.Event{Subject: "p"}))
	assert.Len(t, producer.records, 2)
}

func TestDialRequiresBrokers(t *testing.T) {
	_, err := Dial(nil, "audit")
	assert.Error(t, err)
}
