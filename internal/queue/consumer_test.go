package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-ticket-reservation/internal/notify"
)

type recorder struct{ got []notify.Email }

func (r *recorder) Notify(_ context.Context, e notify.Email) error {
	r.got = append(r.got, e)
	return nil
}

func TestHandleMessage(t *testing.T) {
	rec := &recorder{}
	body, err := json.Marshal(EmailRequested{To: "ann@example.com", Subject: "Reservation created", Body: "hi", RequestedAt: time.Now()})
	require.NoError(t, err)

	require.NoError(t, handleMessage(context.Background(), body, rec))
	assert.Equal(t, []notify.Email{{To: "ann@example.com", Subject: "Reservation created", Body: "hi"}}, rec.got)

	assert.Error(t, handleMessage(context.Background(), []byte("{"), rec))
	assert.Error(t, handleMessage(context.Background(), []byte(`{"to":"  ","subject":"x"}`), rec))
	assert.Len(t, rec.got, 1)
}

func TestSleepStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, sleep(ctx, time.Hour))
	assert.True(t, sleep(context.Background(), time.Millisecond))
}
