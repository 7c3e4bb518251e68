package relay_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"fishcrypt/internal/domain"
	"fishcrypt/internal/relay"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newRelay(t *testing.T) *relay.HTTP {
	t.Helper()
	srv := httptest.NewServer(relay.NewServer(nil).Handler())
	client := &http.Client{Timeout: 5 * time.Second}
	t.Cleanup(func() {
		client.CloseIdleConnections()
		srv.Close()
	})
	return relay.NewHTTP(srv.URL+"/", client, 0)
}

func TestDeliverFetchAck(t *testing.T) {
	c := newRelay(t)
	ctx := context.Background()

	for _, line := range []string{"+OK one", "+OK two", "+OK three"} {
		require.NoError(t, c.Deliver(ctx, domain.Envelope{From: "Alice", To: "#Chan", Line: line}))
	}

	envs, err := c.Fetch(ctx, "#chan", 2)
	require.NoError(t, err)
	require.Len(t, envs, 2)
	assert.Equal(t, "+OK one", envs[0].Line)
	assert.Equal(t, domain.Target("alice"), envs[0].From)
	assert.Equal(t, domain.Target("#chan"), envs[0].To)
	assert.NotEmpty(t, envs[0].ID)
	assert.NotZero(t, envs[0].Timestamp)

	require.NoError(t, c.Ack(ctx, "#chan", 2))
	envs, err = c.Fetch(ctx, "#chan", 0)
	require.NoError(t, err)
	require.Len(t, envs, 1)
	assert.Equal(t, "+OK three", envs[0].Line)

	require.NoError(t, c.Ack(ctx, "#chan", 10))
	envs, err = c.Fetch(ctx, "#chan", 0)
	require.NoError(t, err)
	assert.Empty(t, envs)
}

func TestDeliver_RejectsEmptyLine(t *testing.T) {
	c := newRelay(t)
	err := c.Deliver(context.Background(), domain.Envelope{From: "a", To: "b"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "400"), err.Error())
}

func TestFetch_BadLimit(t *testing.T) {
	srv := httptest.NewServer(relay.NewServer(nil).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/msg/bob?limit=x")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	http.DefaultClient.CloseIdleConnections()
}

func TestFetch_ContextCancelled(t *testing.T) {
	c := newRelay(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Fetch(ctx, "bob", 0)
	assert.ErrorIs(t, err, context.Canceled)
}
