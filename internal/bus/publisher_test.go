package bus

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agnivade/asr_relay/internal/config"
)

func startServer(t *testing.T) *server.Server {
	opts := &server.Options{
		Host:   "127.0.0.1",
		Port:   -1,
		NoLog:  true,
		NoSigs: true,
	}
	ns, err := server.NewServer(opts)
	require.NoError(t, err)

	go ns.Start()
	if !ns.ReadyForConnections(5 * time.Second) {
		ns.Shutdown()
		t.Fatal("nats server not ready")
	}
	t.Cleanup(func() {
		ns.Shutdown()
		ns.WaitForShutdown()
	})
	return ns
}

func busConfig(ns *server.Server) config.BusConfig {
	return config.BusConfig{
		Servers:          []string{ns.ClientURL()},
		Subject:          "asr.transcripts",
		ConnectTimeoutMS: 2000,
	}
}

func nextEvent(t *testing.T, sub *nats.Subscription) (string, Event) {
	msg, err := sub.NextMsg(2 * time.Second)
	require.NoError(t, err)

	var ev Event
	require.NoError(t, json.Unmarshal(msg.Data, &ev))
	return msg.Subject, ev
}

func TestPublisher_PublishesSessionEvents(t *testing.T) {
	ns := startServer(t)

	nc, err := nats.Connect(ns.ClientURL())
	require.NoError(t, err)
	defer nc.Close()

	sub, err := nc.SubscribeSync("asr.transcripts.>")
	require.NoError(t, err)
	require.NoError(t, nc.Flush())

	p, err := Connect(busConfig(ns), zap.NewNop())
	require.NoError(t, err)
	defer p.Close()

	ctx := context.Background()
	require.NoError(t, p.SessionStarted(ctx, "session-1", "deepgram"))
	require.NoError(t, p.Transcript(ctx, "session-1", "deepgram", "hello world"))
	require.NoError(t, p.SessionEnded(ctx, "session-1", "deepgram", "normal"))
	require.NoError(t, p.conn.Flush())

	subject, ev := nextEvent(t, sub)
	assert.Equal(t, "asr.transcripts.deepgram.sessions", subject)
	assert.Equal(t, KindSessionStarted, ev.Kind)
	assert.Equal(t, "session-1", ev.SessionID)

	subject, ev = nextEvent(t, sub)
	assert.Equal(t, "asr.transcripts.deepgram", subject)
	assert.Equal(t, KindTranscript, ev.Kind)
	assert.Equal(t, "hello world", ev.Text)
	assert.False(t, ev.Timestamp.IsZero())

	subject, ev = nextEvent(t, sub)
	assert.Equal(t, "asr.transcripts.deepgram.sessions", subject)
	assert.Equal(t, KindSessionEnded, ev.Kind)
	assert.Equal(t, "normal", ev.Reason)
}

func TestConnect_NoServers(t *testing.T) {
	_, err := Connect(config.BusConfig{}, zap.NewNop())
	assert.Error(t, err)
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect(config.BusConfig{
		Servers:          []string{"nats://127.0.0.1:1"},
		Subject:          "asr",
		ConnectTimeoutMS: 200,
	}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect to nats")
}
