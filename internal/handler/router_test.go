package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"provchat/internal/app/chat"
	"provchat/internal/configs"
	"provchat/internal/handler"
)

func newTestServer(t *testing.T) (*httptest.Server, *chat.Hub) {
	t.Helper()

	cfg := &configs.AppConfig{
		Environment:     "development",
		Port:            8080,
		AllowedOrigins:  []string{},
		RateMaxMessages: 10,
		RatePeriod:      time.Second,
		MuteDuration:    time.Minute,
		HistoryLimit:    200,
		MaxMessageBytes: 5000,
		MaxFrameBytes:   1 << 20,
		PongWait:        30 * time.Second,
		PingInterval:    5 * time.Second,
	}

	hub := chat.NewHub(cfg)
	go hub.Run()
	t.Cleanup(hub.Shutdown)

	srv := httptest.NewServer(handler.Router(&handler.AppDeps{
		Hub:    hub,
		Config: cfg,
	}))
	t.Cleanup(srv.Close)

	return srv, hub
}

type jsonEnvelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func getJSON(t *testing.T, url string) jsonEnvelope {
	t.Helper()

	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	var body jsonEnvelope
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	return body
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	body := getJSON(t, srv.URL+"/health")
	assert.Equal(t, 0, body.Code)
	assert.Equal(t, "success", body.Message)
}

func TestPresenceEndpointsStartEmpty(t *testing.T) {
	srv, _ := newTestServer(t)

	presence := getJSON(t, srv.URL+"/api/presence")
	assert.Equal(t, 0, presence.Code)

	var data struct {
		Users []json.RawMessage `json:"users"`
	}
	require.NoError(t, json.Unmarshal(presence.Data, &data))
	assert.Empty(t, data.Users)

	rooms := getJSON(t, srv.URL+"/api/rooms")
	assert.Equal(t, 0, rooms.Code)
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func sendEvent(t *testing.T, conn *websocket.Conn, eventType chat.EventType, payload any) {
	t.Helper()

	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	frame, err := json.Marshal(chat.Envelope{Type: eventType, Payload: raw})
	require.NoError(t, err)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, frame))
}

// awaitEvent reads frames until one of the wanted type arrives.
func awaitEvent(t *testing.T, conn *websocket.Conn, eventType chat.EventType) chat.Envelope {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	for {
		_, frame, err := conn.ReadMessage()
		require.NoError(t, err, "waiting for %s", eventType)

		var env chat.Envelope
		require.NoError(t, json.Unmarshal(frame, &env))

		if env.Type == eventType {
			return env
		}
	}
}

func TestWebSocketChatScenario(t *testing.T) {
	srv, _ := newTestServer(t)

	ana := dialWS(t, srv)
	sendEvent(t, ana, chat.EventUserInfo, chat.UserInfoPayload{
		Nickname: "ana", Gender: "f", Region: "CABA",
	})
	accepted := awaitEvent(t, ana, chat.EventInfoAccepted)

	var acceptedPayload chat.InfoAcceptedPayload
	require.NoError(t, json.Unmarshal(accepted.Payload, &acceptedPayload))
	assert.Equal(t, "CABA", acceptedPayload.Region)

	luis := dialWS(t, srv)
	sendEvent(t, luis, chat.EventUserInfo, chat.UserInfoPayload{
		Nickname: "luis", Gender: "m", Region: "CABA",
	})
	awaitEvent(t, luis, chat.EventInfoAccepted)

	sendEvent(t, ana, chat.EventChatMessage, chat.TextPayload{Text: "hola"})

	for _, conn := range []*websocket.Conn{ana, luis} {
		env := awaitEvent(t, conn, chat.EventChatMessage)

		var msg chat.Message
		require.NoError(t, json.Unmarshal(env.Payload, &msg))
		assert.Equal(t, "ana", msg.Sender)
		assert.Equal(t, "CABA", msg.Room)
		assert.Equal(t, "hola", msg.Body)
	}

	sendEvent(t, luis, chat.EventPrivateMessage, chat.DirectTextPayload{To: "ana", Text: "hi"})

	for _, conn := range []*websocket.Conn{luis, ana} {
		env := awaitEvent(t, conn, chat.EventPrivateMessage)

		var msg chat.Message
		require.NoError(t, json.Unmarshal(env.Payload, &msg))
		assert.Equal(t, "luis", msg.Sender)
		assert.Equal(t, "ana", msg.To)
		assert.Equal(t, "hi", msg.Body)
	}
}

func TestWebSocketNicknameConflictDisconnects(t *testing.T) {
	srv, _ := newTestServer(t)

	ana := dialWS(t, srv)
	sendEvent(t, ana, chat.EventUserInfo, chat.UserInfoPayload{
		Nickname: "ana", Gender: "f", Region: "CABA",
	})
	awaitEvent(t, ana, chat.EventInfoAccepted)

	intruder := dialWS(t, srv)
	sendEvent(t, intruder, chat.EventUserInfo, chat.UserInfoPayload{
		Nickname: "Ana", Gender: "m", Region: "CABA",
	})
	awaitEvent(t, intruder, chat.EventNicknameInUse)

	// The server closes the rejected connection after the notice.
	require.NoError(t, intruder.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		if _, _, err := intruder.ReadMessage(); err != nil {
			assert.True(t, websocket.IsCloseError(err, websocket.CloseNoStatusReceived) ||
				websocket.IsUnexpectedCloseError(err), "unexpected error: %v", err)
			break
		}
	}
}
