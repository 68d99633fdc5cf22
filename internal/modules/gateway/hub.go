package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	socketio "github.com/zishang520/socket.io/v2/socket"
	"go.uber.org/zap"

	pkgredis "github.com/lexpress/core/internal/pkg/redis"
)

// NewHub builds the gateway. tokenValidator decides whether a token presented
// on the admin namespace belongs to an active staff session.
func NewHub(rc *pkgredis.Client, logger *zap.Logger, tokenValidator func(string) bool) *Hub {
	sio := socketio.NewServer(nil, nil)
	h := &Hub{
		sidRoom:        make(map[string]string),
		roomCount:      make(map[string]int),
		broadcast:      make(chan Message, 256),
		register:       make(chan clientMeta, 256),
		unregister:     make(chan clientMeta, 256),
		rc:             rc,
		logger:         logger,
		sio:            sio,
		tokenValidator: tokenValidator,
	}
	h.registerNamespaces()
	return h
}

// Run drives the hub loop until the context is cancelled. Broadcasts are
// delivered locally and published to Redis so other instances repeat them.
func (h *Hub) Run(ctx context.Context) {
	go h.subscribeRedis(ctx)

	for {
		select {
		case <-ctx.Done():
			h.sio.Close(nil)
			return

		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unregister:
			h.unregisterClient(c)

		case msg := <-h.broadcast:
			h.deliver(msg)
			channel := redisChanPublic
			if msg.Room == RoomAdmin {
				channel = redisChanAdmin
			}
			data, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			if err := h.rc.Publish(ctx, channel, string(data)); err != nil && h.logger != nil {
				h.logger.Warn("gateway publish failed", zap.String("channel", channel), zap.Error(err))
			}
		}
	}
}

func (h *Hub) registerClient(c clientMeta) {
	online := -1

	h.mu.Lock()
	if oldRoom, ok := h.sidRoom[c.sid]; ok {
		if oldRoom == c.room {
			h.mu.Unlock()
			return
		}
		if h.roomCount[oldRoom] > 0 {
			h.roomCount[oldRoom]--
		}
	}
	h.sidRoom[c.sid] = c.room
	h.roomCount[c.room]++
	if c.room == RoomPublic {
		online = h.roomCount[RoomPublic]
	}
	h.mu.Unlock()

	if online >= 0 {
		h.BroadcastPublic(EventVisitorOnline, onlinePayload(online))
		h.recordMaxOnline(online)
	}
}

func (h *Hub) unregisterClient(c clientMeta) {
	online := -1

	h.mu.Lock()
	room, ok := h.sidRoom[c.sid]
	if !ok {
		h.mu.Unlock()
		return
	}
	delete(h.sidRoom, c.sid)
	if h.roomCount[room] > 0 {
		h.roomCount[room]--
	}
	if room == RoomPublic {
		online = h.roomCount[RoomPublic]
	}
	h.mu.Unlock()

	if online >= 0 {
		h.BroadcastPublic(EventVisitorOffline, onlinePayload(online))
	}
}

// recordMaxOnline keeps a per-day high-water mark of concurrent readers.
func (h *Hub) recordMaxOnline(online int) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	dateKey := time.Now().Format("2006-01-02")
	current, err := h.rc.Raw().HGet(ctx, redisKeyMaxOnline, dateKey).Result()
	max := 0
	switch {
	case err == nil:
		if parsed, parseErr := strconv.Atoi(strings.TrimSpace(current)); parseErr == nil {
			max = parsed
		}
	case err == redis.Nil:
	default:
		if h.logger != nil {
			h.logger.Warn("gateway max online read failed", zap.Error(err))
		}
	}
	if online > max {
		if err := h.rc.Raw().HSet(ctx, redisKeyMaxOnline, dateKey, online).Err(); err != nil && h.logger != nil {
			h.logger.Warn("gateway max online write failed", zap.Error(err))
		}
	}
}

func onlinePayload(online int) map[string]interface{} {
	return map[string]interface{}{
		"online":    online,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	}
}

// Broadcast sends an event to the given room, or both rooms when room is
// empty.
func (h *Hub) Broadcast(event string, payload interface{}, room string) {
	h.broadcast <- Message{Event: event, Payload: payload, Room: room}
}

// BroadcastAdmin sends to connected admin clients only.
func (h *Hub) BroadcastAdmin(event string, payload interface{}) {
	h.Broadcast(event, payload, RoomAdmin)
}

// BroadcastPublic sends to public readers.
func (h *Hub) BroadcastPublic(event string, payload interface{}) {
	h.Broadcast(event, payload, RoomPublic)
}

// ClientCount returns connected clients, optionally for one room.
func (h *Hub) ClientCount(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if room == "" {
		return len(h.sidRoom)
	}
	return h.roomCount[room]
}

// Handler returns the socket.io HTTP handler.
func (h *Hub) Handler() http.Handler {
	return h.sio.ServeHandler(nil)
}

func (h *Hub) formatMessage(event string, payload interface{}) gatewayPayload {
	return gatewayPayload{Type: event, Data: payload}
}

func (h *Hub) emitNamespace(nsp string, msg Message) {
	h.sio.Of(nsp, nil).Emit("message", h.formatMessage(msg.Event, msg.Payload))
}

func (h *Hub) deliver(msg Message) {
	switch msg.Room {
	case RoomAdmin:
		h.emitNamespace(namespaceAdmin, msg)
	case RoomPublic:
		h.emitNamespace(namespaceWeb, msg)
	case "":
		h.emitNamespace(namespaceAdmin, msg)
		h.emitNamespace(namespaceWeb, msg)
	}
}

// subscribeRedis repeats broadcasts published by other server instances.
func (h *Hub) subscribeRedis(ctx context.Context) {
	pubsub := h.rc.Subscribe(ctx, redisChanAdmin, redisChanPublic)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case redisMsg, ok := <-ch:
			if !ok {
				return
			}
			var msg Message
			if err := json.Unmarshal([]byte(redisMsg.Payload), &msg); err != nil {
				continue
			}
			h.deliver(msg)
		}
	}
}
