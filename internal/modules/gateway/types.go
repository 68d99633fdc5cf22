package gateway

import (
	"sync"

	socketio "github.com/zishang520/socket.io/v2/socket"
	"go.uber.org/zap"

	pkgredis "github.com/lexpress/core/internal/pkg/redis"
)

const (
	RoomAdmin  = "admin"
	RoomPublic = "public"

	namespaceAdmin = "/admin"
	namespaceWeb   = "/web"

	redisChanAdmin  = "lex:gateway:admin"
	redisChanPublic = "lex:gateway:public"

	redisKeyMaxOnline = "lex:max_online"
)

// Gateway events pushed to clients.
const (
	EventConnect             = "GATEWAY_CONNECT"
	EventAuthFailed          = "AUTH_FAILED"
	EventVisitorOnline       = "VISITOR_ONLINE"
	EventVisitorOffline      = "VISITOR_OFFLINE"
	EventArticleSubmitted    = "ARTICLE_SUBMITTED"
	EventArticleDecided      = "ARTICLE_DECIDED"
	EventExperienceSubmitted = "EXPERIENCE_SUBMITTED"
	EventExperienceDecided   = "EXPERIENCE_DECIDED"
	EventArticlePublished    = "ARTICLE_PUBLISHED"
)

// Message is the envelope used by hub broadcasts and Redis fan-out.
type Message struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
	Room    string      `json:"room,omitempty"`
}

type gatewayPayload struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type clientMeta struct {
	sid  string
	room string
}

// Hub manages socket.io namespaces and cross-instance fan-out over Redis.
type Hub struct {
	mu        sync.RWMutex
	sidRoom   map[string]string
	roomCount map[string]int

	broadcast  chan Message
	register   chan clientMeta
	unregister chan clientMeta

	rc             *pkgredis.Client
	logger         *zap.Logger
	sio            *socketio.Server
	tokenValidator func(string) bool
}
