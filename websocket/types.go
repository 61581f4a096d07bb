// websocket/types.go
package websocket

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/LilVoxy/covid_tracker/ETL/utils"
)

// Message сообщение, которым сервер обменивается с клиентами
type Message struct {
	Type       string     `json:"type"`
	ClientID   string     `json:"clientId,omitempty"`
	RunID      string     `json:"runId,omitempty"`
	Source     string     `json:"source,omitempty"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
	Charts     []string   `json:"charts,omitempty"`
}

// Client клиент WebSocket
type Client struct {
	ID     string
	Socket *websocket.Conn
	Send   chan []byte
}

// envelope сообщение одному клиенту
type envelope struct {
	client *Client
	data   []byte
}

// Manager менеджер WebSocket-соединений. Карта клиентов принадлежит горутине Run
type Manager struct {
	clients    map[string]*Client
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	direct     chan envelope
	done       chan struct{}
	count      atomic.Int32
	logger     *utils.ETLLogger
}

// Конфигурация WebSocket-соединения
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Отчет публичный, подключения с любого источника
	},
}
