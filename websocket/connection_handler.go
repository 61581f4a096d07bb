// websocket/connection_handler.go
package websocket

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

// HandleConnections устанавливает WebSocket-соединение и регистрирует клиента
func (manager *Manager) HandleConnections(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		manager.logger.Error("Ошибка при установке WebSocket-соединения: %v", err)
		return
	}

	client := &Client{
		ID:     uuid.NewString(),
		Socket: conn,
		Send:   make(chan []byte, sendBufferSize),
	}

	// Клиент узнает свой идентификатор первым сообщением
	hello, err := json.Marshal(Message{Type: MessageHello, ClientID: client.ID})
	if err == nil {
		client.Send <- hello
	}

	select {
	case manager.register <- client:
	case <-manager.done:
		conn.Close()
		return
	}
	manager.logger.Debug("Клиент %s подключился с адреса %s", client.ID, r.RemoteAddr)

	// Запускаем горутины для чтения и отправки сообщений
	go client.readPump(manager)
	go client.writePump()
}
