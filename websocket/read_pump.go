// websocket/read_pump.go
package websocket

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

// readPump читает сообщения клиента до разрыва соединения
func (c *Client) readPump(manager *Manager) {
	defer func() {
		select {
		case manager.unregister <- c:
		case <-manager.done:
		}
		c.Socket.Close()
	}()

	c.Socket.SetReadLimit(maxMessageSize)
	c.Socket.SetReadDeadline(time.Now().Add(pongWait))
	c.Socket.SetPongHandler(func(string) error {
		c.Socket.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.Socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				manager.logger.Debug("Ошибка чтения клиента %s: %v", c.ID, err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			manager.logger.Debug("Ошибка декодирования сообщения клиента %s: %v", c.ID, err)
			continue
		}

		if msg.Type == MessagePing {
			pong, _ := json.Marshal(Message{Type: MessagePong})
			select {
			case manager.direct <- envelope{client: c, data: pong}:
			case <-manager.done:
				return
			}
		}
	}
}
