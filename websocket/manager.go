// websocket/manager.go
package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/LilVoxy/covid_tracker/ETL/utils"
)

// NewManager создает новый менеджер WebSocket-соединений
func NewManager(logger *utils.ETLLogger) *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		direct:     make(chan envelope),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run обслуживает подключения до отмены ctx, затем отключает всех клиентов
func (manager *Manager) Run(ctx context.Context) {
	defer func() {
		close(manager.done)
		for id, client := range manager.clients {
			delete(manager.clients, id)
			close(client.Send)
		}
		manager.count.Store(0)
		manager.logger.Info("Менеджер WebSocket остановлен")
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-manager.register:
			manager.clients[client.ID] = client
			manager.count.Store(int32(len(manager.clients)))
			manager.logger.Debug("Клиент %s подключился", client.ID)

		case client := <-manager.unregister:
			if _, ok := manager.clients[client.ID]; ok {
				delete(manager.clients, client.ID)
				close(client.Send)
				manager.count.Store(int32(len(manager.clients)))
				manager.logger.Debug("Клиент %s отключился", client.ID)
			}

		case message := <-manager.broadcast:
			manager.send(message)

		case env := <-manager.direct:
			if _, ok := manager.clients[env.client.ID]; ok {
				select {
				case env.client.Send <- env.data:
				default:
				}
			}
		}
	}
}

// send отправляет сообщение всем подключенным клиентам; медленные клиенты отключаются
func (manager *Manager) send(message []byte) {
	for id, client := range manager.clients {
		select {
		case client.Send <- message:
		default:
			close(client.Send)
			delete(manager.clients, id)
			manager.logger.Warn("Клиент %s не успевает принимать сообщения и отключен", id)
		}
	}
	manager.count.Store(int32(len(manager.clients)))
}

// Broadcast рассылает сообщение всем клиентам
func (manager *Manager) Broadcast(msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("ошибка кодирования сообщения: %w", err)
	}

	select {
	case manager.broadcast <- data:
		return nil
	case <-manager.done:
		return fmt.Errorf("менеджер WebSocket остановлен")
	}
}

// ClientCount количество подключенных клиентов
func (manager *Manager) ClientCount() int {
	return int(manager.count.Load())
}

// ReportUpdated сообщение о готовности нового отчета
func ReportUpdated(runID, source string, finishedAt time.Time, charts []string) Message {
	return Message{
		Type:       MessageReportUpdated,
		RunID:      runID,
		Source:     source,
		FinishedAt: &finishedAt,
		Charts:     charts,
	}
}
