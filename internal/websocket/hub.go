package websocket

import (
	"sync"
	"sync/atomic"

	jsoniter "github.com/json-iterator/go"

	"hedgebot/internal/models"
	"hedgebot/pkg/utils"
)

// Быстрая сериализация broadcast сообщений.
// jsoniter переиспользует внутренние буферы, дополнительный пул не нужен.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Hub управляет всеми активными WebSocket соединениями
//
// Назначение:
// Центральный менеджер для broadcast сообщений всем подключенным клиентам.
// Обеспечивает real-time доставку риск-снимков и уведомлений на frontend
// без необходимости polling.
//
// Типы сообщений:
// - notification: новое уведомление (алерт, хедж, ошибка)
// - riskUpdate: свежий риск-снимок по активу
// - monitorUpdate: изменение состояния монитора
//
// Использование:
// 1. Создать hub: hub := NewHub()
// 2. Запустить в горутине: go hub.Run()
// 3. Отправлять сообщения: hub.BroadcastNotification(notif)
type Hub struct {
	// Зарегистрированные клиенты
	clients map[*Client]bool

	// Broadcast канал для отправки сообщений всем клиентам
	broadcast chan []byte

	// Регистрация нового клиента
	register chan *Client

	// Отмена регистрации клиента
	unregister chan *Client

	// Сигнал остановки главного цикла
	done chan struct{}

	stopOnce sync.Once

	// Счетчики для lock-free чтения
	clientCount atomic.Int64
	dropped     atomic.Int64

	// Mutex для потокобезопасного доступа к clients
	mu sync.RWMutex
}

// NewHub создает новый Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run запускает главный цикл Hub
//
// Должен запускаться в отдельной горутине: go hub.Run()
// Обрабатывает регистрацию, отмену регистрации и broadcast.
// Завершается по Stop().
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			// Закрываем все соединения при остановке
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.clientCount.Store(0)
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.clientCount.Add(1)
			utils.Debug("websocket client connected", utils.Int64("total", h.clientCount.Load()))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.clientCount.Add(-1)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			// Копируем список клиентов под коротким RLock
			h.mu.RLock()
			clients := make([]*Client, 0, len(h.clients))
			for client := range h.clients {
				clients = append(clients, client)
			}
			h.mu.RUnlock()

			// Отправляем без блокировки (не задерживаем register/unregister)
			var toRemove []*Client
			for _, client := range clients {
				select {
				case client.send <- message:
				default:
					// Клиент не успевает обрабатывать - помечаем для удаления
					toRemove = append(toRemove, client)
				}
			}

			// Удаляем медленных клиентов под Write Lock
			if len(toRemove) > 0 {
				h.mu.Lock()
				for _, client := range toRemove {
					if _, ok := h.clients[client]; ok {
						delete(h.clients, client)
						close(client.send)
						h.clientCount.Add(-1)
					}
				}
				h.mu.Unlock()
				utils.Warn("removed slow websocket clients",
					utils.Int("removed", len(toRemove)),
					utils.Int64("total", h.clientCount.Load()),
				)
			}
		}
	}
}

// Stop останавливает главный цикл Hub
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)
	})
}

// Broadcast сериализует сообщение и отправляет его всем клиентам.
// Неблокирующий: при переполнении канала сообщение отбрасывается.
func (h *Hub) Broadcast(message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		utils.Error("failed to marshal broadcast message", utils.Err(err))
		return
	}

	h.BroadcastRaw(data)
}

// BroadcastRaw отправляет уже сериализованное сообщение.
// Неблокирующий: при переполнении канала сообщение отбрасывается
// и инкрементируется счетчик dropped.
func (h *Hub) BroadcastRaw(data []byte) {
	select {
	case h.broadcast <- data:
	default:
		h.dropped.Add(1)
	}
}

// BroadcastNotification отправляет новое уведомление всем клиентам
func (h *Hub) BroadcastNotification(notif *models.Notification) {
	h.Broadcast(NewNotificationMessage(notif))
}

// BroadcastRiskUpdate отправляет свежий риск-снимок по активу
func (h *Hub) BroadcastRiskUpdate(snap *models.RiskSnapshot) {
	h.Broadcast(NewRiskUpdateMessage(snap))
}

// BroadcastMonitorUpdate отправляет изменение состояния монитора
func (h *Hub) BroadcastMonitorUpdate(monitor *models.Monitor) {
	h.Broadcast(NewMonitorUpdateMessage(monitor))
}

// ClientCount возвращает количество подключенных клиентов (lock-free)
func (h *Hub) ClientCount() int {
	return int(h.clientCount.Load())
}

// DroppedMessages возвращает количество отброшенных сообщений
func (h *Hub) DroppedMessages() int64 {
	return h.dropped.Load()
}
