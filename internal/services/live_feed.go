package services

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/AgusMolinaCode/cryptotracker/internal/models"
	"github.com/AgusMolinaCode/cryptotracker/internal/observability"
	"github.com/gorilla/websocket"
)

const (
	feedWriteTimeout = 10 * time.Second
	feedPingInterval = 30 * time.Second
	feedReadTimeout  = 60 * time.Second
	feedBufferSize   = 8
)

// LiveFeed reparte los snapshots del mercado a los clientes websocket conectados
type LiveFeed struct {
	upgrader websocket.Upgrader
	metrics  *observability.Metrics

	mutex   sync.Mutex
	clients map[*feedClient]struct{}
	last    []byte
}

type feedClient struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *feedClient) close() {
	c.once.Do(func() { close(c.send) })
}

// NewLiveFeed crea el feed. allowedOrigins vacío acepta cualquier origen.
func NewLiveFeed(allowedOrigins []string, metrics *observability.Metrics) *LiveFeed {
	f := &LiveFeed{
		metrics: metrics,
		clients: make(map[*feedClient]struct{}),
	}
	f.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return f
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		for _, o := range allowed {
			if o == origin || o == "*" {
				return true
			}
		}
		return false
	}
}

// Broadcast envía el snapshot a todos los clientes. Un cliente lento pierde el mensaje.
func (f *LiveFeed) Broadcast(snapshot models.MarketSnapshot) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		log.Printf("Error al serializar el snapshot del mercado: %v", err)
		return
	}

	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.last = payload
	for c := range f.clients {
		select {
		case c.send <- payload:
		default:
			log.Printf("Cliente del feed saturado, se descarta el snapshot")
		}
	}
}

// Clients devuelve la cantidad de clientes conectados
func (f *LiveFeed) Clients() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return len(f.clients)
}

// ServeWS actualiza la conexión a websocket y la mantiene hasta que el cliente se va.
// El último snapshot conocido se envía al conectar.
func (f *LiveFeed) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Error al abrir el websocket: %v", err)
		return
	}

	client := &feedClient{conn: conn, send: make(chan []byte, feedBufferSize)}
	f.register(client)

	go f.writeLoop(client)
	f.readLoop(client)
}

func (f *LiveFeed) register(c *feedClient) {
	f.mutex.Lock()
	f.clients[c] = struct{}{}
	if f.last != nil {
		c.send <- f.last
	}
	f.mutex.Unlock()

	f.metrics.AddLiveFeedClients(1)
}

func (f *LiveFeed) unregister(c *feedClient) {
	f.mutex.Lock()
	_, ok := f.clients[c]
	delete(f.clients, c)
	f.mutex.Unlock()

	if ok {
		c.close()
		f.metrics.AddLiveFeedClients(-1)
	}
}

// readLoop solo atiende pongs y el cierre; los mensajes del cliente se ignoran
func (f *LiveFeed) readLoop(c *feedClient) {
	defer f.unregister(c)

	c.conn.SetReadDeadline(time.Now().Add(feedReadTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(feedReadTimeout))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Error de lectura en el websocket: %v", err)
			}
			return
		}
	}
}

func (f *LiveFeed) writeLoop(c *feedClient) {
	ticker := time.NewTicker(feedPingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				f.unregister(c)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				f.unregister(c)
				return
			}
		}
	}
}

// Shutdown cierra todas las conexiones abiertas
func (f *LiveFeed) Shutdown() {
	f.mutex.Lock()
	clients := make([]*feedClient, 0, len(f.clients))
	for c := range f.clients {
		clients = append(clients, c)
	}
	f.mutex.Unlock()

	for _, c := range clients {
		f.unregister(c)
	}
}
