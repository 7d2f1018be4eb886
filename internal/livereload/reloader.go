package livereload

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

const (
	Path = "/__livereload"

	reloadMessage = "reload"
)

type Reloader struct {
	clients  map[*websocket.Conn]bool
	lock     sync.Mutex
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

func NewReloader(logger *slog.Logger) *Reloader {
	return &Reloader{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}
}

// Handler upgrades the request to a websocket and keeps the client until it
// disconnects.
func (lr *Reloader) Handler(w http.ResponseWriter, r *http.Request) {
	conn, err := lr.upgrader.Upgrade(w, r, nil)
	if err != nil {
		lr.logger.Debug("Live reload upgrade failed", slog.Any("err", err))
		return
	}

	lr.lock.Lock()
	lr.clients[conn] = true
	lr.lock.Unlock()

	go func() {
		defer func() {
			lr.lock.Lock()
			delete(lr.clients, conn)
			lr.lock.Unlock()
			conn.Close()
		}()

		for {
			if _, _, err := conn.NextReader(); err != nil {
				break
			}
		}
	}()
}

func (lr *Reloader) BroadcastReload() {
	lr.lock.Lock()
	defer lr.lock.Unlock()

	for conn := range lr.clients {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(reloadMessage)); err != nil {
			conn.Close()
			delete(lr.clients, conn)
		}
	}

	lr.logger.Debug("Broadcast live reload", slog.Int("clients", len(lr.clients)))
}

// Clients returns the number of connected browsers.
func (lr *Reloader) Clients() int {
	lr.lock.Lock()
	defer lr.lock.Unlock()
	return len(lr.clients)
}
