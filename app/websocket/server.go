package websocket

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"CourtPrint/app/services"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/grandcat/zeroconf"
	"golang.org/x/crypto/bcrypt"
)

// MessageType represents the type of WebSocket message
type MessageType string

const (
	TypePrintTicket       MessageType = "print_ticket"
	TypePrintCashRegister MessageType = "print_cash_register"
	TypePrintResult       MessageType = "print_result"
	TypeHeartbeat         MessageType = "heartbeat"
	TypeAuthResponse      MessageType = "auth_response"
)

// Message represents a WebSocket message
type Message struct {
	Type      MessageType     `json:"type"`
	JobID     string          `json:"job_id,omitempty"`
	PrinterID uint            `json:"printer_id,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// PrintResult reports the outcome of one print job back to the client
type PrintResult struct {
	JobID   string `json:"job_id"`
	Kind    string `json:"kind"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Client represents a connected front-desk or platform client
type Client struct {
	ID          string
	Connection  *websocket.Conn
	Send        chan []byte
	Server      *Server
	ConnectedAt time.Time
	RemoteAddr  string

	mu     sync.Mutex
	closed bool
}

// queue enqueues a message for the client's write pump. Returns false
// when the client is gone or its buffer is full. Job goroutines may
// outlive a disconnect, so the send is guarded against the closed
// channel.
func (c *Client) queue(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- payload:
		return true
	default:
		return false
	}
}

// closeSend shuts the client's send channel exactly once
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

// Server accepts print jobs over WebSocket and REST and forwards them
// to the printer service
type Server struct {
	clients      map[string]*Client
	register     chan *Client
	unregister   chan *Client
	upgrader     websocket.Upgrader
	mu           sync.RWMutex
	port         string
	printer      *services.PrinterService
	logger       *services.LoggerService
	agentKeyHash []byte
	mdnsShutdown chan bool
}

// NewServer creates a new job-intake server. agentKey may be empty, in
// which case authentication is disabled (trusted LAN setups).
func NewServer(port string, printer *services.PrinterService, logger *services.LoggerService, agentKey string) (*Server, error) {
	s := &Server{
		clients:      make(map[string]*Client),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		port:         port,
		printer:      printer,
		logger:       logger,
		mdnsShutdown: make(chan bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Jobs come from the local network
				return true
			},
		},
	}

	if agentKey != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(agentKey), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("could not hash agent key: %w", err)
		}
		s.agentKeyHash = hash
	}

	return s, nil
}

// Start starts the server. Blocks until the listener fails.
func (s *Server) Start() error {
	go s.run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/print/ticket", s.handlePrintTicket)
	mux.HandleFunc("/api/print/cash-register", s.handlePrintCashRegister)

	go s.startMDNS()

	s.logger.LogInfo("Print server starting", "port "+s.port)
	return http.ListenAndServe(s.port, mux)
}

// startMDNS announces the agent via mDNS so front-desk clients can
// discover it without manual configuration
func (s *Server) startMDNS() {
	port := 0
	fmt.Sscanf(s.port, ":%d", &port)
	if port == 0 {
		s.logger.LogWarning("mDNS: invalid port format", s.port)
		return
	}

	server, err := zeroconf.Register(
		"CourtPrint Agent",
		"_printagent._tcp",
		"local.",
		port,
		[]string{"version=1.0"},
		nil,
	)
	if err != nil {
		s.logger.LogWarning("mDNS: failed to register service", err.Error())
		return
	}

	s.logger.LogInfo("mDNS: agent announced on _printagent._tcp.local")

	<-s.mdnsShutdown
	server.Shutdown()
	s.logger.LogInfo("mDNS: service announcement stopped")
}

// Stop stops the server and disconnects all clients
func (s *Server) Stop() {
	select {
	case s.mdnsShutdown <- true:
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, client := range s.clients {
		client.closeSend()
		client.Connection.Close()
	}
	s.clients = make(map[string]*Client)
}

// run handles the main hub loop
func (s *Server) run() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case client := <-s.register:
			s.mu.Lock()
			s.clients[client.ID] = client
			s.mu.Unlock()
			s.logger.LogInfo("Client registered", client.ID+" from "+client.RemoteAddr)

		case client := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.clients[client.ID]; ok {
				delete(s.clients, client.ID)
				client.closeSend()
			}
			s.mu.Unlock()
			s.logger.LogInfo("Client unregistered", client.ID)

		case <-ticker.C:
			s.sendHeartbeat()
		}
	}
}

func (s *Server) sendHeartbeat() {
	msg := Message{Type: TypeHeartbeat, Timestamp: time.Now()}
	if payload, err := json.Marshal(msg); err == nil {
		s.mu.RLock()
		for _, client := range s.clients {
			client.queue(payload)
		}
		s.mu.RUnlock()
	}
}

// authorize validates the agent key presented by a client
func (s *Server) authorize(key string) bool {
	if s.agentKeyHash == nil {
		return true
	}
	return bcrypt.CompareHashAndPassword(s.agentKeyHash, []byte(key)) == nil
}

// handleWebSocket upgrades the connection and starts the client pumps
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(r.URL.Query().Get("key")) {
		http.Error(w, "invalid agent key", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.LogError("WebSocket upgrade error", err)
		return
	}

	client := &Client{
		ID:          uuid.NewString(),
		Connection:  conn,
		Send:        make(chan []byte, 256),
		Server:      s,
		ConnectedAt: time.Now(),
		RemoteAddr:  r.RemoteAddr,
	}

	s.register <- client

	// Confirm the accepted connection before any job traffic
	if payload, err := json.Marshal(Message{Type: TypeAuthResponse, Timestamp: time.Now()}); err == nil {
		client.queue(payload)
	}

	go client.writePump()
	go client.readPump()
}

// handleHealth reports agent liveness and client count
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	clientCount := len(s.clients)
	s.mu.RUnlock()

	response := map[string]interface{}{
		"status":  "healthy",
		"clients": clientCount,
		"time":    time.Now(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
