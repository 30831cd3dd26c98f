package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"CourtPrint/app/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// readPump reads print jobs from the client connection
func (c *Client) readPump() {
	defer func() {
		c.Server.unregister <- c
		c.Connection.Close()
	}()

	c.Connection.SetReadLimit(512 * 1024)
	c.Connection.SetReadDeadline(time.Now().Add(pongWait))
	c.Connection.SetPongHandler(func(string) error {
		c.Connection.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Connection.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.Server.logger.LogWarning("WebSocket read error", err.Error())
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.Server.logger.LogWarning("Invalid message from client", err.Error())
			continue
		}

		switch msg.Type {
		case TypePrintTicket, TypePrintCashRegister:
			go c.handlePrintMessage(msg)
		case TypeHeartbeat:
			// nothing to do
		default:
			c.Server.logger.LogWarning("Unknown message type", string(msg.Type))
		}
	}
}

// writePump forwards queued messages to the client connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Connection.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Connection.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Connection.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Connection.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Connection.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handlePrintMessage dispatches one job to the printer service and
// reports the result back to the submitting client
func (c *Client) handlePrintMessage(msg Message) {
	defer c.Server.logger.RecoverPanic()

	jobID := msg.JobID
	if jobID == "" {
		jobID = uuid.NewString()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	var kind string
	var err error
	switch msg.Type {
	case TypePrintTicket:
		kind = "ticket"
		var data models.TicketData
		if err = json.Unmarshal(msg.Data, &data); err == nil {
			err = c.Server.printer.PrintTicket(ctx, &data, msg.PrinterID, "websocket")
		}
	case TypePrintCashRegister:
		kind = "cash_register"
		var data models.CashRegisterTicketData
		if err = json.Unmarshal(msg.Data, &data); err == nil {
			err = c.Server.printer.PrintCashRegisterTicket(ctx, &data, msg.PrinterID, "websocket")
		}
	}

	result := PrintResult{JobID: jobID, Kind: kind, Success: err == nil}
	if err != nil {
		result.Error = err.Error()
	}
	c.sendResult(result)
}

func (c *Client) sendResult(result PrintResult) {
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	payload, err := json.Marshal(Message{
		Type:      TypePrintResult,
		JobID:     result.JobID,
		Timestamp: time.Now(),
		Data:      data,
	})
	if err != nil {
		return
	}
	if !c.queue(payload) {
		c.Server.logger.LogWarning("Print result dropped, client gone", result.JobID)
	}
}

// handlePrintTicket is the REST intake for receipt jobs
func (s *Server) handlePrintTicket(w http.ResponseWriter, r *http.Request) {
	s.handleRESTPrint(w, r, "ticket")
}

// handlePrintCashRegister is the REST intake for closing-report jobs
func (s *Server) handlePrintCashRegister(w http.ResponseWriter, r *http.Request) {
	s.handleRESTPrint(w, r, "cash_register")
}

func (s *Server) handleRESTPrint(w http.ResponseWriter, r *http.Request, kind string) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.authorize(r.Header.Get("X-Agent-Key")) {
		http.Error(w, "invalid agent key", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	var printerID uint
	if v := r.URL.Query().Get("printer_id"); v != "" {
		id, convErr := strconv.ParseUint(v, 10, 32)
		if convErr != nil {
			http.Error(w, "invalid printer_id", http.StatusBadRequest)
			return
		}
		printerID = uint(id)
	}

	var err error
	switch kind {
	case "ticket":
		var data models.TicketData
		if err = json.NewDecoder(r.Body).Decode(&data); err == nil {
			err = s.printer.PrintTicket(ctx, &data, printerID, "rest")
		}
	case "cash_register":
		var data models.CashRegisterTicketData
		if err = json.NewDecoder(r.Body).Decode(&data); err == nil {
			err = s.printer.PrintCashRegisterTicket(ctx, &data, printerID, "rest")
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"status": "printed"})
}
