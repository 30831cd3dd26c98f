package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"CourtPrint/app/services"

	"github.com/gorilla/websocket"
)

func TestAuthorize(t *testing.T) {
	open, err := NewServer(":8093", nil, nil, "")
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	if !open.authorize("") || !open.authorize("anything") {
		t.Error("server without an agent key must accept every client")
	}

	locked, err := NewServer(":8093", nil, nil, "shared-secret")
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	if !locked.authorize("shared-secret") {
		t.Error("correct agent key rejected")
	}
	if locked.authorize("wrong") || locked.authorize("") {
		t.Error("wrong agent key accepted")
	}
}

func TestHandleHealth(t *testing.T) {
	s, err := NewServer(":8093", nil, nil, "")
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	rec := httptest.NewRecorder()
	s.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json body: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status field = %v", body["status"])
	}
	if body["clients"] != float64(0) {
		t.Errorf("clients field = %v", body["clients"])
	}
}

func TestRESTPrintRejectsNonPost(t *testing.T) {
	s, err := NewServer(":8093", nil, nil, "")
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	rec := httptest.NewRecorder()
	s.handlePrintTicket(rec, httptest.NewRequest(http.MethodGet, "/api/print/ticket", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, expected 405", rec.Code)
	}
}

func TestRESTPrintRejectsBadKey(t *testing.T) {
	s, err := NewServer(":8093", nil, nil, "shared-secret")
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/print/ticket", strings.NewReader("{}"))
	req.Header.Set("X-Agent-Key", "wrong")
	rec := httptest.NewRecorder()
	s.handlePrintTicket(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, expected 401", rec.Code)
	}
}

func TestRESTPrintRejectsBadPrinterID(t *testing.T) {
	s, err := NewServer(":8093", nil, nil, "")
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/print/ticket?printer_id=abc", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	s.handlePrintTicket(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, expected 400", rec.Code)
	}
}

func TestClientQueueAfterClose(t *testing.T) {
	c := &Client{Send: make(chan []byte, 1)}
	if !c.queue([]byte("a")) {
		t.Error("queue on an open client failed")
	}
	c.closeSend()
	if c.queue([]byte("b")) {
		t.Error("queue must report failure after close")
	}
	// A second close must be a no-op
	c.closeSend()
}

func TestSendResultAfterDisconnect(t *testing.T) {
	t.Setenv("APPDATA", t.TempDir())
	logger := services.NewLoggerService()
	defer logger.Close()

	s, err := NewServer(":8093", nil, logger, "")
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	c := &Client{ID: "c-1", Server: s, Send: make(chan []byte, 1)}
	c.closeSend()

	// A job finishing after its client disconnected must drop the
	// result without panicking
	c.sendResult(PrintResult{JobID: "j-1", Kind: "ticket", Success: true})
}

func TestConnectReceivesAuthResponse(t *testing.T) {
	t.Setenv("APPDATA", t.TempDir())
	logger := services.NewLoggerService()
	defer logger.Close()

	s, err := NewServer(":8093", nil, logger, "")
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	go s.run()

	srv := httptest.NewServer(http.HandlerFunc(s.handleWebSocket))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if msg.Type != TypeAuthResponse {
		t.Errorf("first message type = %q, expected %q", msg.Type, TypeAuthResponse)
	}
}

func TestMessageRoundTrip(t *testing.T) {
	raw := []byte(`{"type":"print_ticket","job_id":"j-1","printer_id":2,"data":{"establishment_name":"Club Demo"}}`)
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if msg.Type != TypePrintTicket || msg.JobID != "j-1" || msg.PrinterID != 2 {
		t.Errorf("unexpected message: %+v", msg)
	}
	if len(msg.Data) == 0 {
		t.Error("raw data payload lost")
	}
}
