package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/repcoach/internal/analysis"
	"github.com/gorilla/websocket"
)

func TestCoachHandler_PublishWithoutClients(t *testing.T) {
	h := NewCoachHandler()

	// Must not block or panic with nobody connected.
	h.Publish(analysis.ExerciseStatus{Name: "squat", RepCount: 1})

	if h.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d, want 0", h.ClientCount())
	}
}

func TestCoachHandler_BroadcastsStatus(t *testing.T) {
	h := NewCoachHandler()
	ts := httptest.NewServer(h)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial error = %v", err)
	}
	defer conn.Close()

	// Wait for the server side to register the client.
	deadline := time.Now().Add(time.Second)
	for h.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	status := analysis.ExerciseStatus{
		Name:     "squat",
		RepCount: 3,
		State:    "SQUAT_UP",
		Feedback: []string{"Correct form"},
	}
	h.Publish(status)

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage error = %v", err)
	}

	var msg struct {
		Name      string   `json:"name"`
		RepCount  int      `json:"rep_count"`
		Feedback  []string `json:"feedback"`
		Timestamp int64    `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal error = %v", err)
	}

	if msg.Name != "squat" || msg.RepCount != 3 {
		t.Errorf("got %+v, want squat rep 3", msg)
	}
	if len(msg.Feedback) != 1 || msg.Feedback[0] != "Correct form" {
		t.Errorf("feedback = %v, want [Correct form]", msg.Feedback)
	}
	if msg.Timestamp == 0 {
		t.Error("timestamp not set")
	}
}
