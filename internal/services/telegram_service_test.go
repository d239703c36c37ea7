package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Fazal135/simple-order-app/internal/models"
)

func TestTelegramNotifyNewOrder(t *testing.T) {
	var (
		gotPath string
		gotMsg  telegramMessage
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotMsg); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc := NewTelegramService("TOKEN", "42")
	svc.baseURL = server.URL

	err := svc.NotifyNewOrder(context.Background(), OrderNotification{
		OrderID:       "abc",
		CustomerName:  "Asha & Co",
		CustomerEmail: "asha@example.com",
		Items:         []models.OrderItem{{Company: "Classmate", Product: "Register", Price: 30, Quantity: 2, LineTotal: 60}},
		Total:         60,
	})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if gotPath != "/botTOKEN/sendMessage" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotMsg.ChatID != "42" || gotMsg.ParseMode != "HTML" {
		t.Fatalf("message = %+v", gotMsg)
	}
	for _, want := range []string{"#abc", "Asha &amp; Co", "2 x 30.00 = 60.00", "<b>Total:</b> 60.00"} {
		if !strings.Contains(gotMsg.Text, want) {
			t.Fatalf("text %q missing %q", gotMsg.Text, want)
		}
	}
}

func TestTelegramErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	svc := NewTelegramService("TOKEN", "42")
	svc.baseURL = server.URL

	if err := svc.NotifyNewOrder(context.Background(), OrderNotification{OrderID: "abc"}); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestTelegramDisabledIsNoop(t *testing.T) {
	svc := NewTelegramService("", "")
	svc.baseURL = "http://127.0.0.1:0"

	if svc.Enabled() {
		t.Fatal("service enabled without credentials")
	}
	if err := svc.NotifyNewOrder(context.Background(), OrderNotification{OrderID: "abc"}); err != nil {
		t.Fatalf("disabled notify: %v", err)
	}
}
