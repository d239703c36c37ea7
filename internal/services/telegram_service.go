package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log"
	"net/http"
	"strings"
	"time"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramService posts new-order alerts to the shop owner's Telegram chat.
type TelegramService struct {
	botToken    string
	adminChatID string
	baseURL     string
	client      *http.Client
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, adminChatID string) *TelegramService {
	return &TelegramService{
		botToken:    botToken,
		adminChatID: adminChatID,
		baseURL:     telegramAPIBase,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether both the bot token and admin chat are configured.
func (s *TelegramService) Enabled() bool {
	return s != nil && s.botToken != "" && s.adminChatID != ""
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends an HTML-formatted message to chatID.
func (s *TelegramService) SendMessage(ctx context.Context, chatID, text string) error {
	if s.botToken == "" {
		log.Println("[Telegram] Bot token not configured")
		return nil
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, s.botToken)
	body, err := json.Marshal(telegramMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}
	return nil
}

// NotifyNewOrder sends the order summary to the admin chat. It is a no-op
// when the service is not configured.
func (s *TelegramService) NotifyNewOrder(ctx context.Context, order OrderNotification) error {
	if !s.Enabled() {
		return nil
	}

	var items strings.Builder
	for i, item := range order.Items {
		fmt.Fprintf(&items, "%d. <b>%s</b> %s\n   %d x %s = %s\n",
			i+1,
			html.EscapeString(item.Company),
			html.EscapeString(item.Product),
			item.Quantity,
			FormatPrice(item.Price),
			FormatPrice(item.LineTotal),
		)
	}

	text := fmt.Sprintf("<b>New order</b> #%s\n<b>Customer:</b> %s (%s)\n<b>Items:</b>\n%s<b>Total:</b> %s",
		html.EscapeString(order.OrderID),
		html.EscapeString(order.CustomerName),
		html.EscapeString(order.CustomerEmail),
		items.String(),
		FormatPrice(order.Total),
	)
	return s.SendMessage(ctx, s.adminChatID, text)
}
