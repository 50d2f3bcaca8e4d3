package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Commander is what the polling loop may ask the rest of the bot to do.
type Commander interface {
	// RunAnalysisNow triggers an immediate structure analysis; the report is
	// delivered through the normal notification path.
	RunAnalysisNow()
	// StatusReport renders the open signals for display.
	StatusReport() string
}

const helpText = "Commands:\n• /structure - run analysis now\n• /status - open signals"

// telegramUpdate is the slice of a Telegram update this bot consumes: the
// command text and the chat it came from.
type telegramUpdate struct {
	UpdateID int `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

// StartPolling long-polls for commands and routes them to cmd. Only messages
// from the configured chat are honored. Blocks until ctx is cancelled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, cmd Commander) {
	offset := 0
	client := &http.Client{Timeout: 35 * time.Second}

	for {
		select {
		case <-ctx.Done():
			log.Println("[INFO] Telegram polling stopped")
			return
		default:
		}

		apiURL := fmt.Sprintf("https://api.telegram.org/bot%s/getUpdates?offset=%d&timeout=30", t.BotToken, offset)
		req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
		if err != nil {
			log.Printf("[ERROR] create polling request: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}

		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("[WARN] polling request failed: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			log.Printf("[WARN] read polling response: %v", err)
			continue
		}

		var result struct {
			OK     bool             `json:"ok"`
			Result []telegramUpdate `json:"result"`
		}
		if err := json.Unmarshal(body, &result); err != nil {
			log.Printf("[WARN] decode polling response: %v", err)
			continue
		}

		for _, update := range result.Result {
			offset = update.UpdateID + 1
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			if !t.fromConfiguredChat(update.Message.Chat.ID) {
				log.Printf("[WARN] ignoring command from chat %d", update.Message.Chat.ID)
				continue
			}
			text := strings.TrimSpace(update.Message.Text)
			log.Printf("[INFO] received command: %s", text)
			if reply := routeCommand(text, cmd); reply != "" {
				if err := t.Send(reply); err != nil {
					log.Printf("[ERROR] send reply: %v", err)
				}
			}
		}
	}
}

// routeCommand maps a command to an action. An analysis trigger replies
// through the report path, so it returns no immediate text.
func routeCommand(text string, cmd Commander) string {
	switch text {
	case "/structure":
		cmd.RunAnalysisNow()
		return ""
	case "/status":
		return cmd.StatusReport()
	default:
		return helpText
	}
}

func (t *TelegramNotifier) fromConfiguredChat(id int64) bool {
	return t.ChatID == strconv.FormatInt(id, 10)
}
