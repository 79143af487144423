package notifier

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// CommandHandler is called when a user command is received. A non-empty
// reply is sent back to the chat.
type CommandHandler func(command string) string

const (
	pollTimeoutSeconds = 30
	pollRetryDelay     = 5 * time.Second
)

type telegramUpdate struct {
	UpdateID int `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

type updatesResponse struct {
	OK          bool             `json:"ok"`
	Description string           `json:"description"`
	Result      []telegramUpdate `json:"result"`
}

// StartPolling long-polls getUpdates and hands each command from the
// configured chat to handler. Blocks until ctx is cancelled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	// the request outlives the server-side poll timeout
	client := &http.Client{Timeout: (pollTimeoutSeconds + 5) * time.Second, Transport: t.Client.Transport}
	offset := 0

	for ctx.Err() == nil {
		updates, err := t.getUpdates(ctx, client, offset)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Printf("[WARN] polling getUpdates: %v", err)
			if !sleepCtx(ctx, pollRetryDelay) {
				break
			}
			continue
		}
		for _, u := range updates {
			offset = u.UpdateID + 1
			t.dispatch(u, handler)
		}
	}
	log.Println("[INFO] Telegram polling stopped")
}

func (t *TelegramNotifier) getUpdates(ctx context.Context, client *http.Client, offset int) ([]telegramUpdate, error) {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(offset))
	q.Set("timeout", strconv.Itoa(pollTimeoutSeconds))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.endpoint("getUpdates")+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create polling request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	var body updatesResponse
	if err := decodeResponse(resp, &body); err != nil {
		return nil, err
	}
	if !body.OK {
		return nil, errors.New("telegram getUpdates not ok: " + body.Description)
	}
	return body.Result, nil
}

// dispatch runs one update through handler. Updates from other chats and
// non-text messages are dropped.
func (t *TelegramNotifier) dispatch(u telegramUpdate, handler CommandHandler) {
	if u.Message == nil || strings.TrimSpace(u.Message.Text) == "" {
		return
	}
	if t.ChatID != "" && strconv.FormatInt(u.Message.Chat.ID, 10) != t.ChatID {
		log.Printf("[WARN] ignoring command from chat %d", u.Message.Chat.ID)
		return
	}
	text := strings.TrimSpace(u.Message.Text)
	log.Printf("[INFO] received command: %s", text)
	if reply := handler(text); reply != "" {
		if err := t.Send(reply); err != nil {
			log.Printf("[ERROR] send reply: %v", err)
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
