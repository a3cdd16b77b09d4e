package alerts

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"log-audit/internal/render"
)

// RecordPayload is the JSON body posted per rendered record.
type RecordPayload struct {
	Time    string `json:"time"`
	IP      string `json:"ip"`
	User    string `json:"user"`
	Message string `json:"message"`
	Key     string `json:"key,omitempty"`
	Section string `json:"section,omitempty"`
}

// Dispatcher forwards rendered records to a webhook while following the
// live log. Fire-and-forget: a failed delivery is logged, never retried.
type Dispatcher struct {
	WebhookURL string
	client     *http.Client
}

func NewDispatcher(webhookURL string) *Dispatcher {
	return &Dispatcher{
		WebhookURL: webhookURL,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// Send posts one record. A Dispatcher with no URL configured is a no-op.
func (d *Dispatcher) Send(rec render.Record, key, section string) {
	if d.WebhookURL == "" {
		return
	}

	body, err := json.Marshal(RecordPayload{
		Time:    rec.Epoch.UTC().Format(time.RFC3339),
		IP:      rec.IP,
		User:    rec.User,
		Message: rec.Message,
		Key:     key,
		Section: section,
	})
	if err != nil {
		log.Printf("alerts: marshal record: %v", err)
		return
	}

	go func() {
		resp, err := d.client.Post(d.WebhookURL, "application/json", bytes.NewBuffer(body))
		if err != nil {
			log.Printf("alerts: webhook post failed: %v", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			log.Printf("alerts: webhook returned status %d", resp.StatusCode)
		}
	}()
}
