package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type DiscordWebhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type DiscordEmbed struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Color       int                   `json:"color"`
	Fields      []DiscordWebhookField `json:"fields"`
	Footer      *DiscordFooter        `json:"footer,omitempty"`
	Timestamp   string                `json:"timestamp"`
}

type DiscordFooter struct {
	Text string `json:"text"`
}

type DiscordWebhookRequest struct {
	Username string         `json:"username"`
	Embeds   []DiscordEmbed `json:"embeds"`
}

type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

type SlackAttachment struct {
	Color     string       `json:"color"`
	Title     string       `json:"title"`
	Text      string       `json:"text"`
	Fields    []SlackField `json:"fields"`
	Footer    string       `json:"footer"`
	Timestamp int64        `json:"ts"`
}

type SlackWebhookRequest struct {
	Username    string            `json:"username"`
	IconEmoji   string            `json:"icon_emoji,omitempty"`
	Text        string            `json:"text"`
	Attachments []SlackAttachment `json:"attachments"`
}

const (
	ColorGreen = 65280 // #00FF00

	Username = "Escuela Tesorería"
)

// PaymentSummary is what the treasury channels are told about a new payment.
type PaymentSummary struct {
	PaymentID     uint
	Student       string
	Career        string
	Amount        int
	AffectedMonth time.Time
	RecordedBy    string
	RecordedAt    time.Time
}

var (
	discordWebhookURL string
	slackWebhookURL   string

	webhookClient = &http.Client{Timeout: 10 * time.Second}
)

func ConfigureWebhooks(discordURL, slackURL string) {
	discordWebhookURL = discordURL
	slackWebhookURL = slackURL
}

func SendPaymentRecordedNotification(summary PaymentSummary) error {
	if discordWebhookURL != "" {
		if err := sendDiscordPaymentRecorded(discordWebhookURL, summary); err != nil {
			return fmt.Errorf("discord: %w", err)
		}
	}

	if slackWebhookURL != "" {
		if err := sendSlackPaymentRecorded(slackWebhookURL, summary); err != nil {
			return fmt.Errorf("slack: %w", err)
		}
	}

	return nil
}

// NotifyPaymentRecorded sends the webhooks in the background; failures are
// only logged since the payment is already committed.
func NotifyPaymentRecorded(summary PaymentSummary) {
	if discordWebhookURL == "" && slackWebhookURL == "" {
		return
	}

	go func() {
		if err := SendPaymentRecordedNotification(summary); err != nil {
			zap.S().Warnw("payment webhook failed", "payment_id", summary.PaymentID, "error", err)
		}
	}()
}

func sendDiscordPaymentRecorded(webhookURL string, summary PaymentSummary) error {
	payload := DiscordWebhookRequest{
		Username: Username,
		Embeds: []DiscordEmbed{
			{
				Title:       "Pago registrado",
				Description: fmt.Sprintf("Pago de **%s** registrado por %s: **$%d**.", summary.Student, summary.RecordedBy, summary.Amount),
				Color:       ColorGreen,
				Fields: []DiscordWebhookField{
					{Name: "Alumno", Value: summary.Student, Inline: true},
					{Name: "Carrera", Value: summary.Career, Inline: true},
					{Name: "Monto", Value: fmt.Sprintf("$%d", summary.Amount), Inline: true},
					{Name: "Mes", Value: MonthLabel(summary.AffectedMonth), Inline: true},
					{Name: "Registrado por", Value: summary.RecordedBy, Inline: true},
				},
				Footer: &DiscordFooter{
					Text: fmt.Sprintf("Pago #%d", summary.PaymentID),
				},
				Timestamp: summary.RecordedAt.Format(time.RFC3339),
			},
		},
	}

	return postWebhook(webhookURL, payload)
}

func sendSlackPaymentRecorded(webhookURL string, summary PaymentSummary) error {
	payload := SlackWebhookRequest{
		Username:  Username,
		IconEmoji: ":moneybag:",
		Text:      ":moneybag: *Pago registrado*",
		Attachments: []SlackAttachment{
			{
				Color: "good",
				Title: fmt.Sprintf("%s - $%d", summary.Student, summary.Amount),
				Text:  fmt.Sprintf("Cuota de %s", MonthLabel(summary.AffectedMonth)),
				Fields: []SlackField{
					{Title: "Carrera", Value: summary.Career, Short: true},
					{Title: "Registrado por", Value: summary.RecordedBy, Short: true},
				},
				Footer:    fmt.Sprintf("Pago #%d", summary.PaymentID),
				Timestamp: summary.RecordedAt.Unix(),
			},
		},
	}

	return postWebhook(webhookURL, payload)
}

func postWebhook(webhookURL string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	resp, err := webhookClient.Post(webhookURL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
