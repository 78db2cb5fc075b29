package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendPaymentRecordedNotification(t *testing.T) {
	var discord DiscordWebhookRequest
	var slack SlackWebhookRequest

	discordSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&discord))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer discordSrv.Close()

	slackSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&slack))
		w.WriteHeader(http.StatusOK)
	}))
	defer slackSrv.Close()

	ConfigureWebhooks(discordSrv.URL, slackSrv.URL)
	t.Cleanup(func() { ConfigureWebhooks("", "") })

	summary := PaymentSummary{
		PaymentID:     3,
		Student:       "Ana Gómez",
		Career:        "Tecnicatura en Programación",
		Amount:        15000,
		AffectedMonth: time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
		RecordedBy:    "admin",
		RecordedAt:    time.Now(),
	}

	require.NoError(t, SendPaymentRecordedNotification(summary))

	require.Len(t, discord.Embeds, 1)
	assert.Equal(t, "Pago registrado", discord.Embeds[0].Title)
	assert.Equal(t, "Pago #3", discord.Embeds[0].Footer.Text)
	assert.Equal(t, "Pago de **Ana Gómez** registrado por admin: **$15000**.", discord.Embeds[0].Description)

	require.Len(t, slack.Attachments, 1)
	assert.Equal(t, "Ana Gómez - $15000", slack.Attachments[0].Title)
	assert.Equal(t, "Cuota de abril de 2025", slack.Attachments[0].Text)
}

func TestSendPaymentRecordedNotificationFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	ConfigureWebhooks(srv.URL, "")
	t.Cleanup(func() { ConfigureWebhooks("", "") })

	err := SendPaymentRecordedNotification(PaymentSummary{RecordedAt: time.Now(), AffectedMonth: time.Now()})
	assert.ErrorContains(t, err, "discord")
}

func TestSendPaymentRecordedNotificationUnconfigured(t *testing.T) {
	ConfigureWebhooks("", "")
	assert.NoError(t, SendPaymentRecordedNotification(PaymentSummary{}))
}
