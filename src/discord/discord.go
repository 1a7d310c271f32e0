package discord

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	embedColorRed = 15158332

	// Raw server responses are cut down before posting so a chatty plugin
	// cannot blow past Discord's field limits.
	maxResponseLen = 500
)

// Alert describes a failed donation for the error channel. RconResponse is
// nil when the RCON connection itself failed, empty when the command ran
// but the server returned nothing, and non-empty when a response was
// received that did not classify as success. The three cases render
// differently.
type Alert struct {
	PlayerName     string
	Amount         int64
	Currency       string
	GameCurrency   int64
	Reason         string
	RconResponse   *string
	UserID         string
	TelegramUserID string
	DonationID     string
}

// Notifier posts donation-processing failures to a Discord webhook.
// Fire-and-forget: it logs its own failures and never returns them.
type Notifier struct {
	webhookURL string
	client     *http.Client
}

func New(webhookURL string) *Notifier {
	n := &Notifier{
		webhookURL: strings.TrimSpace(webhookURL),
		client:     &http.Client{Timeout: 10 * time.Second},
	}

	if n.Enabled() {
		logrus.Info("discord error notifications enabled")
	} else {
		logrus.Info("discord error notifications disabled (webhook_url not set)")
	}

	return n
}

func (n *Notifier) Enabled() bool {
	return n.webhookURL != ""
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embedFooter struct {
	Text string `json:"text"`
}

type embed struct {
	Title     string       `json:"title"`
	Color     int          `json:"color"`
	Timestamp string       `json:"timestamp"`
	Fields    []embedField `json:"fields"`
	Footer    embedFooter  `json:"footer"`
}

type webhookPayload struct {
	Embeds []embed `json:"embeds"`
}

func (n *Notifier) NotifyError(ctx context.Context, alert Alert) {
	if !n.Enabled() {
		return
	}

	e := embed{
		Title:     "Donation processing failed",
		Color:     embedColorRed,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Footer:    embedFooter{Text: "Tribute Webhook Gateway | manual review required"},
	}

	e.Fields = append(e.Fields, embedField{
		Name:   "Donation amount",
		Value:  fmt.Sprintf("%.2f %s (%d minor units)", float64(alert.Amount)/100, strings.ToUpper(alert.Currency), alert.Amount),
		Inline: true,
	})
	e.Fields = append(e.Fields, embedField{
		Name:   "Game currency",
		Value:  fmt.Sprintf("%d", alert.GameCurrency),
		Inline: true,
	})

	player := alert.PlayerName
	if player == "" {
		player = "not provided in message"
	}
	e.Fields = append(e.Fields, embedField{Name: "Player", Value: player, Inline: true})

	ids := []string{}
	if alert.UserID != "" {
		ids = append(ids, fmt.Sprintf("User ID: `%s`", alert.UserID))
	}
	if alert.TelegramUserID != "" {
		ids = append(ids, fmt.Sprintf("Telegram: `%s`", alert.TelegramUserID))
	}
	if alert.DonationID != "" {
		ids = append(ids, fmt.Sprintf("Donation: `%s`", alert.DonationID))
	}
	if len(ids) != 0 {
		e.Fields = append(e.Fields, embedField{Name: "Identifiers", Value: strings.Join(ids, "\n"), Inline: true})
	}

	e.Fields = append(e.Fields, embedField{
		Name:  "Reason",
		Value: fmt.Sprintf("```%s```", alert.Reason),
	})

	e.Fields = append(e.Fields, embedField{
		Name:  "RCON response",
		Value: formatResponse(alert.RconResponse),
	})

	data, err := json.Marshal(webhookPayload{Embeds: []embed{e}})
	if err != nil {
		logrus.Errorf("discord, marshal err=%v", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(data))
	if err != nil {
		logrus.Errorf("discord, req err=%v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		logrus.Errorf("discord, err=%v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		logrus.Errorf("discord, unexpected status=%d", resp.StatusCode)
	}
}

func formatResponse(response *string) string {
	switch {
	case response == nil:
		return "no response (rcon connection failed or the command never ran)"
	case *response == "":
		return "empty response (command ran, the server returned nothing)"
	default:
		r := *response
		if len(r) > maxResponseLen {
			r = r[:maxResponseLen] + "..."
		}
		return fmt.Sprintf("```%s```", r)
	}
}
