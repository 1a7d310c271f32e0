package server

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"github.com/tributemc/tribute-gateway/src/discord"
	"github.com/tributemc/tribute-gateway/src/global"
	"github.com/tributemc/tribute-gateway/src/structures"
	"github.com/tributemc/tribute-gateway/src/utils"
	"github.com/tributemc/tribute-gateway/src/verify"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	WebhookTypeNewDonation = "new_donation"

	headerSignature = "trbt-signature"

	dedupeTTL = 24 * time.Hour
)

func Webhook(gCtx global.Context, app fiber.Router) {
	app.Post("/webhook", func(c *fiber.Ctx) error {
		body := c.Body()

		// Authentication comes first; the body is not even parsed until
		// the signature checks out.
		if !verify.Signature(body, c.Get(headerSignature), gCtx.Config().Tribute.APIKey) {
			return c.Status(fiber.StatusUnauthorized).JSON(&fiber.Map{
				"status":  401,
				"message": "Invalid webhook signature",
			})
		}

		envelope := structures.WebhookEnvelope{}
		if err := json.Unmarshal(body, &envelope); err != nil {
			logrus.Errorf("webhook json, err=%v", err)
			return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
				"status":  400,
				"message": "Invalid JSON",
			})
		}

		logrus.Infof("webhook received, type=%s", envelope.Name)

		var (
			result structures.ProcessingResult
			alert  *discord.Alert
		)
		if envelope.Name == WebhookTypeNewDonation {
			result, alert = processDonation(gCtx, c.Context(), envelope)
		} else {
			result = structures.ProcessingResult{
				Status: structures.StatusReceived,
				Reason: fmt.Sprintf("webhook %s received", envelope.Name),
			}
		}

		// The response is final here; persistence and alerting are
		// best-effort and must not change it.
		persistWebhook(gCtx, c.Context(), envelope, result)

		if alert != nil && gCtx.Inst().Discord != nil && gCtx.Inst().Discord.Enabled() {
			go func(a discord.Alert) {
				nCtx, cancel := global.WithTimeout(gCtx, 15*time.Second)
				defer cancel()
				gCtx.Inst().Discord.NotifyError(nCtx, a)
			}(*alert)
		}

		return c.Status(fiber.StatusOK).JSON(result)
	})
}

func processDonation(gCtx global.Context, ctx context.Context, envelope structures.WebhookEnvelope) (structures.ProcessingResult, *discord.Alert) {
	payload := structures.DonationPayload{}
	if err := json.Unmarshal(envelope.Payload, &payload); err != nil {
		logrus.Errorf("donation payload, err=%v", err)
		result := structures.ProcessingResult{
			Status: structures.StatusError,
			Reason: "malformed donation payload",
		}
		return result, newAlert(payload, result, nil)
	}

	var cleanUp func()
	if inst := gCtx.Inst(); inst.Redis != nil && payload.DonationRequestID != "" {
		key := fmt.Sprintf("tribute:donations:%s", payload.DonationRequestID)
		set, err := inst.Redis.SetNX(ctx, key, "1", dedupeTTL)
		if err != nil {
			// Dedupe is opportunistic; a broken redis must not drop donations.
			logrus.Errorf("redis, err=%v", err)
		} else if !set {
			logrus.Warnf("duplicate donation, id=%s", payload.DonationRequestID)
			return structures.ProcessingResult{
				Status: structures.StatusReceived,
				Reason: "duplicate donation, already processed",
			}, nil
		} else {
			cleanUp = func() {
				// A failed donation must stay re-deliverable.
				if err := inst.Redis.Del(ctx, key); err != nil {
					logrus.Errorf("redis, err=%v", err)
				}
			}
		}
	}

	result, alert := creditDonation(gCtx, ctx, payload)
	if result.Status == structures.StatusError && cleanUp != nil {
		cleanUp()
	}
	return result, alert
}

func creditDonation(gCtx global.Context, ctx context.Context, payload structures.DonationPayload) (structures.ProcessingResult, *discord.Alert) {
	playerName := extractPlayerName(payload.Message)
	if playerName == "" {
		logrus.Error("no player name in donation message")
		result := structures.ProcessingResult{
			Status: structures.StatusError,
			Reason: "no player name in donation message",
		}
		return result, newAlert(payload, result, nil)
	}

	if !gCtx.Inst().Currency.Known(payload.Currency) {
		result := structures.ProcessingResult{
			Status:     structures.StatusError,
			Reason:     fmt.Sprintf("no conversion rate configured for currency %q", payload.Currency),
			PlayerName: playerName,
		}
		return result, newAlert(payload, result, nil)
	}
	gameCurrency := gCtx.Inst().Currency.Convert(payload.Amount, payload.Currency)

	logrus.Infof("crediting %d game currency to %s", gameCurrency, playerName)

	response, err := gCtx.Inst().Rcon.Execute(ctx, playerName, gameCurrency)
	if err != nil {
		logrus.Errorf("rcon, err=%v", err)
		result := structures.ProcessingResult{
			Status:       structures.StatusError,
			Reason:       err.Error(),
			PlayerName:   playerName,
			GameCurrency: gameCurrency,
		}
		// nil response: the command never ran, distinct from an empty
		// response below.
		return result, newAlert(payload, result, nil)
	}

	if !gCtx.Inst().Rcon.Classify(response, playerName, gameCurrency) {
		result := structures.ProcessingResult{
			Status:       structures.StatusError,
			Reason:       "rcon command did not confirm the credit",
			PlayerName:   playerName,
			GameCurrency: gameCurrency,
		}
		return result, newAlert(payload, result, &response)
	}

	logrus.Infof("credited %d game currency to %s", gameCurrency, playerName)
	return structures.ProcessingResult{
		Status:       structures.StatusSuccess,
		Reason:       "currency credited over rcon",
		PlayerName:   playerName,
		GameCurrency: gameCurrency,
	}, nil
}

// extractPlayerName takes the first whitespace-separated token of the
// donation message. An empty result is an expected failure mode, not an
// error.
func extractPlayerName(message string) string {
	fields := strings.Fields(message)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func persistWebhook(gCtx global.Context, ctx context.Context, envelope structures.WebhookEnvelope, result structures.ProcessingResult) {
	record := structures.WebhookRecord{
		Type:         envelope.Name,
		Payload:      utils.B2S(envelope.Payload),
		Status:       string(result.Status),
		PlayerName:   result.PlayerName,
		GameCurrency: result.GameCurrency,
		CreatedAt:    time.Now().UTC(),
	}
	if result.Status == structures.StatusError {
		record.ErrorMessage = result.Reason
	}

	if err := gCtx.Inst().Storage.RecordWebhook(ctx, record); err != nil {
		logrus.Errorf("storage, err=%v", err)
	}
}

func newAlert(payload structures.DonationPayload, result structures.ProcessingResult, response *string) *discord.Alert {
	return &discord.Alert{
		PlayerName:     result.PlayerName,
		Amount:         payload.Amount,
		Currency:       payload.Currency,
		GameCurrency:   result.GameCurrency,
		Reason:         result.Reason,
		RconResponse:   response,
		UserID:         payload.UserID,
		TelegramUserID: payload.TelegramUserID,
		DonationID:     payload.DonationRequestID,
	}
}
