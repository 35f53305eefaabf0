// Package notify posts Discord-style webhook notifications for account
// and game events. Delivery is best effort: failures are logged and
// never surfaced to the caller.
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/KibbyCaps/gem-casino/internal/config"
)

const (
	colorBlue   = 0x4285f4
	colorGreen  = 0x00ff00
	colorRed    = 0xff0000
	colorYellow = 0xffff00
)

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embedFooter struct {
	Text string `json:"text"`
}

type embed struct {
	Title  string       `json:"title"`
	Color  int          `json:"color"`
	Fields []embedField `json:"fields"`
	Footer *embedFooter `json:"footer,omitempty"`
}

type payload struct {
	Username string  `json:"username,omitempty"`
	Embeds   []embed `json:"embeds"`
}

// Notifier sends webhook notifications to the configured endpoints. An
// empty endpoint URL disables that notification.
type Notifier struct {
	hooks  config.Webhooks
	client *http.Client
	log    *zap.Logger
}

// New builds a Notifier for the given endpoints.
func New(hooks config.Webhooks, log *zap.Logger) *Notifier {
	return &Notifier{
		hooks:  hooks,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
	}
}

// PostSignup announces a new account. Credentials and network details
// stay out of the payload.
func (n *Notifier) PostSignup(username, email string) {
	n.send(n.hooks.Signup, payload{
		Embeds: []embed{{
			Title: "🎮 New User Signup",
			Color: colorBlue,
			Fields: []embedField{
				{Name: "Username", Value: username, Inline: true},
				{Name: "Email", Value: email, Inline: true},
				{Name: "Signup Date", Value: time.Now().Format(time.RFC1123)},
			},
			Footer: &embedFooter{Text: "Gem Casino"},
		}},
	})
}

// PostWin announces a game win.
func (n *Notifier) PostWin(username, game string, wager, winAmount int64) {
	if username == "" {
		username = "Guest"
	}
	n.send(n.hooks.Win, payload{
		Username: "Win Logger",
		Embeds: []embed{{
			Title: "🎉 User Win",
			Color: colorGreen,
			Fields: []embedField{
				{Name: "Username", Value: username, Inline: true},
				{Name: "Game", Value: game, Inline: true},
				{Name: "Bet Amount", Value: fmt.Sprintf("%d", wager), Inline: true},
				{Name: "Win Amount", Value: fmt.Sprintf("%d", winAmount), Inline: true},
				{Name: "Profit", Value: fmt.Sprintf("%d", winAmount-wager), Inline: true},
				{Name: "Time", Value: time.Now().Format(time.RFC1123)},
			},
		}},
	})
}

// PostBan announces a ban.
func (n *Notifier) PostBan(username, email string) {
	if email == "" {
		email = "N/A"
	}
	n.send(n.hooks.Ban, payload{
		Username: "Ban Logger",
		Embeds: []embed{{
			Title: "User Banned",
			Color: colorRed,
			Fields: []embedField{
				{Name: "Username", Value: username, Inline: true},
				{Name: "Email", Value: email, Inline: true},
				{Name: "Banned At", Value: time.Now().Format(time.RFC1123)},
			},
		}},
	})
}

// PostCheat announces a cheat activation.
func (n *Notifier) PostCheat(username, cheatType string) {
	if username == "" {
		username = "Guest"
	}
	n.send(n.hooks.Cheat, payload{
		Username: "Cheat Logger",
		Embeds: []embed{{
			Title: "⚠️ Cheat Activated",
			Color: colorYellow,
			Fields: []embedField{
				{Name: "Username", Value: username, Inline: true},
				{Name: "Cheat Type", Value: cheatType, Inline: true},
				{Name: "Time", Value: time.Now().Format(time.RFC1123)},
			},
		}},
	})
}

func (n *Notifier) send(url string, p payload) {
	if url == "" {
		return
	}
	body, err := json.Marshal(p)
	if err != nil {
		n.log.Error("webhook marshal failed", zap.Error(err))
		return
	}
	resp, err := n.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		n.log.Warn("webhook delivery failed", zap.String("url", url), zap.Error(err))
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		n.log.Warn("webhook rejected", zap.String("url", url), zap.Int("status", resp.StatusCode))
	}
}
