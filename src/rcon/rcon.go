package rcon

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	gorcon "github.com/gorcon/rcon"
	"github.com/sirupsen/logrus"
)

// Executor runs the configured credit command against the game server and
// classifies its response. Abstracted so the dispatcher can be tested with
// an injected fake.
type Executor interface {
	// Execute renders the command template for the given player and amount,
	// sends it over a fresh RCON session and returns the raw response. A
	// non-nil error means the command never ran (connection or transport
	// failure); an empty response with a nil error means the command ran
	// and the server returned nothing. Exactly one attempt is made.
	Execute(ctx context.Context, playerName string, amount int64) (string, error)

	// Classify runs the configured success/error patterns against a
	// response obtained from Execute.
	Classify(response string, playerName string, amount int64) bool
}

type Options struct {
	Host            string
	Port            int
	Password        string
	CommandTemplate string
	SuccessPatterns []string
	ErrorPatterns   []string
	Timeout         time.Duration
}

type Manager struct {
	opts Options
	addr string
}

func New(opts Options) *Manager {
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	m := &Manager{
		opts: opts,
		addr: net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port)),
	}
	logrus.Infof("rcon manager initialized (%s)", m.addr)
	return m
}

func (m *Manager) Execute(ctx context.Context, playerName string, amount int64) (string, error) {
	command := RenderCommand(m.opts.CommandTemplate, playerName, amount)
	logrus.Debugf("executing rcon command: %s", command)

	timeout := m.opts.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	conn, err := gorcon.Dial(
		m.addr,
		m.opts.Password,
		gorcon.SetDialTimeout(timeout),
		gorcon.SetDeadline(timeout),
	)
	if err != nil {
		return "", fmt.Errorf("rcon connect %s: %w", m.addr, err)
	}
	defer conn.Close()

	response, err := conn.Execute(command)
	if err != nil {
		return "", fmt.Errorf("rcon execute: %w", err)
	}

	logrus.Debugf("rcon response: %s", response)
	return response, nil
}

func (m *Manager) Classify(response string, playerName string, amount int64) bool {
	return Classify(response, playerName, amount, m.opts.SuccessPatterns, m.opts.ErrorPatterns)
}

// RenderCommand substitutes the literal %player_name% and %amount%
// placeholders into the configured command template.
func RenderCommand(template string, playerName string, amount int64) string {
	command := strings.ReplaceAll(template, "%player_name%", playerName)
	return strings.ReplaceAll(command, "%amount%", strconv.FormatInt(amount, 10))
}
