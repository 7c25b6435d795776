// Package bot answers cycle calculations over Telegram.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"Thermo/internal/calc/cycle"
	"Thermo/internal/calc/handler"
	"Thermo/internal/calc/registry"
)

var ErrSyntax = errors.New("expected key=value")

// API is the part of the Telegram client the bot uses.
type API interface {
	GetUpdates(ctx context.Context, offset int) ([]Update, error)
	SendMessage(ctx context.Context, chatID int64, text string) error
}

type Bot struct {
	API   API
	Env   cycle.Env
	Retry time.Duration
}

// ParseCommand splits "/name key=value ..." into the cycle name and its
// parameters. Underscores in the name stand for hyphens, and a trailing
// @botname is dropped.
func ParseCommand(text string) (string, cycle.Params, error) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil, fmt.Errorf("%w: not a command", ErrSyntax)
	}
	name := strings.TrimPrefix(fields[0], "/")
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	name = strings.ReplaceAll(strings.ToLower(name), "_", "-")

	params := cycle.Params{}
	for _, f := range fields[1:] {
		k, v, ok := strings.Cut(f, "=")
		if !ok || k == "" {
			return name, nil, fmt.Errorf("%w, got %q", ErrSyntax, f)
		}
		params[strings.ToLower(k)] = v
	}
	return name, params, nil
}

// Reply computes the answer to one message.
func (b *Bot) Reply(text string) string {
	name, params, err := ParseCommand(text)
	if err != nil {
		return err.Error()
	}
	switch name {
	case "start", "help":
		return help()
	case "cycles":
		return catalogue()
	}
	rep, err := registry.Solve(name, params, b.Env)
	if err != nil {
		body := handler.Body(err)
		return fmt.Sprintf("Error (%s): %s", body.Kind, body.Error)
	}
	return format(rep)
}

func help() string {
	return "Envía /cycles para ver los ciclos disponibles.\n" +
		"Calcula con /<ciclo> clave=valor ..., por ejemplo:\n" +
		"/carnot t_caliente=300 t_fria=50"
}

func catalogue() string {
	var sb strings.Builder
	for _, e := range registry.Entries() {
		fmt.Fprintf(&sb, "/%s  %s\n", strings.ReplaceAll(e.Name, "-", "_"), e.Title)
		var required []string
		for _, f := range e.Schema.Fields {
			if f.Required {
				required = append(required, f.Key)
			}
		}
		if len(e.Schema.AnyOf) > 0 {
			forms := make([]string, len(e.Schema.AnyOf))
			for i, set := range e.Schema.AnyOf {
				forms[i] = strings.Join(set, "+")
			}
			required = append(required, strings.Join(forms, " o "))
		}
		if len(required) > 0 {
			fmt.Fprintf(&sb, "    %s\n", strings.Join(required, ", "))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func format(rep cycle.Report) string {
	var sb strings.Builder
	sb.WriteString(rep.Title)
	for _, m := range rep.Metrics {
		fmt.Fprintf(&sb, "\n%s: %s", m.Label, m.Format())
	}
	return sb.String()
}

// Run polls for updates until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	retry := b.Retry
	if retry == 0 {
		retry = 2 * time.Second
	}
	offset := 0
	for {
		updates, err := b.API.GetUpdates(ctx, offset)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			log.WithError(err).Warn("getUpdates")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retry):
			}
			continue
		}
		for _, u := range updates {
			offset = u.UpdateID + 1
			if u.Message == nil || u.Message.Text == "" {
				continue
			}
			reply := b.Reply(u.Message.Text)
			if err := b.API.SendMessage(ctx, u.Message.Chat.ID, reply); err != nil {
				log.WithError(err).WithField("chat", u.Message.Chat.ID).Warn("sendMessage")
			}
		}
	}
}
