// Package push — необязательный канал доставки повышенных алертов
// администраторам в Telegram. Работает поверх журнала уведомлений,
// никогда не влияет на результат операции записи.
package push

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/school-portal/internal/observability"
)

type Notifier struct {
	bot     *tgbotapi.BotAPI
	chatIDs []int64
}

// New возвращает nil, если канал не сконфигурирован; методы nil-безопасны.
func New(token string, chatIDs []int64) (*Notifier, error) {
	if token == "" || len(chatIDs) == 0 {
		return nil, nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Notifier{bot: bot, chatIDs: chatIDs}, nil
}

// Alert — best-effort рассылка по всем чатам; ошибки не возвращаются.
func (n *Notifier) Alert(text string) {
	if n == nil {
		return
	}
	for _, id := range n.chatIDs {
		if _, err := n.bot.Send(tgbotapi.NewMessage(id, text)); err != nil {
			if isSystemErr(err) {
				observability.CaptureErr(err)
			}
		}
	}
}

// Считаем системными: 5xx, 429, timeout. Телеграм-валидации в Sentry не шлём.
func isSystemErr(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	if strings.Contains(s, "429") || strings.Contains(s, "502") || strings.Contains(s, "503") || strings.Contains(s, "timeout") {
		return true
	}
	return false
}
