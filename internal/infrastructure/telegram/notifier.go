package telegram

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/event"
	"github.com/ignatzorin/classifieds-moderation/internal/goroutine"
	"github.com/ignatzorin/classifieds-moderation/internal/logger"
)

const sendTimeout = 5 * time.Second

// Sender - часть *bot.Bot, через которую идёт отправка.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Notifier пишет решения модерации и тревоги по жалобам в лог-канал.
type Notifier struct {
	sender    Sender
	channelID int64
	// send подменяется в тестах на синхронный вызов.
	send func(func())
}

// NewBot создаёт клиента Bot API. Обновления бот не обрабатывает.
func NewBot(token string) (*bot.Bot, error) {
	return bot.New(token, bot.WithDefaultHandler(func(context.Context, *bot.Bot, *models.Update) {}))
}

func NewNotifier(sender Sender, channelID int64) *Notifier {
	return &Notifier{sender: sender, channelID: channelID, send: goroutine.SafeGo}
}

// Publish реализует event.Publisher. Отправка асинхронная, ошибки только логируются.
func (n *Notifier) Publish(_ context.Context, evt event.Event) {
	text, ok := Format(evt)
	if !ok {
		return
	}
	n.send(func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		_, err := n.sender.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    n.channelID,
			Text:      text,
			ParseMode: models.ParseModeHTML,
		})
		if err != nil {
			logger.L().WithError(err).WithField("event", evt.Type).Warn("telegram: не удалось отправить сообщение в канал")
		}
	})
}

// Format готовит HTML-текст. Подача, правка и отдельные жалобы в канал не пишутся.
func Format(evt event.Event) (string, bool) {
	title := html.EscapeString(evt.Title)
	reason := html.EscapeString(evt.Reason)

	switch evt.Type {
	case event.ListingApproved:
		return fmt.Sprintf("✅ <b>Объявление #%d опубликовано</b>\n%s", evt.ListingID, title), true
	case event.ListingRejected:
		return fmt.Sprintf("⛔ <b>Объявление #%d отклонено</b>\n%s\nПричина: %s", evt.ListingID, title, reason), true
	case event.ReportAccepted:
		return fmt.Sprintf("🚫 <b>Жалоба #%d принята</b>\nОбъявление #%d: %s\nЖалоб: %d\nПричины: %s",
			evt.ReportID, evt.ListingID, title, evt.ReportsCount, reason), true
	case event.ReportDismissed:
		return fmt.Sprintf("☑️ <b>Жалоба #%d отклонена</b>\nОбъявление #%d: %s\nЖалоб: %d",
			evt.ReportID, evt.ListingID, title, evt.ReportsCount), true
	case event.ReportThresholdReached:
		return fmt.Sprintf("⚠️ <b>Много жалоб на объявление #%d</b>\n%s\nЖалоб: %d\nПричины: %s",
			evt.ListingID, title, evt.ReportsCount, reason), true
	}
	return "", false
}
