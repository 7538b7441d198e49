package bot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chat-stats-bot/internal/analytics"
	"github.com/chat-stats-bot/internal/models"
	"github.com/chat-stats-bot/internal/session"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	helpText = "👋 *Бот статистики чатов*\n\n" +
		"Добавьте меня в группу, и я начну считать сообщения участников.\n\n" +
		"*Команды (в личных сообщениях):*\n" +
		"/start - Выбрать чат и посмотреть статистику\n" +
		"/help - Показать это сообщение\n\n" +
		"Статистика доступна только администраторам чата."
	unknownCommandText = "❓ Неизвестная команда. Используйте /help для списка команд."
	noChatsText        = "Я пока не видел ни одного чата. Добавьте меня в группу и возвращайтесь."
	periodPromptText   = "Введите период: ДД-ММ-ГГГГ ДД-ММ-ГГГГ"
)

// Operator mistakes that are answered with a hint rather than logged as failures
var userErrors = []error{
	session.ErrUnauthorized,
	session.ErrBadPeriodFormat,
	session.ErrBadTagFormat,
	session.ErrBadWordFormat,
	session.ErrUnknownAction,
	session.ErrUnknownChat,
	session.ErrNoPendingInput,
	analytics.ErrInvalidRange,
}

var markdownEscaper = strings.NewReplacer(
	"_", "\\_",
	"*", "\\*",
	"[", "\\[",
	"`", "\\`",
)

// escapeMarkdownV1 escapes special characters for Telegram Markdown V1
func escapeMarkdownV1(text string) string {
	return markdownEscaper.Replace(text)
}

// errorText maps wizard failures to operator-facing messages
func errorText(err error) string {
	switch {
	case errors.Is(err, session.ErrUnauthorized):
		return "⛔ Вы не являетесь администратором этого чата."
	case errors.Is(err, session.ErrBadPeriodFormat):
		return "❌ Неверный формат периода.\n" + periodPromptText
	case errors.Is(err, analytics.ErrInvalidRange):
		return "❌ Дата начала позже даты окончания.\n" + periodPromptText
	case errors.Is(err, session.ErrBadTagFormat):
		return "❌ Хештег должен быть одним словом и начинаться с #. Попробуйте ещё раз."
	case errors.Is(err, session.ErrBadWordFormat):
		return "❌ Введите одно слово без пробелов."
	case errors.Is(err, session.ErrUnknownChat):
		return "❓ Чат не найден. Используйте /start, чтобы выбрать чат заново."
	case errors.Is(err, session.ErrUnknownAction):
		return "❓ Неизвестное действие. Используйте /start."
	case errors.Is(err, session.ErrNoPendingInput):
		return "Используйте /start, чтобы выбрать чат и действие."
	default:
		return "❌ Произошла ошибка. Попробуйте позже."
	}
}

// renderOutcome formats a wizard outcome as message text and optional keyboard
func renderOutcome(out session.Outcome) (string, *tgbotapi.InlineKeyboardMarkup) {
	switch out.Kind {
	case session.OutcomeChatList:
		if len(out.Chats) == 0 {
			return noChatsText, nil
		}
		kb := chatSelectKeyboard(out.Chats)
		return "Выберите чат для управления:", &kb

	case session.OutcomeChatMenu:
		kb := chatMenuKeyboard(out.Chat.ID)
		return "Управление чатом: " + chatName(out.Chat), &kb

	case session.OutcomeSummary:
		kb := chatMenuKeyboard(out.Chat.ID)
		return fmt.Sprintf(
			"ℹ️ Чат: %s\n👥 Активных участников: %d\n💬 Сообщений всего: %d",
			chatName(out.Chat), out.Summary.DistinctUsers, out.Summary.TotalMessages,
		), &kb

	case session.OutcomeRanking:
		kb := chatMenuKeyboard(out.Chat.ID)
		return renderRanking(out), &kb

	case session.OutcomePromptPeriod:
		return periodPromptText, nil

	case session.OutcomePromptValue:
		if out.Mode == session.ModeTagCount {
			return "Введите хештег, например #новости:", nil
		}
		return "Введите слово для поиска:", nil

	default:
		return errorText(nil), nil
	}
}

// renderRanking formats ranked users as "name: count" lines under a header
func renderRanking(out session.Outcome) string {
	period := out.Period.Start.Display() + " – " + out.Period.End.Display()

	var header, empty string
	switch out.Mode {
	case session.ModeToday:
		header, empty = "📊 Сегодня:", "Сегодня сообщений нет"
	case session.ModePeriodTotals:
		header, empty = "📆 Статистика за "+period+":", "За период "+period+" сообщений нет"
	case session.ModeWordCount:
		header = fmt.Sprintf("🔍 Слово «%s» за %s, всего: %d", escapeMarkdownV1(out.Query), period, out.Total)
		empty = fmt.Sprintf("Слово «%s» за %s не встречалось", escapeMarkdownV1(out.Query), period)
	case session.ModeTagCount:
		header = fmt.Sprintf("#️⃣ Хештег %s за %s, всего: %d", escapeMarkdownV1(out.Query), period, out.Total)
		empty = fmt.Sprintf("Хештег %s за %s не встречался", escapeMarkdownV1(out.Query), period)
	default:
		header, empty = "📊 Статистика:", "Нет данных"
	}

	if len(out.Ranking) == 0 {
		return empty
	}

	lines := make([]string, 0, len(out.Ranking)+2)
	lines = append(lines, header, "")
	for _, user := range out.Ranking {
		lines = append(lines, fmt.Sprintf("%s: %d", escapeMarkdownV1(user.Name), user.Count))
	}
	return strings.Join(lines, "\n")
}

// chatSelectKeyboard lists known chats, one button per row
func chatSelectKeyboard(chats []models.ChatRef) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(chats))
	for _, chat := range chats {
		action := session.Action{Kind: session.ActionSelectChat, ChatID: chat.ID}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(chatTitle(chat), action.Payload()),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// chatMenuKeyboard offers the queries available for a chat
func chatMenuKeyboard(chatID int64) tgbotapi.InlineKeyboardMarkup {
	button := func(text string, kind session.ActionKind) []tgbotapi.InlineKeyboardButton {
		action := session.Action{Kind: kind, ChatID: chatID}
		return tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(text, action.Payload()))
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		button("ℹ️ Информация о чате", session.ActionInfo),
		button("📊 Сегодня", session.ActionToday),
		button("📆 Статистика за период", session.ActionPeriod),
		button("🔍 Поиск по слову", session.ActionSearchWord),
		button("#️⃣ Поиск по хештегу", session.ActionSearchTag),
		button("🔄 Сменить чат", session.ActionChangeChat),
	)
}

// chatTitle is the raw title for buttons, which are not Markdown
func chatTitle(chat models.ChatRef) string {
	if chat.Title == "" {
		return fmt.Sprintf("Чат %d", chat.ID)
	}
	return chat.Title
}

// chatName is the escaped title for Markdown messages
func chatName(chat models.ChatRef) string {
	return escapeMarkdownV1(chatTitle(chat))
}
