package handlers

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"photopro/internal/filters"
	"photopro/internal/prompt"
)

const filterCallbackPrefix = "fl"

func (h *Handler) openFilterMenu(chatID int64, userID int64) error {
	sels := h.sessions.Selections(sessionKey(userID))
	_, err := h.tg.SendTextWithKeyboard(chatID, filterMenuText(sels), categoryKeyboard(userID, h.registry.Categories(), sels))
	return err
}

func (h *Handler) handleCallback(q *tgbotapi.CallbackQuery) error {
	if q == nil || q.Message == nil || q.From == nil {
		return nil
	}

	ownerID, action, args, ok := parseCallback(q.Data)
	if !ok {
		return nil
	}
	if ownerID != q.From.ID {
		_ = h.tg.AnswerCallback(q.ID, "This menu belongs to someone else.", true)
		return nil
	}

	chatID := q.Message.Chat.ID
	msgID := q.Message.MessageID
	sid := sessionKey(ownerID)
	toast := ""

	var kb tgbotapi.InlineKeyboardMarkup
	switch action {
	case "menu":
		kb = categoryKeyboard(ownerID, h.registry.Categories(), h.sessions.Selections(sid))
	case "cat":
		if len(args) < 1 {
			return nil
		}
		cat, ok := h.registry.Category(args[0])
		if !ok {
			return h.tg.AnswerCallback(q.ID, "Unknown category.", false)
		}
		kb = filterKeyboard(ownerID, cat, h.sessions.Selections(sid))
	case "tog":
		if len(args) < 2 {
			return nil
		}
		cat, ok := h.registry.Category(args[0])
		if !ok {
			return h.tg.AnswerCallback(q.ID, "Unknown category.", false)
		}
		defaults, err := h.registry.Defaults(args[1])
		if err != nil {
			return h.tg.AnswerCallback(q.ID, "Unknown filter.", false)
		}
		if h.sessions.ToggleFilter(sid, args[1], defaults) {
			toast = filters.Label(args[1]) + " on"
		} else {
			toast = filters.Label(args[1]) + " off"
		}
		kb = filterKeyboard(ownerID, cat, h.sessions.Selections(sid))
	case "reset":
		h.sessions.ClearSelections(sid)
		toast = "Selection cleared"
		kb = categoryKeyboard(ownerID, h.registry.Categories(), nil)
	case "done":
		_ = h.tg.AnswerCallback(q.ID, "", false)
		if err := h.tg.DeleteMessage(chatID, msgID); err != nil {
			h.logger.Warn("delete filter menu failed", "err", err)
		}
		return h.tg.SendText(chatID, filterMenuText(h.sessions.Selections(sid))+"\n\nSend a photo to apply them.")
	default:
		return nil
	}

	_ = h.tg.AnswerCallback(q.ID, toast, false)
	return h.tg.EditTextWithKeyboard(chatID, msgID, filterMenuText(h.sessions.Selections(sid)), kb)
}

// parseCallback splits "fl:<owner>:<action>[:args...]".
func parseCallback(data string) (ownerID int64, action string, args []string, ok bool) {
	parts := strings.Split(strings.TrimSpace(data), ":")
	if len(parts) < 3 || parts[0] != filterCallbackPrefix {
		return 0, "", nil, false
	}
	ownerID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, "", nil, false
	}
	return ownerID, parts[2], parts[3:], true
}

func cb(ownerID int64, parts ...string) string {
	return fmt.Sprintf("%s:%d:%s", filterCallbackPrefix, ownerID, strings.Join(parts, ":"))
}

func filterMenuText(sels []prompt.Selection) string {
	if len(sels) == 0 {
		return "🎛 Filters\n\nNo filters selected. Pick a category."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🎛 Filters\n\nSelected (%d), applied in this order:\n", len(sels))
	for i, sel := range sels {
		fmt.Fprintf(&b, "%d. %s\n", i+1, filters.Label(sel.Filter))
	}
	b.WriteString("\nUse /set <filter> key=value to tune parameters.")
	return b.String()
}

func categoryKeyboard(ownerID int64, cats []filters.Category, sels []prompt.Selection) tgbotapi.InlineKeyboardMarkup {
	selected := selectedSet(sels)

	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, c := range cats {
		n := 0
		for _, name := range c.Filters {
			if selected[name] {
				n++
			}
		}
		label := c.Icon + " " + c.Label
		if n > 0 {
			label += fmt.Sprintf(" (%d)", n)
		}

		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, cb(ownerID, "cat", c.Key)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("🔄 Reset", cb(ownerID, "reset")),
		tgbotapi.NewInlineKeyboardButtonData("✅ Done", cb(ownerID, "done")),
	})
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func filterKeyboard(ownerID int64, cat filters.Category, sels []prompt.Selection) tgbotapi.InlineKeyboardMarkup {
	selected := selectedSet(sels)

	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, name := range cat.Filters {
		label := "⬜ " + filters.Label(name)
		if selected[name] {
			label = "✅ " + filters.Label(name)
		}

		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, cb(ownerID, "tog", cat.Key, name)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("⬅ Back", cb(ownerID, "menu")),
		tgbotapi.NewInlineKeyboardButtonData("✅ Done", cb(ownerID, "done")),
	})
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func selectedSet(sels []prompt.Selection) map[string]bool {
	out := make(map[string]bool, len(sels))
	for _, s := range sels {
		out[s.Filter] = true
	}
	return out
}
