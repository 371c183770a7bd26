package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"

	"photopro/internal/config"
	"photopro/internal/enhance"
	"photopro/internal/filters"
	"photopro/internal/mediagroup"
	"photopro/internal/prompt"
	"photopro/internal/session"
	"photopro/internal/telegram"
)

type Options struct {
	Telegram *telegram.Client
	Enhancer *enhance.Service
	Registry *filters.Registry
	Composer *prompt.Composer
	Library  *prompt.Library
	Sessions *session.Store
	UI       config.UI
	Logger   *slog.Logger
}

type Handler struct {
	tg         *telegram.Client
	enhancer   *enhance.Service
	registry   *filters.Registry
	composer   *prompt.Composer
	library    *prompt.Library
	sessions   *session.Store
	ui         config.UI
	logger     *slog.Logger
	aggregator *mediagroup.Aggregator
}

func New(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		tg:       opts.Telegram,
		enhancer: opts.Enhancer,
		registry: opts.Registry,
		composer: opts.Composer,
		library:  opts.Library,
		sessions: opts.Sessions,
		ui:       opts.UI,
		logger:   logger,
	}
}

func (h *Handler) SetMediaGroupAggregator(ag *mediagroup.Aggregator) {
	h.aggregator = ag
}

func sessionKey(userID int64) string {
	return fmt.Sprintf("tg:%d", userID)
}

func (h *Handler) HandleUpdate(ctx context.Context, update telegram.Update) error {
	if update.CallbackQuery != nil {
		return h.handleCallback(update.CallbackQuery)
	}
	if update.Message == nil || update.Message.From == nil {
		return nil
	}

	msg := update.Message
	chatID := msg.Chat.ID
	userID := msg.From.ID
	username := msg.From.UserName
	h.sessions.Touch(sessionKey(userID), username)

	if msg.IsCommand() {
		return h.handleCommand(chatID, userID, msg)
	}

	if file, ok := imageFile(msg); ok {
		return h.handlePhoto(ctx, chatID, userID, username, msg, file)
	}

	if msg.Text != "" {
		return h.handleText(chatID, userID, msg.Text)
	}

	return nil
}

func (h *Handler) HandleMediaGroup(ctx context.Context, group mediagroup.Group) {
	if err := h.processPhotos(ctx, group.ChatID, group.UserID, group.Caption, group.Files); err != nil {
		h.logger.Error("media group processing failed", "err", err, "user_id", group.UserID)
	}
}

// imageFile picks the file to enhance: the largest size of a photo, or a
// document sent uncompressed with an image MIME type.
func imageFile(msg *tgbotapi.Message) (mediagroup.File, bool) {
	if len(msg.Photo) > 0 {
		return mediagroup.File{ID: msg.Photo[len(msg.Photo)-1].FileID}, true
	}
	if doc := msg.Document; doc != nil && strings.HasPrefix(doc.MimeType, "image/") {
		return mediagroup.File{ID: doc.FileID, Name: doc.FileName}, true
	}
	return mediagroup.File{}, false
}

func (h *Handler) handleCommand(chatID int64, userID int64, msg *tgbotapi.Message) error {
	sid := sessionKey(userID)
	args := strings.TrimSpace(msg.CommandArguments())

	switch msg.Command() {
	case "start":
		return h.tg.SendText(chatID, h.ui.Bot.Welcome)
	case "help":
		return h.tg.SendText(chatID, h.ui.Bot.Help)
	case "filters":
		return h.openFilterMenu(chatID, userID)
	case "set":
		return h.handleSet(chatID, userID, args)
	case "prompt":
		res := h.buildPrompt(sid, "")
		if res.Prompt == "" {
			return h.tg.SendText(chatID, h.ui.Bot.NoSelection)
		}
		return h.tg.SendText(chatID, res.Prompt+formatSkipped(res.Skipped))
	case "reset":
		h.sessions.ClearSelections(sid)
		h.sessions.SetCustom(sid, "")
		return h.tg.SendText(chatID, h.ui.Bot.SelectionsOff)
	case "random":
		return h.handleRandom(chatID, sid, args)
	case "search":
		return h.tg.SendText(chatID, h.formatSearch(args))
	case "stats":
		return h.tg.SendText(chatID, formatStats(h.sessions.Stats(sid), h.sessions.History(sid, 5)))
	case "clear":
		h.sessions.Clear(sid)
		return h.tg.SendText(chatID, h.ui.Bot.HistoryClear)
	default:
		return h.tg.SendText(chatID, "❌ Unknown command. See /help.")
	}
}

// handleText stores plain messages as the instruction for the next photos.
func (h *Handler) handleText(chatID int64, userID int64, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	h.sessions.SetCustom(sessionKey(userID), text)
	return h.tg.SendText(chatID, "📝 Instruction saved. Send a photo to apply it.")
}

func (h *Handler) handleSet(chatID int64, userID int64, args string) error {
	filter, raw, err := parseSetArgs(args)
	if err != nil {
		return h.tg.SendText(chatID, "❌ "+err.Error())
	}

	def, err := h.registry.Definition(filter)
	if err != nil {
		reply := fmt.Sprintf("❌ Unknown filter %q.", filter)
		if matches := h.registry.Search(filter); len(matches) > 0 {
			reply += fmt.Sprintf(" Did you mean %s?", matches[0])
		}
		return h.tg.SendText(chatID, reply)
	}

	values, err := coerceValues(filter, def.Params, raw)
	if err != nil {
		return h.tg.SendText(chatID, "❌ "+err.Error())
	}

	sid := sessionKey(userID)
	defaults, err := h.registry.Defaults(filter)
	if err != nil {
		return err
	}
	merged := maps.Clone(defaults)
	for _, sel := range h.sessions.Selections(sid) {
		if sel.Filter == filter {
			maps.Copy(merged, sel.Params)
		}
	}
	maps.Copy(merged, values)

	if err := h.registry.Validate(filter, merged); err != nil {
		return h.tg.SendText(chatID, "❌ "+err.Error())
	}
	h.sessions.SetParams(sid, filter, defaults, values)

	text, err := def.Render(merged)
	if err != nil {
		return err
	}
	return h.tg.SendText(chatID, fmt.Sprintf("✅ %s selected:\n%s", filters.Label(filter), text))
}

func (h *Handler) handleRandom(chatID int64, sid string, category string) error {
	var (
		text string
		ok   bool
	)
	if category == "" {
		category, text = h.library.RandomAny()
		ok = text != ""
	} else {
		text, ok = h.library.Random(strings.ToLower(category))
	}
	if !ok {
		keys := make([]string, 0)
		for _, c := range h.library.Categories() {
			keys = append(keys, c.Key)
		}
		return h.tg.SendText(chatID, "❌ Unknown preset category. Available: "+strings.Join(keys, ", "))
	}

	h.sessions.SetCustom(sid, text)
	return h.tg.SendText(chatID, fmt.Sprintf("🎲 %s preset:\n%s\n\nSaved as your instruction. Send a photo to apply it.", category, text))
}

func (h *Handler) handlePhoto(ctx context.Context, chatID int64, userID int64, username string, msg *tgbotapi.Message, file mediagroup.File) error {
	if msg.MediaGroupID != "" && h.aggregator != nil {
		h.aggregator.Add(mediagroup.Item{
			ChatID:       chatID,
			UserID:       userID,
			Username:     username,
			MediaGroupID: msg.MediaGroupID,
			Caption:      msg.Caption,
			File:         file,
		})
		return nil
	}

	return h.processPhotos(ctx, chatID, userID, msg.Caption, []mediagroup.File{file})
}

// buildPrompt merges the caption, or the stored instruction when there is no
// caption, with the session's filter selections.
func (h *Handler) buildPrompt(sid, caption string) prompt.Result {
	custom := strings.TrimSpace(caption)
	if custom == "" {
		custom = h.sessions.Custom(sid)
	}
	return h.composer.Build(prompt.Request{
		Mode:       prompt.ModeCombined,
		Custom:     custom,
		Selections: h.sessions.Selections(sid),
	})
}

func (h *Handler) processPhotos(ctx context.Context, chatID int64, userID int64, caption string, files []mediagroup.File) error {
	sid := sessionKey(userID)
	built := h.buildPrompt(sid, caption)
	if built.Prompt == "" {
		return h.tg.SendText(chatID, h.ui.Bot.NoSelection)
	}

	_ = h.tg.SendText(chatID, h.ui.Bot.Processing)
	h.tg.SendUploadingPhoto(chatID)

	uploads := make([]enhance.Upload, len(files))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, f := range files {
		eg.Go(func() error {
			data, _, err := h.tg.DownloadFile(egCtx, f.ID)
			if err != nil {
				return err
			}
			name := f.Name
			if name == "" {
				name = fmt.Sprintf("photo_%d.jpg", i+1)
			}
			uploads[i] = enhance.Upload{Filename: name, Data: data}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		h.logger.Error("photo download failed", "err", err)
		return h.tg.SendText(chatID, "❌ Could not download the photo. Please try again.")
	}

	batch, err := h.enhancer.Process(ctx, sid, uploads, built.Prompt)
	if err != nil {
		if errors.Is(err, enhance.ErrEmptyPrompt) {
			return h.tg.SendText(chatID, h.ui.Bot.NoSelection)
		}
		return err
	}

	for _, r := range batch.Results {
		if err := h.sendResult(chatID, r); err != nil {
			return err
		}
	}

	if note := formatSkipped(built.Skipped); note != "" {
		_ = h.tg.SendText(chatID, strings.TrimSpace(note))
	}
	if len(batch.Results) > 1 {
		ok := 0
		for _, r := range batch.Results {
			if r.Success {
				ok++
			}
		}
		return h.tg.SendText(chatID, fmt.Sprintf("📊 %d of %d photos enhanced.", ok, len(batch.Results)))
	}
	return nil
}

func (h *Handler) sendResult(chatID int64, r enhance.Result) error {
	if !r.Success {
		return h.tg.SendText(chatID, fmt.Sprintf("%s %s: %s", h.ui.Bot.Failed, r.Filename, r.Error))
	}

	caption := strings.TrimSpace(strings.Join(r.Texts, "\n"))
	if len(r.Images) == 0 {
		if caption == "" {
			caption = "The model returned no image."
		}
		return h.tg.SendText(chatID, caption)
	}

	for i, img := range r.Images {
		sendCaption := ""
		if i == 0 {
			sendCaption = caption
		}
		if err := h.tg.SendPhotoBytes(chatID, img.Data, img.MimeType, sendCaption); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) formatSearch(query string) string {
	if strings.TrimSpace(query) == "" {
		return "Usage: /search <words>"
	}
	matches := h.registry.Search(query)
	if len(matches) == 0 {
		return fmt.Sprintf("No filter matches %q.", query)
	}
	if len(matches) > 10 {
		matches = matches[:10]
	}

	var b strings.Builder
	b.WriteString("🔎 Filters:\n")
	for _, name := range matches {
		label := ""
		if key, ok := h.registry.CategoryOf(name); ok {
			if c, ok := h.registry.Category(key); ok {
				label = " (" + c.Label + ")"
			}
		}
		fmt.Fprintf(&b, "• %s [%s]%s\n", filters.Label(name), name, label)
	}
	return strings.TrimSpace(b.String())
}

func formatSkipped(skips []prompt.Skip) string {
	if len(skips) == 0 {
		return ""
	}
	parts := make([]string, 0, len(skips))
	for _, s := range skips {
		parts = append(parts, fmt.Sprintf("%s (%s)", s.Filter, prompt.SkipReason(s.Reason)))
	}
	return "\n\n⚠️ Skipped: " + strings.Join(parts, ", ")
}

func formatStats(st session.Stats, recent []session.Entry) string {
	var b strings.Builder
	b.WriteString("📊 Statistics\n\n")
	fmt.Fprintf(&b, "Processed: %d\n", st.TotalImages)
	fmt.Fprintf(&b, "Successful: %d\n", st.Successful)
	fmt.Fprintf(&b, "Failed: %d\n", st.Failed)
	fmt.Fprintf(&b, "Success rate: %.1f%%\n", st.SuccessRate())

	if len(recent) > 0 {
		b.WriteString("\nRecent:\n")
		for _, e := range recent {
			mark := "✅"
			if !e.Success {
				mark = "❌"
			}
			fmt.Fprintf(&b, "%s %s %s (%.1fs)\n", mark, e.Timestamp.Format("15:04:05"), e.Filename, e.Duration.Seconds())
		}
	}
	return strings.TrimSpace(b.String())
}
