// Package telegram adapts the Telegram Bot API to the conversation engine.
// It normalises updates into events, renders prompts back into messages and
// keyboards, and owns the long-polling loop.
package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sman1la/tatib-bot/internal/engine"
	"github.com/sman1la/tatib-bot/internal/service"
)

// Handler consumes one normalised event and answers with a prompt.
type Handler interface {
	Handle(ctx context.Context, userID int64, ev engine.Event) engine.Prompt
}

// Bot runs the long-polling loop. Updates are handled strictly one at a
// time in arrival order, so two updates from the same user can never race
// on the session.
type Bot struct {
	api         *tgbotapi.BotAPI
	handler     Handler
	metrics     *service.MetricsService
	logger      *zap.Logger
	pollTimeout time.Duration
	downloads   *http.Client
}

// New connects to the Bot API and returns the transport. metrics may be
// nil to disable event counting.
func New(token string, pollTimeout time.Duration, handler Handler, metrics *service.MetricsService, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect bot api: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{
		api:         api,
		handler:     handler,
		metrics:     metrics,
		logger:      logger,
		pollTimeout: pollTimeout,
		downloads:   &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// Username reports the bot account name, useful for startup logging.
func (b *Bot) Username() string {
	return b.api.Self.UserName
}

// Run polls for updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = int(b.pollTimeout.Seconds())
	updates := b.api.GetUpdatesChan(cfg)

	b.logger.Info("bot polling started", zap.String("username", b.Username()))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	start := time.Now()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
		b.observeEvent(string(engine.KindCallback), start)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	// acknowledge first so the button stops spinning
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		b.logger.Warn("callback ack failed", zap.Error(err))
	}
	if query.Message == nil {
		return
	}

	ev := engine.Event{Kind: engine.KindCallback, Callback: engine.ParseCallback(query.Data)}
	prompt := b.handler.Handle(ctx, query.From.ID, ev)
	b.renderEdit(query.Message.Chat.ID, query.Message.MessageID, prompt)
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	start := time.Now()
	chatID := msg.Chat.ID

	var ev engine.Event
	switch {
	case msg.IsCommand():
		ev = engine.Event{Kind: engine.KindCommand, Command: msg.Command()}
	case len(msg.Photo) > 0:
		// the last entry is the largest rendition
		photoPath, err := b.downloadPhoto(msg.Photo[len(msg.Photo)-1].FileID)
		if err != nil {
			b.logger.Error("photo download failed", zap.Int64("user_id", msg.From.ID), zap.Error(err))
			b.send(chatID, engine.Prompt{Text: "⚠️ Gagal mengunduh foto. Silakan kirim ulang."})
			return
		}
		defer func() {
			if err := os.Remove(photoPath); err != nil {
				b.logger.Warn("temp photo cleanup failed", zap.String("path", photoPath), zap.Error(err))
			}
		}()
		ev = engine.Event{Kind: engine.KindPhoto, PhotoPath: photoPath}
	default:
		ev = engine.Event{Kind: engine.KindText, Text: msg.Text}
	}

	prompt := b.handler.Handle(ctx, msg.From.ID, ev)
	b.send(chatID, prompt)
	b.observeEvent(string(ev.Kind), start)
}

// downloadPhoto fetches the file behind a Telegram file id into a uniquely
// named temp file. The caller removes it once handling finishes.
func (b *Bot) downloadPhoto(fileID string) (string, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return "", fmt.Errorf("resolve file url: %w", err)
	}

	resp, err := b.downloads.Get(url)
	if err != nil {
		return "", fmt.Errorf("fetch photo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch photo: status %d", resp.StatusCode)
	}

	path := filepath.Join(os.TempDir(), uuid.NewString()+".jpg")
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create temp photo: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write temp photo: %w", err)
	}
	return path, nil
}

func (b *Bot) send(chatID int64, prompt engine.Prompt) {
	if prompt.Document != nil {
		b.sendDocument(chatID, prompt)
		return
	}
	if prompt.Text == "" {
		return
	}

	msg := tgbotapi.NewMessage(chatID, prompt.Text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if markup, ok := keyboard(prompt.Buttons); ok {
		msg.ReplyMarkup = markup
	}
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("message send failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// renderEdit rewrites the message the tapped keyboard was attached to, so
// the chat does not fill up with stale menus.
func (b *Bot) renderEdit(chatID int64, messageID int, prompt engine.Prompt) {
	if prompt.Document != nil {
		b.sendDocument(chatID, prompt)
		return
	}
	if prompt.Text == "" {
		return
	}

	if markup, ok := keyboard(prompt.Buttons); ok {
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, prompt.Text, markup)
		edit.ParseMode = tgbotapi.ModeMarkdown
		if _, err := b.api.Send(edit); err != nil {
			b.logger.Error("message edit failed", zap.Int64("chat_id", chatID), zap.Error(err))
		}
		return
	}

	edit := tgbotapi.NewEditMessageText(chatID, messageID, prompt.Text)
	edit.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(edit); err != nil {
		b.logger.Error("message edit failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) sendDocument(chatID int64, prompt engine.Prompt) {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  prompt.Document.FileName,
		Bytes: prompt.Document.Data,
	})
	doc.Caption = prompt.Document.Caption
	if markup, ok := keyboard(prompt.Buttons); ok {
		doc.ReplyMarkup = markup
	}
	if _, err := b.api.Send(doc); err != nil {
		b.logger.Error("document send failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func keyboard(rows [][]engine.Button) (tgbotapi.InlineKeyboardMarkup, bool) {
	if len(rows) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	keyboardRows := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, r := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(r))
		for _, btn := range r {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(btn.Label, btn.Data))
		}
		keyboardRows = append(keyboardRows, buttons)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboardRows...), true
}

func (b *Bot) observeEvent(kind string, start time.Time) {
	if b.metrics != nil {
		b.metrics.ObserveEvent(kind, time.Since(start).Seconds())
	}
}
