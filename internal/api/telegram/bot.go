package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	app "damage-dashboard/internal/application"
	"damage-dashboard/internal/container"
	"damage-dashboard/internal/domain/entity"
	"damage-dashboard/internal/overlay"
)

const (
	msgStart = `👋 Привет! Я бот для оценки повреждений автомобиля по фото.

📸 Отправьте фото машины, и я покажу найденные повреждения, решение по страховой заявке и примерную стоимость ремонта.

📋 Команды:
/check — начать проверку
/ask <вопрос> — спросить ассистента о решении
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте фото повреждённого автомобиля
2️⃣ Бот отправит его в сервис детекции
3️⃣ Вы получите картинку «до / после» с подсветкой повреждений и оценку стоимости
4️⃣ Задайте вопрос о решении — ответит ассистент

🎨 Цвет рамки:
• красный — уверенность от 90%
• оранжевый — от 70%
• зелёный — ниже 70%

📋 Команды:
/check — начать проверку
/ask <вопрос> — вопрос ассистенту
/cancel — отменить операцию`

	msgAwaitingPhoto   = "📸 Отправьте фото автомобиля для оценки повреждений."
	msgCancelled       = "❌ Операция отменена. Отправьте /check для новой проверки."
	msgSendPhoto       = "📸 Пожалуйста, отправьте фото автомобиля для оценки повреждений."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Анализирую изображение..."
	msgStillProcessing = "⏳ Предыдущее фото ещё обрабатывается, подождите."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте сделать другое фото."
	msgPoorQuality     = "⚠️ Фото плохого качества: снимите ближе, при хорошем освещении и без бликов."
	msgServiceDown     = "⚠️ Сервис оценки сейчас недоступен. Попробуйте позже."
	msgAskUsage        = "❓ Напишите вопрос после команды, например: /ask почему заявка одобрена?"
	msgNoResult        = "📸 Сначала отправьте фото — ассистент отвечает по результату анализа."
	msgAskFailed       = "⚠️ Ассистент не смог ответить. Попробуйте позже."
	msgAskHint         = "💬 Можете задать вопрос о решении — просто напишите его."

	comparisonWidth = 800
	jpegQuality     = 90
)

// Bot представляет Telegram-бота
type Bot struct {
	api      *tgbotapi.BotAPI
	users    *app.UserService
	analyses *app.AnalysisService
	client   *http.Client
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, eris.Wrap(err, "telegram: authorize")
	}

	zap.L().Info("telegram bot authorized", zap.String("account", api.Self.UserName))

	return &Bot{
		api:      api,
		users:    c.UserService,
		analyses: c.AnalysisService,
		client:   http.DefaultClient,
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// sessionID сессия анализа привязана к чату
func sessionID(chatID int64) string {
	return fmt.Sprintf("tg-%d", chatID)
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.users.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		zap.L().Error("get user", zap.Int64("user_id", msg.From.ID), zap.Error(err))
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	// Обработка фото
	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg, user)
		return
	}

	// Текст после готового результата считаем вопросом ассистенту
	if user.CanAsk() && strings.TrimSpace(msg.Text) != "" {
		b.handleQuestion(ctx, msg.Chat.ID, msg.Text)
		return
	}

	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	chatID := msg.Chat.ID
	switch msg.Command() {
	case "start":
		b.setState(ctx, user, entity.StateMainMenu)
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "check":
		if _, err := b.users.BeginCheck(ctx, user.ID, chatID); err != nil {
			zap.L().Error("begin check", zap.Error(err))
		}
		b.sendMessage(chatID, msgAwaitingPhoto)

	case "ask":
		question := strings.TrimSpace(msg.CommandArguments())
		if question == "" {
			b.sendMessage(chatID, msgAskUsage)
			return
		}
		b.handleQuestion(ctx, chatID, question)

	case "cancel":
		if err := b.analyses.Reset(ctx, sessionID(chatID)); err != nil {
			zap.L().Warn("reset session", zap.Error(err))
		}
		if _, err := b.users.Cancel(ctx, user.ID, chatID); err != nil {
			zap.L().Error("cancel", zap.Error(err))
		}
		b.sendMessage(chatID, msgCancelled)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

// handlePhoto обрабатывает входящее фото
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	chatID := msg.Chat.ID
	if user.State == entity.StateProcessing {
		b.sendMessage(chatID, msgStillProcessing)
		return
	}

	if _, err := b.users.StartProcessing(ctx, user.ID, chatID); err != nil {
		zap.L().Error("start processing", zap.Error(err))
	}
	user.SetState(entity.StateProcessing)
	b.sendMessage(chatID, msgProcessing)

	// Получаем файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	imageData, err := b.downloadFile(ctx, photo.FileID)
	if err != nil {
		zap.L().Error("download photo", zap.String("file_id", photo.FileID), zap.Error(err))
		b.sendMessage(chatID, msgProcessingError)
		b.setState(ctx, user, entity.StateMainMenu)
		return
	}

	id := sessionID(chatID)
	view, err := b.analyses.Analyze(ctx, id, photo.FileID+".jpg", imageData)
	if err != nil {
		zap.L().Warn("analyze photo", zap.String("session", id), zap.Error(err))
		b.sendMessage(chatID, errorMessage(err))
		b.setState(ctx, user, entity.StateMainMenu)
		return
	}

	if err := b.sendComparison(chatID, id, view); err != nil {
		zap.L().Error("send comparison", zap.String("session", id), zap.Error(err))
		b.sendMessage(chatID, formatCaption(view))
	}
	b.sendMessage(chatID, msgAskHint)

	if _, err := b.users.ResultReady(ctx, user.ID, chatID); err != nil {
		zap.L().Error("result ready", zap.Error(err))
	}
}

func (b *Bot) handleQuestion(ctx context.Context, chatID int64, question string) {
	answer, err := b.analyses.Ask(ctx, sessionID(chatID), question)
	switch {
	case err == nil:
		b.sendMessage(chatID, "🤖 "+answer.Answer)
	case eris.Is(err, entity.ErrSessionNotFound), eris.Is(err, app.ErrNoResult):
		b.sendMessage(chatID, msgNoResult)
	default:
		zap.L().Warn("ask assistant", zap.Int64("chat_id", chatID), zap.Error(err))
		b.sendMessage(chatID, msgAskFailed)
	}
}

func (b *Bot) sendComparison(chatID int64, id string, view *app.AnalysisView) error {
	img, err := b.analyses.Comparison(id, comparisonWidth)
	if err != nil {
		return err
	}
	data, err := overlay.EncodeJPEG(img, jpegQuality)
	if err != nil {
		return err
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "comparison.jpg", Bytes: data})
	photo.Caption = formatCaption(view)
	if _, err := b.api.Send(photo); err != nil {
		return eris.Wrap(err, "telegram: send photo")
	}
	return nil
}

func (b *Bot) setState(ctx context.Context, user *entity.User, state entity.UserState) {
	if _, err := b.users.SetState(ctx, user.ID, user.ChatID, state); err != nil {
		zap.L().Error("set user state", zap.Int64("user_id", user.ID), zap.Error(err))
	}
	user.SetState(state)
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, eris.Wrap(err, "get file")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, eris.Wrap(err, "build download request")
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "download file")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "read file")
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		zap.L().Warn("send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
