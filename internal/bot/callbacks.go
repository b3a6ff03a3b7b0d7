package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"finbot/internal/config"
	"finbot/internal/core"
	"finbot/internal/render"
	"finbot/internal/session"
)

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	data := cb.Data
	switch {
	case strings.HasPrefix(data, callbackExpenseCategory), strings.HasPrefix(data, callbackIncomeCategory):
		return b.handleCategoryCallback(ctx, cb)
	case data == callbackMethodCash, data == callbackMethodCard:
		return b.handleMethodCallback(ctx, cb)
	case strings.HasPrefix(data, callbackGoalAdd):
		return b.handleGoalAddCallback(cb)
	case strings.HasPrefix(data, callbackGoalDelete):
		return b.handleGoalDeleteCallback(ctx, cb)
	}
	b.answerCallback(cb.ID)
	return nil
}

// handleCategoryCallback resolves the pressed category button against the
// configured list. Indexes that fall outside the list are rejected rather
// than coerced.
func (b *Bot) handleCategoryCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	chatID := cb.Message.Chat.ID

	state, ok := b.sessions.Get(chatID)
	if !ok || state.Flow != session.FlowTransaction || state.Step != session.StepAwaitCategory {
		b.answerCallback(cb.ID)
		return nil
	}

	var (
		categories config.CategoryList
		prefix     string
	)
	if state.Kind == core.KindIncome {
		categories, prefix = b.cfg.IncomeCategories, callbackIncomeCategory
	} else {
		categories, prefix = b.cfg.ExpenseCategories, callbackExpenseCategory
	}
	if !strings.HasPrefix(cb.Data, prefix) {
		b.answerCallback(cb.ID)
		return nil
	}

	idx, err := strconv.Atoi(strings.TrimPrefix(cb.Data, prefix))
	if err != nil {
		b.answerCallbackAlert(cb.ID, "❌ Неизвестная категория")
		return nil
	}
	category, ok := categories.At(idx)
	if !ok {
		b.answerCallbackAlert(cb.ID, "❌ Неизвестная категория")
		return nil
	}

	state.Category = category
	state.Step = session.StepAwaitMethod
	b.sessions.Put(chatID, state)

	prompt := "💳 <b>Выберите способ оплаты:</b>"
	if state.Kind == core.KindIncome {
		prompt = "💳 <b>Выберите способ получения:</b>"
	}
	kb := methodKeyboard()
	if err := b.editHTML(chatID, cb.Message.MessageID,
		fmt.Sprintf("✅ <b>Категория выбрана!</b>\n📂 %s\n\n━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n%s", category, prompt),
		&kb); err != nil {
		return err
	}
	b.answerCallback(cb.ID)
	return nil
}

func (b *Bot) handleMethodCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	chatID := cb.Message.Chat.ID

	state, ok := b.sessions.Get(chatID)
	if !ok || state.Flow != session.FlowTransaction || state.Step != session.StepAwaitMethod {
		b.answerCallback(cb.ID)
		return nil
	}

	method := core.MethodCard
	if cb.Data == callbackMethodCash {
		method = core.MethodCash
	}

	user, err := b.resolveUser(ctx, cb.From)
	if err != nil {
		return err
	}
	if !user.Registered() || user.Name == "" {
		b.sessions.Clear(chatID)
		b.answerCallback(cb.ID)
		return b.sendText(chatID, "❌ Ошибка: имя не установлено. Нажмите /start.")
	}

	t, err := b.tx.Record(ctx, user.ID, state.Amount, state.Kind, method, state.Category, "")
	if err != nil {
		return err
	}

	b.sessions.Clear(chatID)

	header := "║ ✅ <b>РАСХОД ДОБАВЛЕН!</b>         ║"
	methodLabel := "Карта"
	if state.Kind == core.KindIncome {
		header = "║ ✅ <b>ДОХОД ДОБАВЛЕН!</b>          ║"
	}
	if method == core.MethodCash {
		methodLabel = "Наличные"
	}

	if err := b.editHTML(chatID, cb.Message.MessageID,
		"╔════════════════════════════════════╗\n"+
			header+"\n"+
			"╚════════════════════════════════════╝\n\n"+
			fmt.Sprintf("💰 <b>Сумма:</b> %s\n", render.Money(t.Amount))+
			fmt.Sprintf("📂 <b>Категория:</b> %s\n", t.Category)+
			fmt.Sprintf("💳 <b>Способ:</b> %s\n\n", methodLabel)+
			"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n"+
			"✅ Записано в ваш финансовый дневник",
		nil); err != nil {
		return err
	}

	b.answerCallback(cb.ID)
	return b.sendHTML(chatID, "Выберите действие:", mainMenuKeyboard())
}

func (b *Bot) handleGoalAddCallback(cb *tgbotapi.CallbackQuery) error {
	chatID := cb.Message.Chat.ID

	goalID, err := strconv.ParseInt(strings.TrimPrefix(cb.Data, callbackGoalAdd), 10, 64)
	if err != nil {
		b.answerCallbackAlert(cb.ID, "❌ Неизвестная цель")
		return nil
	}

	b.sessions.Put(chatID, session.State{
		Flow:   session.FlowGoalContribute,
		Step:   session.StepAwaitContribution,
		GoalID: goalID,
	})
	b.answerCallback(cb.ID)
	return b.sendHTML(chatID, "💰 Введите сумму для пополнения цели:", cancelKeyboard())
}

func (b *Bot) handleGoalDeleteCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	chatID := cb.Message.Chat.ID

	goalID, err := strconv.ParseInt(strings.TrimPrefix(cb.Data, callbackGoalDelete), 10, 64)
	if err != nil {
		b.answerCallbackAlert(cb.ID, "❌ Неизвестная цель")
		return nil
	}

	user, err := b.resolveUser(ctx, cb.From)
	if err != nil {
		return err
	}

	ok, err := b.goals.Delete(ctx, user.ID, goalID)
	if err != nil {
		return err
	}
	if !ok {
		b.answerCallbackAlert(cb.ID, "❌ Не удалось удалить цель")
		return nil
	}

	b.answerCallback(cb.ID)
	return b.sendHTML(chatID, "✅ Цель удалена", mainMenuKeyboard())
}
