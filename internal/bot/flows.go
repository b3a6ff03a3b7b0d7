package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"finbot/internal/core"
	"finbot/internal/render"
	"finbot/internal/session"
)

// handleFlowMessage routes a text message to the chat's active flow step.
func (b *Bot) handleFlowMessage(ctx context.Context, m *tgbotapi.Message, state session.State) error {
	switch state.Flow {
	case session.FlowRegistration:
		return b.processRegistrationName(ctx, m)
	case session.FlowTransaction:
		return b.processTransactionAmount(ctx, m, state)
	case session.FlowBudget:
		return b.processBudget(ctx, m)
	case session.FlowSearch:
		return b.processSearchQuery(ctx, m)
	case session.FlowGoalName:
		return b.processGoalCreation(ctx, m, state)
	case session.FlowGoalContribute:
		return b.processGoalContribution(ctx, m, state)
	}
	b.sessions.Clear(m.Chat.ID)
	return nil
}

func (b *Bot) processRegistrationName(ctx context.Context, m *tgbotapi.Message) error {
	name := strings.TrimSpace(m.Text)
	if err := core.ValidateName(name); err != nil {
		return b.sendHTML(m.Chat.ID,
			"❌ Пожалуйста, введите корректное имя:\n"+
				"• От 1 до 50 символов\n"+
				"• Без ссылок и спецсимволов",
			cancelKeyboard())
	}

	user, err := b.storage.UpsertUser(ctx, m.From.ID, name)
	if err != nil {
		return err
	}

	b.sessions.Clear(m.Chat.ID)
	return b.sendHTML(m.Chat.ID,
		fmt.Sprintf("✨ Отлично, <b>%s</b>!\n\n", user.Name)+
			"Теперь вы можете:\n"+
			"• 📥 Добавлять доходы\n"+
			"• 📤 Добавлять расходы\n"+
			"• 📊 Смотреть отчёты\n"+
			"• ↩ Отменять операции\n\n"+
			"Напишите /help для подробной справки",
		mainMenuKeyboard())
}

func (b *Bot) startTransactionFlow(ctx context.Context, m *tgbotapi.Message, kind core.Kind) error {
	user, ok, err := b.requireRegistered(ctx, m)
	if !ok {
		return err
	}
	b.mirrorYesterday(ctx, user)

	b.sessions.Put(m.Chat.ID, session.State{
		Flow: session.FlowTransaction,
		Step: session.StepAwaitAmount,
		Kind: kind,
	})

	header := "║ 💰 <b>НОВЫЙ ДОХОД</b>               ║"
	prompt := "Введите сумму дохода:"
	if kind == core.KindExpense {
		header = "║ 💸 <b>НОВЫЙ РАСХОД</b>              ║"
		prompt = "Введите сумму расхода:"
	}

	return b.sendHTML(m.Chat.ID,
		"╔════════════════════════════════════╗\n"+
			header+"\n"+
			"╚════════════════════════════════════╝\n\n"+
			prompt+"\n"+
			"(например: <code>50000</code> или <code>50000.50</code>)",
		cancelKeyboard())
}

func (b *Bot) processTransactionAmount(ctx context.Context, m *tgbotapi.Message, state session.State) error {
	if state.Step != session.StepAwaitAmount {
		// Category and method arrive as callbacks; stray text is ignored.
		return nil
	}

	amount, err := core.ParseAmount(m.Text, b.cfg.MinTransactionAmount, b.cfg.MaxTransactionAmount)
	if err != nil {
		return b.sendHTML(m.Chat.ID, b.amountErrorText(), cancelKeyboard())
	}

	state.Amount = amount
	state.Step = session.StepAwaitCategory
	b.sessions.Put(m.Chat.ID, state)

	if state.Kind == core.KindIncome {
		return b.sendHTML(m.Chat.ID, "📂 <b>Выберите категорию дохода:</b>",
			categoryKeyboard(b.cfg.IncomeCategories, callbackIncomeCategory))
	}
	return b.sendHTML(m.Chat.ID, "📂 <b>Выберите категорию расхода:</b>",
		categoryKeyboard(b.cfg.ExpenseCategories, callbackExpenseCategory))
}

func (b *Bot) processBudget(ctx context.Context, m *tgbotapi.Message) error {
	user, err := b.resolveUser(ctx, m.From)
	if err != nil {
		return err
	}
	return b.saveBudget(ctx, m.Chat.ID, user.ID, user.Name, strings.TrimSpace(m.Text))
}

func (b *Bot) processSearchQuery(ctx context.Context, m *tgbotapi.Message) error {
	user, err := b.resolveUser(ctx, m.From)
	if err != nil {
		return err
	}
	b.sessions.Clear(m.Chat.ID)
	return b.executeSearch(ctx, m.Chat.ID, user, strings.TrimSpace(m.Text))
}

// deadline skip tokens accepted by the goal creation flow
var skipDeadlineTokens = map[string]bool{
	"—":          true,
	"-":          true,
	"пропустить": true,
	"нет":        true,
}

func (b *Bot) processGoalCreation(ctx context.Context, m *tgbotapi.Message, state session.State) error {
	text := strings.TrimSpace(m.Text)

	switch state.Step {
	case session.StepAwaitGoalName:
		if err := core.ValidateName(text); err != nil {
			return b.sendHTML(m.Chat.ID, "❌ Введите название цели (до 50 символов, без ссылок)", cancelKeyboard())
		}
		state.GoalName = text
		state.Step = session.StepAwaitGoalTarget
		b.sessions.Put(m.Chat.ID, state)
		return b.sendHTML(m.Chat.ID,
			"💰 Введите целевую сумму (например: <code>100000</code> или <code>50000.50</code>):",
			cancelKeyboard())

	case session.StepAwaitGoalTarget:
		amount, err := core.ParseAmount(text, b.cfg.MinTransactionAmount, b.cfg.MaxTransactionAmount)
		if err != nil {
			return b.sendHTML(m.Chat.ID, b.amountErrorText(), cancelKeyboard())
		}
		state.GoalTarget = amount
		state.Step = session.StepAwaitGoalDeadline
		b.sessions.Put(m.Chat.ID, state)
		return b.sendHTML(m.Chat.ID,
			"📅 <b>Дедлайн (опционально)</b>\n\n"+
				"Введите дату в формате ДД.ММ.ГГГГ (например: 01.09.2027)\n"+
				"Или отправьте <code>—</code> или <code>пропустить</code> чтобы без дедлайна",
			cancelKeyboard())

	case session.StepAwaitGoalDeadline:
		var deadline *time.Time
		if !skipDeadlineTokens[strings.ToLower(text)] {
			d, err := core.ParseDate(text, b.loc)
			if err != nil {
				return b.sendText(m.Chat.ID, "❌ Неверный формат. Введите ДД.ММ.ГГГГ или «пропустить»")
			}
			if !d.After(time.Now().In(b.loc)) {
				return b.sendText(m.Chat.ID, "❌ Дедлайн должен быть в будущем. Введите дату или «пропустить»")
			}
			deadline = &d
		}

		user, err := b.resolveUser(ctx, m.From)
		if err != nil {
			return err
		}
		if _, err := b.goals.Create(ctx, user.ID, state.GoalName, state.GoalTarget, deadline); err != nil {
			return err
		}

		b.sessions.Clear(m.Chat.ID)
		deadlineText := "не задан"
		if deadline != nil {
			deadlineText = deadline.Format("02.01.2006")
		}
		return b.sendHTML(m.Chat.ID,
			"✅ <b>Цель создана!</b>\n\n"+
				fmt.Sprintf("🎯 %s\n", state.GoalName)+
				fmt.Sprintf("💰 Цель: %s\n", render.Money(state.GoalTarget))+
				fmt.Sprintf("📅 Дедлайн: %s\n\n", deadlineText)+
				"Используйте кнопки в /goals чтобы пополнить цель",
			mainMenuKeyboard())
	}
	return nil
}

func (b *Bot) processGoalContribution(ctx context.Context, m *tgbotapi.Message, state session.State) error {
	amount, err := core.ParseAmount(m.Text, b.cfg.MinTransactionAmount, b.cfg.MaxTransactionAmount)
	if err != nil {
		return b.sendHTML(m.Chat.ID, b.amountErrorText(), cancelKeyboard())
	}

	user, err := b.resolveUser(ctx, m.From)
	if err != nil {
		return err
	}

	ok, err := b.goals.Contribute(ctx, user.ID, state.GoalID, amount)
	if err != nil {
		return err
	}

	b.sessions.Clear(m.Chat.ID)
	if !ok {
		return b.sendHTML(m.Chat.ID, "❌ Ошибка. Цель не найдена.", mainMenuKeyboard())
	}
	return b.sendHTML(m.Chat.ID,
		fmt.Sprintf("✅ В цель добавлено %s", render.Money(amount)),
		mainMenuKeyboard())
}
