package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"finbot/internal/render"
	"finbot/internal/session"
)

func (b *Bot) cmdGoals(ctx context.Context, m *tgbotapi.Message) error {
	b.sessions.Clear(m.Chat.ID)

	user, ok, err := b.requireRegistered(ctx, m)
	if !ok {
		return err
	}

	goals, err := b.goals.List(ctx, user.ID)
	if err != nil {
		return err
	}

	if len(goals) == 0 {
		return b.sendHTML(m.Chat.ID,
			"╔════════════════════════════════════╗\n"+
				"║ 🎯 <b>ФИНАНСОВЫЕ ЦЕЛИ</b>          ║\n"+
				"╚════════════════════════════════════╝\n\n"+
				"У вас пока нет целей.\n\n"+
				"💡 <b>Создайте цель</b> — например, накопить на отпуск или новый телефон.\n"+
				"Я помогу отслеживать прогресс и подскажу, сколько откладывать в месяц.\n\n"+
				"Используйте /addgoal чтобы создать цель",
			mainMenuKeyboard())
	}

	var sb strings.Builder
	sb.WriteString("╔════════════════════════════════════╗\n")
	sb.WriteString("║ 🎯 <b>ВАШИ ЦЕЛИ</b>                ║\n")
	sb.WriteString("╚════════════════════════════════════╝\n\n")

	for _, g := range goals {
		fmt.Fprintf(&sb, "<b>%s</b>\n", g.Name)
		fmt.Fprintf(&sb, "  %s %.0f%%\n", render.ProgressBar(g.Progress), g.Progress)
		fmt.Fprintf(&sb, "  💰 %s / %s\n", render.Money(g.CurrentAmount), render.Money(g.TargetAmount))
		fmt.Fprintf(&sb, "  📌 Осталось: %s\n", render.Money(g.Remaining))
		if g.Deadline != nil {
			if g.MonthlySuggestion != nil && *g.MonthlySuggestion > 0 {
				fmt.Fprintf(&sb, "  📅 До %s — откладывайте %s/мес\n",
					g.Deadline.Format("02.01.2006"), render.Money(*g.MonthlySuggestion))
			} else {
				fmt.Fprintf(&sb, "  📅 До %s\n", g.Deadline.Format("02.01.2006"))
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("💡 /addgoal — новая цель | Кнопки ниже — пополнить или удалить")

	return b.sendHTML(m.Chat.ID, sb.String(), goalsKeyboard(goals))
}

func (b *Bot) cmdAddGoal(ctx context.Context, m *tgbotapi.Message) error {
	_, ok, err := b.requireRegistered(ctx, m)
	if !ok {
		return err
	}

	b.sessions.Put(m.Chat.ID, session.State{Flow: session.FlowGoalName, Step: session.StepAwaitGoalName})
	return b.sendHTML(m.Chat.ID,
		"🎯 <b>Новая цель</b>\n\n"+
			"Введите название цели:\n"+
			"Например: <i>Отпуск</i>, <i>Ноутбук</i>, <i>Ремонт</i>",
		cancelKeyboard())
}
