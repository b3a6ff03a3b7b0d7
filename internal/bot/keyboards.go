package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"finbot/internal/config"
	"finbot/internal/services"
)

// Main menu and flow button labels. The dispatcher matches on these
// exact strings.
const (
	buttonIncome  = "📥 Доход"
	buttonExpense = "📤 Расход"
	buttonToday   = "📊 Сегодня"
	buttonWeek    = "📆 Неделя"
	buttonMonth   = "🗓 Месяц"
	buttonProfile = "👤 Профиль"
	buttonHistory = "📋 История"
	buttonBudget  = "💰 Бюджет"
	buttonStats   = "📊 Статистика"
	buttonSearch  = "🔍 Поиск"
	buttonCharts  = "📈 Графики"
	buttonGoals   = "🎯 Цели"
	buttonCancel  = "↩ Отмена"
)

// Callback data prefixes for inline keyboards.
const (
	callbackExpenseCategory = "exp_cat_"
	callbackIncomeCategory  = "inc_cat_"
	callbackMethodCash      = "method_cash"
	callbackMethodCard      = "method_card"
	callbackGoalAdd         = "goal_add_"
	callbackGoalDelete      = "goal_del_"
)

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonIncome),
			tgbotapi.NewKeyboardButton(buttonExpense),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonToday),
			tgbotapi.NewKeyboardButton(buttonWeek),
			tgbotapi.NewKeyboardButton(buttonMonth),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonProfile),
			tgbotapi.NewKeyboardButton(buttonHistory),
			tgbotapi.NewKeyboardButton(buttonBudget),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonStats),
			tgbotapi.NewKeyboardButton(buttonSearch),
			tgbotapi.NewKeyboardButton(buttonCharts),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonGoals),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonCancel),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonCancel),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

// categoryKeyboard lays out category buttons two per row. Callback data
// carries the list index, which the handler re-resolves against the same
// list, bounds-checked.
func categoryKeyboard(categories config.CategoryList, prefix string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(categories); i += 2 {
		var row []tgbotapi.InlineKeyboardButton
		for j := i; j < i+2 && j < len(categories); j++ {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(
				categories[j], fmt.Sprintf("%s%d", prefix, j)))
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func methodKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💵 Наличные", callbackMethodCash),
			tgbotapi.NewInlineKeyboardButtonData("💳 Карта", callbackMethodCard),
		),
	)
}

// goalsKeyboard renders contribute/delete buttons for the first five
// goals.
func goalsKeyboard(goals []services.GoalView) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, g := range goals {
		if len(rows) == 5 {
			break
		}
		name := []rune(g.Name)
		if len(name) > 15 {
			name = name[:15]
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ "+string(name), fmt.Sprintf("%s%d", callbackGoalAdd, g.ID)),
			tgbotapi.NewInlineKeyboardButtonData("🗑", fmt.Sprintf("%s%d", callbackGoalDelete, g.ID)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
