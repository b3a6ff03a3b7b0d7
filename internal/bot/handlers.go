package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"finbot/internal/core"
	"finbot/internal/render"
	"finbot/internal/report"
	"finbot/internal/session"
)

const registrationRequiredText = "❌ Сначала пройдите регистрацию /start"

func (b *Bot) handleMessage(ctx context.Context, m *tgbotapi.Message) error {
	text := strings.TrimSpace(m.Text)
	chatID := m.Chat.ID

	if text == buttonCancel {
		b.sessions.Clear(chatID)
		return b.sendHTML(chatID, "❌ Действие отменено", mainMenuKeyboard())
	}

	if state, ok := b.sessions.Get(chatID); ok {
		return b.handleFlowMessage(ctx, m, state)
	}

	switch {
	case text == "/start":
		return b.cmdStart(ctx, m)
	case text == "/help":
		return b.cmdHelp(m)
	case text == "/undo":
		return b.cmdUndo(ctx, m)
	case text == "/profile" || text == buttonProfile:
		return b.cmdProfile(ctx, m)
	case text == "/history" || text == buttonHistory:
		return b.cmdHistory(ctx, m)
	case strings.HasPrefix(text, "/setbudget") || text == buttonBudget:
		return b.cmdSetBudget(ctx, m, strings.TrimSpace(strings.TrimPrefix(text, "/setbudget")))
	case text == "/stats" || text == buttonStats:
		return b.cmdStats(ctx, m)
	case strings.HasPrefix(text, "/search") || text == buttonSearch:
		return b.cmdSearch(ctx, m, strings.TrimSpace(strings.TrimPrefix(text, "/search")))
	case text == "/chart" || text == "/charts" || text == "/graphs" || text == buttonCharts:
		return b.cmdCharts(ctx, m)
	case text == "/goals" || text == buttonGoals:
		return b.cmdGoals(ctx, m)
	case text == "/addgoal":
		return b.cmdAddGoal(ctx, m)
	case text == buttonIncome:
		return b.startTransactionFlow(ctx, m, core.KindIncome)
	case text == buttonExpense:
		return b.startTransactionFlow(ctx, m, core.KindExpense)
	case text == buttonToday:
		return b.cmdDailyReport(ctx, m)
	case text == buttonWeek:
		return b.cmdWeeklyReport(ctx, m)
	case text == buttonMonth:
		return b.cmdMonthlyReport(ctx, m)
	}
	return nil
}

// requireRegistered resolves the sender and rejects anyone who has not
// completed registration.
func (b *Bot) requireRegistered(ctx context.Context, m *tgbotapi.Message) (core.User, bool, error) {
	user, err := b.resolveUser(ctx, m.From)
	if err != nil {
		return core.User{}, false, err
	}
	if !user.Registered() || user.Name == "" {
		return user, false, b.sendText(m.Chat.ID, registrationRequiredText)
	}
	return user, true, nil
}

func (b *Bot) cmdStart(ctx context.Context, m *tgbotapi.Message) error {
	b.sessions.Clear(m.Chat.ID)

	user, err := b.resolveUser(ctx, m.From)
	if err != nil {
		return err
	}

	if !user.Registered() || user.Name == "" {
		b.sessions.Put(m.Chat.ID, session.State{Flow: session.FlowRegistration, Step: session.StepAwaitName})
		return b.sendHTML(m.Chat.ID,
			"╔═══════════════════════════════════╗\n"+
				"║ 👋 <b>ДОБРО ПОЖАЛОВАТЬ!</b>         ║\n"+
				"╚═══════════════════════════════════╝\n\n"+
				"Я — ваш <b>финансовый помощник</b> 💰\n"+
				"Я помогу вам:\n\n"+
				"✅ <b>Отслеживать</b> доходы и расходы\n"+
				"✅ <b>Категоризировать</b> все операции\n"+
				"✅ <b>Анализировать</b> расходы\n"+
				"✅ <b>Вести дневник</b> финансов\n"+
				"✅ <b>Получать отчеты</b> за день/неделю/месяц\n\n"+
				"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n"+
				"<i>Как вас зовут?</i>",
			cancelKeyboard())
	}

	return b.sendHTML(m.Chat.ID,
		fmt.Sprintf("═════════════════════════════════\n✨ <b>С возвращением, %s!</b> ✨\n═════════════════════════════════", user.Name),
		mainMenuKeyboard())
}

func (b *Bot) cmdHelp(m *tgbotapi.Message) error {
	return b.sendHTML(m.Chat.ID,
		"╔════════════════════════════════════╗\n"+
			"║ 📖 <b>СПРАВКА И ИНСТРУКЦИИ</b>     ║\n"+
			"╚════════════════════════════════════╝\n\n"+
			"<b>━ 📥 ДОБАВИТЬ ДОХОД ━</b>\n"+
			"Нажмите: 📥 Доход\n"+
			"1️⃣ Введите сумму (например: 50000 или 50000.50)\n"+
			"2️⃣ Выберите категорию (зарплата, подарок, бонус...)\n"+
			"3️⃣ Выберите способ получения (наличные или карта)\n"+
			"✅ Готово! Доход добавлен в дневник\n\n"+
			"<b>━ 📤 ДОБАВИТЬ РАСХОД ━</b>\n"+
			"Нажмите: 📤 Расход\n"+
			"1️⃣ Введите сумму (например: 450 или 299.90)\n"+
			"2️⃣ Выберите категорию (еда, транспорт, жилье...)\n"+
			"3️⃣ Выберите способ оплаты (наличные или карта)\n"+
			"✅ Готово! Расход добавлен в дневник\n\n"+
			"<b>━ 📊 ПРОСМОТР ОТЧЕТОВ ━</b>\n"+
			"📊 Сегодня — Отчет с начала дня\n"+
			"📆 Неделя — Отчет за текущую неделю (Пн-Вс)\n"+
			"🗓 Месяц — Отчет за текущий месяц\n"+
			"💡 Отчеты показывают доходы и расходы\n\n"+
			"<b>━ ↩️ ОТМЕНА ОПЕРАЦИИ ━</b>\n"+
			"Команда: <code>/undo</code>\n"+
			"Удаляет последнюю добавленную операцию\n"+
			"Идеально при ошибке в вводе\n\n"+
			"<b>━ 🎯 ФИНАНСОВЫЕ ЦЕЛИ ━</b>\n"+
			"/goals — список целей и прогресс\n"+
			"/addgoal — создать новую цель\n"+
			"Добавляйте цели (отпуск, техника) и отслеживайте накопления.\n"+
			"Бот подскажет, сколько откладывать в месяц до дедлайна.\n\n"+
			"<b>━ 🎨 БЫСТРЫЕ ДЕЙСТВИЯ ━</b>\n"+
			"/start — Главное меню\n"+
			"/help — Эта справка\n"+
			"/undo — Отменить последнюю операцию\n"+
			"↩ Отмена — Прервать текущее действие\n\n"+
			"❓ Другие вопросы? Просто используйте бота!\n"+
			"Он простой и интуитивный 😊",
		nil)
}

func (b *Bot) cmdUndo(ctx context.Context, m *tgbotapi.Message) error {
	user, ok, err := b.requireRegistered(ctx, m)
	if !ok {
		return err
	}

	t, err := b.tx.UndoLast(ctx, user.ID)
	if err != nil {
		return err
	}
	if t == nil {
		return b.sendHTML(m.Chat.ID,
			"❌ <b>Нет операций для отмены</b>\n\nВы пока не добавили ни одной операции.", nil)
	}

	emoji := "🔴"
	typeLabel := "Расход"
	if t.Kind == core.KindIncome {
		emoji = "🟢"
		typeLabel = "Доход"
	}
	method := "Карта"
	if t.Method == core.MethodCash {
		method = "Наличные"
	}

	return b.sendHTML(m.Chat.ID,
		"╔════════════════════════════════════╗\n"+
			fmt.Sprintf("║ %s <b>ОПЕРАЦИЯ ОТМЕНЕНА</b>          ║\n", emoji)+
			"╚════════════════════════════════════╝\n\n"+
			fmt.Sprintf("<b>Сумма:</b> %.2f ₽\n", t.Amount)+
			fmt.Sprintf("<b>Тип:</b> %s\n", typeLabel)+
			fmt.Sprintf("<b>Категория:</b> %s\n", t.Category)+
			fmt.Sprintf("<b>Способ:</b> %s\n\n", method)+
			"✅ Операция успешно удалена из дневника",
		nil)
}

func (b *Bot) cmdProfile(ctx context.Context, m *tgbotapi.Message) error {
	user, ok, err := b.requireRegistered(ctx, m)
	if !ok {
		return err
	}

	balance, err := b.reports.Balance(ctx, user.ID)
	if err != nil {
		return err
	}

	balanceEmoji := "⚪"
	if balance.Balance > 0 {
		balanceEmoji = "🟢"
	} else if balance.Balance < 0 {
		balanceEmoji = "🔴"
	}

	budget, err := b.reports.Budget(ctx, user.ID, user.MonthlyBudget, time.Now().In(b.loc))
	if err != nil {
		return err
	}

	var budgetText string
	if user.MonthlyBudget > 0 {
		budgetText = "\n<b>━━━ БЮДЖЕТ НА МЕСЯЦ ━━━</b>\n" +
			fmt.Sprintf("💰 <b>Лимит:</b> %s\n", render.Money(budget.Budget)) +
			fmt.Sprintf("📊 <b>Потрачено:</b> %s (%.1f%%)\n", render.Money(budget.Spent), budget.Percentage)
		if budget.Spent > budget.Budget {
			budgetText += fmt.Sprintf("🔴 <b>Превышено:</b> %s", render.Money(-budget.Remaining))
		} else {
			budgetText += fmt.Sprintf("🟢 <b>Осталось:</b> %s", render.Money(budget.Remaining))
		}
	} else {
		budgetText = "\n<b>━━━ БЮДЖЕТ ━━━</b>\n💡 Бюджет не установлен. Используйте /setbudget 50000"
	}

	return b.sendHTML(m.Chat.ID,
		"╔════════════════════════════════════╗\n"+
			"║ 🎯 <b>МОЙ ПРОФИЛЬ</b>              ║\n"+
			"╚════════════════════════════════════╝\n\n"+
			fmt.Sprintf("<b>👤 Имя:</b> %s\n", user.Name)+
			fmt.Sprintf("<b>🆔 ID:</b> %d\n\n", user.ExternalID)+
			"<b>━━━ ФИНАНСОВАЯ СТАТИСТИКА ━━━</b>\n"+
			fmt.Sprintf("%s <b>Баланс:</b> %s\n", balanceEmoji, render.Money(balance.Balance))+
			fmt.Sprintf("🟢 <b>Всего доходов:</b> %s\n", render.Money(balance.Income))+
			fmt.Sprintf("🔴 <b>Всего расходов:</b> %s\n", render.Money(balance.Expense))+
			fmt.Sprintf("📊 <b>Всего операций:</b> %d\n", balance.Count)+
			budgetText+"\n\n"+
			"<b>━━━ БЫСТРЫЕ КОМАНДЫ ━━━</b>\n"+
			"/setbudget 50000 — установить бюджет\n"+
			"/stats — статистика по категориям\n"+
			"/search еда — поиск по категории",
		mainMenuKeyboard())
}

func (b *Bot) cmdHistory(ctx context.Context, m *tgbotapi.Message) error {
	user, ok, err := b.requireRegistered(ctx, m)
	if !ok {
		return err
	}

	txs, err := b.reports.LastTransactions(ctx, user.ID, 5)
	if err != nil {
		return err
	}
	if len(txs) == 0 {
		return b.sendHTML(m.Chat.ID,
			"❌ <b>Нет операций</b>\n\nУ вас пока не было операций. Начните с добавления дохода или расхода!",
			mainMenuKeyboard())
	}

	var sb strings.Builder
	sb.WriteString("╔════════════════════════════════════╗\n")
	sb.WriteString("║ 📋 <b>ПОСЛЕДНИЕ ОПЕРАЦИИ</b>       ║\n")
	sb.WriteString("╚════════════════════════════════════╝\n\n")
	for i, t := range txs {
		sb.WriteString(render.TransactionLine(i+1, t))
		sb.WriteString("\n")
	}
	return b.sendHTML(m.Chat.ID, sb.String(), mainMenuKeyboard())
}

func (b *Bot) cmdSetBudget(ctx context.Context, m *tgbotapi.Message, arg string) error {
	user, ok, err := b.requireRegistered(ctx, m)
	if !ok {
		return err
	}

	if arg == "" {
		b.sessions.Put(m.Chat.ID, session.State{Flow: session.FlowBudget, Step: session.StepAwaitBudget})
		return b.sendHTML(m.Chat.ID,
			"💰 <b>Установка бюджета</b>\n\n"+
				"Напишите сумму месячного лимита расходов:\n\n"+
				"Пример: <code>50000</code> или <code>50000.50</code>",
			cancelKeyboard())
	}

	return b.saveBudget(ctx, m.Chat.ID, user.ID, user.Name, arg)
}

func (b *Bot) saveBudget(ctx context.Context, chatID, userID int64, userName, raw string) error {
	amount, err := core.ParseAmount(raw, b.cfg.MinTransactionAmount, b.cfg.MaxTransactionAmount)
	if err != nil {
		return b.sendHTML(chatID, b.amountErrorText(), cancelKeyboard())
	}

	if err := b.storage.SetBudget(ctx, userID, amount); err != nil {
		return err
	}

	b.sessions.Clear(chatID)
	slog.InfoContext(ctx, "Budget set", "user_name", userName, "budget", amount)
	return b.sendHTML(chatID,
		fmt.Sprintf("✅ <b>Бюджет установлен!</b>\n\n💰 Месячный лимит: %s\n\n", render.Money(amount))+
			"Теперь я буду контролировать ваши расходы и предупреждать,\nкогда вы приблизитесь к лимиту.",
		mainMenuKeyboard())
}

func (b *Bot) amountErrorText() string {
	return fmt.Sprintf(
		"❌ Некорректная сумма!\nВведите число от %.2f до %.0f ₽\nПримеры: <code>500</code>, <code>1500.50</code>",
		b.cfg.MinTransactionAmount, b.cfg.MaxTransactionAmount)
}

func (b *Bot) cmdStats(ctx context.Context, m *tgbotapi.Message) error {
	user, ok, err := b.requireRegistered(ctx, m)
	if !ok {
		return err
	}

	now := time.Now().In(b.loc)
	expenseTotal, expenseShares, err := b.reports.CategoryStats(ctx, user.ID, core.KindExpense, now)
	if err != nil {
		return err
	}
	incomeTotal, incomeShares, err := b.reports.CategoryStats(ctx, user.ID, core.KindIncome, now)
	if err != nil {
		return err
	}

	if len(expenseShares) == 0 && len(incomeShares) == 0 {
		return b.sendHTML(m.Chat.ID,
			"❌ <b>Нет данных для статистики</b>\n\n"+
				"У вас пока не было операций в этом месяце.\n"+
				"Добавьте доходы или расходы и посмотрите статистику!",
			mainMenuKeyboard())
	}

	var sb strings.Builder
	sb.WriteString("📊 Статистика за текущий месяц\n\n")

	if len(expenseShares) > 0 {
		sb.WriteString("🔴 <b>РАСХОДЫ ПО КАТЕГОРИЯМ:</b>\n\n")
		writeCategoryShares(&sb, expenseShares)
		fmt.Fprintf(&sb, "📤 <b>Всего расходов:</b> %s\n\n", render.Money(expenseTotal))
	}
	if len(incomeShares) > 0 {
		sb.WriteString("🟢 <b>ДОХОДЫ ПО КАТЕГОРИЯМ:</b>\n\n")
		writeCategoryShares(&sb, incomeShares)
		fmt.Fprintf(&sb, "📥 <b>Всего доходов:</b> %s\n\n", render.Money(incomeTotal))
	}

	return b.sendHTML(m.Chat.ID, sb.String(), mainMenuKeyboard())
}

// writeCategoryShares renders the top five categories with progress bars.
func writeCategoryShares(sb *strings.Builder, shares []report.CategoryShare) {
	for i, s := range shares {
		if i == 5 {
			break
		}
		fmt.Fprintf(sb, "%d. %s\n   %s %.1f%%\n   💰 %s\n\n",
			i+1, s.Name, render.ProgressBar(s.Percentage), s.Percentage, render.Money(s.Amount))
	}
}

func (b *Bot) cmdSearch(ctx context.Context, m *tgbotapi.Message, arg string) error {
	user, ok, err := b.requireRegistered(ctx, m)
	if !ok {
		return err
	}

	if arg == "" {
		b.sessions.Put(m.Chat.ID, session.State{Flow: session.FlowSearch, Step: session.StepAwaitQuery})
		return b.sendHTML(m.Chat.ID,
			"🔍 <b>ПОИСК ОПЕРАЦИЙ</b>\n\n"+
				"<b>Примеры поиска:</b>\n\n"+
				"1️⃣ <b>По категории:</b>\n"+
				"   /search еда\n"+
				"   /search транспорт\n\n"+
				"2️⃣ <b>По сумме:</b>\n"+
				"   /search 5000-10000 (от 5000 до 10000)\n"+
				"   /search 50000 (ровно 50000)\n\n"+
				"3️⃣ <b>С фильтром типа:</b>\n"+
				"   /search еда:expense (расходы на еду)\n"+
				"   /search зарплата:income (только доходы)\n\n"+
				"Напишите поисковый запрос:",
			cancelKeyboard())
	}

	return b.executeSearch(ctx, m.Chat.ID, user, arg)
}

func (b *Bot) executeSearch(ctx context.Context, chatID int64, user core.User, query string) error {
	results, err := b.reports.Search(ctx, user.ID, query)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		return b.sendHTML(chatID,
			fmt.Sprintf("❌ <b>Ничего не найдено</b>\n\nПо запросу \"%s\" нет результатов.\nПроверьте правильность ввода и попробуйте еще раз.", query),
			mainMenuKeyboard())
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🔍 <b>Результаты поиска: \"%s\"</b>\n\n", query)
	fmt.Fprintf(&sb, "Найдено: <b>%d</b> операци(й)\n\n", len(results))

	var totalIncome, totalExpense, balance float64
	for i, t := range results {
		sb.WriteString(render.TransactionLine(i+1, t))
		sb.WriteString("\n")
		balance += t.Signed()
		if t.Kind == core.KindIncome {
			totalIncome += t.Amount
		} else {
			totalExpense += t.Amount
		}
	}

	sb.WriteString("━━━━━━━━━━━━━━━━━━━━━━━\n")
	if totalIncome > 0 {
		fmt.Fprintf(&sb, "🟢 Доход: %s\n", render.Money(totalIncome))
	}
	if totalExpense > 0 {
		fmt.Fprintf(&sb, "🔴 Расход: %s\n", render.Money(totalExpense))
	}
	balanceEmoji := "🟢"
	if balance < 0 {
		balanceEmoji = "🔴"
		balance = -balance
	}
	fmt.Fprintf(&sb, "%s Итог: %s", balanceEmoji, render.Money(balance))

	slog.InfoContext(ctx, "Search executed", "user_name", user.Name, "query", query)
	return b.sendHTML(chatID, sb.String(), mainMenuKeyboard())
}

func (b *Bot) cmdCharts(ctx context.Context, m *tgbotapi.Message) error {
	user, ok, err := b.requireRegistered(ctx, m)
	if !ok {
		return err
	}

	text, err := b.reports.ChartsText(ctx, user.ID, time.Now().In(b.loc))
	if err != nil {
		return err
	}
	return b.sendHTML(m.Chat.ID, fmt.Sprintf("<code>%s</code>", text), mainMenuKeyboard())
}

func (b *Bot) cmdDailyReport(ctx context.Context, m *tgbotapi.Message) error {
	return b.periodicReport(ctx, m, "⏳ <b>Формирую отчет на сегодня...</b>", b.reports.DailyReportText)
}

func (b *Bot) cmdWeeklyReport(ctx context.Context, m *tgbotapi.Message) error {
	return b.periodicReport(ctx, m, "⏳ <b>Формирую еженедельный отчет...</b>", b.reports.WeeklyReportText)
}

func (b *Bot) cmdMonthlyReport(ctx context.Context, m *tgbotapi.Message) error {
	return b.periodicReport(ctx, m, "⏳ <b>Формирую ежемесячный отчет...</b>", b.reports.MonthlyReportText)
}

func (b *Bot) periodicReport(ctx context.Context, m *tgbotapi.Message, waitText string, build func(context.Context, int64, time.Time) (string, error)) error {
	user, ok, err := b.requireRegistered(ctx, m)
	if !ok {
		return err
	}
	b.mirrorYesterday(ctx, user)

	if err := b.sendHTML(m.Chat.ID, waitText, nil); err != nil {
		return err
	}

	text, err := build(ctx, user.ID, time.Now().In(b.loc))
	if err != nil {
		return err
	}
	return b.sendHTML(m.Chat.ID, fmt.Sprintf("<code>%s</code>", text), mainMenuKeyboard())
}
