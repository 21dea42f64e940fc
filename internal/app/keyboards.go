package app

import (
	"fmt"
	"time"

	"homework_bot/internal/domain/homework"
	"homework_bot/internal/domain/schedule"

	"gopkg.in/telebot.v3"
)

// Reply keyboard labels. Incoming text equal to a label is treated as a button press.
const (
	LabelHomeworkByDate = "🔎 ДЗ по дате"
	LabelWeekSchedule   = "📚 Расписание на неделю"
	LabelSchedule       = "📚 Расписание"
	LabelHelp           = "❓ Помощь"
	LabelAdminPanel     = "🔐 Админ-панель"

	LabelAddHomework    = "➕ Добавить ДЗ"
	LabelDeleteHomework = "🗑 Удалить ДЗ"
	LabelEditSchedule   = "✏ Редактировать расписание"
	LabelBroadcast      = "📢 Объявление"
	LabelBack           = "⬅ Назад"

	LabelCancel = "❌ Отмена"
	LabelDone   = "✅ Готово"
)

const (
	displayDateLayout = "02.01.2006"
	menuDays          = 10
)

func displayDate(d time.Time) string {
	return d.Format(displayDateLayout)
}

func mainMenuMarkup() *telebot.ReplyMarkup {
	m := &telebot.ReplyMarkup{ResizeKeyboard: true}
	m.Reply(
		m.Row(m.Text(LabelHomeworkByDate), m.Text(LabelWeekSchedule)),
		m.Row(m.Text(LabelHelp), m.Text(LabelAdminPanel)),
	)
	return m
}

func adminPanelMarkup() *telebot.ReplyMarkup {
	m := &telebot.ReplyMarkup{ResizeKeyboard: true}
	m.Reply(
		m.Row(m.Text(LabelAddHomework), m.Text(LabelDeleteHomework)),
		m.Row(m.Text(LabelEditSchedule), m.Text(LabelBroadcast)),
		m.Row(m.Text(LabelBack)),
	)
	return m
}

func cancelMarkup() *telebot.ReplyMarkup {
	m := &telebot.ReplyMarkup{ResizeKeyboard: true}
	m.Reply(m.Row(m.Text(LabelCancel)))
	return m
}

func attachmentsMarkup() *telebot.ReplyMarkup {
	m := &telebot.ReplyMarkup{ResizeKeyboard: true}
	m.Reply(m.Row(m.Text(LabelDone), m.Text(LabelCancel)))
	return m
}

func removeKeyboard() *telebot.ReplyMarkup {
	return &telebot.ReplyMarkup{RemoveKeyboard: true}
}

// datesMarkup offers one button per date; the payload is the ISO date.
func datesMarkup(action string, dates []time.Time) *telebot.ReplyMarkup {
	m := &telebot.ReplyMarkup{}
	rows := make([]telebot.Row, 0, len(dates)+1)
	for _, d := range dates {
		label := fmt.Sprintf("%s (%s)", displayDate(d), schedule.WeekdayName(d))
		rows = append(rows, m.Row(m.Data(label, action, homework.DateKey(d))))
	}
	rows = append(rows, m.Row(m.Data(LabelCancel, ActionCancel)))
	m.Inline(rows...)
	return m
}

// subjectsMarkup carries subject keys instead of subject text, so long names
// never hit the callback data limit. prefix values go before the key.
func subjectsMarkup(action string, subjects []string, withCancel bool, prefix ...string) *telebot.ReplyMarkup {
	m := &telebot.ReplyMarkup{}
	rows := make([]telebot.Row, 0, len(subjects)+1)
	for _, s := range subjects {
		data := append(append([]string(nil), prefix...), schedule.SubjectKey(s))
		rows = append(rows, m.Row(m.Data(s, action, data...)))
	}
	if withCancel {
		rows = append(rows, m.Row(m.Data(LabelCancel, ActionCancel)))
	}
	m.Inline(rows...)
	return m
}

func daysMarkup(action string, withCancel bool) *telebot.ReplyMarkup {
	m := &telebot.ReplyMarkup{}
	days := schedule.Days()
	rows := make([]telebot.Row, 0, len(days)+1)
	for _, d := range days {
		rows = append(rows, m.Row(m.Data(d.Name(), action, d.Key())))
	}
	if withCancel {
		rows = append(rows, m.Row(m.Data(LabelCancel, ActionCancel)))
	}
	m.Inline(rows...)
	return m
}

func withMarkup(m *telebot.ReplyMarkup) *telebot.SendOptions {
	if m == nil {
		return nil
	}
	return &telebot.SendOptions{ReplyMarkup: m}
}
