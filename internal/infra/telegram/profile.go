package telegram

import (
	"fmt"

	"homework_bot/internal/app"

	"gopkg.in/telebot.v3"
)

const (
	botDescription = "📅 Школьный бот-помощник.\n\n" +
		"✅ Домашнее задание на 10 дней вперед\n" +
		"✅ Расписание уроков\n" +
		"✅ Уведомления о новых заданиях\n\n" +
		"Нажми /start, чтобы начать пользоваться!"
	botShortDescription = "ДЗ, Расписание, Уведомления"
)

// MenuCommands is the command list shown in the client's menu button.
func MenuCommands() []telebot.Command {
	return []telebot.Command{
		{Text: app.CmdStart, Description: "Запустить бота"},
		{Text: app.CmdHomework, Description: "Найти ДЗ (10 дней)"},
		{Text: app.CmdSchedule, Description: "Расписание"},
		{Text: app.CmdHelp, Description: "Помощь"},
		{Text: app.CmdCancel, Description: "Отмена действия"},
	}
}

// PublishProfile sets the bot description, short description and command menu.
func PublishProfile(b *telebot.Bot) error {
	// telebot has no typed helpers for the description methods.
	if _, err := b.Raw("setMyDescription", map[string]string{"description": botDescription}); err != nil {
		return fmt.Errorf("failed to set bot description: %w", err)
	}
	if _, err := b.Raw("setMyShortDescription", map[string]string{"short_description": botShortDescription}); err != nil {
		return fmt.Errorf("failed to set bot short description: %w", err)
	}
	if err := b.SetCommands(MenuCommands()); err != nil {
		return fmt.Errorf("failed to set bot commands: %w", err)
	}
	return nil
}
