package menu

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sojokerto/absensi-bot/internal/models"
)

const (
	BtnAbsensi   = "📝 Input Absensi"
	BtnHistory   = "📖 Riwayat Absensi"
	BtnDashboard = "📊 Dashboard"
	BtnReports   = "📄 Laporan Absensi"
	BtnCatalog   = "🗂 Data Sekolah"
	BtnBackup    = "💾 Backup"
	BtnLogout    = "🚪 Keluar"
)

// ForRole returns the reply keyboard for a signed-in user.
func ForRole(role models.Role) tgbotapi.ReplyKeyboardMarkup {
	switch role {
	case models.RoleAdmin:
		return adminMenu()
	case models.RoleGuru:
		return guruMenu()
	default:
		return tgbotapi.NewReplyKeyboard()
	}
}

func guruMenu() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnAbsensi),
			tgbotapi.NewKeyboardButton(BtnHistory),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnDashboard),
			tgbotapi.NewKeyboardButton(BtnLogout),
		),
	)
}

func adminMenu() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnReports),
			tgbotapi.NewKeyboardButton(BtnHistory),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnCatalog),
			tgbotapi.NewKeyboardButton(BtnDashboard),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnBackup),
			tgbotapi.NewKeyboardButton(BtnLogout),
		),
	)
}
