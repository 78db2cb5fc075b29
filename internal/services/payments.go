package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/escuela-dev/escuela/internal/models"
	"gorm.io/gorm"
)

var monthNames = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

const AffectedMonthLayout = "2006-01-02"

var ErrInvalidAffectedMonth = errors.New("El formato de la fecha es inválido. Debe ser YYYY-MM-DD.")

// ParseAffectedMonth accepts YYYY-MM-DD.
func ParseAffectedMonth(s string) (time.Time, error) {
	t, err := time.Parse(AffectedMonthLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidAffectedMonth
	}
	return t, nil
}

// MonthLabel renders "<mes> de <año>", e.g. "marzo de 2025".
func MonthLabel(t time.Time) string {
	return fmt.Sprintf("%s de %d", monthNames[t.Month()-1], t.Year())
}

func PaymentNotice(amount int, affectedMonth, recordedAt time.Time) string {
	return fmt.Sprintf(
		"Se ha registrado un pago de $%d correspondiente al mes de %s. Fecha de registro: %s.",
		amount,
		MonthLabel(affectedMonth),
		recordedAt.Format("02/01/2006 a las 15:04"),
	)
}

// RecordPayment stores the payment and the notice sent from senderID to the
// paying user in one transaction.
func RecordPayment(db *gorm.DB, senderID uint, payment *models.Payment, recordedAt time.Time) (*models.Message, error) {
	notice := &models.Message{
		SenderID:    senderID,
		RecipientID: payment.UserID,
		Content:     PaymentNotice(payment.Amount, time.Time(payment.AffectedMonth), recordedAt),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(payment).Error; err != nil {
			return fmt.Errorf("create payment: %w", err)
		}
		if err := tx.Create(notice).Error; err != nil {
			return fmt.Errorf("create payment notice: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return notice, nil
}
