package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/escuela-dev/escuela/db"
	"github.com/escuela-dev/escuela/internal/models"
	"github.com/escuela-dev/escuela/internal/services"
	"github.com/escuela-dev/escuela/internal/types"
	"github.com/escuela-dev/escuela/internal/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaymentRequest struct {
	CareerID      uint   `json:"id_career" binding:"required"`
	UserID        uint   `json:"id_user" binding:"required"`
	Amount        int    `json:"amount" binding:"required,gt=0"`
	AffectedMonth string `json:"affected_month" binding:"required"`
}

func formatAffectedMonth(d datatypes.Date) string {
	return time.Time(d).Format(services.AffectedMonthLayout)
}

func userPayments(ctx *gin.Context, userID uint) {
	var payments []models.Payment

	if err := db.DB.Preload("Career").Where("id_user = ?", userID).Order("created_at DESC, id DESC").Find(&payments).Error; err != nil {
		respondInternalError(ctx, "failed to list user payments", err)
		return
	}

	response := make([]types.UserPaymentResponse, 0, len(payments))

	for _, payment := range payments {
		response = append(response, types.UserPaymentResponse{
			ID:            payment.ID,
			Amount:        payment.Amount,
			CreatedAt:     payment.CreatedAt,
			Career:        payment.Career.Name,
			AffectedMonth: formatAffectedMonth(payment.AffectedMonth),
		})
	}

	ctx.JSON(http.StatusOK, response)
}

func ListPaymentsDetailed(ctx *gin.Context) {
	var payments []models.Payment

	if err := db.DB.Preload("User.UserDetail").Preload("Career").Order("id").Find(&payments).Error; err != nil {
		respondInternalError(ctx, "failed to list payments", err)
		return
	}

	response := make([]types.DetailedPaymentResponse, 0, len(payments))

	for _, payment := range payments {
		response = append(response, types.DetailedPaymentResponse{
			ID:            payment.ID,
			Amount:        payment.Amount,
			CreatedAt:     payment.CreatedAt,
			AffectedMonth: formatAffectedMonth(payment.AffectedMonth),
			Student:       payment.User.FullName(),
			Career:        payment.Career.Name,
		})
	}

	ctx.JSON(http.StatusOK, response)
}

func MyPayments(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Token inválido."})
		return
	}

	userPayments(ctx, userID)
}

func UserPayments(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Token inválido."})
		return
	}

	username := ctx.Param("username")

	if currentUser.Role != types.RoleAdmin && currentUser.Username != username {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "Permiso denegado."})
		return
	}

	var user models.User

	if err := db.DB.Where("username = ?", username).First(&user).Error; err != nil {
		respondLookupError(ctx, err, "Usuario no encontrado!")
		return
	}

	userPayments(ctx, user.ID)
}

// bindPayment validates the body and checks that the referenced student and
// career exist. It writes the error response itself and returns false on
// failure.
func bindPayment(ctx *gin.Context) (PaymentRequest, time.Time, models.User, models.Career, bool) {
	var (
		body   PaymentRequest
		user   models.User
		career models.Career
	)

	if err := ctx.ShouldBindJSON(&body); err != nil {
		badRequest(ctx, "Datos de pago inválidos. El monto debe ser mayor a cero.")
		return body, time.Time{}, user, career, false
	}

	affectedMonth, err := services.ParseAffectedMonth(body.AffectedMonth)

	if err != nil {
		badRequest(ctx, err.Error())
		return body, time.Time{}, user, career, false
	}

	if err := db.DB.Preload("UserDetail").First(&user, body.UserID).Error; err != nil {
		respondLookupError(ctx, err, fmt.Sprintf("El alumno con ID %d no existe.", body.UserID))
		return body, time.Time{}, user, career, false
	}

	if err := db.DB.First(&career, body.CareerID).Error; err != nil {
		respondLookupError(ctx, err, fmt.Sprintf("La carrera con ID %d no existe.", body.CareerID))
		return body, time.Time{}, user, career, false
	}

	return body, affectedMonth, user, career, true
}

func CreatePayment(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Token inválido."})
		return
	}

	body, affectedMonth, student, career, ok := bindPayment(ctx)

	if !ok {
		return
	}

	payment := models.Payment{
		CareerID:      career.ID,
		UserID:        student.ID,
		Amount:        body.Amount,
		AffectedMonth: datatypes.Date(affectedMonth),
	}

	recordedAt := time.Now()

	notice, err := services.RecordPayment(db.DB, currentUser.ID, &payment, recordedAt)

	if err != nil {
		respondInternalError(ctx, "failed to record payment", err)
		return
	}

	delivered := services.Deliver(*notice)

	services.NotifyPaymentRecorded(services.PaymentSummary{
		PaymentID:     payment.ID,
		Student:       student.FullName(),
		Career:        career.Name,
		Amount:        payment.Amount,
		AffectedMonth: affectedMonth,
		RecordedBy:    currentUser.Username,
		RecordedAt:    recordedAt,
	})

	zap.S().Infow("payment recorded",
		"payment_id", payment.ID,
		"user_id", student.ID,
		"career_id", career.ID,
		"sockets", delivered,
	)

	ctx.JSON(http.StatusCreated, gin.H{
		"message": fmt.Sprintf("Pago para el alumno %s guardado y notificado con éxito.", student.FullName()),
		"id":      payment.ID,
	})
}

func GetPayment(ctx *gin.Context) {
	paymentID, err := utils.ParamID(ctx, "payment_id")

	if err != nil {
		badRequest(ctx, "ID de pago inválido.")
		return
	}

	var payment models.Payment

	if err := db.DB.First(&payment, paymentID).Error; err != nil {
		respondLookupError(ctx, err, "Pago no encontrado.")
		return
	}

	ctx.JSON(http.StatusOK, types.PaymentResponse{
		ID:            payment.ID,
		UserID:        payment.UserID,
		CareerID:      payment.CareerID,
		Amount:        payment.Amount,
		AffectedMonth: formatAffectedMonth(payment.AffectedMonth),
	})
}

func UpdatePayment(ctx *gin.Context) {
	paymentID, err := utils.ParamID(ctx, "payment_id")

	if err != nil {
		badRequest(ctx, "ID de pago inválido.")
		return
	}

	var payment models.Payment

	if err := db.DB.First(&payment, paymentID).Error; err != nil {
		respondLookupError(ctx, err, "Pago no encontrado.")
		return
	}

	body, affectedMonth, student, career, ok := bindPayment(ctx)

	if !ok {
		return
	}

	err = db.DB.Model(&payment).Updates(map[string]any{
		"id_career":      career.ID,
		"id_user":        student.ID,
		"amount":         body.Amount,
		"affected_month": datatypes.Date(affectedMonth),
	}).Error

	if err != nil {
		respondInternalError(ctx, "failed to update payment", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Pago actualizado con éxito."})
}

func DeletePayment(ctx *gin.Context) {
	paymentID, err := utils.ParamID(ctx, "payment_id")

	if err != nil {
		badRequest(ctx, "ID de pago inválido.")
		return
	}

	result := db.DB.Delete(&models.Payment{}, paymentID)

	if result.Error != nil {
		respondInternalError(ctx, "failed to delete payment", result.Error)
		return
	}

	if result.RowsAffected == 0 {
		respondLookupError(ctx, gorm.ErrRecordNotFound, "Pago no encontrado.")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Pago eliminado con éxito."})
}
