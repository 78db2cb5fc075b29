package handlers

import (
	"html"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/escuela-dev/escuela/db"
	"github.com/escuela-dev/escuela/internal/models"
	"github.com/escuela-dev/escuela/internal/realtime"
	"github.com/escuela-dev/escuela/internal/services"
	"github.com/escuela-dev/escuela/internal/types"
	"github.com/escuela-dev/escuela/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

const maxMessageLength = 500

var messagePolicy = bluemonday.StrictPolicy()

type SendMessageRequest struct {
	RecipientID uint   `json:"recipient_id" binding:"required"`
	Content     string `json:"content"`
}

const maxSanitizePasses = 4

// sanitizeContent reduces content to plain text. Entity-encoded markup is
// decoded before stripping, and stripping repeats until the text is stable
// so nothing decoded on the last pass can form a tag. Content that does not
// settle is dropped.
func sanitizeContent(content string) string {
	text := html.UnescapeString(content)

	for range maxSanitizePasses {
		clean := html.UnescapeString(messagePolicy.Sanitize(text))
		if clean == text {
			return strings.TrimSpace(clean)
		}
		text = clean
	}

	return ""
}

func SendMessage(ctx *gin.Context) {
	senderID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Token inválido."})
		return
	}

	var body SendMessageRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		badRequest(ctx, "Solicitud inválida.")
		return
	}

	content := sanitizeContent(body.Content)

	if n := utf8.RuneCountInString(content); n == 0 || n > maxMessageLength {
		badRequest(ctx, "El mensaje debe tener entre 1 y 500 caracteres.")
		return
	}

	var recipient models.User

	if err := db.DB.First(&recipient, body.RecipientID).Error; err != nil {
		respondLookupError(ctx, err, "Destinatario no encontrado.")
		return
	}

	message := models.Message{
		SenderID:    senderID,
		RecipientID: recipient.ID,
		Content:     content,
	}

	if err := db.DB.Create(&message).Error; err != nil {
		respondInternalError(ctx, "failed to store message", err)
		return
	}

	zap.S().Infow("message sent",
		"message_id", message.ID,
		"recipient_id", recipient.ID,
		"sockets", services.Deliver(message),
	)

	ctx.JSON(http.StatusCreated, gin.H{"detail": "Mensaje enviado correctamente."})
}

func ListMessages(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Token inválido."})
		return
	}

	var messages []models.Message

	if err := db.DB.Where("recipient_id = ?", userID).Order("\"timestamp\" DESC, id DESC").Find(&messages).Error; err != nil {
		respondInternalError(ctx, "failed to list messages", err)
		return
	}

	response := make([]types.InboxMessageResponse, 0, len(messages))

	for _, message := range messages {
		response = append(response, services.InboxMessage(message))
	}

	ctx.JSON(http.StatusOK, response)
}

func MarkMessageRead(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Token inválido."})
		return
	}

	messageID, err := utils.ParamID(ctx, "message_id")

	if err != nil {
		badRequest(ctx, "ID de mensaje inválido.")
		return
	}

	var message models.Message

	if err := db.DB.First(&message, messageID).Error; err != nil {
		respondLookupError(ctx, err, "Mensaje no encontrado.")
		return
	}

	if message.RecipientID != userID {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "No tienes permiso para modificar este mensaje."})
		return
	}

	if err := db.DB.Model(&message).Update("is_read", true).Error; err != nil {
		respondInternalError(ctx, "failed to mark message read", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func InboxSocket(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Token inválido."})
		return
	}

	realtime.DefaultHub.Serve(ctx, userID)
}
