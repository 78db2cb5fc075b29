package services

import (
	"github.com/escuela-dev/escuela/internal/models"
	"github.com/escuela-dev/escuela/internal/realtime"
	"github.com/escuela-dev/escuela/internal/types"
)

func InboxMessage(m models.Message) types.InboxMessageResponse {
	return types.InboxMessageResponse{
		ID:        m.ID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		Timestamp: m.Timestamp,
		IsRead:    m.IsRead,
	}
}

// Deliver pushes a stored message to the recipient's open inbox sockets.
func Deliver(m models.Message) int {
	return realtime.DefaultHub.Publish(m.RecipientID, realtime.Event{
		Type:    "message",
		Message: InboxMessage(m),
	})
}
