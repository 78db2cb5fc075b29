package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const internalErrorMessage = "Error interno del servidor."

func respondInternalError(ctx *gin.Context, msg string, err error) {
	zap.S().Errorw(msg, "path", ctx.FullPath(), "error", err)
	ctx.JSON(http.StatusInternalServerError, gin.H{"message": internalErrorMessage})
}

// respondLookupError answers 404 with notFound for a missing row and 500 for
// anything else.
func respondLookupError(ctx *gin.Context, err error, notFound string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"message": notFound})
		return
	}
	respondInternalError(ctx, "lookup failed", err)
}

func badRequest(ctx *gin.Context, msg string) {
	ctx.JSON(http.StatusBadRequest, gin.H{"message": msg})
}
