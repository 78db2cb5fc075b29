package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/escuela-dev/escuela/db"
	"github.com/escuela-dev/escuela/internal/auth"
	"github.com/escuela-dev/escuela/internal/models"
	"github.com/escuela-dev/escuela/internal/types"
	"github.com/escuela-dev/escuela/internal/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type LoginUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

func userResponse(user models.User) types.UserResponse {
	return types.UserResponse{
		ID:              user.ID,
		Username:        user.Username,
		FirstName:       user.UserDetail.FirstName,
		LastName:        user.UserDetail.LastName,
		DNI:             user.UserDetail.DNI,
		Type:            user.UserDetail.Type,
		Email:           user.UserDetail.Email,
		ProfileImageURL: user.UserDetail.ProfileImageURL,
	}
}

func LoginUser(ctx *gin.Context) {
	var body LoginUserRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		badRequest(ctx, "Solicitud inválida.")
		return
	}

	var user models.User

	err := db.DB.Preload("UserDetail").Where("username = ?", strings.TrimSpace(body.Username)).First(&user).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		respondInternalError(ctx, "failed to load user for login", err)
		return
	}

	if err != nil || !auth.CheckPassword(user.Password, body.Password) {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid username or password"})
		return
	}

	token, err := auth.GenerateJWT(user.ID, user.Username, strings.ToLower(user.UserDetail.Type))

	if err != nil {
		respondInternalError(ctx, "failed to generate JWT", err)
		return
	}

	zap.S().Infow("user logged in", "user_id", user.ID)

	ctx.JSON(http.StatusOK, types.LoginResponse{
		Status:  "success",
		Token:   token,
		User:    userResponse(user),
		Message: "User logged in successfully!",
	})
}

func LogoutUser(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Token inválido."})
		return
	}

	if err := auth.Revoke(ctx.Request.Context(), currentUser.TokenID, currentUser.ExpiresAt); err != nil {
		respondInternalError(ctx, "failed to revoke token", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Sesión cerrada con éxito."})
}

func Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Token inválido."})
		return
	}

	var user models.User

	if err := db.DB.Preload("UserDetail").First(&user, currentUser.ID).Error; err != nil {
		respondLookupError(ctx, err, "Usuario no encontrado.")
		return
	}

	ctx.JSON(http.StatusOK, userResponse(user))
}

func ChangeOwnPassword(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Token inválido."})
		return
	}

	var body ChangePasswordRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		badRequest(ctx, "Solicitud inválida.")
		return
	}

	var user models.User

	if err := db.DB.First(&user, currentUser.ID).Error; err != nil {
		respondLookupError(ctx, err, "Usuario no encontrado.")
		return
	}

	if !auth.CheckPassword(user.Password, body.CurrentPassword) {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "La contraseña actual es incorrecta."})
		return
	}

	hash, err := auth.HashPassword(body.NewPassword)

	if err != nil {
		respondInternalError(ctx, "failed to hash new password", err)
		return
	}

	if err := db.DB.Model(&user).Update("password", hash).Error; err != nil {
		respondInternalError(ctx, "failed to update password", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Contraseña actualizada con éxito."})
}
