package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/escuela-dev/escuela/db"
	"github.com/escuela-dev/escuela/internal/auth"
	"github.com/escuela-dev/escuela/internal/models"
	"github.com/escuela-dev/escuela/internal/types"
	"github.com/escuela-dev/escuela/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CreateUserRequest struct {
	Username  string `json:"username" binding:"required,max=50"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstname" binding:"required,max=50"`
	LastName  string `json:"lastname" binding:"required,max=50"`
	DNI       int    `json:"dni" binding:"required,gt=0"`
	Type      string `json:"type" binding:"required,role"`
	Email     string `json:"email" binding:"required,email,max=50"`
}

type UpdateUserRequest struct {
	FirstName string `json:"first_name" binding:"required,max=50"`
	LastName  string `json:"last_name" binding:"required,max=50"`
	DNI       int    `json:"dni" binding:"required,gt=0"`
	Type      string `json:"type" binding:"required,role"`
	Email     string `json:"email" binding:"required,email,max=50"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required"`
}

const maxPhotoSize = 5 << 20

var (
	// StaticDir is where uploaded files are written; it is served under /static.
	StaticDir = "static"

	photoExtensions = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
		".webp": true,
	}
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ListUsers(ctx *gin.Context) {
	var users []models.User

	if err := db.DB.Preload("UserDetail").Order("id").Find(&users).Error; err != nil {
		respondInternalError(ctx, "failed to list users", err)
		return
	}

	response := make([]types.UserResponse, 0, len(users))

	for _, user := range users {
		response = append(response, userResponse(user))
	}

	ctx.JSON(http.StatusOK, response)
}

func CreateUser(ctx *gin.Context) {
	var body CreateUserRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		badRequest(ctx, "Datos de usuario inválidos.")
		return
	}

	username := strings.TrimSpace(body.Username)
	email := normalizeEmail(body.Email)

	var existing int64

	err := db.DB.Model(&models.User{}).
		Joins("JOIN userdetail ON userdetail.id = \"user\".id_userdetail").
		Where("\"user\".username = ? OR userdetail.email = ?", username, email).
		Count(&existing).Error

	if err != nil {
		respondInternalError(ctx, "failed to check existing user", err)
		return
	}

	if existing > 0 {
		ctx.JSON(http.StatusConflict, gin.H{"message": "El nombre de usuario o el email ya existen."})
		return
	}

	hash, err := auth.HashPassword(body.Password)

	if err != nil {
		respondInternalError(ctx, "failed to hash password", err)
		return
	}

	user := models.User{
		Username: username,
		Password: hash,
		UserDetail: models.UserDetail{
			FirstName: strings.TrimSpace(body.FirstName),
			LastName:  strings.TrimSpace(body.LastName),
			DNI:       body.DNI,
			Type:      normalizeRole(body.Type),
			Email:     email,
		},
	}

	if err := db.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ctx.JSON(http.StatusConflict, gin.H{"message": "El nombre de usuario o el email ya existen."})
			return
		}
		respondInternalError(ctx, "failed to create user", err)
		return
	}

	zap.S().Infow("user created", "user_id", user.ID, "role", user.UserDetail.Type)

	ctx.JSON(http.StatusCreated, gin.H{"message": "Usuario creado con éxito!", "id": user.ID})
}

func GetUser(ctx *gin.Context) {
	userID, err := utils.ParamID(ctx, "user_id")

	if err != nil {
		badRequest(ctx, "ID de usuario inválido.")
		return
	}

	var user models.User

	if err := db.DB.Preload("UserDetail").First(&user, userID).Error; err != nil {
		respondLookupError(ctx, err, "Usuario no encontrado.")
		return
	}

	ctx.JSON(http.StatusOK, types.UserDetailResponse{
		ID:        user.ID,
		FirstName: user.UserDetail.FirstName,
		LastName:  user.UserDetail.LastName,
		DNI:       user.UserDetail.DNI,
		Type:      user.UserDetail.Type,
		Email:     user.UserDetail.Email,
	})
}

func UpdateUser(ctx *gin.Context) {
	userID, err := utils.ParamID(ctx, "user_id")

	if err != nil {
		badRequest(ctx, "ID de usuario inválido.")
		return
	}

	var body UpdateUserRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		badRequest(ctx, "Datos de usuario inválidos.")
		return
	}

	var user models.User

	if err := db.DB.Preload("UserDetail").First(&user, userID).Error; err != nil {
		respondLookupError(ctx, err, "Usuario a actualizar no encontrado.")
		return
	}

	email := normalizeEmail(body.Email)

	var taken int64

	if err := db.DB.Model(&models.UserDetail{}).Where("email = ? AND id <> ?", email, user.UserDetail.ID).Count(&taken).Error; err != nil {
		respondInternalError(ctx, "failed to check email", err)
		return
	}

	if taken > 0 {
		ctx.JSON(http.StatusConflict, gin.H{"message": "El email ya está en uso por otro usuario."})
		return
	}

	updates := map[string]interface{}{
		"first_name": strings.TrimSpace(body.FirstName),
		"last_name":  strings.TrimSpace(body.LastName),
		"dni":        body.DNI,
		"type":       normalizeRole(body.Type),
		"email":      email,
	}

	if err := db.DB.Model(&user.UserDetail).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ctx.JSON(http.StatusConflict, gin.H{"message": "El email ya está en uso por otro usuario."})
			return
		}
		respondInternalError(ctx, "failed to update user", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Usuario actualizado con éxito."})
}

func DeleteUser(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Token inválido."})
		return
	}

	userID, err := utils.ParamID(ctx, "user_id")

	if err != nil {
		badRequest(ctx, "ID de usuario inválido.")
		return
	}

	if userID == currentUser.ID {
		badRequest(ctx, "No puedes eliminar tu propia cuenta.")
		return
	}

	var user models.User

	if err := db.DB.First(&user, userID).Error; err != nil {
		respondLookupError(ctx, err, "Usuario no encontrado.")
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sender_id = ? OR recipient_id = ?", user.ID, user.ID).Delete(&models.Message{}).Error; err != nil {
			return fmt.Errorf("delete messages: %w", err)
		}
		if err := tx.Where("id_user = ?", user.ID).Delete(&models.Payment{}).Error; err != nil {
			return fmt.Errorf("delete payments: %w", err)
		}
		if err := tx.Where("id_user = ?", user.ID).Delete(&models.Enrollment{}).Error; err != nil {
			return fmt.Errorf("delete enrollments: %w", err)
		}
		if err := tx.Delete(&user).Error; err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if err := tx.Delete(&models.UserDetail{}, user.UserDetailID).Error; err != nil {
			return fmt.Errorf("delete user detail: %w", err)
		}
		return nil
	})

	if err != nil {
		respondInternalError(ctx, "failed to delete user", err)
		return
	}

	zap.S().Infow("user deleted", "user_id", user.ID, "deleted_by", currentUser.ID)

	ctx.JSON(http.StatusOK, gin.H{"message": "Usuario eliminado con éxito."})
}

func ResetUserPassword(ctx *gin.Context) {
	userID, err := utils.ParamID(ctx, "user_id")

	if err != nil {
		badRequest(ctx, "ID de usuario inválido.")
		return
	}

	var body ResetPasswordRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		badRequest(ctx, "Solicitud inválida.")
		return
	}

	var user models.User

	if err := db.DB.First(&user, userID).Error; err != nil {
		respondLookupError(ctx, err, "Usuario no encontrado.")
		return
	}

	hash, err := auth.HashPassword(body.NewPassword)

	if err != nil {
		respondInternalError(ctx, "failed to hash password", err)
		return
	}

	if err := db.DB.Model(&user).Update("password", hash).Error; err != nil {
		respondInternalError(ctx, "failed to reset password", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Contraseña restablecida con éxito."})
}

func UploadProfilePhoto(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Token inválido."})
		return
	}

	file, err := ctx.FormFile("file")

	if err != nil {
		badRequest(ctx, "Se requiere un archivo en el campo 'file'.")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))

	if !photoExtensions[ext] {
		badRequest(ctx, "Formato de imagen no soportado.")
		return
	}

	if file.Size > maxPhotoSize {
		badRequest(ctx, "La imagen supera el tamaño máximo de 5 MB.")
		return
	}

	var user models.User

	if err := db.DB.Preload("UserDetail").First(&user, currentUser.ID).Error; err != nil {
		respondLookupError(ctx, err, "Usuario no encontrado.")
		return
	}

	dir := filepath.Join(StaticDir, "profile_pics")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		respondInternalError(ctx, "failed to create upload directory", err)
		return
	}

	filename := uuid.NewString() + ext

	if err := ctx.SaveUploadedFile(file, filepath.Join(dir, filename)); err != nil {
		respondInternalError(ctx, "failed to save uploaded photo", err)
		return
	}

	imageURL := path.Join("/static", "profile_pics", filename)

	if err := db.DB.Model(&user.UserDetail).Update("profile_image_url", imageURL).Error; err != nil {
		respondInternalError(ctx, "failed to store photo url", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Foto de perfil actualizada con éxito.", "image_url": imageURL})
}
