package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/escuela-dev/escuela/db"
	"github.com/escuela-dev/escuela/internal/models"
	"github.com/escuela-dev/escuela/internal/types"
	"github.com/escuela-dev/escuela/internal/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type EnrollRequest struct {
	UserID   uint `json:"id_user" binding:"required"`
	CareerID uint `json:"id_career" binding:"required"`
}

type AssignCareerRequest struct {
	CareerID uint `json:"id" binding:"required"`
}

func EnrollUser(ctx *gin.Context) {
	var body EnrollRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		badRequest(ctx, "Solicitud inválida.")
		return
	}

	enroll(ctx, body.UserID, body.CareerID)
}

func AssignCareerToUser(ctx *gin.Context) {
	userID, err := utils.ParamID(ctx, "user_id")

	if err != nil {
		badRequest(ctx, "ID de usuario inválido.")
		return
	}

	var body AssignCareerRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		badRequest(ctx, "Solicitud inválida.")
		return
	}

	enroll(ctx, userID, body.CareerID)
}

func enroll(ctx *gin.Context, userID, careerID uint) {
	var user models.User

	if err := db.DB.Preload("UserDetail").First(&user, userID).Error; err != nil {
		respondLookupError(ctx, err, "Usuario no encontrado.")
		return
	}

	var career models.Career

	if err := db.DB.First(&career, careerID).Error; err != nil {
		respondLookupError(ctx, err, "Carrera no encontrada.")
		return
	}

	var existing int64

	if err := db.DB.Model(&models.Enrollment{}).Where("id_user = ? AND id_career = ?", userID, careerID).Count(&existing).Error; err != nil {
		respondInternalError(ctx, "failed to check enrollment", err)
		return
	}

	alreadyEnrolled := fmt.Sprintf("%s ya está inscripto en %s.", user.FullName(), career.Name)

	if existing > 0 {
		ctx.JSON(http.StatusConflict, gin.H{"message": alreadyEnrolled})
		return
	}

	if err := db.DB.Create(&models.Enrollment{UserID: userID, CareerID: careerID}).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ctx.JSON(http.StatusConflict, gin.H{"message": alreadyEnrolled})
			return
		}
		respondInternalError(ctx, "failed to create enrollment", err)
		return
	}

	msg := fmt.Sprintf("%s fue inscripto correctamente a %s", user.FullName(), career.Name)
	zap.S().Infow("enrollment created", "user_id", userID, "career_id", careerID)

	ctx.JSON(http.StatusCreated, gin.H{"message": msg})
}

func GetUserCareers(ctx *gin.Context) {
	var user models.User

	err := db.DB.Preload("UserDetail").Where("username = ?", ctx.Param("username")).First(&user).Error

	if err != nil {
		respondLookupError(ctx, err, "Usuario no encontrado!")
		return
	}

	var enrollments []models.Enrollment

	if err := db.DB.Preload("Career").Where("id_user = ?", user.ID).Order("id").Find(&enrollments).Error; err != nil {
		respondInternalError(ctx, "failed to list user careers", err)
		return
	}

	response := make([]types.UserCareerResponse, 0, len(enrollments))

	for _, enrollment := range enrollments {
		response = append(response, types.UserCareerResponse{
			Usuario: user.FullName(),
			Carrera: enrollment.Career.Name,
		})
	}

	ctx.JSON(http.StatusOK, response)
}

func GetCareerStudents(ctx *gin.Context) {
	careerID, err := utils.ParamID(ctx, "career_id")

	if err != nil {
		badRequest(ctx, "ID de carrera inválido.")
		return
	}

	var career models.Career

	if err := db.DB.First(&career, careerID).Error; err != nil {
		respondLookupError(ctx, err, "Carrera no encontrada.")
		return
	}

	var enrollments []models.Enrollment

	if err := db.DB.Preload("User.UserDetail").Where("id_career = ?", careerID).Order("id").Find(&enrollments).Error; err != nil {
		respondInternalError(ctx, "failed to list career students", err)
		return
	}

	students := make([]types.StudentResponse, 0, len(enrollments))

	for _, enrollment := range enrollments {
		detail := enrollment.User.UserDetail
		if detail.Type != types.RoleStudent {
			continue
		}
		students = append(students, types.StudentResponse{
			ID:        enrollment.User.ID,
			FirstName: detail.FirstName,
			LastName:  detail.LastName,
			Email:     detail.Email,
			DNI:       detail.DNI,
		})
	}

	ctx.JSON(http.StatusOK, types.CareerStudentsResponse{Career: career.Name, Students: students})
}

// ProfessorCareers lists the careers the caller is enrolled in with how many
// students each one has.
func ProfessorCareers(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Token inválido."})
		return
	}

	response := []types.CareerSummaryResponse{}

	err = db.DB.Table("pivote_user_career AS mine").
		Select("career.id AS career_id, career.name AS career_name, COUNT(userdetail.id) AS student_count").
		Joins("JOIN career ON career.id = mine.id_career").
		Joins("LEFT JOIN pivote_user_career AS peers ON peers.id_career = mine.id_career").
		Joins("LEFT JOIN \"user\" AS peer ON peer.id = peers.id_user").
		Joins("LEFT JOIN userdetail ON userdetail.id = peer.id_userdetail AND userdetail.type = ?", types.RoleStudent).
		Where("mine.id_user = ?", userID).
		Group("career.id, career.name").
		Order("career.name").
		Scan(&response).Error

	if err != nil {
		respondInternalError(ctx, "failed to summarize professor careers", err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}
