package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/escuela-dev/escuela/db"
	"github.com/escuela-dev/escuela/internal/models"
	"github.com/escuela-dev/escuela/internal/types"
	"github.com/escuela-dev/escuela/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const careerInUseMessage = "Error: No se puede eliminar la carrera, es posible que esté en uso."

type CareerRequest struct {
	Name string `json:"name" binding:"required,max=50"`
}

func ListCareers(ctx *gin.Context) {
	var careers []models.Career

	if err := db.DB.Order("id").Find(&careers).Error; err != nil {
		respondInternalError(ctx, "failed to list careers", err)
		return
	}

	response := make([]types.CareerResponse, 0, len(careers))

	for _, career := range careers {
		response = append(response, types.CareerResponse{ID: career.ID, Name: career.Name})
	}

	ctx.JSON(http.StatusOK, response)
}

func CreateCareer(ctx *gin.Context) {
	var body CareerRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		badRequest(ctx, "El nombre de la carrera es obligatorio.")
		return
	}

	career := models.Career{Name: strings.TrimSpace(body.Name)}

	if career.Name == "" {
		badRequest(ctx, "El nombre de la carrera es obligatorio.")
		return
	}

	if err := db.DB.Create(&career).Error; err != nil {
		respondInternalError(ctx, "failed to create career", err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": fmt.Sprintf("Carrera '%s' guardada correctamente!", career.Name),
		"id":      career.ID,
	})
}

func GetCareer(ctx *gin.Context) {
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

	ctx.JSON(http.StatusOK, types.CareerResponse{ID: career.ID, Name: career.Name})
}

func UpdateCareer(ctx *gin.Context) {
	careerID, err := utils.ParamID(ctx, "career_id")

	if err != nil {
		badRequest(ctx, "ID de carrera inválido.")
		return
	}

	var body CareerRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		badRequest(ctx, "El nombre de la carrera es obligatorio.")
		return
	}

	var career models.Career

	if err := db.DB.First(&career, careerID).Error; err != nil {
		respondLookupError(ctx, err, "Carrera no encontrada.")
		return
	}

	name := strings.TrimSpace(body.Name)

	if name == "" {
		badRequest(ctx, "El nombre de la carrera es obligatorio.")
		return
	}

	career.Name = name

	if err := db.DB.Save(&career).Error; err != nil {
		respondInternalError(ctx, "failed to update career", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Carrera actualizada con éxito."})
}

func DeleteCareer(ctx *gin.Context) {
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

	var enrollments, payments int64

	if err := db.DB.Model(&models.Enrollment{}).Where("id_career = ?", careerID).Count(&enrollments).Error; err != nil {
		respondInternalError(ctx, "failed to count career enrollments", err)
		return
	}

	if err := db.DB.Model(&models.Payment{}).Where("id_career = ?", careerID).Count(&payments).Error; err != nil {
		respondInternalError(ctx, "failed to count career payments", err)
		return
	}

	if enrollments > 0 || payments > 0 {
		ctx.JSON(http.StatusConflict, gin.H{"message": careerInUseMessage})
		return
	}

	if err := db.DB.Delete(&career).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			ctx.JSON(http.StatusConflict, gin.H{"message": careerInUseMessage})
			return
		}
		respondInternalError(ctx, "failed to delete career", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Carrera eliminada con éxito."})
}
