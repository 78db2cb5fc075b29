// Package seed creates the first administrator and the sample data used for
// local development.
package seed

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/escuela-dev/escuela/internal/auth"
	"github.com/escuela-dev/escuela/internal/models"
	"github.com/escuela-dev/escuela/internal/types"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrAdminExists = errors.New("an administrador already exists")

type Admin struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Email     string
	DNI       int
}

// CreateAdmin inserts the first administrador. It refuses to run once any
// administrador exists.
func CreateAdmin(db *gorm.DB, admin Admin) (*models.User, error) {
	if admin.Username == "" || admin.Password == "" || admin.Email == "" {
		return nil, errors.New("username, password and email are required")
	}

	var count int64

	if err := db.Model(&models.UserDetail{}).Where("type = ?", types.RoleAdmin).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("count administrators: %w", err)
	}

	if count > 0 {
		return nil, ErrAdminExists
	}

	hash, err := auth.HashPassword(admin.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username: admin.Username,
		Password: hash,
		UserDetail: models.UserDetail{
			FirstName: admin.FirstName,
			LastName:  admin.LastName,
			DNI:       admin.DNI,
			Type:      types.RoleAdmin,
			Email:     strings.ToLower(admin.Email),
		},
	}

	if err := db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("create administrator: %w", err)
	}

	return user, nil
}

var (
	careerNames = []string{"Desarrollo de Software", "Diseño Gráfico", "Enfermería"}

	firstNames = []string{"Juan", "María", "Lucía", "Pedro", "Sofía", "Diego", "Valentina", "Martín", "Camila", "Tomás"}
	lastNames  = []string{"Gómez", "Fernández", "López", "Díaz", "Martínez", "Pérez", "García", "Sánchez", "Romero", "Torres"}
)

const (
	usersPerRole     = 10
	monthlyFee       = 45000
	paidMonths       = 3
	studentDNIBase   = 40000000
	professorDNIBase = 25000000
)

type Summary struct {
	Careers     int
	Students    int
	Professors  int
	Enrollments int
	Payments    int
}

// Run creates careers, students, professors, their enrollments and a few
// months of payments per student. Rows that already exist are left alone, so
// running it twice is harmless. Seeded users log in with their username as
// password.
func Run(db *gorm.DB) (Summary, error) {
	var summary Summary

	err := db.Transaction(func(tx *gorm.DB) error {
		careers := make([]models.Career, 0, len(careerNames))

		for _, name := range careerNames {
			career, created, err := ensureCareer(tx, name)
			if err != nil {
				return err
			}
			if created {
				summary.Careers++
			}
			careers = append(careers, career)
		}

		for i := 0; i < usersPerRole; i++ {
			student, created, err := ensureUser(tx, fmt.Sprintf("alumno%d", i+1), types.RoleStudent, i, studentDNIBase+i)
			if err != nil {
				return err
			}
			if created {
				summary.Students++
			}

			career := careers[i%len(careers)]

			enrolled, err := ensureEnrollment(tx, student.ID, career.ID)
			if err != nil {
				return err
			}
			if enrolled {
				summary.Enrollments++
			}

			paid, err := ensurePayments(tx, student.ID, career.ID)
			if err != nil {
				return err
			}
			summary.Payments += paid

			professor, created, err := ensureUser(tx, fmt.Sprintf("profesor%d", i+1), types.RoleProfessor, i, professorDNIBase+i)
			if err != nil {
				return err
			}
			if created {
				summary.Professors++
			}

			enrolled, err = ensureEnrollment(tx, professor.ID, career.ID)
			if err != nil {
				return err
			}
			if enrolled {
				summary.Enrollments++
			}
		}

		return nil
	})

	if err != nil {
		return Summary{}, err
	}

	zap.S().Infow("seed finished",
		"careers", summary.Careers,
		"students", summary.Students,
		"professors", summary.Professors,
		"enrollments", summary.Enrollments,
		"payments", summary.Payments,
	)

	return summary, nil
}

func ensureUser(tx *gorm.DB, username, role string, i, dni int) (models.User, bool, error) {
	var user models.User

	err := tx.Where("username = ?", username).First(&user).Error
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return user, false, fmt.Errorf("look up %s: %w", username, err)
	}

	hash, err := auth.HashPassword(username)
	if err != nil {
		return user, false, fmt.Errorf("hash password for %s: %w", username, err)
	}

	user = models.User{
		Username: username,
		Password: hash,
		UserDetail: models.UserDetail{
			FirstName: firstNames[i%len(firstNames)],
			LastName:  lastNames[(i+3)%len(lastNames)],
			DNI:       dni,
			Type:      role,
			Email:     username + "@escuela.com",
		},
	}

	if err := tx.Create(&user).Error; err != nil {
		return user, false, fmt.Errorf("create %s: %w", username, err)
	}

	return user, true, nil
}

func ensureCareer(tx *gorm.DB, name string) (models.Career, bool, error) {
	var career models.Career

	err := tx.Where("name = ?", name).First(&career).Error
	if err == nil {
		return career, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return career, false, fmt.Errorf("look up career %q: %w", name, err)
	}

	career = models.Career{Name: name}
	if err := tx.Create(&career).Error; err != nil {
		return career, false, fmt.Errorf("create career %q: %w", name, err)
	}

	return career, true, nil
}

func ensureEnrollment(tx *gorm.DB, userID, careerID uint) (bool, error) {
	var count int64

	if err := tx.Model(&models.Enrollment{}).Where("id_user = ? AND id_career = ?", userID, careerID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("look up enrollment of user %d: %w", userID, err)
	}

	if count > 0 {
		return false, nil
	}

	if err := tx.Create(&models.Enrollment{UserID: userID, CareerID: careerID}).Error; err != nil {
		return false, fmt.Errorf("enroll user %d in career %d: %w", userID, careerID, err)
	}

	return true, nil
}

// ensurePayments records the first months of the current year for a student
// that has no payments yet.
func ensurePayments(tx *gorm.DB, userID, careerID uint) (int, error) {
	var count int64

	if err := tx.Model(&models.Payment{}).Where("id_user = ?", userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count payments of user %d: %w", userID, err)
	}

	if count > 0 {
		return 0, nil
	}

	year := time.Now().Year()
	payments := make([]models.Payment, 0, paidMonths)

	for m := 1; m <= paidMonths; m++ {
		payments = append(payments, models.Payment{
			UserID:        userID,
			CareerID:      careerID,
			Amount:        monthlyFee,
			AffectedMonth: datatypes.Date(time.Date(year, time.Month(m), 1, 0, 0, 0, 0, time.UTC)),
		})
	}

	if err := tx.Create(&payments).Error; err != nil {
		return 0, fmt.Errorf("create payments of user %d: %w", userID, err)
	}

	return len(payments), nil
}
