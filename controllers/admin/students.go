package adminController

import (
	"atomq/database"
	"atomq/middleware"
	"atomq/models"
	quizValidator "atomq/validators/quiz"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// StudentList returns all student accounts. With ?quiz_id= it also marks who
// is on that quiz's roster.
func StudentList(c *fiber.Ctx) error {
	db := database.Database.Db

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := db.Model(&models.User{}).Where("role = ?", "USER")
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("Error counting students: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch students!", nil)
	}

	var students []models.User
	if err := query.Order("name asc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&students).Error; err != nil {
		log.Printf("Error fetching students: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch students!", nil)
	}

	enrolled := make(map[uint]bool)
	if quizIDStr := c.Query("quiz_id"); quizIDStr != "" {
		quizID, err := strconv.Atoi(quizIDStr)
		if err != nil || quizID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Quiz ID!", nil)
		}
		var roster []models.QuizUser
		if err := db.Where("quiz_id = ?", quizID).Find(&roster).Error; err != nil {
			log.Printf("Error fetching quiz roster: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch students!", nil)
		}
		for _, row := range roster {
			enrolled[row.UserID] = true
		}
	}

	type studentRow struct {
		models.User
		Enrolled bool `json:"enrolled"`
	}
	rows := make([]studentRow, 0, len(students))
	for _, student := range students {
		rows = append(rows, studentRow{User: student, Enrolled: enrolled[student.ID]})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Students fetched successfully.", fiber.Map{
		"students": rows,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// EnrollStudents puts a batch of students on the quiz roster. Students already
// enrolled are skipped, not errored.
func EnrollStudents(c *fiber.Ctx) error {
	quizID := c.Locals("quizID").(uint)
	reqData := c.Locals("validatedEnroll").(*quizValidator.EnrollRequest)

	db := database.Database.Db

	if err := db.First(&models.Quiz{}, quizID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	var studentCount int64
	if err := db.Model(&models.User{}).
		Where("id IN ? AND role = ? AND is_active = ?", reqData.StudentIDs, "USER", true).
		Count(&studentCount).Error; err != nil {
		log.Printf("Error verifying students: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll students!", nil)
	}
	if studentCount != int64(len(reqData.StudentIDs)) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "One or more students not found!", nil)
	}

	enrolledCount := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, studentID := range reqData.StudentIDs {
			if err := tx.Where("quiz_id = ? AND user_id = ?", quizID, studentID).
				First(&models.QuizUser{}).Error; err == nil {
				continue
			}

			if err := tx.Create(&models.QuizUser{QuizID: quizID, UserID: studentID}).Error; err != nil {
				return err
			}
			enrolledCount++
		}
		return nil
	})
	if err != nil {
		log.Printf("Error enrolling students: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll students!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Students enrolled successfully.", fiber.Map{
		"enrolled": enrolledCount,
	})
}

// UnenrollStudent removes a student from the roster along with their attempts
// on the quiz, so the result matrix no longer lists them
func UnenrollStudent(c *fiber.Ctx) error {
	quizID := c.Locals("quizID").(uint)
	studentID := c.Locals("studentID").(uint)

	db := database.Database.Db

	var enrollment models.QuizUser
	if err := db.Where("quiz_id = ? AND user_id = ?", quizID, studentID).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Student is not enrolled in this quiz!", nil)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&enrollment).Error; err != nil {
			return err
		}

		var attempts []models.QuizAttempt
		if err := tx.Where("quiz_id = ? AND user_id = ?", quizID, studentID).Find(&attempts).Error; err != nil {
			return err
		}
		for i := range attempts {
			if err := tx.Where("attempt_id = ?", attempts[i].ID).Delete(&models.QuizAnswer{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&attempts[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Error unenrolling student: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to unenroll student!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Student unenrolled successfully.", nil)
}
