package userController

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"atomq/database"
	"atomq/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newActivityTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrator().DropTable(
		&models.QuizAnswer{}, &models.QuizAttempt{}, &models.QuizUser{},
		&models.QuizQuestion{}, &models.Quiz{}, &models.Question{},
		&models.Settings{}, &models.User{},
	))
	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}
	return db
}

func TestRecentActivity(t *testing.T) {
	db := newActivityTestDB(t)

	user := models.User{Name: "Alice", Email: "alice@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	other := models.User{Name: "Bob", Email: "bob@example.com", Password: "x"}
	require.NoError(t, db.Create(&other).Error)

	math := models.Quiz{Title: "Math Basics", Status: models.QuizStatusActive}
	history := models.Quiz{Title: "World History", Status: models.QuizStatusActive}
	require.NoError(t, db.Create(&math).Error)
	require.NoError(t, db.Create(&history).Error)

	older := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	score := 80.0
	total := 100.0
	taken := 120
	require.NoError(t, db.Create(&models.QuizAttempt{
		UserID: user.ID, QuizID: math.ID, Status: models.AttemptSubmitted,
		StartedAt: older, SubmittedAt: &older, Score: &score, TotalPoints: &total, TimeTaken: &taken,
	}).Error)
	// Submitted later but with no score fields recorded
	require.NoError(t, db.Create(&models.QuizAttempt{
		UserID: user.ID, QuizID: history.ID, Status: models.AttemptSubmitted,
		StartedAt: newer, SubmittedAt: &newer,
	}).Error)
	// In-progress attempts and other users' attempts are not activity
	require.NoError(t, db.Create(&models.QuizAttempt{
		UserID: user.ID, QuizID: math.ID, Status: models.AttemptInProgress, StartedAt: newer,
	}).Error)
	require.NoError(t, db.Create(&models.QuizAttempt{
		UserID: other.ID, QuizID: math.ID, Status: models.AttemptSubmitted,
		StartedAt: newer, SubmittedAt: &newer, Score: &score,
	}).Error)

	app := fiber.New()
	app.Get("/recent-activity", func(c *fiber.Ctx) error {
		c.Locals("userId", user.ID)
		return RecentActivity(c)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/recent-activity", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data []struct {
			QuizTitle   string    `json:"quiz_title"`
			Score       float64   `json:"score"`
			TotalPoints float64   `json:"total_points"`
			TimeTaken   int       `json:"time_taken"`
			CompletedAt time.Time `json:"completed_at"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	require.Len(t, body.Data, 2)

	// Newest submission first
	assert.Equal(t, "World History", body.Data[0].QuizTitle)
	assert.Equal(t, "Math Basics", body.Data[1].QuizTitle)

	// Unscored submissions fall back to zero values
	assert.Equal(t, 0.0, body.Data[0].Score)
	assert.Equal(t, 0, body.Data[0].TimeTaken)

	assert.Equal(t, 80.0, body.Data[1].Score)
	assert.Equal(t, 100.0, body.Data[1].TotalPoints)
	assert.Equal(t, 120, body.Data[1].TimeTaken)
	assert.True(t, older.Equal(body.Data[1].CompletedAt))
}
