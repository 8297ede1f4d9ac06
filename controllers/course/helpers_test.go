package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseRoutes "lms/routers/courseRoutes"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	testDBCounter int64
	testUserSeq   int64
)

// setupTest wires a fresh in-memory database into the global instance and
// returns it along with an app carrying the course routes.
func setupTest(t *testing.T) (*gorm.DB, *fiber.App) {
	t.Helper()

	config.LoadConfig()

	n := atomic.AddInt64(&testDBCounter, 1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.Course{},
		&models.Cohort{},
		&models.CourseGroup{},
		&models.Enrollment{},
		&models.CourseGroupMembership{},
		&models.ProgressRecord{},
		&models.Quiz{},
	))

	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	courseRoutes.SetupCourseRoutes(app)
	return db, app
}

func adminToken(t *testing.T, db *gorm.DB) string {
	t.Helper()
	user := createUser(t, db, "ADMIN")
	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)
	return token
}

func studentToken(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)
	return token
}

func createUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()
	n := atomic.AddInt64(&testUserSeq, 1)
	user := models.User{
		Name:     fmt.Sprintf("%s %d", role, n),
		Email:    fmt.Sprintf("user%d@example.com", n),
		Role:     role,
		Password: "not-a-real-hash",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createCourse(t *testing.T, db *gorm.DB, open bool) *models.Course {
	t.Helper()
	org := models.Organization{Name: "Test Org", InviteCode: fmt.Sprintf("code-%d", atomic.AddInt64(&testUserSeq, 1))}
	require.NoError(t, db.Create(&org).Error)
	course := models.Course{
		Title:          "Intro to Testing",
		OrganizationID: org.ID,
		EnrollmentOpen: open,
	}
	require.NoError(t, db.Create(&course).Error)
	return &course
}

func createCohort(t *testing.T, db *gorm.DB, courseID uint, limit *int) *models.Cohort {
	t.Helper()
	cohort := models.Cohort{CourseID: courseID, Name: "Cohort", EnrollmentLimit: limit}
	require.NoError(t, db.Create(&cohort).Error)
	return &cohort
}

func createGroup(t *testing.T, db *gorm.DB, courseID uint, maxMembers *int, archived bool) *models.CourseGroup {
	t.Helper()
	group := models.CourseGroup{CourseID: courseID, Name: "Group", MaxMembers: maxMembers, IsArchived: archived}
	require.NoError(t, db.Create(&group).Error)
	return &group
}

func enrollDirect(t *testing.T, db *gorm.DB, studentID, courseID uint, cohortID *uint) *models.Enrollment {
	t.Helper()
	enrollment := models.Enrollment{
		StudentID:  studentID,
		CourseID:   courseID,
		CohortID:   cohortID,
		EnrolledAt: time.Now(),
	}
	require.NoError(t, db.Create(&enrollment).Error)
	return &enrollment
}

func intPtr(v int) *int { return &v }

func float64Ptr(v float64) *float64 { return &v }

// doJSON performs a request against the app and decodes the response envelope.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	envelope := make(map[string]interface{})
	_ = json.NewDecoder(resp.Body).Decode(&envelope)
	return resp, envelope
}

func errCode(t *testing.T, envelope map[string]interface{}) string {
	t.Helper()
	errObj, ok := envelope["error"].(map[string]interface{})
	require.True(t, ok, "expected error envelope, got %v", envelope)
	code, _ := errObj["code"].(string)
	return code
}

func errMessage(t *testing.T, envelope map[string]interface{}) string {
	t.Helper()
	errObj, ok := envelope["error"].(map[string]interface{})
	require.True(t, ok, "expected error envelope, got %v", envelope)
	msg, _ := errObj["message"].(string)
	return msg
}

func dataMap(t *testing.T, envelope map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := envelope["data"].(map[string]interface{})
	require.True(t, ok, "expected data envelope, got %v", envelope)
	return data
}

func countEnrollments(t *testing.T, db *gorm.DB, courseID uint) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.Enrollment{}).Where("course_id = ?", courseID).Count(&count).Error)
	return count
}
