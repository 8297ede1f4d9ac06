package controllers_test

import (
	"fmt"
	"lms/models"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollSingleStudent(t *testing.T) {
	db, app := setupTest(t)
	token := adminToken(t, db)
	course := createCourse(t, db, true)
	student := createUser(t, db, "STUDENT")

	resp, envelope := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/courses/%d/enrollments", course.ID), token,
		fiber.Map{"studentId": student.ID})

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data := dataMap(t, envelope)
	assert.Equal(t, float64(student.ID), data["student_id"])
	assert.Equal(t, float64(course.ID), data["course_id"])
	assert.Equal(t, int64(1), countEnrollments(t, db, course.ID))
}

func TestEnrollClosedCourse(t *testing.T) {
	db, app := setupTest(t)
	token := adminToken(t, db)
	course := createCourse(t, db, false)
	student := createUser(t, db, "STUDENT")

	// The closed state must survive the insert, or this test exercises nothing.
	var stored models.Course
	require.NoError(t, db.First(&stored, course.ID).Error)
	require.False(t, stored.EnrollmentOpen)

	resp, envelope := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/courses/%d/enrollments", course.ID), token,
		fiber.Map{"studentId": student.ID})

	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errCode(t, envelope))
	assert.Equal(t, int64(0), countEnrollments(t, db, course.ID))
}

func TestEnrollDuplicate(t *testing.T) {
	db, app := setupTest(t)
	token := adminToken(t, db)
	course := createCourse(t, db, true)
	student := createUser(t, db, "STUDENT")
	enrollDirect(t, db, student.ID, course.ID, nil)

	resp, envelope := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/courses/%d/enrollments", course.ID), token,
		fiber.Map{"studentId": student.ID})

	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", errCode(t, envelope))
	assert.Equal(t, int64(1), countEnrollments(t, db, course.ID))
}

func TestEnrollNonStudent(t *testing.T) {
	db, app := setupTest(t)
	token := adminToken(t, db)
	course := createCourse(t, db, true)
	instructor := createUser(t, db, "INSTRUCTOR")

	resp, envelope := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/courses/%d/enrollments", course.ID), token,
		fiber.Map{"studentId": instructor.ID})

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", errCode(t, envelope))
}

func TestEnrollCohortCapacity(t *testing.T) {
	db, app := setupTest(t)
	token := adminToken(t, db)
	course := createCourse(t, db, true)
	cohort := createCohort(t, db, course.ID, intPtr(2))

	// Fill the cohort to its limit.
	for i := 0; i < 2; i++ {
		s := createUser(t, db, "STUDENT")
		enrollDirect(t, db, s.ID, course.ID, &cohort.ID)
	}

	extra := createUser(t, db, "STUDENT")

	// Into the full cohort: rejected.
	resp, envelope := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/courses/%d/enrollments", course.ID), token,
		fiber.Map{"studentId": extra.ID, "cohortId": cohort.ID})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", errCode(t, envelope))

	// Same student without a cohort: fine.
	resp, _ = doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/courses/%d/enrollments", course.ID), token,
		fiber.Map{"studentId": extra.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestEnrollCohortExactFit(t *testing.T) {
	db, app := setupTest(t)
	token := adminToken(t, db)
	course := createCourse(t, db, true)
	cohort := createCohort(t, db, course.ID, intPtr(3))

	s := createUser(t, db, "STUDENT")
	enrollDirect(t, db, s.ID, course.ID, &cohort.ID)

	a := createUser(t, db, "STUDENT")
	b := createUser(t, db, "STUDENT")

	// 1 existing + 2 new lands exactly on the limit of 3: allowed.
	resp, envelope := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/courses/%d/enrollments", course.ID), token,
		fiber.Map{"studentIds": []uint{a.ID, b.ID}, "cohortId": cohort.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data := dataMap(t, envelope)
	assert.Equal(t, float64(2), data["enrolled"])

	// One more overflows and the whole request is rejected.
	c := createUser(t, db, "STUDENT")
	resp, envelope = doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/courses/%d/enrollments", course.ID), token,
		fiber.Map{"studentId": c.ID, "cohortId": cohort.ID})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", errCode(t, envelope))
}

func TestEnrollBulkSkipsAlreadyEnrolled(t *testing.T) {
	db, app := setupTest(t)
	token := adminToken(t, db)
	course := createCourse(t, db, true)

	a := createUser(t, db, "STUDENT")
	b := createUser(t, db, "STUDENT")
	enrollDirect(t, db, a.ID, course.ID, nil)

	resp, envelope := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/courses/%d/enrollments", course.ID), token,
		fiber.Map{"studentIds": []uint{a.ID, b.ID}})

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data := dataMap(t, envelope)
	assert.Equal(t, float64(1), data["enrolled"])
	assert.Equal(t, float64(1), data["skipped"])
	skippedIDs, ok := data["skippedIds"].([]interface{})
	require.True(t, ok)
	require.Len(t, skippedIDs, 1)
	assert.Equal(t, float64(a.ID), skippedIDs[0])
	assert.Equal(t, int64(2), countEnrollments(t, db, course.ID))
}

func TestEnrollBulkAllAlreadyEnrolled(t *testing.T) {
	db, app := setupTest(t)
	token := adminToken(t, db)
	course := createCourse(t, db, true)

	a := createUser(t, db, "STUDENT")
	enrollDirect(t, db, a.ID, course.ID, nil)

	resp, envelope := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/courses/%d/enrollments", course.ID), token,
		fiber.Map{"studentIds": []uint{a.ID}})

	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", errCode(t, envelope))
}

func TestEnrollBulkInvalidIds(t *testing.T) {
	db, app := setupTest(t)
	token := adminToken(t, db)
	course := createCourse(t, db, true)

	a := createUser(t, db, "STUDENT")
	instructor := createUser(t, db, "INSTRUCTOR")

	resp, envelope := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/courses/%d/enrollments", course.ID), token,
		fiber.Map{"studentIds": []uint{a.ID, instructor.ID, 99999}})

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", errCode(t, envelope))
	errObj := envelope["error"].(map[string]interface{})
	details, ok := errObj["details"].(map[string]interface{})
	require.True(t, ok)
	invalid, ok := details["invalidIds"].([]interface{})
	require.True(t, ok)
	assert.Len(t, invalid, 2)
	// Nothing was written for the valid id either.
	assert.Equal(t, int64(0), countEnrollments(t, db, course.ID))
}

func TestEnrollBulkZeroIdRejected(t *testing.T) {
	db, app := setupTest(t)
	token := adminToken(t, db)
	course := createCourse(t, db, true)
	a := createUser(t, db, "STUDENT")

	// A zero id fails the whole batch; the valid id is not admitted alone.
	resp, envelope := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/courses/%d/enrollments", course.ID), token,
		fiber.Map{"studentIds": []uint{0, a.ID}})

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", errCode(t, envelope))
	assert.Equal(t, int64(0), countEnrollments(t, db, course.ID))
}

func TestEnrollBothArmsRejected(t *testing.T) {
	db, app := setupTest(t)
	token := adminToken(t, db)
	course := createCourse(t, db, true)
	a := createUser(t, db, "STUDENT")

	resp, envelope := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/courses/%d/enrollments", course.ID), token,
		fiber.Map{"studentId": a.ID, "studentIds": []uint{a.ID}})

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", errCode(t, envelope))
}

func TestEnrollWithGroupIsAtomic(t *testing.T) {
	db, app := setupTest(t)
	token := adminToken(t, db)
	course := createCourse(t, db, true)
	group := createGroup(t, db, course.ID, nil, false)
	student := createUser(t, db, "STUDENT")

	// A membership row for this (group, student) pair already exists, so the
	// membership insert inside the transaction hits the unique index after the
	// enrollment insert succeeded. The enrollment must be rolled back with it.
	preexisting := models.CourseGroupMembership{
		GroupID:      group.ID,
		StudentID:    student.ID,
		EnrollmentID: 9999,
		JoinedAt:     time.Now(),
	}
	require.NoError(t, db.Create(&preexisting).Error)

	resp, _ := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/courses/%d/enrollments", course.ID), token,
		fiber.Map{"studentId": student.ID, "groupId": group.ID})

	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, int64(0), countEnrollments(t, db, course.ID))
}

func TestEnrollWithGroupCreatesMembership(t *testing.T) {
	db, app := setupTest(t)
	token := adminToken(t, db)
	course := createCourse(t, db, true)
	group := createGroup(t, db, course.ID, nil, false)
	student := createUser(t, db, "STUDENT")

	resp, _ := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/courses/%d/enrollments", course.ID), token,
		fiber.Map{"studentId": student.ID, "groupId": group.ID})

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var membership models.CourseGroupMembership
	require.NoError(t, db.Where("group_id = ? AND student_id = ?", group.ID, student.ID).First(&membership).Error)

	var enrollment models.Enrollment
	require.NoError(t, db.Where("student_id = ? AND course_id = ?", student.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, enrollment.ID, membership.EnrollmentID)
}

func TestUpdateEnrollmentProgressCompletion(t *testing.T) {
	db, app := setupTest(t)
	token := adminToken(t, db)
	course := createCourse(t, db, true)
	student := createUser(t, db, "STUDENT")
	enrollment := enrollDirect(t, db, student.ID, course.ID, nil)

	path := fmt.Sprintf("/courses/%d/enrollments/%d", course.ID, enrollment.ID)

	resp, envelope := doJSON(t, app, http.MethodPut, path, token, fiber.Map{"progress": 100})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := dataMap(t, envelope)
	assert.NotNil(t, data["completed_at"])

	// Dropping back below 100 clears the completion timestamp.
	resp, envelope = doJSON(t, app, http.MethodPut, path, token, fiber.Map{"progress": 80})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data = dataMap(t, envelope)
	assert.Nil(t, data["completed_at"])
}

func TestReassignCohort(t *testing.T) {
	db, app := setupTest(t)
	token := adminToken(t, db)
	course := createCourse(t, db, true)
	source := createCohort(t, db, course.ID, nil)
	target := createCohort(t, db, course.ID, intPtr(1))
	student := createUser(t, db, "STUDENT")
	enrollment := enrollDirect(t, db, student.ID, course.ID, &source.ID)

	path := fmt.Sprintf("/courses/%d/enrollments/%d", course.ID, enrollment.ID)

	resp, envelope := doJSON(t, app, http.MethodPatch, path, token, fiber.Map{"cohortId": target.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := dataMap(t, envelope)
	assert.Equal(t, float64(target.ID), data["cohort_id"])

	// A second enrollment cannot move into the now-full target cohort.
	other := createUser(t, db, "STUDENT")
	otherEnrollment := enrollDirect(t, db, other.ID, course.ID, &source.ID)
	resp, envelope = doJSON(t, app, http.MethodPatch,
		fmt.Sprintf("/courses/%d/enrollments/%d", course.ID, otherEnrollment.ID), token,
		fiber.Map{"cohortId": target.ID})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", errCode(t, envelope))

	// Null clears the assignment.
	resp, envelope = doJSON(t, app, http.MethodPatch, path, token, fiber.Map{"cohortId": nil})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data = dataMap(t, envelope)
	assert.Nil(t, data["cohort_id"])
}

func TestUnenrollBlockedByProgress(t *testing.T) {
	db, app := setupTest(t)
	token := adminToken(t, db)
	course := createCourse(t, db, true)
	student := createUser(t, db, "STUDENT")
	enrollment := enrollDirect(t, db, student.ID, course.ID, nil)
	require.NoError(t, db.Model(enrollment).Update("progress", 45).Error)

	path := fmt.Sprintf("/courses/%d/enrollments/%d", course.ID, enrollment.ID)

	resp, envelope := doJSON(t, app, http.MethodDelete, path, token, nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, errMessage(t, envelope), "progress")
	assert.Equal(t, int64(1), countEnrollments(t, db, course.ID))
}

func TestUnenrollForceCascades(t *testing.T) {
	db, app := setupTest(t)
	token := adminToken(t, db)
	course := createCourse(t, db, true)
	group := createGroup(t, db, course.ID, nil, false)
	student := createUser(t, db, "STUDENT")
	enrollment := enrollDirect(t, db, student.ID, course.ID, nil)
	require.NoError(t, db.Model(enrollment).Update("progress", 45).Error)

	membership := models.CourseGroupMembership{
		GroupID: group.ID, StudentID: student.ID, EnrollmentID: enrollment.ID, JoinedAt: time.Now(),
	}
	require.NoError(t, db.Create(&membership).Error)
	record := models.ProgressRecord{EnrollmentID: enrollment.ID, ContentKey: "lesson-1", Score: float64Ptr(45)}
	require.NoError(t, db.Create(&record).Error)

	path := fmt.Sprintf("/courses/%d/enrollments/%d?force=true", course.ID, enrollment.ID)
	resp, _ := doJSON(t, app, http.MethodDelete, path, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, int64(0), countEnrollments(t, db, course.ID))
	var count int64
	require.NoError(t, db.Model(&models.CourseGroupMembership{}).Where("enrollment_id = ?", enrollment.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	require.NoError(t, db.Model(&models.ProgressRecord{}).Where("enrollment_id = ?", enrollment.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestUnenrollCleanWithoutForce(t *testing.T) {
	db, app := setupTest(t)
	token := adminToken(t, db)
	course := createCourse(t, db, true)
	student := createUser(t, db, "STUDENT")
	enrollment := enrollDirect(t, db, student.ID, course.ID, nil)

	path := fmt.Sprintf("/courses/%d/enrollments/%d", course.ID, enrollment.ID)
	resp, _ := doJSON(t, app, http.MethodDelete, path, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(0), countEnrollments(t, db, course.ID))
}

func TestListEnrollmentsFilters(t *testing.T) {
	db, app := setupTest(t)
	token := adminToken(t, db)
	course := createCourse(t, db, true)
	cohort := createCohort(t, db, course.ID, nil)

	a := createUser(t, db, "STUDENT")
	b := createUser(t, db, "STUDENT")
	c := createUser(t, db, "STUDENT")
	enrollDirect(t, db, a.ID, course.ID, &cohort.ID)
	eb := enrollDirect(t, db, b.ID, course.ID, nil)
	enrollDirect(t, db, c.ID, course.ID, nil)
	require.NoError(t, db.Model(eb).Update("progress", 100).Error)

	base := fmt.Sprintf("/courses/%d/enrollments", course.ID)

	resp, envelope := doJSON(t, app, http.MethodGet, base, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := dataMap(t, envelope)
	pagination := data["pagination"].(map[string]interface{})
	assert.Equal(t, float64(3), pagination["total"])

	resp, envelope = doJSON(t, app, http.MethodGet, base+fmt.Sprintf("?cohortId=%d", cohort.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	pagination = dataMap(t, envelope)["pagination"].(map[string]interface{})
	assert.Equal(t, float64(1), pagination["total"])

	resp, envelope = doJSON(t, app, http.MethodGet, base+"?status=completed", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	pagination = dataMap(t, envelope)["pagination"].(map[string]interface{})
	assert.Equal(t, float64(1), pagination["total"])

	resp, envelope = doJSON(t, app, http.MethodGet, base+"?search="+a.Name[:5], token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := dataMap(t, envelope)["enrollments"].([]interface{})
	require.NotEmpty(t, list)
	first := list[0].(map[string]interface{})
	studentObj := first["student"].(map[string]interface{})
	assert.NotContains(t, studentObj, "password")
}

func TestEnrollmentRoutesRequireAuth(t *testing.T) {
	db, app := setupTest(t)
	course := createCourse(t, db, true)

	resp, _ := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/courses/%d/enrollments", course.ID), "",
		fiber.Map{"studentId": 1})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
