package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all course, cohort, group, enrollment,
// membership, and quiz routes.
func SetupCourseRoutes(app *fiber.App) {
	manage := middleware.RequireRole("ADMIN", "INSTRUCTOR")

	courseGroup := app.Group("/courses", middleware.JWTMiddleware)

	// Courses
	courseGroup.Post("/", manage, validators.CreateCourse(), controllers.CreateCourse)
	courseGroup.Get("/", validators.CourseList(), controllers.GetCourses)
	courseGroup.Get("/:courseId", validators.CourseID(), controllers.GetCourseDetails)
	courseGroup.Put("/:courseId", manage, validators.CourseID(), validators.UpdateCourse(), controllers.UpdateCourse)
	courseGroup.Patch("/:courseId/enrollment-open", manage, validators.CourseID(), validators.ToggleEnrollmentOpen(), controllers.ToggleEnrollmentOpen)
	courseGroup.Delete("/:courseId", manage, validators.CourseID(), controllers.DeleteCourse)

	// Cohorts
	courseGroup.Post("/:courseId/cohorts", manage, validators.CourseID(), validators.CreateCohort(), controllers.CreateCohort)
	courseGroup.Get("/:courseId/cohorts", validators.CourseID(), controllers.ListCohorts)
	courseGroup.Put("/:courseId/cohorts/:cohortId", manage, validators.CourseID(), validators.CohortID(), validators.UpdateCohort(), controllers.UpdateCohort)
	courseGroup.Delete("/:courseId/cohorts/:cohortId", manage, validators.CourseID(), validators.CohortID(), controllers.DeleteCohort)

	// Groups
	courseGroup.Post("/:courseId/groups", manage, validators.CourseID(), validators.CreateGroup(), controllers.CreateGroup)
	courseGroup.Get("/:courseId/groups", validators.CourseID(), controllers.ListGroups)
	courseGroup.Put("/:courseId/groups/:groupId", manage, validators.CourseID(), validators.GroupID(), validators.UpdateGroup(), controllers.UpdateGroup)
	courseGroup.Patch("/:courseId/groups/:groupId/archive", manage, validators.CourseID(), validators.GroupID(), validators.ArchiveGroup(), controllers.ArchiveGroup)
	courseGroup.Delete("/:courseId/groups/:groupId", manage, validators.CourseID(), validators.GroupID(), controllers.DeleteGroup)

	// Enrollments (admission control)
	courseGroup.Post("/:courseId/enrollments", manage, validators.CourseID(), validators.Enroll(), controllers.EnrollStudents)
	courseGroup.Get("/:courseId/enrollments", validators.CourseID(), validators.EnrollmentList(), controllers.ListEnrollments)
	courseGroup.Put("/:courseId/enrollments/:enrollmentId", manage, validators.CourseID(), validators.EnrollmentID(), validators.UpdateEnrollment(), controllers.UpdateEnrollment)
	courseGroup.Patch("/:courseId/enrollments/:enrollmentId", manage, validators.CourseID(), validators.EnrollmentID(), validators.ReassignCohort(), controllers.ReassignCohort)
	courseGroup.Delete("/:courseId/enrollments/:enrollmentId", manage, validators.CourseID(), validators.EnrollmentID(), controllers.Unenroll)

	// Group memberships (admission control, one entity shallower)
	courseGroup.Post("/:courseId/groups/:groupId/members", manage, validators.CourseID(), validators.GroupID(), validators.AddMembers(), controllers.AddGroupMembers)
	courseGroup.Get("/:courseId/groups/:groupId/members", validators.CourseID(), validators.GroupID(), controllers.ListGroupMembers)
	courseGroup.Patch("/:courseId/groups/:groupId/members/:membershipId", manage, validators.CourseID(), validators.GroupID(), validators.MembershipID(), validators.UpdateMember(), controllers.UpdateGroupMember)
	courseGroup.Delete("/:courseId/groups/:groupId/members/:membershipId", manage, validators.CourseID(), validators.GroupID(), validators.MembershipID(), controllers.RemoveGroupMember)

	// Quizzes
	courseGroup.Post("/:courseId/quizzes", manage, validators.CourseID(), validators.CreateQuiz(), controllers.CreateQuiz)
	courseGroup.Get("/:courseId/quizzes", validators.CourseID(), controllers.ListQuizzes)
	courseGroup.Get("/:courseId/quizzes/:quizId", validators.CourseID(), validators.QuizID(), controllers.GetQuiz)
	courseGroup.Put("/:courseId/quizzes/:quizId", manage, validators.CourseID(), validators.QuizID(), validators.UpdateQuiz(), controllers.UpdateQuiz)
	courseGroup.Delete("/:courseId/quizzes/:quizId", manage, validators.CourseID(), validators.QuizID(), controllers.DeleteQuiz)
}
