package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/hogwarts/internal/app/controllers"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	facultyController *controllers.FacultyController,
	studentController *controllers.StudentController,
	avatarController *controllers.AvatarController,
	infoController *controllers.InfoController,
) {
	faculties := router.Group("/faculty")
	{
		faculties.POST("", facultyController.CreateFaculty)
		faculties.GET("", facultyController.FindAll)
		faculties.GET("/filter", facultyController.FindByColorOrName)
		faculties.GET("/longest-name", facultyController.GetTheLongestFacultyName)
		faculties.GET("/:id", facultyController.GetFaculty)
		faculties.PUT("/:id", facultyController.UpdateFaculty)
		faculties.DELETE("/:id", facultyController.DeleteFaculty)
		faculties.GET("/:id/students", facultyController.GetFacultyStudents)
	}

	students := router.Group("/student")
	{
		students.POST("", studentController.CreateStudent)
		students.GET("", studentController.FindAll)
		students.GET("/filter", studentController.FindByAgeBetween)

		// Reports
		students.GET("/allStudentsCount", studentController.CountAllStudents)
		students.GET("/avgStudentsAge", studentController.GetAverageAge)
		students.GET("/average-age-of-students", studentController.GetAverageAgeInMemory)
		students.GET("/lastStudents", studentController.GetLastStudents)
		students.GET("/name-starts-with-letter", studentController.FilterByNameStartsWith)
		students.GET("/threads", studentController.PrintNamesParallel)
		students.GET("/sync-threads", studentController.PrintNamesSynchronized)

		students.GET("/:id", studentController.GetStudent)
		students.PUT("/:id", studentController.UpdateStudent)
		students.DELETE("/:id", studentController.DeleteStudent)
		students.GET("/:id/faculty", studentController.GetFacultyForStudent)
		students.PATCH("/:id/avatar", studentController.UploadAvatar)
	}

	avatars := router.Group("/avatar")
	{
		avatars.GET("", avatarController.GetAllAvatars)
		avatars.GET("/:id/avatarFromDb", avatarController.GetFromDB)
		avatars.GET("/:id/avatarFromFile", avatarController.GetFromFile)
		avatars.GET("/:id/preview", avatarController.GetPreview)
	}

	router.GET("/", infoController.CompareSums)
	router.GET("/getPort", infoController.GetPort)
	router.GET("/health", infoController.HealthCheck)
}
