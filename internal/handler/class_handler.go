package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/classhub/examly-backend/internal/middleware"
	"github.com/classhub/examly-backend/internal/model"
	"github.com/classhub/examly-backend/internal/response"
	"github.com/classhub/examly-backend/internal/service"
	"github.com/classhub/examly-backend/internal/validator"
)

// ClassHandler handles class and roster endpoints.
type ClassHandler struct {
	classService *service.ClassService
}

// NewClassHandler creates a new ClassHandler.
func NewClassHandler(classService *service.ClassService) *ClassHandler {
	return &ClassHandler{classService: classService}
}

// Create godoc
// POST /api/v1/teacher/classes
func (h *ClassHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.CreateClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	class, err := h.classService.Create(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"class": class})
}

// List godoc
// GET /api/v1/classes
// Teachers see the classes they own, students the classes they enrolled in.
func (h *ClassHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)

	classes, err := h.classService.ListForUser(c.Request.Context(), claims.UserID, claims.Role)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if classes == nil {
		classes = []model.Class{}
	}

	response.Success(c, http.StatusOK, gin.H{"classes": classes})
}

// Enroll godoc
// POST /api/v1/teacher/classes/:class_id/students
func (h *ClassHandler) Enroll(c *gin.Context) {
	claims := middleware.GetClaims(c)

	classID, err := strconv.Atoi(c.Param("class_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.EnrollRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.classService.Enroll(c.Request.Context(), classID, claims.UserID, &req); err != nil {
		failClassError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// Unenroll godoc
// DELETE /api/v1/teacher/classes/:class_id/students/:student_id
func (h *ClassHandler) Unenroll(c *gin.Context) {
	claims := middleware.GetClaims(c)

	classID, err := strconv.Atoi(c.Param("class_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	studentID, err := strconv.Atoi(c.Param("student_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.classService.Unenroll(c.Request.Context(), classID, claims.UserID, studentID); err != nil {
		failClassError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// ListStudents godoc
// GET /api/v1/teacher/classes/:class_id/students
func (h *ClassHandler) ListStudents(c *gin.Context) {
	claims := middleware.GetClaims(c)

	classID, err := strconv.Atoi(c.Param("class_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	students, err := h.classService.ListStudents(c.Request.Context(), classID, claims.UserID)
	if err != nil {
		failClassError(c, err)
		return
	}
	if students == nil {
		students = []model.User{}
	}

	response.Success(c, http.StatusOK, gin.H{"students": students})
}

func failClassError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrClassNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNotClassOwner):
		response.Fail(c, http.StatusForbidden, response.ErrNotClassOwner)
	case errors.Is(err, service.ErrStudentNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNotAStudent):
		response.Fail(c, http.StatusConflict, response.ErrConflict)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
