// internal/handlers/attendance/attendance_handler.go
package attendance

import (
	"net/http"
	"strconv"

	"kilofit-service/internal/domain/attendance"
	"kilofit-service/internal/pkg/response"
	service "kilofit-service/internal/service/attendance"

	"github.com/gin-gonic/gin"
)

type AttendanceHandler struct {
	attendanceService *service.AttendanceService
}

func NewAttendanceHandler(attendanceService *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

// CheckIn records a gym visit.
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	var req attendance.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.attendanceService.CheckIn(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "failed to record check-in", err)
		return
	}

	response.Success(c, http.StatusCreated, "check-in recorded", result)
}

// ListByClient retrieves a client's attendance history.
func (h *AttendanceHandler) ListByClient(c *gin.Context) {
	clientID, err := strconv.ParseInt(c.Param("clientId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid client ID", err)
		return
	}

	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("page_size"))

	attendances, total, err := h.attendanceService.ListByClient(c.Request.Context(), clientID, page, pageSize)
	if err != nil {
		response.FromError(c, "failed to list attendance", err)
		return
	}

	response.Success(c, http.StatusOK, "attendance retrieved", gin.H{
		"attendances": attendances,
		"total":       total,
	})
}
