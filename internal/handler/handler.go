// Package handler wires the HTTP API: /api/admin for lecture, student,
// admin and attendance management, /api/student for the student-facing
// reads, /api/auth for login.
package handler

import (
	"context"
	"database/sql"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"classattend/internal/apperr"
	"classattend/internal/attendance"
	"classattend/internal/cloudinary"
	"classattend/internal/identity"
	"classattend/internal/lecture"
	"classattend/internal/queue"
	"classattend/internal/store"
)

var marksTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "classattend_attendance_marks_total",
	Help: "Attendance records marked via the API.",
})

// Handler carries the services the routes dispatch to.
type Handler struct {
	students   *identity.StudentService
	admins     *identity.AdminService
	auth       *identity.AuthService
	lectures   *lecture.Service
	attendance *attendance.Service
	cloud      *cloudinary.Client // nil if Cloudinary not configured
	redis      *store.Redis
	db         *sql.DB
	q          queue.Queue
}

// New creates a handler.
func New(
	students *identity.StudentService,
	admins *identity.AdminService,
	auth *identity.AuthService,
	lectures *lecture.Service,
	att *attendance.Service,
	cloud *cloudinary.Client,
	redis *store.Redis,
	db *sql.DB,
	q queue.Queue,
) *Handler {
	return &Handler{
		students:   students,
		admins:     admins,
		auth:       auth,
		lectures:   lectures,
		attendance: att,
		cloud:      cloud,
		redis:      redis,
		db:         db,
		q:          q,
	}
}

// Register mounts all routes on the engine.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/healthz", h.Healthz)

	r.POST("/api/auth/login", h.Login)

	admin := r.Group("/api/admin")
	{
		admin.POST("/lectures", h.CreateLecture)
		admin.GET("/lectures", h.ListLectures)
		admin.PUT("/lectures/:id", h.UpdateLecture)
		admin.DELETE("/lectures/:id", h.DeleteLecture)
		admin.GET("/lectures/:id/attendance", h.ListAttendance)
		admin.GET("/lectures/:id/attendance-stats", h.LectureStats)
		admin.GET("/lectures/:id/attendance-live", h.LiveCounts)
		admin.POST("/attendance", h.MarkAttendance)

		admin.GET("/students", h.ListStudents)
		admin.POST("/students", h.CreateStudent)
		admin.GET("/students/:id", h.GetStudent)
		admin.PUT("/students/:id", h.UpdateStudent)
		admin.DELETE("/students/:id", h.DeleteStudent)

		admin.GET("/admins", h.ListAdmins)
		admin.POST("/admins", h.CreateAdmin)
		admin.GET("/admins/:id", h.GetAdmin)
		admin.PUT("/admins/:id", h.UpdateAdmin)
		admin.DELETE("/admins/:id", h.DeleteAdmin)
	}

	student := r.Group("/api/student")
	{
		student.GET("/lectures/upcoming", h.UpcomingLectures)
		student.GET("/:id/attendance-stats", h.StudentStats)
	}
}

// ---------- Health ----------

// Healthz reports db and redis connectivity.
func (h *Handler) Healthz(c *gin.Context) {
	redisHealthy := h.redis.Healthy(c.Request.Context())
	dbHealthy := h.db != nil && h.db.PingContext(c.Request.Context()) == nil
	status := http.StatusOK
	if !redisHealthy || !dbHealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy, "db": dbHealthy})
}

// ---------- Auth ----------

// Login checks credentials for an admin or a student.
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		UserType string `json:"user_type" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.auth.Authenticate(c.Request.Context(), req.UserType, req.Email, req.Password)
	if err != nil {
		respondErr(c, err)
		return
	}
	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnauthorized
	}
	c.JSON(status, result)
}

// ---------- Lectures ----------

type lectureRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	DateTime    time.Time `json:"date_time" binding:"required"`
}

func (h *Handler) CreateLecture(c *gin.Context) {
	var req lectureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lec, err := h.lectures.Create(c.Request.Context(), lecture.Params{
		Title: req.Title, Description: req.Description, DateTime: req.DateTime,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, lec)
}

func (h *Handler) ListLectures(c *gin.Context) {
	lecs, err := h.lectures.ListAll(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lectures": lecs})
}

func (h *Handler) UpcomingLectures(c *gin.Context) {
	lecs, err := h.lectures.ListUpcoming(c.Request.Context(), time.Now().UTC())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lectures": lecs})
}

func (h *Handler) UpdateLecture(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req lectureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lec, err := h.lectures.Update(c.Request.Context(), id, lecture.Params{
		Title: req.Title, Description: req.Description, DateTime: req.DateTime,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, lec)
}

func (h *Handler) DeleteLecture(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.lectures.Delete(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	if err := h.redis.DeleteLiveCounts(c.Request.Context(), id); err != nil {
		log.Printf("drop live counts for lecture %d failed: %v", id, err)
	}
	c.Status(http.StatusOK)
}

// ---------- Attendance ----------

func (h *Handler) MarkAttendance(c *gin.Context) {
	var req struct {
		StudentID int64 `json:"student_id" binding:"required"`
		LectureID int64 `json:"lecture_id" binding:"required"`
		Present   *bool `json:"present" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, err := h.attendance.Mark(c.Request.Context(), req.StudentID, req.LectureID, *req.Present)
	if err != nil {
		respondErr(c, err)
		return
	}
	marksTotal.Inc()
	h.publishMarked(c.Request.Context(), req.LectureID)
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) ListAttendance(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	recs, err := h.attendance.ListForLecture(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attendance": recs})
}

func (h *Handler) LectureStats(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	stats, err := h.attendance.LectureStats(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) StudentStats(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	stats, err := h.attendance.StudentStats(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// LiveCounts returns the worker-maintained tally for dashboards. It reads
// redis, not the ledger.
func (h *Handler) LiveCounts(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	counts, err := h.redis.GetLiveCounts(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "live counts unavailable"})
		return
	}
	c.JSON(http.StatusOK, counts)
}

// publishMarked hands the marked lecture to the worker. Publish failures
// only cost the live tally, so they are logged and swallowed.
func (h *Handler) publishMarked(ctx context.Context, lectureID int64) {
	msg, err := queue.MarkedMessage(lectureID)
	if err == nil {
		err = h.q.Publish(ctx, msg)
	}
	if err != nil {
		log.Printf("queue publish failed: %v", err)
	}
}

// ---------- Students ----------

type studentRequest struct {
	Name     string `form:"name" json:"name" binding:"required"`
	Email    string `form:"email" json:"email" binding:"required,email"`
	RollNo   string `form:"roll_no" json:"roll_no" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

func (h *Handler) ListStudents(c *gin.Context) {
	students, err := h.students.List(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"students": students})
}

func (h *Handler) CreateStudent(c *gin.Context) {
	var req studentRequest
	if err := bindJSONOrForm(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st, err := h.students.Create(c.Request.Context(), identity.StudentParams{
		Name: req.Name, Email: req.Email, RollNo: req.RollNo, Password: req.Password,
	}, h.uploadPhoto(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

func (h *Handler) GetStudent(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	st, err := h.students.FindByID(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) UpdateStudent(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req studentRequest
	if err := bindJSONOrForm(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st, err := h.students.Update(c.Request.Context(), id, identity.StudentParams{
		Name: req.Name, Email: req.Email, RollNo: req.RollNo, Password: req.Password,
	}, h.uploadPhoto(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) DeleteStudent(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.students.Delete(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// ---------- Admins ----------

type adminRequest struct {
	Name     string `form:"name" json:"name" binding:"required"`
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required"`
}

func (h *Handler) ListAdmins(c *gin.Context) {
	admins, err := h.admins.List(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"admins": admins})
}

func (h *Handler) CreateAdmin(c *gin.Context) {
	var req adminRequest
	if err := bindJSONOrForm(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, err := h.admins.Create(c.Request.Context(), identity.AdminParams{
		Name: req.Name, Email: req.Email, Password: req.Password,
	}, h.uploadPhoto(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *Handler) GetAdmin(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	a, err := h.admins.FindByID(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) UpdateAdmin(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req adminRequest
	if err := bindJSONOrForm(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, err := h.admins.Update(c.Request.Context(), id, identity.AdminParams{
		Name: req.Name, Email: req.Email, Password: req.Password,
	}, h.uploadPhoto(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) DeleteAdmin(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.admins.Delete(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// ---------- helpers ----------

// uploadPhoto uploads the optional multipart "photo" field and returns its
// secure URL. Any failure is logged and downgraded to "" so the enclosing
// create/update proceeds without an image.
func (h *Handler) uploadPhoto(c *gin.Context) string {
	if !strings.Contains(c.ContentType(), "multipart/form-data") {
		return ""
	}
	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		return ""
	}
	defer file.Close()

	if h.cloud == nil {
		log.Printf("photo supplied but image storage not configured, skipping")
		return ""
	}
	data, err := io.ReadAll(file)
	if err != nil {
		log.Printf("read photo failed: %v", err)
		return ""
	}
	url, err := h.cloud.UploadAndGetURL(data, header.Filename)
	if err != nil {
		log.Printf("photo upload failed: %v", err)
		return ""
	}
	return url
}

// bindJSONOrForm accepts either a JSON body or a multipart/urlencoded
// form on the same endpoint.
func bindJSONOrForm(c *gin.Context, obj any) error {
	if strings.Contains(c.ContentType(), "application/json") {
		return c.ShouldBindJSON(obj)
	}
	return c.ShouldBind(obj)
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func respondErr(c *gin.Context, err error) {
	switch {
	case apperr.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperr.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
