package main

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// -----------------------------
// Helper functions
// -----------------------------

func jsonError(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"error": msg})
}

// -----------------------------
// Public: schedule + registration
// -----------------------------

// ListPublicSessions returns the active sessions for the landing page,
// oldest first. Full sessions are included so the page can mark them as
// sold out instead of hiding them.
func ListPublicSessions(c *gin.Context) {
	var sessions []Session
	if err := DB.Where("status = ?", SessionActive).Order("created_at asc").Find(&sessions).Error; err != nil {
		log.Printf("failed to list public sessions: %v", err)
		jsonError(c, http.StatusInternalServerError, "שגיאה בטעינת הסדנאות")
		return
	}
	c.JSON(http.StatusOK, sessions)
}

type RegisterRequest struct {
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Message   string  `json:"message"`
	SessionID *string `json:"session_id"`
}

// CreateRegistration handles the public registration form. With a chosen
// session it claims a seat and inserts the registration atomically; with
// none it records the interest with a null session. A successful
// registration queues the confirmation emails without waiting on them.
func CreateRegistration(c *gin.Context) {
	var body RegisterRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	name := strings.TrimSpace(body.Name)
	email := strings.TrimSpace(body.Email)
	if name == "" || email == "" {
		jsonError(c, http.StatusBadRequest, "נא למלא שם ואימייל")
		return
	}

	sessionID := body.SessionID
	if sessionID != nil && strings.TrimSpace(*sessionID) == "" {
		sessionID = nil
	}

	reg := Registration{
		SessionID: sessionID,
		Name:      name,
		Email:     email,
		Message:   strings.TrimSpace(body.Message),
		Status:    RegistrationPending,
	}

	if err := createRegistration(&reg); err != nil {
		switch {
		case errors.Is(err, ErrSessionFull):
			jsonError(c, http.StatusConflict, "אין יותר מקומות פנויים בסדנה זו")
		case errors.Is(err, ErrSessionNotFound):
			jsonError(c, http.StatusNotFound, "הסדנה לא נמצאה")
		default:
			log.Printf("failed to create registration: %v", err)
			jsonError(c, http.StatusInternalServerError, "שגיאה בשליחת ההרשמה, נסו שוב")
		}
		return
	}

	if notifier != nil {
		notifier.Enqueue(RegistrationNotice{
			Name:        reg.Name,
			Email:       reg.Email,
			Message:     reg.Message,
			SessionInfo: sessionLabel(reg.SessionID),
		})
	}

	c.JSON(http.StatusCreated, reg)
}

// sessionLabel is best-effort display info for the emails; a lookup
// failure just means the email goes out without session details.
func sessionLabel(sessionID *string) string {
	if sessionID == nil {
		return ""
	}
	var s Session
	if err := DB.First(&s, "id = ?", *sessionID).Error; err != nil {
		return ""
	}
	return s.Date + " " + s.Time
}

// -----------------------------
// Admin: session management
// -----------------------------

type CreateSessionRequest struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Location string `json:"location"`
	MaxSeats int    `json:"max_seats"`
}

func CreateSession(c *gin.Context) {
	var body CreateSessionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	date := strings.TrimSpace(body.Date)
	timeStr := strings.TrimSpace(body.Time)
	location := strings.TrimSpace(body.Location)

	if date == "" || timeStr == "" || location == "" {
		jsonError(c, http.StatusBadRequest, "נא למלא את כל השדות")
		return
	}
	if body.MaxSeats < 1 {
		jsonError(c, http.StatusBadRequest, "מספר המקומות חייב להיות לפחות 1")
		return
	}

	session := Session{
		Date:      date,
		Time:      timeStr,
		Location:  location,
		MaxSeats:  body.MaxSeats,
		SeatsLeft: body.MaxSeats, // a new session starts fully available
		Status:    SessionActive,
	}

	if err := DB.Create(&session).Error; err != nil {
		log.Printf("failed to create session: %v", err)
		jsonError(c, http.StatusInternalServerError, "שגיאה בהוספת סדנה")
		return
	}

	c.JSON(http.StatusCreated, session)
}

// ListSessions returns every session for the admin table, newest first.
func ListSessions(c *gin.Context) {
	var sessions []Session
	if err := DB.Order("created_at desc").Find(&sessions).Error; err != nil {
		log.Printf("failed to list sessions: %v", err)
		jsonError(c, http.StatusInternalServerError, "שגיאה בטעינת הסדנאות")
		return
	}
	c.JSON(http.StatusOK, sessions)
}

type UpdateSessionRequest struct {
	Date     *string `json:"date"`
	Time     *string `json:"time"`
	Location *string `json:"location"`
	MaxSeats *int    `json:"max_seats"`
	Status   *string `json:"status"`
}

// UpdateSession applies a partial field set. A capacity change recomputes
// seats_left so already-committed registrations stay counted; status
// toggling is the same endpoint with just the status field.
func UpdateSession(c *gin.Context) {
	id := c.Param("id")

	var session Session
	if err := DB.First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			jsonError(c, http.StatusNotFound, "הסדנה לא נמצאה")
			return
		}
		log.Printf("failed to load session %s: %v", id, err)
		jsonError(c, http.StatusInternalServerError, "שגיאה בעדכון סדנה")
		return
	}

	var body UpdateSessionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	updates := map[string]interface{}{}

	if body.Date != nil {
		if strings.TrimSpace(*body.Date) == "" {
			jsonError(c, http.StatusBadRequest, "נא למלא את כל השדות")
			return
		}
		updates["date"] = strings.TrimSpace(*body.Date)
	}
	if body.Time != nil {
		if strings.TrimSpace(*body.Time) == "" {
			jsonError(c, http.StatusBadRequest, "נא למלא את כל השדות")
			return
		}
		updates["time"] = strings.TrimSpace(*body.Time)
	}
	if body.Location != nil {
		if strings.TrimSpace(*body.Location) == "" {
			jsonError(c, http.StatusBadRequest, "נא למלא את כל השדות")
			return
		}
		updates["location"] = strings.TrimSpace(*body.Location)
	}
	if body.MaxSeats != nil {
		if *body.MaxSeats < 1 {
			jsonError(c, http.StatusBadRequest, "מספר המקומות חייב להיות לפחות 1")
			return
		}
		updates["max_seats"] = *body.MaxSeats
		updates["seats_left"] = recomputeSeatsLeft(session.MaxSeats, session.SeatsLeft, *body.MaxSeats)
	}
	if body.Status != nil {
		if *body.Status != SessionActive && *body.Status != SessionInactive {
			jsonError(c, http.StatusBadRequest, "status must be 'active' or 'inactive'")
			return
		}
		updates["status"] = *body.Status
	}

	if len(updates) == 0 {
		c.JSON(http.StatusOK, session)
		return
	}

	if err := DB.Model(&session).Updates(updates).Error; err != nil {
		log.Printf("failed to update session %s: %v", id, err)
		jsonError(c, http.StatusInternalServerError, "שגיאה בעדכון סדנה")
		return
	}

	if err := DB.First(&session, "id = ?", id).Error; err != nil {
		log.Printf("failed to reload session %s: %v", id, err)
		jsonError(c, http.StatusInternalServerError, "שגיאה בעדכון סדנה")
		return
	}

	c.JSON(http.StatusOK, session)
}

// DeleteSession removes a session and all of its registrations in one
// transaction.
func DeleteSession(c *gin.Context) {
	id := c.Param("id")

	var session Session
	if err := DB.First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			jsonError(c, http.StatusNotFound, "הסדנה לא נמצאה")
			return
		}
		log.Printf("failed to load session %s: %v", id, err)
		jsonError(c, http.StatusInternalServerError, "שגיאה במחיקת סדנה")
		return
	}

	if err := DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", session.ID).Delete(&Registration{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&Session{}, "id = ?", session.ID).Error; err != nil {
			return err
		}
		return nil
	}); err != nil {
		log.Printf("failed to delete session %s: %v", id, err)
		jsonError(c, http.StatusInternalServerError, "שגיאה במחיקת סדנה")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "session deleted"})
}

// -----------------------------
// Admin: registrations
// -----------------------------

func registrationsQuery(c *gin.Context) *gorm.DB {
	query := DB.Preload("Session").Order("created_at desc")
	if sessionID := c.Query("session_id"); sessionID != "" {
		query = query.Where("session_id = ?", sessionID)
	}
	return query
}

// ListRegistrations returns registrations joined with their session's
// date and time, newest first, optionally filtered to one session.
func ListRegistrations(c *gin.Context) {
	var regs []Registration
	if err := registrationsQuery(c).Find(&regs).Error; err != nil {
		log.Printf("failed to list registrations: %v", err)
		jsonError(c, http.StatusInternalServerError, "שגיאה בטעינת ההרשמות")
		return
	}

	if regs == nil {
		regs = []Registration{}
	}
	c.JSON(http.StatusOK, regs)
}

// ExportRegistrations streams the currently filtered registrations as a
// CSV download. The file starts with a UTF-8 BOM so spreadsheet apps
// render the Hebrew headers correctly.
func ExportRegistrations(c *gin.Context) {
	var regs []Registration
	if err := registrationsQuery(c).Find(&regs).Error; err != nil {
		log.Printf("failed to export registrations: %v", err)
		jsonError(c, http.StatusInternalServerError, "שגיאה בייצוא ההרשמות")
		return
	}

	filename := "registrations_" + time.Now().Format("2006-01-02") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buildRegistrationsCSV(regs))
}

// buildRegistrationsCSV renders the export: BOM, fixed Hebrew headers,
// every cell double-quoted.
func buildRegistrationsCSV(regs []Registration) []byte {
	var b strings.Builder
	b.WriteString("\uFEFF")

	writeCSVRow(&b, []string{"שם", "אימייל", "הערות", "סדנה", "תאריך הרשמה", "סטטוס"})

	for _, reg := range regs {
		sessionCell := "לא נבחר"
		if reg.Session != nil {
			sessionCell = reg.Session.Date + " " + reg.Session.Time
		}

		statusCell := reg.Status
		if statusCell == RegistrationPending {
			statusCell = "ממתין"
		}

		writeCSVRow(&b, []string{
			reg.Name,
			reg.Email,
			reg.Message,
			sessionCell,
			reg.CreatedAt.Format("2.1.2006"),
			statusCell,
		})
	}

	return []byte(b.String())
}

func writeCSVRow(b *strings.Builder, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}
