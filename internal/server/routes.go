package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stargate-press/stargate/internal/job"
	"github.com/stargate-press/stargate/internal/notify"
	"github.com/stargate-press/stargate/internal/planning"
	"github.com/stargate-press/stargate/internal/prepress"
	"github.com/stargate-press/stargate/internal/qc"
	"github.com/stargate-press/stargate/internal/status"
	"github.com/stargate-press/stargate/internal/workflow"
	"gorm.io/gorm"
)

// registerRoutes sets up all API routes on the Gin router.
func registerRoutes(router *gin.Engine, db *gorm.DB, notifier *notify.Notifier, dedup *Deduper) {
	router.GET("/healthz", handleHealth(db))

	api := router.Group("/api")
	{
		api.POST("/update-job-status", handleUpdateStatus(db, notifier))
		api.POST("/save-sales-data", handleSaveSales(db))
		api.POST("/save-planning-data", handleSavePlanning(db))
		api.POST("/save-prepress-data", handleSavePrepress(db, dedup))
		api.POST("/save-qc-data", handleSaveQC(db))

		api.GET("/all-jobs", handleAllJobs(db))
		api.GET("/jobs/:jobNumber", handleJobDetail(db))
		api.GET("/planning-data/:jobNumber", handlePlanningDetail(db))
		api.GET("/prepress-data/:jobNumber", handlePrepressDetail(db))
		api.GET("/qc-data/:jobNumber", handleQCDetail(db))
		api.GET("/job-status-history/:jobNumber", handleHistory(db))
		api.GET("/customers", handleCustomers(db))
		api.GET("/get-user-id", handleUserLookup(db))
		api.GET("/statuses", handleStatuses())
		api.GET("/events", handleSSE(db))

		api.DELETE("/jobs/:jobNumber", handleDeleteJob(db))
	}
}

// fail writes the uniform error envelope, mapping workflow sentinels to
// HTTP codes.
func fail(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	msg := "Internal server error"
	switch {
	case errors.Is(err, workflow.ErrNotFound):
		code = http.StatusNotFound
		msg = err.Error()
	case errors.Is(err, workflow.ErrValidation),
		errors.Is(err, workflow.ErrTerminalState),
		errors.Is(err, workflow.ErrCapacity):
		code = http.StatusBadRequest
		msg = err.Error()
	}
	c.JSON(code, gin.H{"success": false, "message": msg})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": msg})
}

func handleHealth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

type updateStatusPayload struct {
	JobNumber string `json:"jobNumber"`
	NewStatus string `json:"newStatus"`
	HandlerID *uint  `json:"handler_id"`
	Role      string `json:"role"`
	Notes     string `json:"notes"`
}

func handleUpdateStatus(db *gorm.DB, notifier *notify.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var p updateStatusPayload
		if err := c.ShouldBindJSON(&p); err != nil {
			badRequest(c, "Invalid request body")
			return
		}
		if p.JobNumber == "" || p.NewStatus == "" {
			badRequest(c, "Job number and status are required")
			return
		}

		if _, err := workflow.Apply(db, workflow.Request{
			JobNumber: p.JobNumber,
			Status:    p.NewStatus,
			ActorID:   p.HandlerID,
			ActorRole: status.Role(p.Role),
			Note:      p.Notes,
		}); err != nil {
			fail(c, err)
			return
		}

		notifyStatusChange(c, db, notifier, p.JobNumber, p.NewStatus)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Status updated successfully"})
	}
}

// notifyStatusChange posts the committed transition to chat. Best
// effort; a lookup or delivery failure never affects the response.
func notifyStatusChange(c *gin.Context, db *gorm.DB, notifier *notify.Notifier, jobNumber, newStatus string) {
	if notifier == nil {
		return
	}
	ch := notify.StatusChange{JobNumber: jobNumber, Status: newStatus, At: time.Now()}
	if j, err := job.Get(db, jobNumber); err == nil {
		ch.Customer = j.Customer.CustomerName
	}
	notifier.StatusChanged(c.Request.Context(), ch)
}

type salesPayload struct {
	JobNumber    string   `json:"job_number"`
	CustomerName string   `json:"customer_name"`
	CustomerCode string   `json:"customer_code"`
	Salesman     string   `json:"salesman"`
	EntryDate    string   `json:"entry_date"`
	JobName      string   `json:"job_name"`
	Quantity     *float64 `json:"quantity"`
	QuantityUnit string   `json:"quantity_unit"`
	ProductType  string   `json:"product_type"`

	Width  *float64 `json:"width"`
	Height *float64 `json:"height"`
	Gusset *float64 `json:"gusset"`
	Flap   *float64 `json:"flap"`

	PressType          string `json:"press_type"`
	PrintOrientation   string `json:"print_orientation"`
	UnwindingDirection string `json:"unwinding_direction"`

	TwoFaces      bool `json:"two_faces"`
	SideGusset    bool `json:"side_gusset"`
	BottomGusset  bool `json:"bottom_gusset"`
	HoleHandle    bool `json:"hole_handle"`
	StripHandle   bool `json:"strip_handle"`
	FlipDirection bool `json:"flip_direction"`

	FinancialApproval bool   `json:"financial_approval"`
	TechnicalApproval bool   `json:"technical_approval"`
	OnHold            bool   `json:"on_hold"`
	Comments          string `json:"comments"`

	Plies []job.Ply `json:"plies"`
}

func handleSaveSales(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var p salesPayload
		if err := c.ShouldBindJSON(&p); err != nil {
			badRequest(c, "Invalid request body")
			return
		}
		if p.CustomerName == "" {
			badRequest(c, "Customer name is required")
			return
		}

		var entryDate time.Time
		if p.EntryDate != "" {
			var err error
			entryDate, err = time.Parse("2006-01-02", p.EntryDate)
			if err != nil {
				badRequest(c, "Invalid entry date")
				return
			}
		}

		res, err := job.Save(db, job.SaveOpts{
			JobNumber:          p.JobNumber,
			CustomerName:       p.CustomerName,
			CustomerCode:       p.CustomerCode,
			Salesman:           p.Salesman,
			EntryDate:          entryDate,
			JobName:            p.JobName,
			Quantity:           p.Quantity,
			QuantityUnit:       p.QuantityUnit,
			ProductType:        p.ProductType,
			Width:              p.Width,
			Height:             p.Height,
			Gusset:             p.Gusset,
			Flap:               p.Flap,
			PressType:          p.PressType,
			PrintOrientation:   p.PrintOrientation,
			UnwindingDirection: p.UnwindingDirection,
			TwoFaces:           p.TwoFaces,
			SideGusset:         p.SideGusset,
			BottomGusset:       p.BottomGusset,
			HoleHandle:         p.HoleHandle,
			StripHandle:        p.StripHandle,
			FlipDirection:      p.FlipDirection,
			FinancialApproval:  p.FinancialApproval,
			TechnicalApproval:  p.TechnicalApproval,
			OnHold:             p.OnHold,
			Comments:           p.Comments,
			Plies:              p.Plies,
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"jobNumber": res.JobNumber,
			"created":   res.Created,
		})
	}
}

type planningPayload struct {
	JobNumber       string `json:"job_number"`
	Machine         string `json:"machine"`
	HorizontalCount *int   `json:"horizontal_count"`
	VerticalCount   *int   `json:"vertical_count"`
	FlipDirection   bool   `json:"flip_direction"`
	AddLines        bool   `json:"add_lines"`
	NewMachine      bool   `json:"new_machine"`
	AddStagger      bool   `json:"add_stagger"`
	Comments        string `json:"comments"`
	HandlerID       *uint  `json:"handler_id"`
}

func handleSavePlanning(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var p planningPayload
		if err := c.ShouldBindJSON(&p); err != nil {
			badRequest(c, "Invalid request body")
			return
		}
		if err := planning.Save(db, planning.SaveOpts{
			JobNumber:       p.JobNumber,
			Machine:         p.Machine,
			HorizontalCount: p.HorizontalCount,
			VerticalCount:   p.VerticalCount,
			FlipDirection:   p.FlipDirection,
			AddLines:        p.AddLines,
			NewMachine:      p.NewMachine,
			AddStagger:      p.AddStagger,
			Comments:        p.Comments,
			HandlerID:       p.HandlerID,
		}); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Planning data saved successfully"})
	}
}

type prepressPayload struct {
	RequestID         string           `json:"request_id"`
	JobNumber         string           `json:"job_number"`
	Supplier          string           `json:"supplier"`
	ScSentToQC        bool             `json:"sc_sent_to_qc"`
	WorkingOnCromalin bool             `json:"working_on_cromalin"`
	CromalinQCCheck   bool             `json:"cromalin_qc_check"`
	CromalinReady     bool             `json:"cromalin_ready"`
	WorkingOnRepro    bool             `json:"working_on_repro"`
	PlatesReceived    bool             `json:"plates_received"`
	Comments          string           `json:"comments"`
	ScImageURL        string           `json:"sc_image_url"`
	HandlerID         *uint            `json:"handler_id"`
	Colors            []prepress.Color `json:"colors"`
}

func handleSavePrepress(db *gorm.DB, dedup *Deduper) gin.HandlerFunc {
	return func(c *gin.Context) {
		var p prepressPayload
		if err := c.ShouldBindJSON(&p); err != nil {
			badRequest(c, "Invalid request body")
			return
		}
		if p.JobNumber == "" {
			badRequest(c, "Job number is required")
			return
		}
		if dedup.Seen(p.RequestID) {
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Duplicate request ignored"})
			return
		}
		if err := prepress.Save(db, prepress.SaveOpts{
			JobNumber:         p.JobNumber,
			Supplier:          p.Supplier,
			ScSentToQC:        p.ScSentToQC,
			WorkingOnCromalin: p.WorkingOnCromalin,
			CromalinQCCheck:   p.CromalinQCCheck,
			CromalinReady:     p.CromalinReady,
			WorkingOnRepro:    p.WorkingOnRepro,
			PlatesReceived:    p.PlatesReceived,
			Comments:          p.Comments,
			ScImageURL:        p.ScImageURL,
			HandlerID:         p.HandlerID,
			Colors:            p.Colors,
		}); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Prepress data saved successfully"})
	}
}

type qcPayload struct {
	JobNumber       string `json:"job_number"`
	ScChecked       bool   `json:"sc_checked"`
	CromalinChecked bool   `json:"cromalin_checked"`
	PlatesReceived  bool   `json:"plates_received"`
	PlatesChecked   bool   `json:"plates_checked"`
	Comments        string `json:"comments"`
	HandlerID       *uint  `json:"handler_id"`
}

func handleSaveQC(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var p qcPayload
		if err := c.ShouldBindJSON(&p); err != nil {
			badRequest(c, "Invalid request body")
			return
		}
		if err := qc.Save(db, qc.SaveOpts{
			JobNumber:       p.JobNumber,
			ScChecked:       p.ScChecked,
			CromalinChecked: p.CromalinChecked,
			PlatesReceived:  p.PlatesReceived,
			PlatesChecked:   p.PlatesChecked,
			Comments:        p.Comments,
			HandlerID:       p.HandlerID,
		}); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "QC data saved successfully"})
	}
}

func handleAllJobs(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := job.List(db, job.Filters{
			Search: c.Query("search"),
			Status: c.Query("status"),
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "jobs": rows})
	}
}

func handleJobDetail(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		j, err := job.Get(db, c.Param("jobNumber"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "job": j})
	}
}

func handlePlanningDetail(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := planning.Get(db, c.Param("jobNumber"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "planningData": d})
	}
}

func handlePrepressDetail(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := prepress.Get(db, c.Param("jobNumber"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "prepressData": d})
	}
}

func handleQCDetail(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := qc.Get(db, c.Param("jobNumber"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "qcData": d})
	}
}

func handleHistory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := workflow.GetHistory(db, c.Param("jobNumber"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "history": entries})
	}
}

func handleCustomers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		customers, err := job.ListCustomers(db)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "customers": customers})
	}
}

func handleUserLookup(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.Query("username")
		if username == "" {
			badRequest(c, "Username is required")
			return
		}
		u, err := job.LookupUser(db, username)
		if err != nil {
			fail(c, err)
			return
		}
		// Unknown usernames are anonymous, not an error; the forms
		// fall back to blank handler fields.
		if u == nil {
			c.JSON(http.StatusOK, gin.H{"success": true, "userId": nil, "fullName": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"userId":   u.ID,
			"fullName": u.FullName,
			"role":     u.Role,
		})
	}
}

func handleStatuses() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "statuses": job.Statuses()})
	}
}

func handleDeleteJob(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := workflow.DeleteJob(db, c.Param("jobNumber")); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Job deleted successfully"})
	}
}
