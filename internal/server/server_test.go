package server

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stargate-press/stargate/internal/db"
	"github.com/stargate-press/stargate/internal/models"
	"github.com/stargate-press/stargate/internal/notify"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB, *notify.MockAdapter) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(gdb); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	if err := db.SeedStatusTypes(gdb); err != nil {
		t.Fatalf("seed status types: %v", err)
	}

	mock := notify.NewMockAdapter()
	dedup := NewDeduper(time.Second)
	t.Cleanup(dedup.Stop)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	registerRoutes(router, gdb, notify.New(mock, "C012ABC"), dedup)
	return router, gdb, mock
}

func seedJob(t *testing.T, gdb *gorm.DB, jobNumber string) {
	t.Helper()
	customer := models.Customer{CustomerName: "Acme Foods", CustomerCode: "ACM"}
	if err := gdb.Where(&customer).FirstOrCreate(&customer).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	if err := gdb.Create(&models.Job{
		JobNumber: jobNumber, CustomerID: customer.ID, JobName: "Rice Bag 5kg",
	}).Error; err != nil {
		t.Fatalf("seed job: %v", err)
	}
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	router, _, _ := newTestRouter(t)
	w := doJSON(t, router, http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestUpdateJobStatus(t *testing.T) {
	router, gdb, mock := newTestRouter(t)
	seedJob(t, gdb, "B30701")

	w := doJSON(t, router, http.MethodPost, "/api/update-job-status", gin.H{
		"jobNumber": "B30701",
		"newStatus": "Financially Approved",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var job models.Job
	gdb.Where("job_number = ?", "B30701").First(&job)
	if !job.FinancialApproval {
		t.Error("financial_approval not set")
	}

	sent := mock.Sent()
	if len(sent) != 1 {
		t.Fatalf("notifications = %d, want 1", len(sent))
	}
	if sent[0].Events[0].Title != "Job B30701 — Financially Approved" {
		t.Errorf("notification title = %q", sent[0].Events[0].Title)
	}
}

func TestUpdateJobStatus_MissingFields(t *testing.T) {
	router, _, _ := newTestRouter(t)
	w := doJSON(t, router, http.MethodPost, "/api/update-job-status", gin.H{"jobNumber": "B30701"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestUpdateJobStatus_UnknownJob(t *testing.T) {
	router, _, _ := newTestRouter(t)
	w := doJSON(t, router, http.MethodPost, "/api/update-job-status", gin.H{
		"jobNumber": "B39999",
		"newStatus": "On Hold",
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestUpdateJobStatus_TerminalJob(t *testing.T) {
	router, gdb, mock := newTestRouter(t)
	seedJob(t, gdb, "B30701")
	gdb.Model(&models.Job{}).Where("job_number = ?", "B30701").
		Update("plates_checked", true)

	w := doJSON(t, router, http.MethodPost, "/api/update-job-status", gin.H{
		"jobNumber": "B30701",
		"newStatus": "On Hold",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Ready for Press") {
		t.Errorf("body = %s, want terminal message", w.Body.String())
	}
	if len(mock.Sent()) != 0 {
		t.Error("rejected transition must not notify")
	}
}

func TestSaveSalesData_CreatesJob(t *testing.T) {
	router, gdb, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/save-sales-data", gin.H{
		"customer_name": "Acme Foods",
		"customer_code": "ACM",
		"job_name":      "Rice Bag 5kg",
		"entry_date":    "2025-03-07",
		"press_type":    "Central Drum",
		"plies": []gin.H{
			{"material": "PET", "finish": "Matte"},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success   bool   `json:"success"`
		JobNumber string `json:"jobNumber"`
		Created   bool   `json:"created"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || !resp.Created {
		t.Errorf("resp = %+v", resp)
	}
	if resp.JobNumber != "B30701" {
		t.Errorf("jobNumber = %q, want B30701", resp.JobNumber)
	}

	var count int64
	gdb.Model(&models.JobPly{}).Where("job_number = ?", resp.JobNumber).Count(&count)
	if count != 1 {
		t.Errorf("plies = %d, want 1", count)
	}
}

func TestSaveSalesData_BadEntryDate(t *testing.T) {
	router, _, _ := newTestRouter(t)
	w := doJSON(t, router, http.MethodPost, "/api/save-sales-data", gin.H{
		"customer_name": "Acme Foods",
		"entry_date":    "07/03/2025",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSavePrepressData_Dedup(t *testing.T) {
	router, gdb, _ := newTestRouter(t)
	seedJob(t, gdb, "B30701")

	payload := gin.H{
		"request_id": "req-1",
		"job_number": "B30701",
		"supplier":   "PlateCo",
		"colors": []gin.H{
			{"name": "Cyan", "code": "#00ffff"},
		},
	}

	w := doJSON(t, router, http.MethodPost, "/api/save-prepress-data", payload)
	if w.Code != http.StatusOK {
		t.Fatalf("first save: %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/api/save-prepress-data", payload)
	if w.Code != http.StatusOK {
		t.Fatalf("duplicate save: %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Duplicate request ignored") {
		t.Errorf("body = %s, want duplicate ack", w.Body.String())
	}

	// Only the first submission reached the database.
	var count int64
	gdb.Model(&models.JobStatusHistory{}).Where("job_number = ?", "B30701").Count(&count)
	if count != 1 {
		t.Errorf("history rows = %d, want 1", count)
	}
}

func TestSaveQCData(t *testing.T) {
	router, gdb, _ := newTestRouter(t)
	seedJob(t, gdb, "B30701")

	w := doJSON(t, router, http.MethodPost, "/api/save-qc-data", gin.H{
		"job_number": "B30701",
		"sc_checked": true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var job models.Job
	gdb.Where("job_number = ?", "B30701").First(&job)
	if !job.ScChecked {
		t.Error("sc_checked not mirrored onto job")
	}
}

func TestAllJobs_DerivedStatus(t *testing.T) {
	router, gdb, _ := newTestRouter(t)
	seedJob(t, gdb, "B30701")
	gdb.Model(&models.Job{}).Where("job_number = ?", "B30701").
		Update("financial_approval", true)

	w := doJSON(t, router, http.MethodGet, "/api/all-jobs", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Jobs []struct {
			JobNumber string `json:"job_number"`
			Status    string `json:"status"`
		} `json:"jobs"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Jobs) != 1 {
		t.Fatalf("jobs = %d, want 1", len(resp.Jobs))
	}
	if resp.Jobs[0].Status != "Financially Approved" {
		t.Errorf("status = %q, want Financially Approved", resp.Jobs[0].Status)
	}
}

func TestJobDetail_NotFound(t *testing.T) {
	router, _, _ := newTestRouter(t)
	w := doJSON(t, router, http.MethodGet, "/api/jobs/B39999", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDeleteJob(t *testing.T) {
	router, gdb, _ := newTestRouter(t)
	seedJob(t, gdb, "B30701")

	w := doJSON(t, router, http.MethodDelete, "/api/jobs/B30701", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodDelete, "/api/jobs/B30701", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete: %d, want 404", w.Code)
	}
}

func TestUserLookup(t *testing.T) {
	router, gdb, _ := newTestRouter(t)
	if err := gdb.Create(&models.User{Username: "dana", FullName: "Dana K", Role: "qc"}).Error; err != nil {
		t.Fatal(err)
	}

	w := doJSON(t, router, http.MethodGet, "/api/get-user-id?username=dana", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"role":"qc"`) {
		t.Errorf("body = %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"fullName":"Dana K"`) {
		t.Errorf("body = %s, want fullName", w.Body.String())
	}
}

func TestUserLookup_UnknownIsAnonymous(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/get-user-id?username=ghost", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("missing user: %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"userId":null`) ||
		!strings.Contains(w.Body.String(), `"fullName":null`) {
		t.Errorf("body = %s, want null userId and fullName", w.Body.String())
	}
}

func TestHistoryEndpoint(t *testing.T) {
	router, gdb, _ := newTestRouter(t)
	seedJob(t, gdb, "B30701")

	doJSON(t, router, http.MethodPost, "/api/update-job-status", gin.H{
		"jobNumber": "B30701", "newStatus": "On Hold",
	})

	w := doJSON(t, router, http.MethodGet, "/api/job-status-history/B30701", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "On Hold") {
		t.Errorf("body = %s, want On Hold entry", w.Body.String())
	}
}

func TestSSE_SendsConnectedEvent(t *testing.T) {
	router, _, _ := newTestRouter(t)
	srv := httptest.NewServer(router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/events")
	if err != nil {
		t.Fatalf("get events: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(line, "event: connected") {
		t.Errorf("first line = %q, want connected event", line)
	}
}

func TestFetchNewHistory_LogsPollFailure(t *testing.T) {
	_, gdb, _ := newTestRouter(t)
	if err := gdb.Migrator().DropTable(&models.JobStatusHistory{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(prev) })

	if rows := fetchNewHistory(gdb, 0); rows != nil {
		t.Errorf("rows = %v, want nil on query failure", rows)
	}
	if !strings.Contains(buf.String(), "poll history") {
		t.Errorf("log = %q, want poll failure entry", buf.String())
	}
}
