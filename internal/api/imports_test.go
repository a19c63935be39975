package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"whatsapp-crm/internal/contacts"
	"whatsapp-crm/internal/database"
	"whatsapp-crm/internal/models"
)

func setupImportRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Contact{}, &models.ImportLog{}))
	database.DB = db

	store := contacts.NewGormStore(db)
	handler := NewImportHandler(contacts.NewImporter(store), nil)

	r := gin.New()
	r.POST("/api/contacts/import", handler.ImportContacts)
	r.GET("/api/contacts/import/logs", handler.GetImportLogs)
	return r
}

func multipartCSV(t *testing.T, csvText, mode, tags string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "contacts.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csvText))
	require.NoError(t, err)
	require.NoError(t, w.WriteField("mode", mode))
	if tags != "" {
		require.NoError(t, w.WriteField("tags", tags))
	}
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func TestImportEndpoint(t *testing.T) {
	r := setupImportRouter(t)

	body, contentType := multipartCSV(t,
		"phone,name,email,tags\n+919876543210,John Doe,john@example.com,\"customer,vip\"\n9876543211,Jane Smith,jane@example.com,lead\n",
		"skip", "")
	req := httptest.NewRequest(http.MethodPost, "/api/contacts/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result contacts.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Failed)

	var count int64
	database.DB.Model(&models.Contact{}).Where("org_id = ?", "default").Count(&count)
	assert.EqualValues(t, 2, count)

	// audit log row is written
	logsReq := httptest.NewRequest(http.MethodGet, "/api/contacts/import/logs", nil)
	logsRec := httptest.NewRecorder()
	r.ServeHTTP(logsRec, logsReq)
	require.Equal(t, http.StatusOK, logsRec.Code)
	var logs []models.ImportLog
	require.NoError(t, json.Unmarshal(logsRec.Body.Bytes(), &logs))
	require.Len(t, logs, 1)
	assert.Equal(t, 2, logs[0].Created)
	assert.Equal(t, "contacts.csv", logs[0].Filename)
}

func TestImportEndpointRejectsMissingFile(t *testing.T) {
	r := setupImportRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/contacts/import", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportEndpointRejectsOversizedFile(t *testing.T) {
	r := setupImportRouter(t)

	oversized := "phone\n" + strings.Repeat("a", contacts.MaxFileSize)
	body, contentType := multipartCSV(t, oversized, "skip", "")
	req := httptest.NewRequest(http.MethodPost, "/api/contacts/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "5 MB limit")
}

func TestImportEndpointRejectsMissingPhoneColumn(t *testing.T) {
	r := setupImportRouter(t)

	body, contentType := multipartCSV(t, "name,email\nAlice,a@b.co\n", "skip", "")
	req := httptest.NewRequest(http.MethodPost, "/api/contacts/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no phone column")
}
