package api

import (
	"io"
	"log"
	"net/http"

	"whatsapp-crm/internal/contacts"
	"whatsapp-crm/internal/database"
	"whatsapp-crm/internal/models"
	"whatsapp-crm/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ImportHandler struct {
	Importer *contacts.Importer
	Hub      *ws.Hub
}

func NewImportHandler(importer *contacts.Importer, hub *ws.Hub) *ImportHandler {
	return &ImportHandler{Importer: importer, Hub: hub}
}

// ImportContacts handles POST /api/contacts/import. The multipart form
// carries the CSV under "file", plus "mode" (skip|update) and optional
// comma-separated "tags" applied to every row.
func (h *ImportHandler) ImportContacts(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CSV file is required"})
		return
	}
	if fileHeader.Size > contacts.MaxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 5 MB limit"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, contacts.MaxFileSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	if len(data) > contacts.MaxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 5 MB limit"})
		return
	}

	mode := contacts.DuplicateMode(c.DefaultPostForm("mode", string(contacts.ModeSkip)))
	defaultTags := contacts.SplitTags(c.PostForm("tags"))
	orgID := OrgID(c)

	result, err := h.Importer.Import(orgID, string(data), mode, defaultTags)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Audit record; an insert failure here does not fail the import.
	logEntry := models.ImportLog{
		ID:       uuid.NewString(),
		OrgID:    orgID,
		Filename: fileHeader.Filename,
		Mode:     string(mode),
		Total:    result.Total,
		Created:  result.Created,
		Updated:  result.Updated,
		Skipped:  result.Skipped,
		Failed:   result.Failed,
	}
	if err := database.DB.Create(&logEntry).Error; err != nil {
		log.Printf("Error saving import log: %v", err)
	}

	if h.Hub != nil {
		h.Hub.NotifyImport(result)
	}

	c.JSON(http.StatusOK, result)
}

// GetImportLogs returns the audit history for the organization.
func (h *ImportHandler) GetImportLogs(c *gin.Context) {
	var logs []models.ImportLog
	err := database.DB.Where("org_id = ?", OrgID(c)).
		Order("created_at DESC").Limit(50).Find(&logs).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, logs)
}
