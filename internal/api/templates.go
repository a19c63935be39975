package api

import (
	"log"
	"net/http"

	"whatsapp-crm/internal/config"
	"whatsapp-crm/internal/models"
	"whatsapp-crm/internal/templates"
	"whatsapp-crm/internal/whatsapp"

	"github.com/gin-gonic/gin"
)

type TemplateHandler struct {
	Store  *templates.Store
	Client *whatsapp.Client
	Config *config.Config
}

func NewTemplateHandler(store *templates.Store, client *whatsapp.Client, cfg *config.Config) *TemplateHandler {
	return &TemplateHandler{Store: store, Client: client, Config: cfg}
}

// GetTemplates returns stored templates from the local catalog
func (h *TemplateHandler) GetTemplates(c *gin.Context) {
	list, err := h.Store.List(OrgID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if list == nil {
		list = []models.Template{}
	}
	c.JSON(http.StatusOK, list)
}

// SyncTemplates fetches templates from Meta and stores them locally
func (h *TemplateHandler) SyncTemplates(c *gin.Context) {
	if h.Config.WhatsAppBusinessAccountID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "WABA_ID not configured in .env"})
		return
	}

	list, err := h.Client.GetTemplates()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch templates from Meta: " + err.Error()})
		return
	}

	orgID := OrgID(c)
	syncedCount := 0
	for _, entry := range list.Data {
		componentsJSON := "[]"
		if len(entry.Components) > 0 {
			componentsJSON = string(entry.Components)
		}

		tmpl := models.Template{
			ID:         entry.ID,
			OrgID:      orgID,
			Name:       entry.Name,
			Language:   entry.Language,
			Category:   entry.Category,
			Status:     entry.Status,
			Components: componentsJSON,
		}
		if err := h.Store.Upsert(&tmpl); err != nil {
			log.Printf("Error saving template %s: %v", entry.Name, err)
			continue
		}
		syncedCount++
	}

	c.JSON(http.StatusOK, gin.H{"status": "Templates synced", "count": syncedCount})
}
