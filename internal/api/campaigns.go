package api

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"whatsapp-crm/internal/campaign"
	"whatsapp-crm/internal/config"
	"whatsapp-crm/internal/contacts"
	"whatsapp-crm/internal/database"
	"whatsapp-crm/internal/models"
	"whatsapp-crm/internal/whatsapp"

	"github.com/gin-gonic/gin"
)

type CampaignHandler struct {
	Client   *whatsapp.Client
	Contacts *contacts.GormStore
	Config   *config.Config
}

func NewCampaignHandler(client *whatsapp.Client, contactStore *contacts.GormStore, cfg *config.Config) *CampaignHandler {
	return &CampaignHandler{Client: client, Contacts: contactStore, Config: cfg}
}

type SendCampaignRequest struct {
	TemplateName string   `json:"template_name" binding:"required"`
	Language     string   `json:"language" binding:"required"`
	Phones       []string `json:"phones" binding:"required"`
}

// SendCampaign fans a template out to the listed phones after the pre-send
// check (cost vs balance, quiet hours) passes. Opted-out contacts are
// filtered before the check.
func (h *CampaignHandler) SendCampaign(c *gin.Context) {
	var req SendCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": BindError(err)})
		return
	}

	orgID := OrgID(c)
	recipients, invalid := h.optedInRecipients(orgID, req.Phones)

	check := campaign.SendCheck{
		RecipientCount: len(recipients),
		PerMessageCost: h.orgSettingFloat(orgID, "per_message_cost", 0.80),
		Balance:        h.orgSettingFloat(orgID, "balance", 0),
		QuietStart:     h.Config.QuietHoursStart,
		QuietEnd:       h.Config.QuietHoursEnd,
	}
	if err := check.Validate(time.Now()); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	successCount := 0
	for _, phone := range recipients {
		err := h.Client.SendTemplateMessage(orgID, phone, req.TemplateName, req.Language)
		if err == nil {
			successCount++
		} else {
			log.Printf("Failed to send campaign message to %s: %v", phone, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         "Campaign processed",
		"sent_to":        successCount,
		"total":          len(req.Phones),
		"invalid":        invalid,
		"opted_out":      len(req.Phones) - invalid - len(recipients),
		"estimated_cost": check.EstimatedCost(),
	})
}

// optedInRecipients normalizes the requested phones and drops ones belonging
// to opted-out contacts. Unknown phones are kept. The second return value
// counts phones that failed normalization.
func (h *CampaignHandler) optedInRecipients(orgID string, phones []string) ([]string, int) {
	normalized := make([]string, 0, len(phones))
	for _, p := range phones {
		if canonical := contacts.NormalizePhone(p); canonical != "" {
			normalized = append(normalized, canonical)
		}
	}
	invalid := len(phones) - len(normalized)

	known, err := h.Contacts.FindByPhones(orgID, normalized)
	if err != nil {
		log.Printf("Error loading contacts for opt-out filter: %v", err)
		return normalized, invalid
	}
	optedOut := make(map[string]bool)
	for _, contact := range known {
		if !contact.OptedIn {
			optedOut[contact.Phone] = true
		}
	}

	out := normalized[:0]
	for _, p := range normalized {
		if !optedOut[p] {
			out = append(out, p)
		}
	}
	return out, invalid
}

func (h *CampaignHandler) orgSettingFloat(orgID, key string, fallback float64) float64 {
	var setting models.OrgSetting
	err := database.DB.Where("org_id = ? AND key = ?", orgID, key).First(&setting).Error
	if err != nil {
		return fallback
	}
	v, err := strconv.ParseFloat(setting.Value, 64)
	if err != nil {
		return fallback
	}
	return v
}
