package webhook

import (
	"log"
	"net/http"

	"whatsapp-crm/internal/config"
	"whatsapp-crm/internal/contacts"
	"whatsapp-crm/internal/database"
	"whatsapp-crm/internal/models"
	"whatsapp-crm/internal/ws"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Config   *config.Config
	Contacts *contacts.GormStore
	Hub      *ws.Hub
}

func NewHandler(cfg *config.Config, contactStore *contacts.GormStore, hub *ws.Hub) *Handler {
	return &Handler{
		Config:   cfg,
		Contacts: contactStore,
		Hub:      hub,
	}
}

func (h *Handler) VerifyWebhook(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode != "" && token != "" {
		if mode == "subscribe" && token == h.Config.VerifyToken {
			log.Println("Webhook verified successfully!")
			c.String(http.StatusOK, challenge)
		} else {
			c.Status(http.StatusForbidden)
		}
	} else {
		c.Status(http.StatusBadRequest)
	}
}

func (h *Handler) HandleMessage(c *gin.Context) {
	var payload Payload
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("Error binding JSON: %v", err)
		c.Status(http.StatusBadRequest)
		return
	}

	if len(payload.Entry) == 0 || len(payload.Entry[0].Changes) == 0 {
		c.Status(http.StatusOK)
		return
	}

	value := payload.Entry[0].Changes[0].Value
	if len(value.Messages) == 0 {
		c.Status(http.StatusOK)
		return
	}

	message := value.Messages[0]
	orgID := h.Config.DefaultOrgID

	var content string
	switch message.Type {
	case "text":
		content = message.Text.Body
		log.Printf("Received text message from %s: %s", message.From, content)
	case "image":
		if message.Image != nil {
			content = "[image]:" + message.Image.ID
			if message.Image.Caption != "" {
				content += ":" + message.Image.Caption
			}
		}
		log.Printf("Received image from %s", message.From)
	case "video":
		if message.Video != nil {
			content = "[video]:" + message.Video.ID
		}
		log.Printf("Received video from %s", message.From)
	case "audio":
		if message.Audio != nil {
			content = "[audio]:" + message.Audio.ID
		}
		log.Printf("Received audio from %s", message.From)
	case "document":
		if message.Document != nil {
			content = "[document]:" + message.Document.ID
			if message.Document.Filename != "" {
				content += ":" + message.Document.Filename
			}
		}
		log.Printf("Received document from %s", message.From)
	default:
		content = "[" + message.Type + "]"
		log.Printf("Received %s from %s", message.Type, message.From)
	}

	stored := models.Message{
		OrgID:   orgID,
		WaID:    message.ID,
		Sender:  message.From,
		Content: content,
		Type:    message.Type,
		Status:  "received",
	}
	if err := database.DB.Create(&stored).Error; err != nil {
		log.Printf("Error storing message: %v", err)
	}

	// Auto-save contact. A CTWA referral marks the contact as ad-sourced.
	source := models.SourceWhatsApp
	if message.Referral != nil && message.Referral.SourceType == "ad" {
		source = models.SourceCTWAAd
	}
	name := message.From
	if len(value.Contacts) > 0 && value.Contacts[0].Profile.Name != "" {
		name = value.Contacts[0].Profile.Name
	}
	phone := contacts.NormalizePhone(message.From)
	if phone == "" {
		phone = "+" + message.From
	}
	if err := h.Contacts.UpsertFromWhatsApp(orgID, phone, name, source); err != nil {
		log.Printf("Error saving contact: %v", err)
	}

	if h.Hub != nil {
		h.Hub.NotifyMessage(stored)
	}

	c.Status(http.StatusOK)
}
