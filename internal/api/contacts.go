package api

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"

	"whatsapp-crm/internal/contacts"
	"whatsapp-crm/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ContactHandler struct {
	Store *contacts.GormStore
}

func NewContactHandler(store *contacts.GormStore) *ContactHandler {
	return &ContactHandler{Store: store}
}

func (h *ContactHandler) GetContacts(c *gin.Context) {
	list, err := h.Store.List(OrgID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Return empty array instead of null
	if list == nil {
		list = []models.Contact{}
	}
	c.JSON(http.StatusOK, list)
}

type CreateContactRequest struct {
	Phone   string   `json:"phone" binding:"required"`
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Tags    []string `json:"tags"`
	OptedIn *bool    `json:"opted_in"`
}

func (h *ContactHandler) CreateContact(c *gin.Context) {
	var req CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": BindError(err)})
		return
	}

	phone := contacts.NormalizePhone(req.Phone)
	if phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid phone number format"})
		return
	}
	if req.Email != "" && !contacts.ValidEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		return
	}

	optedIn := true
	if req.OptedIn != nil {
		optedIn = *req.OptedIn
	}

	contact := models.Contact{
		OrgID:   OrgID(c),
		Phone:   phone,
		Name:    req.Name,
		Email:   req.Email,
		Tags:    contacts.MarshalTags(req.Tags),
		OptedIn: optedIn,
		Source:  models.SourceManual,
	}
	if err := h.Store.Create(&contact); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create contact"})
		return
	}

	c.JSON(http.StatusCreated, contact)
}

type UpdateContactRequest struct {
	Name    *string   `json:"name"`
	Email   *string   `json:"email"`
	Tags    *[]string `json:"tags"`
	OptedIn *bool     `json:"opted_in"`
}

func (h *ContactHandler) UpdateContact(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contact id"})
		return
	}

	var req UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": BindError(err)})
		return
	}

	if _, err := h.Store.Get(OrgID(c), uint(id)); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Email != nil {
		if *req.Email != "" && !contacts.ValidEmail(*req.Email) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
			return
		}
		fields["email"] = *req.Email
	}
	if req.Tags != nil {
		fields["tags"] = contacts.MarshalTags(*req.Tags)
	}
	if req.OptedIn != nil {
		fields["opted_in"] = *req.OptedIn
	}
	if len(fields) == 0 {
		c.JSON(http.StatusOK, gin.H{"status": "Nothing to update"})
		return
	}

	if err := h.Store.UpdateByID(uint(id), fields); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update contact"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "Contact updated"})
}

func (h *ContactHandler) DeleteContact(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contact id"})
		return
	}

	deleted, err := h.Store.Delete(OrgID(c), uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete contact"})
		return
	}
	if deleted == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "Contact deleted"})
}

// ForgetContact is the compliance erasure: the contact and all stored
// messages with that number are removed.
func (h *ContactHandler) ForgetContact(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contact id"})
		return
	}

	if err := h.Store.Forget(OrgID(c), uint(id)); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to erase contact"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "Contact erased"})
}

func (h *ContactHandler) ExportContacts(c *gin.Context) {
	list, err := h.Store.List(OrgID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	_ = w.Write([]string{"Phone", "Name", "Email", "Tags", "Opted In", "Source", "Created At"})
	for _, contact := range list {
		_ = w.Write([]string{
			contact.Phone,
			contact.Name,
			contact.Email,
			strings.Join(contacts.UnmarshalTags(contact.Tags), ","),
			strconv.FormatBool(contact.OptedIn),
			contact.Source,
			contact.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	w.Flush()

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=contacts.csv")
	c.String(http.StatusOK, sb.String())
}
