package api

import (
	"net/http"

	"whatsapp-crm/internal/contacts"
	"whatsapp-crm/internal/otp"
	"whatsapp-crm/internal/whatsapp"

	"github.com/gin-gonic/gin"
)

// OTPHandler relays verification codes over WhatsApp. The code store is an
// injected collaborator owned by main.
type OTPHandler struct {
	Store  otp.Store
	Client *whatsapp.Client
}

func NewOTPHandler(store otp.Store, client *whatsapp.Client) *OTPHandler {
	return &OTPHandler{Store: store, Client: client}
}

type sendOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
}

func (h *OTPHandler) SendOTP(c *gin.Context) {
	var req sendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": BindError(err)})
		return
	}

	phone := contacts.NormalizePhone(req.Phone)
	if phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid phone number format"})
		return
	}

	code := otp.GenerateCode()
	h.Store.Put(phone, code)

	if err := h.Client.SendMessage(OrgID(c), phone, "Your verification code is "+code); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deliver code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "Code sent"})
}

type verifyOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

func (h *OTPHandler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": BindError(err)})
		return
	}

	phone := contacts.NormalizePhone(req.Phone)
	if phone == "" || !h.Store.Verify(phone, req.Code) {
		c.JSON(http.StatusUnauthorized, gin.H{"verified": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"verified": true})
}
