package main

import (
	"log"
	"time"

	"whatsapp-crm/internal/api"
	"whatsapp-crm/internal/config"
	"whatsapp-crm/internal/contacts"
	"whatsapp-crm/internal/database"
	"whatsapp-crm/internal/otp"
	"whatsapp-crm/internal/templates"
	"whatsapp-crm/internal/webhook"
	"whatsapp-crm/internal/whatsapp"
	"whatsapp-crm/internal/workflow"
	"whatsapp-crm/internal/ws"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadConfig()
	database.InitDB(cfg)

	r := gin.Default()

	// CORS Middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Org-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	hub := ws.NewHub()
	go hub.Run()

	whatsappClient := whatsapp.NewClient(cfg)
	contactStore := contacts.NewGormStore(database.DB)
	importer := contacts.NewImporter(contactStore)
	templateStore := templates.NewStore(database.DB)
	workflowStore := workflow.NewGormStore(database.DB)
	workflowValidator := workflow.NewValidator(templateStore)
	otpStore := otp.NewMemoryStore(time.Duration(cfg.OTPTTLSeconds) * time.Second)

	webhookHandler := webhook.NewHandler(cfg, contactStore, hub)
	contactHandler := api.NewContactHandler(contactStore)
	importHandler := api.NewImportHandler(importer, hub)
	workflowHandler := api.NewWorkflowHandler(workflowStore, workflowValidator)
	templateHandler := api.NewTemplateHandler(templateStore, whatsappClient, cfg)
	campaignHandler := api.NewCampaignHandler(whatsappClient, contactStore, cfg)
	otpHandler := api.NewOTPHandler(otpStore, whatsappClient)

	// Webhook Routes
	r.GET("/webhook", webhookHandler.VerifyWebhook)
	r.POST("/webhook", webhookHandler.HandleMessage)

	// Live event stream
	r.GET("/ws", func(c *gin.Context) {
		hub.ServeWs(c.Writer, c.Request)
	})

	apiGroup := r.Group("/api")
	{
		// CRM Routes
		apiGroup.GET("/contacts", contactHandler.GetContacts)
		apiGroup.POST("/contacts", contactHandler.CreateContact)
		apiGroup.PUT("/contacts/:id", contactHandler.UpdateContact)
		apiGroup.DELETE("/contacts/:id", contactHandler.DeleteContact)
		apiGroup.POST("/contacts/:id/forget", contactHandler.ForgetContact)
		apiGroup.GET("/contacts/export", contactHandler.ExportContacts)

		// Import Routes
		apiGroup.POST("/contacts/import", importHandler.ImportContacts)
		apiGroup.GET("/contacts/import/logs", importHandler.GetImportLogs)

		// Template Routes
		apiGroup.GET("/templates", templateHandler.GetTemplates)
		apiGroup.POST("/templates/sync", templateHandler.SyncTemplates)

		// Workflow Routes
		apiGroup.GET("/workflows", workflowHandler.GetWorkflows)
		apiGroup.POST("/workflows", workflowHandler.CreateWorkflow)
		apiGroup.GET("/workflows/:id", workflowHandler.GetWorkflow)
		apiGroup.PUT("/workflows/:id", workflowHandler.UpdateWorkflow)
		apiGroup.DELETE("/workflows/:id", workflowHandler.DeleteWorkflow)
		apiGroup.POST("/workflows/:id/activate", workflowHandler.ActivateWorkflow)
		apiGroup.POST("/workflows/:id/toggle", workflowHandler.ToggleWorkflow)
		apiGroup.POST("/workflows/:id/steps/:index/move", workflowHandler.MoveStep)

		// Campaign Routes
		apiGroup.POST("/campaigns/send", campaignHandler.SendCampaign)

		// OTP Routes
		apiGroup.POST("/otp/send", otpHandler.SendOTP)
		apiGroup.POST("/otp/verify", otpHandler.VerifyOTP)
	}

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
