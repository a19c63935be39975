package api

import (
	"net/http"
	"strconv"

	"whatsapp-crm/internal/workflow"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type WorkflowHandler struct {
	Store     *workflow.GormStore
	Validator *workflow.Validator
}

func NewWorkflowHandler(store *workflow.GormStore, validator *workflow.Validator) *WorkflowHandler {
	return &WorkflowHandler{Store: store, Validator: validator}
}

func (h *WorkflowHandler) GetWorkflows(c *gin.Context) {
	list, err := h.Store.List(OrgID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if list == nil {
		list = []workflow.Workflow{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *WorkflowHandler) GetWorkflow(c *gin.Context) {
	w, err := h.Store.Get(OrgID(c), c.Param("id"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Workflow not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, w)
}

type workflowRequest struct {
	Name    string           `json:"name" binding:"required"`
	Trigger workflow.Trigger `json:"trigger"`
	Steps   []workflow.Step  `json:"steps"`
}

// CreateWorkflow saves a new workflow in DRAFT.
func (h *WorkflowHandler) CreateWorkflow(c *gin.Context) {
	var req workflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": BindError(err)})
		return
	}
	if req.Trigger.Type == "" {
		req.Trigger.Type = workflow.TriggerManual
	}

	w := workflow.Workflow{
		OrgID:   OrgID(c),
		Name:    req.Name,
		Status:  workflow.StatusDraft,
		Trigger: req.Trigger,
		Steps:   req.Steps,
	}
	if err := h.Store.Save(&w); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, w)
}

// UpdateWorkflow replaces name, trigger and step list. Status is untouched.
func (h *WorkflowHandler) UpdateWorkflow(c *gin.Context) {
	var req workflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": BindError(err)})
		return
	}

	w, err := h.Store.Get(OrgID(c), c.Param("id"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Workflow not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	w.Name = req.Name
	if req.Trigger.Type != "" {
		w.Trigger = req.Trigger
	}
	w.Steps = req.Steps

	if err := h.Store.Save(w); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *WorkflowHandler) DeleteWorkflow(c *gin.Context) {
	deleted, err := h.Store.Delete(OrgID(c), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if deleted == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Workflow not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "Workflow deleted"})
}

// ActivateWorkflow moves a workflow out of DRAFT, gated by validation.
func (h *WorkflowHandler) ActivateWorkflow(c *gin.Context) {
	w, err := h.Store.Get(OrgID(c), c.Param("id"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Workflow not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := w.Transition(workflow.StatusActive, h.Validator); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Store.Save(w); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, w)
}

type toggleRequest struct {
	Status workflow.Status `json:"status" binding:"required"`
}

// ToggleWorkflow flips between ACTIVE and PAUSED. Drafts must be activated
// explicitly first.
func (h *WorkflowHandler) ToggleWorkflow(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": BindError(err)})
		return
	}

	w, err := h.Store.Get(OrgID(c), c.Param("id"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Workflow not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if w.Status == workflow.StatusDraft {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Draft workflows must be activated first"})
		return
	}
	if err := w.Transition(req.Status, h.Validator); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Store.Save(w); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, w)
}

type moveStepRequest struct {
	Direction string `json:"direction" binding:"required"`
}

// MoveStep swaps a step with its neighbor and renumbers the sequence.
func (h *WorkflowHandler) MoveStep(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid step index"})
		return
	}

	var req moveStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": BindError(err)})
		return
	}

	w, err := h.Store.Get(OrgID(c), c.Param("id"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Workflow not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := workflow.MoveStep(w.Steps, index, req.Direction); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Store.Save(w); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, w)
}
