package models

import (
	"time"

	"gorm.io/datatypes"
)

// Contact source values.
const (
	SourceManual   = "MANUAL"
	SourceImport   = "IMPORT"
	SourceWhatsApp = "WHATSAPP"
	SourceCTWAAd   = "CTWA_AD"
)

// Contact represents a WhatsApp-reachable person scoped to an organization.
// Phone is canonical (+<digits>) and unique per organization, not globally.
type Contact struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	OrgID        string         `gorm:"type:varchar(255);not null;uniqueIndex:idx_org_phone" json:"org_id"`
	Phone        string         `gorm:"type:varchar(50);not null;uniqueIndex:idx_org_phone" json:"phone"`
	Name         string         `gorm:"type:varchar(255)" json:"name"`
	Email        string         `gorm:"type:varchar(255)" json:"email"`
	Tags         datatypes.JSON `gorm:"type:jsonb" json:"tags"` // JSON array of strings
	OptedIn      bool           `gorm:"default:true" json:"opted_in"`
	CustomFields datatypes.JSON `gorm:"type:jsonb" json:"custom_fields"` // JSON object
	Source       string         `gorm:"type:varchar(20);default:'MANUAL'" json:"source"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Contact) TableName() string {
	return "contacts"
}

// Message represents a stored inbound or outbound WhatsApp message
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrgID     string    `gorm:"type:varchar(255);index" json:"org_id"`
	WaID      string    `gorm:"index;not null" json:"wa_id"`
	Sender    string    `gorm:"not null" json:"sender"`
	Content   string    `gorm:"type:text" json:"content"`
	Type      string    `gorm:"type:varchar(50)" json:"type"`
	Status    string    `gorm:"type:varchar(20)" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Message) TableName() string {
	return "messages"
}

// Template represents a WhatsApp message template synced from Meta
type Template struct {
	ID         string `gorm:"primaryKey" json:"id"`
	OrgID      string `gorm:"type:varchar(255);index" json:"org_id"`
	Name       string `gorm:"type:varchar(255)" json:"name"`
	Language   string `gorm:"type:varchar(50)" json:"language"`
	Category   string `gorm:"type:varchar(100)" json:"category"`
	Status     string `gorm:"type:varchar(50)" json:"status"` // APPROVED, REJECTED, PENDING
	Components string `gorm:"type:text" json:"components"`    // JSON components
}

func (Template) TableName() string {
	return "templates"
}

// Workflow represents a named automation owned by an organization.
// Steps form a dense zero-based sequence.
type Workflow struct {
	ID           string         `gorm:"primaryKey;type:varchar(255)" json:"id"`
	OrgID        string         `gorm:"type:varchar(255);index;not null" json:"org_id"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	Status       string         `gorm:"type:varchar(20);default:'DRAFT'" json:"status"`
	TriggerType  string         `gorm:"type:varchar(50)" json:"trigger_type"`
	TriggerValue string         `gorm:"type:varchar(255)" json:"trigger_value"`
	Steps        []WorkflowStep `gorm:"foreignKey:WorkflowID;constraint:OnDelete:CASCADE;" json:"steps"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Workflow) TableName() string {
	return "workflows"
}

type WorkflowStep struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	WorkflowID string         `gorm:"index;type:varchar(255)" json:"workflow_id"`
	Position   int            `gorm:"column:position;not null" json:"position"`
	Type       string         `gorm:"type:varchar(50);not null" json:"type"`
	Config     datatypes.JSON `gorm:"type:jsonb" json:"config"`
}

func (WorkflowStep) TableName() string {
	return "workflow_steps"
}

// ImportLog is the audit record of one CSV import run
type ImportLog struct {
	ID        string    `gorm:"primaryKey;type:varchar(255)" json:"id"`
	OrgID     string    `gorm:"type:varchar(255);index" json:"org_id"`
	Filename  string    `gorm:"type:varchar(255)" json:"filename"`
	Mode      string    `gorm:"type:varchar(20)" json:"mode"` // skip, update
	Total     int       `json:"total"`
	Created   int       `json:"created"`
	Updated   int       `json:"updated"`
	Skipped   int       `json:"skipped"`
	Failed    int       `json:"failed"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ImportLog) TableName() string {
	return "import_logs"
}

// OrgSetting holds per-organization key/value settings (billing balance,
// per-message rate, quiet hours overrides)
type OrgSetting struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	OrgID string `gorm:"type:varchar(255);not null;uniqueIndex:idx_org_key" json:"org_id"`
	Key   string `gorm:"type:varchar(255);not null;uniqueIndex:idx_org_key" json:"key"`
	Value string `gorm:"type:text" json:"value"`
}

func (OrgSetting) TableName() string {
	return "org_settings"
}
