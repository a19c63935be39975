package workflow

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"whatsapp-crm/internal/models"
)

// GormStore persists workflows as a parent row plus ordered step child rows.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Save upserts the workflow and replaces its step rows. Steps are renumbered
// to a dense 0..n-1 sequence before writing.
func (s *GormStore) Save(w *Workflow) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.Status == "" {
		w.Status = StatusDraft
	}
	Renumber(w.Steps)

	row := models.Workflow{
		ID:           w.ID,
		OrgID:        w.OrgID,
		Name:         w.Name,
		Status:       string(w.Status),
		TriggerType:  string(w.Trigger.Type),
		TriggerValue: w.Trigger.Value,
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		// Save updates every column on an existing row, so the original
		// created_at has to be carried over or it gets zeroed.
		var existing models.Workflow
		err := tx.Select("created_at").Where("id = ?", w.ID).First(&existing).Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return errors.Wrap(err, "load workflow")
		}
		if err == nil {
			row.CreatedAt = existing.CreatedAt
		}
		if err := tx.Save(&row).Error; err != nil {
			return errors.Wrap(err, "save workflow")
		}
		if err := tx.Where("workflow_id = ?", w.ID).Delete(&models.WorkflowStep{}).Error; err != nil {
			return errors.Wrap(err, "clear workflow steps")
		}
		for i := range w.Steps {
			stepRow, err := stepToRow(w.ID, &w.Steps[i])
			if err != nil {
				return err
			}
			if err := tx.Create(stepRow).Error; err != nil {
				return errors.Wrap(err, "save workflow step")
			}
		}
		return nil
	})
}

func (s *GormStore) Get(orgID, id string) (*Workflow, error) {
	var row models.Workflow
	err := s.db.Preload("Steps", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Where("org_id = ? AND id = ?", orgID, id).First(&row).Error
	if err != nil {
		return nil, err
	}
	return fromRow(&row)
}

func (s *GormStore) List(orgID string) ([]Workflow, error) {
	var rows []models.Workflow
	err := s.db.Preload("Steps", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Where("org_id = ?", orgID).Order("created_at DESC").Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "list workflows")
	}
	workflows := make([]Workflow, 0, len(rows))
	for i := range rows {
		w, err := fromRow(&rows[i])
		if err != nil {
			return nil, err
		}
		workflows = append(workflows, *w)
	}
	return workflows, nil
}

func (s *GormStore) Delete(orgID, id string) (int64, error) {
	var deleted int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("org_id = ? AND id = ?", orgID, id).Delete(&models.Workflow{})
		if result.Error != nil {
			return errors.Wrap(result.Error, "delete workflow")
		}
		deleted = result.RowsAffected
		if deleted == 0 {
			return nil
		}
		if err := tx.Where("workflow_id = ?", id).Delete(&models.WorkflowStep{}).Error; err != nil {
			return errors.Wrap(err, "delete workflow steps")
		}
		return nil
	})
	return deleted, err
}

func stepToRow(workflowID string, step *Step) (*models.WorkflowStep, error) {
	var payload interface{}
	switch step.Type {
	case StepSendMessage:
		payload = step.SendMessage
	case StepWait:
		payload = step.Wait
	case StepAddTag, StepRemoveTag:
		payload = step.Tag
	case StepCondition:
		payload = step.Condition
	default:
		return nil, fmt.Errorf("unknown step type %q", step.Type)
	}
	config, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "marshal step config")
	}
	return &models.WorkflowStep{
		WorkflowID: workflowID,
		Position:   step.Order,
		Type:       string(step.Type),
		Config:     datatypes.JSON(config),
	}, nil
}

func rowToStep(row *models.WorkflowStep) (Step, error) {
	step := Step{Order: row.Position, Type: StepType(row.Type)}
	var err error
	switch step.Type {
	case StepSendMessage:
		step.SendMessage = &SendMessageConfig{}
		err = json.Unmarshal(row.Config, step.SendMessage)
	case StepWait:
		step.Wait = &WaitConfig{}
		err = json.Unmarshal(row.Config, step.Wait)
	case StepAddTag, StepRemoveTag:
		step.Tag = &TagConfig{}
		err = json.Unmarshal(row.Config, step.Tag)
	case StepCondition:
		step.Condition = &ConditionConfig{}
		err = json.Unmarshal(row.Config, step.Condition)
	default:
		return step, fmt.Errorf("unknown step type %q in workflow %s", row.Type, row.WorkflowID)
	}
	if err != nil {
		return step, errors.Wrapf(err, "unmarshal %s config", row.Type)
	}
	return step, nil
}

func fromRow(row *models.Workflow) (*Workflow, error) {
	w := &Workflow{
		ID:     row.ID,
		OrgID:  row.OrgID,
		Name:   row.Name,
		Status: Status(row.Status),
		Trigger: Trigger{
			Type:  TriggerType(row.TriggerType),
			Value: row.TriggerValue,
		},
	}
	for i := range row.Steps {
		step, err := rowToStep(&row.Steps[i])
		if err != nil {
			return nil, err
		}
		w.Steps = append(w.Steps, step)
	}
	return w, nil
}
