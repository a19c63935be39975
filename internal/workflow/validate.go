package workflow

import (
	"fmt"

	"github.com/pkg/errors"
)

// TemplateLookup is the template-catalog collaborator used to check that
// SEND_MESSAGE steps reference templates owned by the organization.
type TemplateLookup interface {
	TemplateExists(orgID, templateID string) (bool, error)
}

// Validator gates the DRAFT -> ACTIVE transition. It reports the first
// offending rule only and short-circuits.
type Validator struct {
	templates TemplateLookup
}

func NewValidator(templates TemplateLookup) *Validator {
	return &Validator{templates: templates}
}

func (v *Validator) Validate(w *Workflow) error {
	if w.Name == "" {
		return errors.New("workflow name must not be empty")
	}
	if w.Trigger.Type != TriggerManual && w.Trigger.Value == "" {
		return fmt.Errorf("trigger %s requires a value", w.Trigger.Type)
	}
	if len(w.Steps) == 0 {
		return errors.New("workflow must have at least one step")
	}
	for i := range w.Steps {
		if err := v.validateStep(w.OrgID, &w.Steps[i]); err != nil {
			return fmt.Errorf("step %d: %v", i+1, err)
		}
	}
	return nil
}

func (v *Validator) validateStep(orgID string, s *Step) error {
	switch s.Type {
	case StepSendMessage:
		if s.SendMessage == nil || s.SendMessage.TemplateID == "" {
			return errors.New("SEND_MESSAGE requires a template")
		}
		exists, err := v.templates.TemplateExists(orgID, s.SendMessage.TemplateID)
		if err != nil {
			return errors.Wrap(err, "template lookup failed")
		}
		if !exists {
			return fmt.Errorf("template %s not found", s.SendMessage.TemplateID)
		}
	case StepWait:
		if s.Wait == nil || s.Wait.Duration <= 0 {
			return errors.New("WAIT requires a positive duration")
		}
		switch s.Wait.Unit {
		case UnitMinutes, UnitHours, UnitDays:
		default:
			return fmt.Errorf("WAIT has invalid unit %q", s.Wait.Unit)
		}
	case StepAddTag, StepRemoveTag:
		if s.Tag == nil || s.Tag.Tag == "" {
			return fmt.Errorf("%s requires a tag", s.Type)
		}
	case StepCondition:
		if s.Condition == nil || s.Condition.Field == "" || s.Condition.Operator == "" || s.Condition.Value == "" {
			return errors.New("CONDITION requires field, operator and value")
		}
	default:
		return fmt.Errorf("unknown step type %q", s.Type)
	}
	return nil
}
