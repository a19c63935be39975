package workflow

import "fmt"

type Status string

const (
	StatusDraft  Status = "DRAFT"
	StatusActive Status = "ACTIVE"
	StatusPaused Status = "PAUSED"
)

type TriggerType string

const (
	TriggerManual          TriggerType = "MANUAL"
	TriggerTagAdded        TriggerType = "TAG_ADDED"
	TriggerKeywordReceived TriggerType = "KEYWORD_RECEIVED"
	TriggerContactCreated  TriggerType = "CONTACT_CREATED"
)

type StepType string

const (
	StepSendMessage StepType = "SEND_MESSAGE"
	StepWait        StepType = "WAIT"
	StepAddTag      StepType = "ADD_TAG"
	StepRemoveTag   StepType = "REMOVE_TAG"
	StepCondition   StepType = "CONDITION"
)

type WaitUnit string

const (
	UnitMinutes WaitUnit = "minutes"
	UnitHours   WaitUnit = "hours"
	UnitDays    WaitUnit = "days"
)

// SendMessageConfig references a pre-approved template.
type SendMessageConfig struct {
	TemplateID string `json:"template_id"`
}

type WaitConfig struct {
	Duration int      `json:"duration"`
	Unit     WaitUnit `json:"unit"`
}

type TagConfig struct {
	Tag string `json:"tag"`
}

type ConditionConfig struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// Step is a tagged variant: exactly one config pointer matching Type is set.
// Execution of steps is owned by an external worker; this package only
// defines and validates the shape.
type Step struct {
	Order       int                `json:"order"`
	Type        StepType           `json:"type"`
	SendMessage *SendMessageConfig `json:"send_message,omitempty"`
	Wait        *WaitConfig        `json:"wait,omitempty"`
	Tag         *TagConfig         `json:"tag,omitempty"`
	Condition   *ConditionConfig   `json:"condition,omitempty"`
}

type Trigger struct {
	Type  TriggerType `json:"type"`
	Value string      `json:"value,omitempty"`
}

// Workflow is a named automation owned by an organization.
type Workflow struct {
	ID      string  `json:"id"`
	OrgID   string  `json:"org_id"`
	Name    string  `json:"name"`
	Status  Status  `json:"status"`
	Trigger Trigger `json:"trigger"`
	Steps   []Step  `json:"steps"`
}

// Renumber rewrites Order so the list is a dense 0..n-1 sequence.
func Renumber(steps []Step) {
	for i := range steps {
		steps[i].Order = i
	}
}

// MoveStep swaps the step at index with its neighbor in the given direction
// ("up" or "down") and renumbers the whole list.
func MoveStep(steps []Step, index int, direction string) error {
	if index < 0 || index >= len(steps) {
		return fmt.Errorf("step index %d out of range", index)
	}
	switch direction {
	case "up":
		if index == 0 {
			return nil
		}
		steps[index-1], steps[index] = steps[index], steps[index-1]
	case "down":
		if index == len(steps)-1 {
			return nil
		}
		steps[index], steps[index+1] = steps[index+1], steps[index]
	default:
		return fmt.Errorf("invalid direction %q (expected up or down)", direction)
	}
	Renumber(steps)
	return nil
}

// Transition applies the workflow state machine:
// DRAFT -> ACTIVE (validation gated) -> PAUSED <-> ACTIVE.
// There is no transition back to DRAFT.
func (w *Workflow) Transition(to Status, v *Validator) error {
	switch to {
	case StatusDraft:
		return fmt.Errorf("cannot transition a %s workflow back to DRAFT", w.Status)
	case StatusActive:
		if w.Status == StatusDraft {
			if err := v.Validate(w); err != nil {
				return err
			}
		}
		w.Status = StatusActive
		return nil
	case StatusPaused:
		if w.Status != StatusActive {
			return fmt.Errorf("only an ACTIVE workflow can be paused (current: %s)", w.Status)
		}
		w.Status = StatusPaused
		return nil
	default:
		return fmt.Errorf("unknown workflow status %q", to)
	}
}
