package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTemplates struct {
	ids map[string]bool
}

func (f *fakeTemplates) TemplateExists(orgID, templateID string) (bool, error) {
	return f.ids[orgID+"/"+templateID], nil
}

func validWorkflow() *Workflow {
	return &Workflow{
		OrgID:   "org1",
		Name:    "Welcome drip",
		Status:  StatusDraft,
		Trigger: Trigger{Type: TriggerTagAdded, Value: "vip"},
		Steps: []Step{
			{Type: StepSendMessage, SendMessage: &SendMessageConfig{TemplateID: "tpl1"}},
			{Type: StepWait, Wait: &WaitConfig{Duration: 2, Unit: UnitDays}},
			{Type: StepAddTag, Tag: &TagConfig{Tag: "welcomed"}},
		},
	}
}

func validator() *Validator {
	return NewValidator(&fakeTemplates{ids: map[string]bool{"org1/tpl1": true}})
}

func TestValidateAcceptsCompleteWorkflow(t *testing.T) {
	assert.NoError(t, validator().Validate(validWorkflow()))
}

func TestValidateReportsFirstViolationOnly(t *testing.T) {
	w := validWorkflow()
	w.Name = ""
	w.Steps = nil
	// name is checked before the step list; only one error comes back
	err := validator().Validate(w)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

func TestValidateTriggerValue(t *testing.T) {
	w := validWorkflow()
	w.Trigger = Trigger{Type: TriggerKeywordReceived}
	err := validator().Validate(w)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KEYWORD_RECEIVED")

	w.Trigger = Trigger{Type: TriggerManual}
	assert.NoError(t, validator().Validate(w))
}

func TestValidateEmptyStepList(t *testing.T) {
	w := validWorkflow()
	w.Steps = nil
	err := validator().Validate(w)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one step")
}

func TestValidateUnknownTemplate(t *testing.T) {
	w := validWorkflow()
	w.Steps[0].SendMessage.TemplateID = "missing"
	err := validator().Validate(w)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestValidateStepVariants(t *testing.T) {
	cases := []struct {
		name string
		step Step
		want string
	}{
		{"send without template", Step{Type: StepSendMessage, SendMessage: &SendMessageConfig{}}, "template"},
		{"wait zero duration", Step{Type: StepWait, Wait: &WaitConfig{Duration: 0, Unit: UnitHours}}, "positive duration"},
		{"wait bad unit", Step{Type: StepWait, Wait: &WaitConfig{Duration: 1, Unit: "weeks"}}, "invalid unit"},
		{"add tag empty", Step{Type: StepAddTag, Tag: &TagConfig{}}, "requires a tag"},
		{"remove tag missing config", Step{Type: StepRemoveTag}, "requires a tag"},
		{"condition incomplete", Step{Type: StepCondition, Condition: &ConditionConfig{Field: "tag"}}, "CONDITION"},
		{"unknown type", Step{Type: "NOTIFY"}, "unknown step type"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := validWorkflow()
			w.Steps = []Step{tc.step}
			err := validator().Validate(w)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestTransitionDraftToActiveRequiresValidation(t *testing.T) {
	w := validWorkflow()
	w.Steps = nil
	err := w.Transition(StatusActive, validator())
	require.Error(t, err)
	assert.Equal(t, StatusDraft, w.Status)

	w = validWorkflow()
	require.NoError(t, w.Transition(StatusActive, validator()))
	assert.Equal(t, StatusActive, w.Status)
}

func TestTransitionPauseResume(t *testing.T) {
	w := validWorkflow()
	require.NoError(t, w.Transition(StatusActive, validator()))
	require.NoError(t, w.Transition(StatusPaused, validator()))
	assert.Equal(t, StatusPaused, w.Status)
	require.NoError(t, w.Transition(StatusActive, validator()))
	assert.Equal(t, StatusActive, w.Status)
}

func TestTransitionRules(t *testing.T) {
	w := validWorkflow()
	// drafts cannot be paused
	assert.Error(t, w.Transition(StatusPaused, validator()))
	// nothing goes back to draft
	require.NoError(t, w.Transition(StatusActive, validator()))
	assert.Error(t, w.Transition(StatusDraft, validator()))
}

func TestMoveStepSwapsAndRenumbers(t *testing.T) {
	w := validWorkflow()
	Renumber(w.Steps)

	require.NoError(t, MoveStep(w.Steps, 2, "up"))
	assert.Equal(t, StepAddTag, w.Steps[1].Type)
	assert.Equal(t, StepWait, w.Steps[2].Type)
	for i, s := range w.Steps {
		assert.Equal(t, i, s.Order)
	}

	// moving the boundary step is a no-op
	require.NoError(t, MoveStep(w.Steps, 0, "up"))
	require.NoError(t, MoveStep(w.Steps, len(w.Steps)-1, "down"))

	assert.Error(t, MoveStep(w.Steps, 9, "up"))
	assert.Error(t, MoveStep(w.Steps, 1, "sideways"))
}
