package workflow

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"whatsapp-crm/internal/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Workflow{}, &models.WorkflowStep{}))
	return db
}

func TestStoreSaveAndGetRoundTrip(t *testing.T) {
	store := NewGormStore(testDB(t))

	w := &Workflow{
		OrgID:   "org1",
		Name:    "Welcome drip",
		Trigger: Trigger{Type: TriggerTagAdded, Value: "vip"},
		Steps: []Step{
			{Type: StepSendMessage, SendMessage: &SendMessageConfig{TemplateID: "tpl1"}},
			{Type: StepWait, Wait: &WaitConfig{Duration: 2, Unit: UnitDays}},
			{Type: StepCondition, Condition: &ConditionConfig{Field: "tag", Operator: "equals", Value: "vip"}},
		},
	}
	require.NoError(t, store.Save(w))
	require.NotEmpty(t, w.ID)

	got, err := store.Get("org1", w.ID)
	require.NoError(t, err)
	assert.Equal(t, "Welcome drip", got.Name)
	assert.Equal(t, StatusDraft, got.Status)
	assert.Equal(t, TriggerTagAdded, got.Trigger.Type)
	require.Len(t, got.Steps, 3)
	assert.Equal(t, "tpl1", got.Steps[0].SendMessage.TemplateID)
	assert.Equal(t, UnitDays, got.Steps[1].Wait.Unit)
	assert.Equal(t, "equals", got.Steps[2].Condition.Operator)
	for i, s := range got.Steps {
		assert.Equal(t, i, s.Order)
	}
}

func TestStoreSaveReplacesStepsDensely(t *testing.T) {
	store := NewGormStore(testDB(t))

	w := &Workflow{
		OrgID:   "org1",
		Name:    "Drip",
		Trigger: Trigger{Type: TriggerManual},
		Steps: []Step{
			{Order: 5, Type: StepAddTag, Tag: &TagConfig{Tag: "a"}},
			{Order: 9, Type: StepAddTag, Tag: &TagConfig{Tag: "b"}},
		},
	}
	require.NoError(t, store.Save(w))

	got, err := store.Get("org1", w.ID)
	require.NoError(t, err)
	require.Len(t, got.Steps, 2)
	assert.Equal(t, 0, got.Steps[0].Order)
	assert.Equal(t, 1, got.Steps[1].Order)

	// shrink the list; orphaned step rows must go away
	got.Steps = got.Steps[:1]
	require.NoError(t, store.Save(got))
	again, err := store.Get("org1", w.ID)
	require.NoError(t, err)
	require.Len(t, again.Steps, 1)
	assert.Equal(t, "a", again.Steps[0].Tag.Tag)
}

func TestStoreSavePreservesCreatedAt(t *testing.T) {
	db := testDB(t)
	store := NewGormStore(db)

	w := &Workflow{
		OrgID:   "org1",
		Name:    "Drip",
		Trigger: Trigger{Type: TriggerManual},
		Steps:   []Step{{Type: StepAddTag, Tag: &TagConfig{Tag: "a"}}},
	}
	require.NoError(t, store.Save(w))

	var before models.Workflow
	require.NoError(t, db.First(&before, "id = ?", w.ID).Error)
	require.False(t, before.CreatedAt.IsZero())

	w.Status = StatusActive
	require.NoError(t, store.Save(w))

	var after models.Workflow
	require.NoError(t, db.First(&after, "id = ?", w.ID).Error)
	assert.Equal(t, "ACTIVE", after.Status)
	assert.True(t, after.CreatedAt.Equal(before.CreatedAt),
		"created_at changed from %v to %v", before.CreatedAt, after.CreatedAt)
}

func TestStoreGetScopesToOrg(t *testing.T) {
	store := NewGormStore(testDB(t))
	w := &Workflow{OrgID: "org1", Name: "Drip", Trigger: Trigger{Type: TriggerManual}}
	require.NoError(t, store.Save(w))

	_, err := store.Get("org2", w.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestStoreDelete(t *testing.T) {
	db := testDB(t)
	store := NewGormStore(db)
	w := &Workflow{
		OrgID:   "org1",
		Name:    "Drip",
		Trigger: Trigger{Type: TriggerManual},
		Steps:   []Step{{Type: StepAddTag, Tag: &TagConfig{Tag: "a"}}},
	}
	require.NoError(t, store.Save(w))

	deleted, err := store.Delete("org1", w.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	var stepCount int64
	db.Model(&models.WorkflowStep{}).Count(&stepCount)
	assert.Zero(t, stepCount)

	deleted, err = store.Delete("org1", w.ID)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}
