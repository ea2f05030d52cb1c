package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestNewTaskNormalize_Defaults(t *testing.T) {
	n, err := NewTask{Title: "  Buy milk \n", Description: " 2 litres "}.Normalize()
	require.NoError(t, err)

	assert.Equal(t, "Buy milk", n.Title)
	assert.Equal(t, "2 litres", n.Description)
	require.NotNil(t, n.TaskType)
	assert.Equal(t, TaskTypePersonal, *n.TaskType)
	assert.Equal(t, DefaultUserID, n.Tenant.UserID)
	assert.Nil(t, n.Completed)
	assert.Nil(t, n.Status)
}

func TestNewTaskNormalize_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		in    NewTask
		field string
	}{
		{"empty title", NewTask{Title: ""}, "title"},
		{"blank title", NewTask{Title: "   \t"}, "title"},
		{"bad status", NewTask{Title: "x", Status: ptr(TaskStatus("done"))}, "status"},
		{"bad type", NewTask{Title: "x", TaskType: ptr(TaskType("chore"))}, "task_type"},
		{"status conflicts with completed", NewTask{Title: "x", Status: ptr(TaskStatusOpen), Completed: ptr(true)}, "completed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.in.Normalize()
			require.Error(t, err)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.True(t, IsValidation(err))
		})
	}
}

func TestNewTaskNormalize_KeepsTenant(t *testing.T) {
	n, err := NewTask{Title: "x", Tenant: Tenant{UserID: " alice "}}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, "alice", n.Tenant.UserID)
}

func TestResolveTenant(t *testing.T) {
	assert.Equal(t, DefaultUserID, ResolveTenant(Tenant{}))
	assert.Equal(t, DefaultUserID, ResolveTenant(Tenant{UserID: "  "}))
	assert.Equal(t, "bob", ResolveTenant(Tenant{UserID: "bob"}))
}

func TestTaskPatchNormalize(t *testing.T) {
	p, err := TaskPatch{Title: ptr("  new  "), Description: ptr("  ")}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, "new", *p.Title)
	// an explicit empty description is kept, not treated as absent
	require.NotNil(t, p.Description)
	assert.Equal(t, "", *p.Description)

	_, err = TaskPatch{Title: ptr(" ")}.Normalize()
	assert.True(t, IsValidation(err))

	_, err = TaskPatch{Status: ptr(TaskStatusCompleted), Completed: ptr(false)}.Normalize()
	assert.True(t, IsValidation(err))

	_, err = TaskPatch{Status: ptr(TaskStatusCompleted), Completed: ptr(true)}.Normalize()
	assert.NoError(t, err)
}

func TestTaskPatchEmpty(t *testing.T) {
	assert.True(t, TaskPatch{}.Empty())
	assert.False(t, TaskPatch{Completed: ptr(false)}.Empty())
	assert.False(t, TaskPatch{DueDate: DueDatePatch{Set: true}}.Empty())
}

func TestTaskPatchNormalize_TrimsEnums(t *testing.T) {
	p, err := TaskPatch{Status: ptr(TaskStatus(" active ")), TaskType: ptr(TaskType("work\n"))}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, TaskStatusActive, *p.Status)
	assert.Equal(t, TaskTypeWork, *p.TaskType)
}

func TestDueDatePatch_UnmarshalJSON(t *testing.T) {
	var body struct {
		DueDate DueDatePatch `json:"due_date"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{}`), &body))
	assert.False(t, body.DueDate.Set)

	require.NoError(t, json.Unmarshal([]byte(`{"due_date":null}`), &body))
	assert.True(t, body.DueDate.Set)
	assert.Nil(t, body.DueDate.Value)

	body.DueDate = DueDatePatch{}
	require.NoError(t, json.Unmarshal([]byte(`{"due_date":"2030-05-01"}`), &body))
	require.NotNil(t, body.DueDate.Value)
	assert.True(t, time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC).Equal(*body.DueDate.Value))

	body.DueDate = DueDatePatch{}
	require.NoError(t, json.Unmarshal([]byte(`{"due_date":"2030-05-01T10:30:00+02:00"}`), &body))
	require.NotNil(t, body.DueDate.Value)
	assert.True(t, time.Date(2030, 5, 1, 8, 30, 0, 0, time.UTC).Equal(*body.DueDate.Value))

	err := json.Unmarshal([]byte(`{"due_date":"tomorrow"}`), &body)
	assert.True(t, IsValidation(err))

	err = json.Unmarshal([]byte(`{"due_date":42}`), &body)
	assert.True(t, IsValidation(err))
}
