package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apierrors "github.com/yukikurage/task-manager-api/internal/errors"
	"github.com/yukikurage/task-manager-api/internal/models"
)

var today = time.Date(2030, time.June, 10, 0, 0, 0, 0, time.UTC)

func fieldsOf(t *testing.T, err error) apierrors.FieldErrors {
	t.Helper()
	require.Error(t, err)
	apiErr, ok := err.(*apierrors.APIError)
	require.True(t, ok)
	require.Equal(t, apierrors.KindValidation, apiErr.Kind)
	return apiErr.Fields
}

func mustParse(t *testing.T, raw string) Body {
	t.Helper()
	body, err := ParseBody([]byte(raw))
	require.NoError(t, err)
	return body
}

func TestParseBody(t *testing.T) {
	body, err := ParseBody(nil)
	require.NoError(t, err)
	assert.Empty(t, body)

	_, err = ParseBody([]byte(`[1,2]`))
	assert.Error(t, err)

	_, err = ParseBody([]byte(`{"title":`))
	assert.Error(t, err)
}

func TestRegisterRequest_Valid(t *testing.T) {
	req := NewRegisterRequest(mustParse(t, `{"name":"Jane","email":"jane@example.com","password":"supersecret","password_confirmation":"supersecret"}`))
	assert.NoError(t, req.Validate())
}

func TestRegisterRequest_PasswordConfirmation(t *testing.T) {
	req := NewRegisterRequest(mustParse(t, `{"name":"Jane","email":"jane@example.com","password":"supersecret","password_confirmation":"other"}`))
	fields := fieldsOf(t, req.Validate())
	assert.Equal(t, []string{"The password field confirmation does not match."}, fields["password"])
}

func TestRegisterRequest_TypeErrors(t *testing.T) {
	req := NewRegisterRequest(mustParse(t, `{"name":123,"email":"jane@example.com","password":"supersecret","password_confirmation":"supersecret"}`))
	fields := fieldsOf(t, req.Validate())
	assert.Equal(t, apierrors.FieldErrors{"name": {"The name field must be a string."}}, fields)
}

func TestLoginRequest(t *testing.T) {
	fields := fieldsOf(t, NewLoginRequest(mustParse(t, `{}`)).Validate())
	assert.Equal(t, []string{"The email field is required."}, fields["email"])
	assert.Equal(t, []string{"The password field is required."}, fields["password"])
}

func TestCreateTaskRequest(t *testing.T) {
	req := NewCreateTaskRequest(mustParse(t, `{"title":"Ship","due_date":"2030-06-10","status":"In Progress","priority":"Low"}`))
	require.NoError(t, req.Validate(today))

	due := req.DueDateValue()
	require.NotNil(t, due)
	assert.True(t, today.Equal(*due))
}

func TestCreateTaskRequest_Invalid(t *testing.T) {
	long := make([]byte, 256)
	for i := range long {
		long[i] = 'x'
	}
	req := NewCreateTaskRequest(Body{"title": string(long), "due_date": "10/06/2030", "priority": "Urgent"})
	fields := fieldsOf(t, req.Validate(today))

	assert.Equal(t, []string{"The title field must not be greater than 255 characters."}, fields["title"])
	assert.Equal(t, []string{"The due date field must be a valid date."}, fields["due_date"])
	assert.Equal(t, []string{"The selected priority is invalid."}, fields["priority"])
}

func TestUpdateTaskRequest_Sometimes(t *testing.T) {
	req := NewUpdateTaskRequest(mustParse(t, `{"description":null}`))
	require.NoError(t, req.Validate(today))
	assert.True(t, req.Has("description"))
	assert.False(t, req.Has("title"))
	assert.Nil(t, req.Title)

	req = NewUpdateTaskRequest(mustParse(t, `{"due_date":"2030-06-09"}`))
	fields := fieldsOf(t, req.Validate(today))
	assert.Equal(t, []string{"The due date field must be a date after or equal to today."}, fields["due_date"])
}

func TestAssignTaskRequest(t *testing.T) {
	req := NewAssignTaskRequest(mustParse(t, `{"user_id":"12"}`))
	require.NoError(t, req.Validate())
	assert.Equal(t, uint64(12), *req.UserID)

	fields := fieldsOf(t, NewAssignTaskRequest(mustParse(t, `{"user_id":"abc"}`)).Validate())
	assert.Equal(t, []string{"The selected user id is invalid."}, fields["user_id"])

	fields = fieldsOf(t, NewAssignTaskRequest(mustParse(t, `{"user_id":true}`)).Validate())
	assert.Equal(t, []string{"The user id field must be an integer."}, fields["user_id"])
}

func TestListTasksQuery(t *testing.T) {
	q := ListTasksQuery{Sort: "-due_date", DueDate: "2030-06-10"}
	require.NoError(t, q.Validate())

	field, desc := q.SortField()
	assert.Equal(t, "due_date", field)
	assert.True(t, desc)
	assert.True(t, today.Equal(*q.DueDateValue()))

	fields := fieldsOf(t, (&ListTasksQuery{Sort: "secret"}).Validate())
	assert.Equal(t, []string{"The selected sort is invalid."}, fields["sort"])
}

func TestToday(t *testing.T) {
	now := time.Date(2030, time.June, 10, 23, 59, 0, 0, time.FixedZone("JST", 9*3600))
	assert.Equal(t, today, Today(now))
}

func TestListTasksQuery_AcceptsEverySortField(t *testing.T) {
	for _, field := range models.TaskSortFields() {
		for _, sort := range []string{field, "-" + field} {
			q := ListTasksQuery{Sort: sort}
			assert.NoError(t, q.Validate(), sort)
		}
	}
}
