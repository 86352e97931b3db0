package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/yukikurage/task-manager-api/internal/constants"
	apierrors "github.com/yukikurage/task-manager-api/internal/errors"
	"github.com/yukikurage/task-manager-api/internal/models"
)

// Body is a decoded JSON object. Requests are read through it so that field
// presence, explicit nulls and wrong types can be told apart.
type Body map[string]any

// ParseBody decodes a JSON object. An empty payload yields an empty body.
func ParseBody(raw []byte) (Body, error) {
	body := Body{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return body, nil
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(&body); err != nil {
		return nil, err
	}
	return body, nil
}

// Has reports whether key was sent, even as null.
func (b Body) Has(key string) bool {
	_, ok := b[key]
	return ok
}

// String reads a string field. Empty strings read as null. When nullable is
// false an explicit null is reported as a type error.
func (b Body) String(key string, nullable bool, errs apierrors.FieldErrors) *string {
	raw, ok := b[key]
	if !ok {
		return nil
	}
	if raw == nil {
		if !nullable {
			errs.Add(key, fmt.Sprintf("The %s field must be a string.", label(key)))
		}
		return nil
	}
	s, ok := raw.(string)
	if !ok {
		errs.Add(key, fmt.Sprintf("The %s field must be a string.", label(key)))
		return nil
	}
	if s == "" {
		return nil
	}
	return &s
}

// ID reads a positive integer field, accepting numbers and numeric strings.
func (b Body) ID(key string, errs apierrors.FieldErrors) *uint64 {
	raw, ok := b[key]
	if !ok || raw == nil {
		return nil
	}

	var text string
	switch v := raw.(type) {
	case json.Number:
		text = v.String()
	case string:
		if v == "" {
			return nil
		}
		text = v
	default:
		errs.Add(key, fmt.Sprintf("The %s field must be an integer.", label(key)))
		return nil
	}

	id, err := strconv.ParseUint(text, 10, 64)
	if err != nil || id == 0 || id > math.MaxInt64 {
		errs.Add(key, fmt.Sprintf("The selected %s is invalid.", label(key)))
		return nil
	}
	return &id
}

func label(key string) string {
	return strings.ReplaceAll(key, "_", " ")
}

// finish merges type errors with rule errors. A field that already failed its
// type check keeps only that message.
func finish(typeErrs apierrors.FieldErrors, err error) error {
	fields := apierrors.FieldErrors{}
	for field, messages := range typeErrs {
		fields[field] = append(fields[field], messages...)
	}

	if err != nil {
		apiErr := apierrors.FromValidation(err)
		if apiErr.Kind != apierrors.KindValidation {
			return apiErr
		}
		for field, messages := range apiErr.Fields {
			if _, failed := typeErrs[field]; failed {
				continue
			}
			fields[field] = append(fields[field], messages...)
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return apierrors.Validation(fields)
}

func required(field string) validation.Rule {
	return validation.Required.Error(fmt.Sprintf("The %s field is required.", field))
}

func maxLength(field string, n int) validation.Rule {
	return validation.RuneLength(0, n).Error(fmt.Sprintf("The %s field must not be greater than %d characters.", field, n))
}

func dueDateRule(today time.Time) validation.Rule {
	return validation.Date(constants.DateLayout).
		Error("The due date field must be a valid date.").
		Min(today).
		RangeError("The due date field must be a date after or equal to today.")
}

func statusRule() validation.Rule {
	return validation.In(anyValues(models.TaskStatusValues())...).Error("The selected status is invalid.")
}

func priorityRule() validation.Rule {
	return validation.In(anyValues(models.TaskPriorityValues())...).Error("The selected priority is invalid.")
}

func anyValues(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// parseDate converts a validated date string to UTC midnight.
func parseDate(value *string) *time.Time {
	if value == nil {
		return nil
	}
	date, err := time.ParseInLocation(constants.DateLayout, *value, time.UTC)
	if err != nil {
		return nil
	}
	return &date
}

// Today returns the current calendar date as UTC midnight.
func Today(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Auth requests

type RegisterRequest struct {
	Name                 *string `json:"name"`
	Email                *string `json:"email"`
	Password             *string `json:"password"`
	PasswordConfirmation *string `json:"password_confirmation"`

	typeErrs apierrors.FieldErrors
}

// NewRegisterRequest reads a register body.
func NewRegisterRequest(body Body) *RegisterRequest {
	errs := apierrors.FieldErrors{}
	return &RegisterRequest{
		Name:                 body.String("name", true, errs),
		Email:                body.String("email", true, errs),
		Password:             body.String("password", true, errs),
		PasswordConfirmation: body.String("password_confirmation", true, errs),
		typeErrs:             errs,
	}
}

func (r *RegisterRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Name, required("name"), maxLength("name", constants.MaxNameLength)),
		validation.Field(&r.Email,
			required("email"),
			is.EmailFormat.Error("The email field must be a valid email address."),
			maxLength("email", constants.MaxEmailLength),
		),
		validation.Field(&r.Password,
			required("password"),
			validation.RuneLength(constants.MinPasswordLength, 0).
				Error(fmt.Sprintf("The password field must be at least %d characters.", constants.MinPasswordLength)),
			validation.By(r.confirmed),
		),
	)
	return finish(r.typeErrs, err)
}

func (r *RegisterRequest) confirmed(value interface{}) error {
	if r.Password == nil {
		return nil
	}
	if r.PasswordConfirmation == nil || *r.PasswordConfirmation != *r.Password {
		return validation.NewError("validation_confirmed", "The password field confirmation does not match.")
	}
	return nil
}

type LoginRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`

	typeErrs apierrors.FieldErrors
}

// NewLoginRequest reads a login body.
func NewLoginRequest(body Body) *LoginRequest {
	errs := apierrors.FieldErrors{}
	return &LoginRequest{
		Email:    body.String("email", true, errs),
		Password: body.String("password", true, errs),
		typeErrs: errs,
	}
}

func (r *LoginRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Email, required("email"), is.EmailFormat.Error("The email field must be a valid email address.")),
		validation.Field(&r.Password, required("password")),
	)
	return finish(r.typeErrs, err)
}

// Task requests

type CreateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`

	typeErrs apierrors.FieldErrors
}

// NewCreateTaskRequest reads a create body.
func NewCreateTaskRequest(body Body) *CreateTaskRequest {
	errs := apierrors.FieldErrors{}
	return &CreateTaskRequest{
		Title:       body.String("title", true, errs),
		Description: body.String("description", true, errs),
		DueDate:     body.String("due_date", true, errs),
		Status:      body.String("status", true, errs),
		Priority:    body.String("priority", true, errs),
		typeErrs:    errs,
	}
}

// Validate checks the request. today is the earliest accepted due date.
func (r *CreateTaskRequest) Validate(today time.Time) error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Title, required("title"), maxLength("title", constants.MaxTitleLength)),
		validation.Field(&r.DueDate, dueDateRule(today)),
		validation.Field(&r.Status, statusRule()),
		validation.Field(&r.Priority, priorityRule()),
	)
	return finish(r.typeErrs, err)
}

// DueDateValue returns the parsed due date, if any.
func (r *CreateTaskRequest) DueDateValue() *time.Time {
	return parseDate(r.DueDate)
}

type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`

	body     Body
	typeErrs apierrors.FieldErrors
}

// NewUpdateTaskRequest reads a partial update body.
func NewUpdateTaskRequest(body Body) *UpdateTaskRequest {
	errs := apierrors.FieldErrors{}
	return &UpdateTaskRequest{
		Title:       body.String("title", true, errs),
		Description: body.String("description", true, errs),
		DueDate:     body.String("due_date", true, errs),
		Status:      body.String("status", false, errs),
		Priority:    body.String("priority", false, errs),
		body:        body,
		typeErrs:    errs,
	}
}

// Has reports whether the field was part of the request.
func (r *UpdateTaskRequest) Has(field string) bool {
	return r.body.Has(field)
}

func (r *UpdateTaskRequest) Validate(today time.Time) error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Title,
			validation.When(r.Has("title"), required("title")),
			maxLength("title", constants.MaxTitleLength),
		),
		validation.Field(&r.DueDate, dueDateRule(today)),
		validation.Field(&r.Status, statusRule()),
		validation.Field(&r.Priority, priorityRule()),
	)
	return finish(r.typeErrs, err)
}

func (r *UpdateTaskRequest) DueDateValue() *time.Time {
	return parseDate(r.DueDate)
}

type AssignTaskRequest struct {
	UserID *uint64 `json:"user_id"`

	typeErrs apierrors.FieldErrors
}

// NewAssignTaskRequest reads an assign body.
func NewAssignTaskRequest(body Body) *AssignTaskRequest {
	errs := apierrors.FieldErrors{}
	return &AssignTaskRequest{
		UserID:   body.ID("user_id", errs),
		typeErrs: errs,
	}
}

func (r *AssignTaskRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.UserID, required("user id")),
	)
	return finish(r.typeErrs, err)
}

// ListTasksQuery holds the optional list filters taken from the query string.
type ListTasksQuery struct {
	Status   string `json:"status"`
	Priority string `json:"priority"`
	DueDate  string `json:"due_date"`
	Sort     string `json:"sort"`
}

// SortField returns the sort column and whether it is descending.
func (q *ListTasksQuery) SortField() (string, bool) {
	if strings.HasPrefix(q.Sort, "-") {
		return strings.TrimPrefix(q.Sort, "-"), true
	}
	return q.Sort, false
}

func (q *ListTasksQuery) Validate() error {
	field, _ := q.SortField()
	err := validation.Errors{
		"due_date": validation.Validate(q.DueDate,
			validation.Date(constants.DateLayout).Error("The due date field must be a valid date.")),
		"sort": validation.Validate(field,
			validation.In(anyValues(models.TaskSortFields())...).Error("The selected sort is invalid.")),
	}.Filter()
	return finish(nil, err)
}

// DueDateValue returns the parsed due date filter, if any.
func (q *ListTasksQuery) DueDateValue() *time.Time {
	if q.DueDate == "" {
		return nil
	}
	return parseDate(&q.DueDate)
}
