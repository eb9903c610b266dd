package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daybook/core/internal/adapters/repository"
	"github.com/daybook/core/internal/application/services"
	"github.com/daybook/core/internal/domain/entities"
	"github.com/daybook/core/internal/infrastructure/logger"
	"github.com/daybook/core/internal/ports"
)

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

type memKV struct {
	data map[string]string
}

func (s *memKV) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *memKV) Set(_ context.Context, key, value string) error {
	s.data[key] = value
	return nil
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type fakeGateway struct {
	granted   bool
	scheduled int
	cancelled []string
}

func (g *fakeGateway) PermissionGranted(_ context.Context) bool { return g.granted }

func (g *fakeGateway) RequestPermission(_ context.Context) (bool, error) {
	g.granted = true
	return true, nil
}

func (g *fakeGateway) Schedule(_ context.Context, _ time.Time, _ ports.Notification) (string, error) {
	g.scheduled++
	return fmt.Sprintf("handle-%d", g.scheduled), nil
}

func (g *fakeGateway) Cancel(_ context.Context, handle string) error {
	g.cancelled = append(g.cancelled, handle)
	return nil
}

type fixture struct {
	echo    *echo.Echo
	handler *EventHandler
	gateway *fakeGateway
	clock   *fakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	kv := &memKV{data: make(map[string]string)}
	clock := &fakeClock{now: time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)}
	gateway := &fakeGateway{granted: true}

	nop := logger.NewNop()
	repo := repository.NewEventRepository(kv, nop)
	events := services.NewEventService(repo, clock, nop)
	reminders := services.NewReminderService(gateway, clock, nop)

	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}

	return &fixture{
		echo:    e,
		handler: NewEventHandler(events, reminders, nop),
		gateway: gateway,
		clock:   clock,
	}
}

func (f *fixture) request(t *testing.T, method, target, body string) (*httptest.ResponseRecorder, *http.Request) {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return httptest.NewRecorder(), req
}

func (f *fixture) do(t *testing.T, method, path, body string, handler echo.HandlerFunc, pathParams ...string) *httptest.ResponseRecorder {
	t.Helper()

	rec, req := f.request(t, method, path, body)
	c := f.echo.NewContext(req, rec)
	c.SetPath(path)
	for i := 0; i+1 < len(pathParams); i += 2 {
		c.SetParamNames(pathParams[i])
		c.SetParamValues(pathParams[i+1])
	}

	if err := handler(c); err != nil {
		f.echo.HTTPErrorHandler(err, c)
	}
	return rec
}

func (f *fixture) createEvent(t *testing.T, body string) EventResponse {
	t.Helper()

	rec := f.do(t, http.MethodPost, "/api/v1/events", body, f.handler.CreateEvent)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp EventResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCreateEventSchedulesReminder(t *testing.T) {
	f := newFixture(t)

	resp := f.createEvent(t, `{
		"title": "Standup",
		"date": "2025-01-10",
		"time": "09:00",
		"hasReminder": true,
		"reminderMinutes": 15
	}`)

	require.NotNil(t, resp.Event)
	assert.NotEmpty(t, resp.Event.ID)
	require.NotNil(t, resp.Reminder)
	assert.Equal(t, ports.OutcomeScheduled, resp.Reminder.Outcome)
	assert.NotEmpty(t, resp.Reminder.Handle)
	assert.Equal(t, 1, f.gateway.scheduled)
}

func TestCreateEventPastReminderWindow(t *testing.T) {
	f := newFixture(t)
	f.clock.now = time.Date(2025, 1, 10, 8, 50, 0, 0, time.UTC)

	resp := f.createEvent(t, `{
		"title": "Standup",
		"date": "2025-01-10",
		"time": "09:00",
		"hasReminder": true,
		"reminderMinutes": 15
	}`)

	require.NotNil(t, resp.Reminder)
	assert.Equal(t, ports.OutcomeWindowPassed, resp.Reminder.Outcome)
	assert.Empty(t, resp.Reminder.Handle)
}

func TestCreateEventValidation(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/events", `{"date": "2025-01-10"}`, f.handler.CreateEvent)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/events", `{"title": "X", "date": "bogus"}`, f.handler.CreateEvent)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListEventsByDate(t *testing.T) {
	f := newFixture(t)
	f.createEvent(t, `{"title": "A", "date": "2025-01-10"}`)
	f.createEvent(t, `{"title": "B", "date": "2025-01-11"}`)

	rec := f.do(t, http.MethodGet, "/api/v1/events?date=2025-01-10", "", f.handler.ListEvents)
	require.Equal(t, http.StatusOK, rec.Code)

	var events []entities.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "A", events[0].Title)
}

func TestUpdateUnknownEventReturns404(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPut, "/api/v1/events/:id", `{"title": "X"}`, f.handler.UpdateEvent, "id", "nonexistent-id")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateReschedulesReminder(t *testing.T) {
	f := newFixture(t)
	resp := f.createEvent(t, `{
		"title": "Standup",
		"date": "2025-01-10",
		"time": "09:00",
		"hasReminder": true,
		"reminderMinutes": 15
	}`)

	rec := f.do(t, http.MethodPut, "/api/v1/events/:id", `{"title": "Retro"}`, f.handler.UpdateEvent, "id", resp.Event.ID)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Old handle cancelled, new one armed.
	assert.Equal(t, []string{resp.Reminder.Handle}, f.gateway.cancelled)
	assert.Equal(t, 2, f.gateway.scheduled)
}

func TestDeleteEventCancelsReminder(t *testing.T) {
	f := newFixture(t)
	resp := f.createEvent(t, `{
		"title": "Standup",
		"date": "2025-01-10",
		"time": "09:00",
		"hasReminder": true,
		"reminderMinutes": 15
	}`)

	rec := f.do(t, http.MethodDelete, "/api/v1/events/:id", "", f.handler.DeleteEvent, "id", resp.Event.ID)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{resp.Reminder.Handle}, f.gateway.cancelled)

	rec = f.do(t, http.MethodDelete, "/api/v1/events/:id", "", f.handler.DeleteEvent, "id", resp.Event.ID)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpcomingEvents(t *testing.T) {
	f := newFixture(t)
	f.createEvent(t, `{"title": "past", "date": "2025-01-09"}`)
	f.createEvent(t, `{"title": "later", "date": "2025-01-12", "time": "10:00"}`)
	f.createEvent(t, `{"title": "sooner", "date": "2025-01-11"}`)

	rec := f.do(t, http.MethodGet, "/api/v1/events/upcoming?limit=5", "", f.handler.UpcomingEvents)
	require.Equal(t, http.StatusOK, rec.Code)

	var events []entities.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 2)
	assert.Equal(t, "sooner", events[0].Title)
	assert.Equal(t, "later", events[1].Title)

	rec = f.do(t, http.MethodGet, "/api/v1/events/upcoming?limit=-3", "", f.handler.UpcomingEvents)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestPermission(t *testing.T) {
	f := newFixture(t)
	f.gateway.granted = false

	rec := f.do(t, http.MethodPost, "/api/v1/notifications/permission", "", f.handler.RequestPermission)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp["granted"])
}

func TestExportCalendar(t *testing.T) {
	f := newFixture(t)
	f.createEvent(t, `{"title": "Standup", "date": "2025-01-10", "time": "09:00"}`)

	rec := f.do(t, http.MethodGet, "/api/v1/calendar.ics", "", f.handler.ExportCalendar)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/calendar")

	body := rec.Body.String()
	assert.Contains(t, body, "BEGIN:VCALENDAR")
	assert.Contains(t, body, "SUMMARY:Standup")
}
