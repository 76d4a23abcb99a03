package services

import (
	"testing"
	"time"

	"queue-system/internal/entities"
	apperrors "queue-system/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)

func mustCreate(t *testing.T, snapshot entities.QueueSnapshot, name string, service entities.ServiceType, priority bool) (entities.Ticket, entities.QueueSnapshot) {
	t.Helper()
	ticket, next, err := CreateTicket(snapshot, name, service, priority, testNow)
	require.NoError(t, err)
	return ticket, next
}

func TestCreateTicket_SequenceAndID(t *testing.T) {
	snapshot := EmptySnapshot()

	ticket, snapshot := mustCreate(t, snapshot, "Maria", entities.ServiceSupport, false)
	assert.Equal(t, "S001", ticket.ID)
	assert.Equal(t, 1, ticket.RawID)
	assert.Equal(t, entities.StatusWaiting, ticket.Status)
	assert.Equal(t, testNow, ticket.CreatedAt)

	second, snapshot := mustCreate(t, snapshot, "João", entities.ServiceSales, false)
	assert.Equal(t, "V002", second.ID)
	assert.Equal(t, 2, second.RawID)

	third, snapshot := mustCreate(t, snapshot, "Ana", entities.ServiceReturns, true)
	assert.Equal(t, "D003", third.ID)

	// Номера строго растут на единицу, ID уникальны в пределах дня.
	seen := map[string]bool{}
	for i, ticket := range snapshot {
		assert.Equal(t, i+1, ticket.RawID)
		assert.False(t, seen[ticket.ID], "ID %s повторился", ticket.ID)
		seen[ticket.ID] = true
	}
}

func TestCreateTicket_EmptyNameRejected(t *testing.T) {
	_, _, err := CreateTicket(EmptySnapshot(), "   ", entities.ServiceSupport, false, testNow)
	require.Error(t, err)

	var invalidInput *apperrors.InvalidInputError
	assert.ErrorAs(t, err, &invalidInput)
}

func TestCreateTicket_UnknownServiceRejected(t *testing.T) {
	_, _, err := CreateTicket(EmptySnapshot(), "Maria", entities.ServiceType("Barbearia"), false, testNow)
	assert.ErrorIs(t, err, apperrors.ErrInvalidServiceType)
}

func TestCreateTicket_DoesNotMutateInput(t *testing.T) {
	_, snapshot := mustCreate(t, EmptySnapshot(), "Maria", entities.ServiceSupport, false)

	_, next, err := CreateTicket(snapshot, "João", entities.ServiceSales, false, testNow)
	require.NoError(t, err)

	assert.Len(t, snapshot, 1)
	assert.Len(t, next, 2)
}

func TestApplyStatus_CallSetsStartedAtAndDesk(t *testing.T) {
	ticket, snapshot := mustCreate(t, EmptySnapshot(), "Maria", entities.ServiceSupport, false)

	callTime := testNow.Add(5 * time.Minute)
	next, err := ApplyStatus(snapshot, ticket.ID, entities.StatusInProgress, "Guichê 02", callTime)
	require.NoError(t, err)

	called, ok := next.Find(ticket.ID)
	require.True(t, ok)
	assert.Equal(t, entities.StatusInProgress, called.Status)
	assert.True(t, called.StartedAt.Valid)
	assert.Equal(t, callTime, called.StartedAt.Time)
	assert.Equal(t, "Guichê 02", called.Desk.String)

	// Исходный снимок не тронут.
	original, _ := snapshot.Find(ticket.ID)
	assert.Equal(t, entities.StatusWaiting, original.Status)
	assert.False(t, original.StartedAt.Valid)
}

func TestApplyStatus_UnknownTicket(t *testing.T) {
	_, err := ApplyStatus(EmptySnapshot(), "S999", entities.StatusInProgress, "Guichê 01", testNow)
	assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
}

func TestApplyStatus_InvalidStatusValue(t *testing.T) {
	ticket, snapshot := mustCreate(t, EmptySnapshot(), "Maria", entities.ServiceSupport, false)
	_, err := ApplyStatus(snapshot, ticket.ID, entities.TicketStatus("PENDENTE"), "", testNow)
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatus)
}

func TestApplyStatus_InvalidTransitions(t *testing.T) {
	ticket, snapshot := mustCreate(t, EmptySnapshot(), "Maria", entities.ServiceSupport, false)

	// Из ожидания нельзя сразу завершить.
	_, err := ApplyStatus(snapshot, ticket.ID, entities.StatusDone, "", testNow)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	// Из терминального статуса нельзя вызвать.
	cancelled, err := ApplyStatus(snapshot, ticket.ID, entities.StatusCancelled, "", testNow)
	require.NoError(t, err)
	_, err = ApplyStatus(cancelled, ticket.ID, entities.StatusInProgress, "Guichê 01", testNow)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestApplyStatus_NoOpTransitionIsIdempotent(t *testing.T) {
	ticket, snapshot := mustCreate(t, EmptySnapshot(), "Maria", entities.ServiceSupport, false)

	once, err := ApplyStatus(snapshot, ticket.ID, entities.StatusWaiting, "", testNow)
	require.NoError(t, err)
	twice, err := ApplyStatus(once, ticket.ID, entities.StatusWaiting, "", testNow.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestApplyStatus_RequeueClearsCallFields(t *testing.T) {
	ticket, snapshot := mustCreate(t, EmptySnapshot(), "Maria", entities.ServiceSupport, false)

	snapshot, err := ApplyStatus(snapshot, ticket.ID, entities.StatusInProgress, "Guichê 02", testNow)
	require.NoError(t, err)
	snapshot, err = ApplyStatus(snapshot, ticket.ID, entities.StatusWaiting, "", testNow)
	require.NoError(t, err)

	requeued, _ := snapshot.Find(ticket.ID)
	assert.Equal(t, entities.StatusWaiting, requeued.Status)
	assert.False(t, requeued.StartedAt.Valid)
	assert.False(t, requeued.CompletedAt.Valid)
	assert.False(t, requeued.Desk.Valid)
}

func TestTicketLifecycle_EndToEnd(t *testing.T) {
	ticket, snapshot := mustCreate(t, EmptySnapshot(), "Maria", entities.ServiceSupport, true)
	require.Equal(t, "S001", ticket.ID)
	require.Equal(t, entities.StatusWaiting, ticket.Status)

	callTime := testNow.Add(2 * time.Minute)
	snapshot, err := ApplyStatus(snapshot, "S001", entities.StatusInProgress, "Desk 2", callTime)
	require.NoError(t, err)
	called, _ := snapshot.Find("S001")
	assert.Equal(t, entities.StatusInProgress, called.Status)
	assert.Equal(t, "Desk 2", called.Desk.String)
	assert.True(t, called.StartedAt.Valid)

	doneTime := testNow.Add(10 * time.Minute)
	snapshot, err = ApplyStatus(snapshot, "S001", entities.StatusDone, "", doneTime)
	require.NoError(t, err)
	done, _ := snapshot.Find("S001")
	assert.Equal(t, entities.StatusDone, done.Status)
	assert.Equal(t, doneTime, done.CompletedAt.Time)
	assert.Equal(t, callTime, done.StartedAt.Time, "startedAt не должен меняться при завершении")

	snapshot, err = ApplyStatus(snapshot, "S001", entities.StatusWaiting, "", testNow.Add(11*time.Minute))
	require.NoError(t, err)
	restored, _ := snapshot.Find("S001")
	assert.Equal(t, entities.StatusWaiting, restored.Status)
	assert.False(t, restored.CompletedAt.Valid)
	assert.Equal(t, 1, restored.RawID, "номер талона сохраняется при восстановлении")
}

func TestSelectNextWaiting_PriorityFirstStable(t *testing.T) {
	snapshot := EmptySnapshot()
	a, snapshot := mustCreate(t, snapshot, "A", entities.ServiceSales, false)
	b, snapshot := mustCreate(t, snapshot, "B", entities.ServiceSales, true)
	c, snapshot := mustCreate(t, snapshot, "C", entities.ServiceSales, false)

	order := SelectNextWaiting(snapshot)
	require.Len(t, order, 3)
	assert.Equal(t, b.ID, order[0].ID)
	assert.Equal(t, a.ID, order[1].ID)
	assert.Equal(t, c.ID, order[2].ID)
}

func TestSelectNextWaiting_SkipsNonWaiting(t *testing.T) {
	a, snapshot := mustCreate(t, EmptySnapshot(), "A", entities.ServiceSales, false)
	_, snapshot = mustCreate(t, snapshot, "B", entities.ServiceSales, false)

	snapshot, err := ApplyStatus(snapshot, a.ID, entities.StatusInProgress, "Guichê 01", testNow)
	require.NoError(t, err)

	order := SelectNextWaiting(snapshot)
	require.Len(t, order, 1)
	assert.Equal(t, "V002", order[0].ID)
}

func TestRemoveTicket(t *testing.T) {
	a, snapshot := mustCreate(t, EmptySnapshot(), "A", entities.ServiceSales, false)
	b, snapshot := mustCreate(t, snapshot, "B", entities.ServiceSales, false)

	next := RemoveTicket(snapshot, a.ID)
	require.Len(t, next, 1)
	assert.Equal(t, b.ID, next[0].ID)

	// Отсутствующий ID - no-op.
	assert.Equal(t, next, RemoveTicket(next, "X999"))
}

func TestCurrentCall_LastCalledWins(t *testing.T) {
	a, snapshot := mustCreate(t, EmptySnapshot(), "A", entities.ServiceSales, false)
	b, snapshot := mustCreate(t, snapshot, "B", entities.ServiceSupport, false)

	snapshot, err := ApplyStatus(snapshot, a.ID, entities.StatusInProgress, "Guichê 01", testNow)
	require.NoError(t, err)
	snapshot, err = ApplyStatus(snapshot, b.ID, entities.StatusInProgress, "Guichê 02", testNow.Add(time.Minute))
	require.NoError(t, err)

	current, ok := CurrentCall(snapshot)
	require.True(t, ok)
	assert.Equal(t, b.ID, current.ID)

	_, ok = CurrentCall(EmptySnapshot())
	assert.False(t, ok)
}
