package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"fin-dashboard/internal/dispatch"
	"fin-dashboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const owner = "owner-1"

func newChatService(store *memRecords, completer dispatch.Completer) *ChatService {
	logger := zap.NewNop()
	d := dispatch.NewDispatcher(store, completer, 5, logger)
	return NewChatService(d, NewExtractionService(logger), logger)
}

func TestSendMessageSelectRefreshesDocument(t *testing.T) {
	store := newMemRecords()
	store.seed(models.TableInvestments, owner, models.Record{"symbol": "AAPL", "name": "Apple"})
	svc := newChatService(store, &blockingCompleter{})
	svc.SetDocument(owner, `{"stale": true}`)

	reply, err := svc.SendMessage(context.Background(), owner, "show my portfolio")
	require.NoError(t, err)

	assert.Equal(t, dispatch.OpSelect, reply.Operation)
	assert.Equal(t, models.TableInvestments, reply.Table)
	assert.Equal(t, 1, reply.Records)
	assert.Empty(t, reply.Kind)
	assert.Contains(t, reply.Document, `"symbol": "AAPL"`)

	snap := svc.Snapshot(owner)
	require.Len(t, snap.Messages, 2)
	assert.Equal(t, models.RoleUser, snap.Messages[0].Role)
	assert.Equal(t, models.RoleAssistant, snap.Messages[1].Role)
	assert.Equal(t, reply.Reply, snap.Messages[1].Content)
	assert.Equal(t, reply.Document, snap.Document)
}

func TestSendMessageReportsFailureKind(t *testing.T) {
	svc := newChatService(newMemRecords(), &blockingCompleter{})

	reply, err := svc.SendMessage(context.Background(), owner, "insert the json")
	require.NoError(t, err)
	assert.Equal(t, "no_document", reply.Kind)
	assert.Contains(t, reply.Reply, "No JSON data available")
}

func TestSendMessageRejectsConcurrentDispatch(t *testing.T) {
	completer := &blockingCompleter{
		entered: make(chan struct{}),
		release: make(chan struct{}),
		answer:  "fine",
	}
	entered := completer.entered
	svc := newChatService(newMemRecords(), completer)

	done := make(chan error, 1)
	go func() {
		_, err := svc.SendMessage(context.Background(), owner, "How am I doing?")
		done <- err
	}()

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first dispatch never reached the completer")
	}

	_, err := svc.SendMessage(context.Background(), owner, "show my budget")
	assert.ErrorIs(t, err, ErrDispatchInFlight)

	_, err = svc.SendMessage(context.Background(), "someone-else", "show my budget")
	assert.NoError(t, err, "other sessions are not blocked")

	close(completer.release)
	require.NoError(t, <-done)

	_, err = svc.SendMessage(context.Background(), owner, "show my budget")
	assert.NoError(t, err)
}

func TestClearWaitsForInFlightDispatch(t *testing.T) {
	completer := &blockingCompleter{
		entered: make(chan struct{}),
		release: make(chan struct{}),
		answer:  "fine",
	}
	entered := completer.entered
	svc := newChatService(newMemRecords(), completer)

	done := make(chan error, 1)
	go func() {
		_, err := svc.SendMessage(context.Background(), owner, "How am I doing?")
		done <- err
	}()

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first dispatch never reached the completer")
	}

	assert.ErrorIs(t, svc.Clear(owner), ErrDispatchInFlight)

	_, err := svc.SendMessage(context.Background(), owner, "show my budget")
	assert.ErrorIs(t, err, ErrDispatchInFlight)

	close(completer.release)
	require.NoError(t, <-done)

	_, err = svc.SendMessage(context.Background(), owner, "show my budget")
	require.NoError(t, err)
	assert.Len(t, svc.Snapshot(owner).Messages, 4)

	require.NoError(t, svc.Clear(owner))
	assert.Empty(t, svc.Snapshot(owner).Messages)
}

func TestUploadThenInsertFromFile(t *testing.T) {
	store := newMemRecords()
	svc := newChatService(store, &blockingCompleter{})

	csv := "Category,Amount,Type\nGroceries,120.50,expense\n"
	data, err := svc.Upload(context.Background(), owner, "budget.csv", strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, "csv", data.FileType)

	snap := svc.Snapshot(owner)
	require.NotNil(t, snap.Upload)
	assert.Contains(t, snap.Document, `"columns"`)

	reply, err := svc.SendMessage(context.Background(), owner, "add this to my records")
	require.NoError(t, err)
	assert.Equal(t, dispatch.SourceUpload, reply.Source)
	assert.Equal(t, models.TableBudgetItems, reply.Table)
	assert.Empty(t, reply.Kind, reply.Reply)

	rows, err := store.Select(context.Background(), models.TableBudgetItems, owner, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Groceries", rows[0]["category"])
	assert.Equal(t, 120.5, rows[0]["budgeted"])
}

func TestUploadRejectsUnknownType(t *testing.T) {
	svc := newChatService(newMemRecords(), &blockingCompleter{})
	_, err := svc.Upload(context.Background(), owner, "notes.txt", strings.NewReader("hello"))
	assert.ErrorIs(t, err, ErrUnsupportedFile)
	assert.Nil(t, svc.Snapshot(owner).Upload)
}

func TestRunOperationInsert(t *testing.T) {
	store := newMemRecords()
	svc := newChatService(store, &blockingCompleter{})

	data := json.RawMessage(`[{"category":"rent","budgeted":1200,"actual":1200,"type":"expense"}]`)
	result, err := svc.RunOperation(context.Background(), owner, dispatch.OpInsert, models.TableBudgetItems, data)
	require.NoError(t, err)

	require.Len(t, result.Rows, 1)
	assert.False(t, result.Rows[0].Has("user_id"))
	assert.True(t, result.Rows[0].Has("id"))

	snap := svc.Snapshot(owner)
	assert.Contains(t, snap.Document, `"category": "rent"`)
	assert.NotContains(t, snap.Document, "user_id")
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, "Database operation insert on budget items completed: 1 records affected.", snap.Messages[0].Content)
}

func TestRunOperationErrorsAreReturned(t *testing.T) {
	store := newMemRecords()
	svc := newChatService(store, &blockingCompleter{})

	_, err := svc.RunOperation(context.Background(), owner, dispatch.OpInsert, models.TableBudgetItems, json.RawMessage(`{broken`))
	assert.ErrorIs(t, err, dispatch.ErrInvalidPayload)

	_, err = svc.RunOperation(context.Background(), owner, dispatch.OpDelete, models.TableBudgetItems, json.RawMessage(`{"category":"rent"}`))
	assert.ErrorIs(t, err, dispatch.ErrMissingIdentifier)

	store.err = assert.AnError
	_, err = svc.RunOperation(context.Background(), owner, dispatch.OpSelect, models.TableBudgetItems, nil)
	assert.ErrorIs(t, err, dispatch.ErrStore)

	assert.Empty(t, svc.Snapshot(owner).Messages)
}

func TestClearResetsSession(t *testing.T) {
	svc := newChatService(newMemRecords(), &blockingCompleter{answer: "hi"})
	svc.SetDocument(owner, `{"a":1}`)
	_, err := svc.SendMessage(context.Background(), owner, "hello there")
	require.NoError(t, err)

	require.NoError(t, svc.Clear(owner))

	snap := svc.Snapshot(owner)
	assert.Empty(t, snap.Messages)
	assert.Empty(t, snap.Document)
	assert.Nil(t, snap.Upload)
}
