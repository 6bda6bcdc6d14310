package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"fin-dashboard/internal/dispatch"
	"fin-dashboard/internal/models"

	"go.uber.org/zap"
)

var ErrDispatchInFlight = errors.New("a message is already being processed for this session")

// ChatSession is the in-memory state of one user's chat: the transcript, the
// editable working document and the last uploaded file.
type ChatSession struct {
	// busy is held for the whole dispatch of one message.
	busy sync.Mutex

	mu       sync.Mutex
	messages []models.Message
	document string
	upload   *models.ExtractedData
}

type SessionSnapshot struct {
	Messages []models.Message
	Document string
	Upload   *models.ExtractedData
}

func (s *ChatSession) snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionSnapshot{
		Messages: append([]models.Message(nil), s.messages...),
		Document: s.document,
		Upload:   s.upload,
	}
}

func (s *ChatSession) append(msgs ...models.Message) {
	s.mu.Lock()
	s.messages = append(s.messages, msgs...)
	s.mu.Unlock()
}

// ChatReply is the outcome of one chat message. Kind is set when the reply
// describes a failure.
type ChatReply struct {
	Reply     string
	Document  string
	Operation dispatch.Operation
	Source    dispatch.Source
	Table     models.Table
	Records   int
	Kind      string
}

type ChatService struct {
	dispatcher *dispatch.Dispatcher
	extractor  *ExtractionService
	logger     *zap.Logger

	mu       sync.Mutex
	sessions map[string]*ChatSession
}

func NewChatService(dispatcher *dispatch.Dispatcher, extractor *ExtractionService, logger *zap.Logger) *ChatService {
	return &ChatService{
		dispatcher: dispatcher,
		extractor:  extractor,
		logger:     logger,
		sessions:   make(map[string]*ChatSession),
	}
}

func (s *ChatService) session(ownerID string) *ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[ownerID]
	if !ok {
		sess = &ChatSession{}
		s.sessions[ownerID] = sess
	}
	return sess
}

// SendMessage dispatches one message. While it runs, a second message for the
// same session is rejected with ErrDispatchInFlight.
func (s *ChatService) SendMessage(ctx context.Context, ownerID, text string) (*ChatReply, error) {
	sess := s.session(ownerID)
	if !sess.busy.TryLock() {
		return nil, ErrDispatchInFlight
	}
	defer sess.busy.Unlock()

	sess.mu.Lock()
	sess.messages = append(sess.messages, models.NewMessage(models.RoleUser, text))
	req := dispatch.Request{
		OwnerID:  ownerID,
		Text:     text,
		Document: sess.document,
		Upload:   sess.upload,
	}
	sess.mu.Unlock()

	resp := s.dispatcher.Dispatch(ctx, req)

	sess.mu.Lock()
	sess.messages = append(sess.messages, models.NewMessage(models.RoleAssistant, resp.Reply))
	// Only a select rewrites the document, so edits made meanwhile survive.
	if resp.Document != req.Document {
		sess.document = resp.Document
	}
	document := sess.document
	sess.mu.Unlock()

	reply := &ChatReply{
		Reply:     resp.Reply,
		Document:  document,
		Operation: resp.Intent.Operation,
		Source:    resp.Intent.Source,
		Table:     resp.Table,
		Kind:      dispatch.Kind(resp.Err),
	}
	if resp.Result != nil {
		reply.Records = len(resp.Result.Rows)
	}
	return reply, nil
}

func (s *ChatService) SetDocument(ownerID, document string) {
	sess := s.session(ownerID)
	sess.mu.Lock()
	sess.document = document
	sess.mu.Unlock()
}

// Upload extracts the file, keeps it as the session's last upload and loads
// the extract into the working document.
func (s *ChatService) Upload(ctx context.Context, ownerID, fileName string, r io.Reader) (*models.ExtractedData, error) {
	data, err := s.extractor.Extract(ctx, fileName, r)
	if err != nil {
		return nil, err
	}

	document, err := json.MarshalIndent(data.Content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render extract: %w", err)
	}

	sess := s.session(ownerID)
	sess.mu.Lock()
	sess.upload = data
	sess.document = string(document)
	sess.mu.Unlock()

	s.logger.Info("Upload attached to chat session",
		zap.String("user_id", ownerID),
		zap.String("file_id", data.FileID),
	)
	return data, nil
}

// Clear drops the transcript, the document and the last upload. The session
// itself is kept so that busy keeps guarding it; clearing while a message is
// being dispatched fails with ErrDispatchInFlight.
func (s *ChatService) Clear(ownerID string) error {
	sess := s.session(ownerID)
	if !sess.busy.TryLock() {
		return ErrDispatchInFlight
	}
	defer sess.busy.Unlock()

	sess.mu.Lock()
	sess.messages = nil
	sess.document = ""
	sess.upload = nil
	sess.mu.Unlock()
	return nil
}

func (s *ChatService) Snapshot(ownerID string) SessionSnapshot {
	return s.session(ownerID).snapshot()
}

// RunOperation executes an operation chosen explicitly by the user, skipping
// classification and routing. Errors are returned to the caller instead of
// becoming chat replies. The affected rows replace the working document.
func (s *ChatService) RunOperation(ctx context.Context, ownerID string, op dispatch.Operation, table models.Table, data json.RawMessage) (*dispatch.Result, error) {
	var payload *dispatch.Payload
	if op != dispatch.OpSelect {
		var err error
		if payload, err = dispatch.ParsePayload(data); err != nil {
			return nil, err
		}
	}

	result, err := s.dispatcher.Executor().Execute(ctx, ownerID, op, table, payload)
	if err != nil {
		s.logger.Warn("Manual operation failed",
			zap.String("operation", string(op)),
			zap.String("table", string(table)),
			zap.String("kind", dispatch.Kind(err)),
			zap.Error(err),
		)
		return nil, err
	}

	result.Rows = withoutOwner(result.Rows)
	document, err := result.Document()
	if err != nil {
		return nil, err
	}

	sess := s.session(ownerID)
	sess.mu.Lock()
	sess.document = document
	sess.mu.Unlock()
	sess.append(models.NewMessage(models.RoleAssistant, operationSummary(result)))

	s.logger.Info("Manual operation completed",
		zap.String("operation", string(op)),
		zap.String("table", string(table)),
		zap.Int("records", len(result.Rows)),
	)
	return result, nil
}

func withoutOwner(rows []models.Record) []models.Record {
	out := make([]models.Record, 0, len(rows))
	for _, row := range rows {
		clean := row.Clone()
		delete(clean, "user_id")
		out = append(out, clean)
	}
	return out
}

func operationSummary(r *dispatch.Result) string {
	return fmt.Sprintf("Database operation %s on %s completed: %d records affected.",
		r.Operation, r.Table.DisplayName(), len(r.Rows))
}
