package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fin-dashboard/internal/models"

	"go.uber.org/zap"
)

// Completer answers a free-form question. It is called only when a message
// maps to no data operation.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Request is one chat message plus the session state it may act on.
type Request struct {
	OwnerID  string
	Text     string
	Document string
	Upload   *models.ExtractedData
}

// Response carries the single assistant reply and the working document as
// it stands after the dispatch.
type Response struct {
	Reply    string
	Document string
	Intent   Intent
	Table    models.Table
	Result   *Result
	Err      error
}

type Dispatcher struct {
	store          RecordStore
	completer      Completer
	executor       *Executor
	contextRecords int
	now            func() time.Time
	logger         *zap.Logger
}

func NewDispatcher(store RecordStore, completer Completer, contextRecords int, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		store:          store,
		completer:      completer,
		executor:       NewExecutor(store),
		contextRecords: contextRecords,
		now:            time.Now,
		logger:         logger,
	}
}

// Executor exposes the operation executor for callers that already know the
// operation and table.
func (d *Dispatcher) Executor() *Executor {
	return d.executor
}

// Dispatch runs classify, resolve, route, execute and format for one message.
// Failures end up in the reply; Dispatch itself never fails.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) *Response {
	_, tabular := req.Upload.Tabular()
	intent := Classify(req.Text, ClassifyContext{HasTabularUpload: tabular})
	resp := &Response{Document: req.Document, Intent: intent}

	if !intent.Actionable() {
		return d.answer(ctx, req, resp)
	}

	table, payload, err := d.resolve(intent, req)
	resp.Table = table
	if err != nil {
		return d.fail(resp, err)
	}
	if payload == nil && intent.Operation != OpSelect {
		d.logger.Debug("No payload resolved, answering as a question",
			zap.String("operation", string(intent.Operation)),
			zap.String("source", string(intent.Source)),
		)
		return d.answer(ctx, req, resp)
	}

	result, err := d.executor.Execute(ctx, req.OwnerID, intent.Operation, table, payload)
	if err != nil {
		return d.fail(resp, err)
	}
	resp.Result = result
	resp.Reply = FormatResult(result)

	if result.Operation == OpSelect {
		doc, err := result.Document()
		if err != nil {
			d.logger.Error("Failed to render selected records", zap.Error(err))
		} else {
			resp.Document = doc
		}
	}

	d.logger.Info("Dispatch completed",
		zap.String("operation", string(intent.Operation)),
		zap.String("source", string(intent.Source)),
		zap.String("rule", intent.Rule),
		zap.String("table", string(table)),
		zap.Int("records", len(result.Rows)),
	)
	return resp
}

func (d *Dispatcher) resolve(intent Intent, req Request) (models.Table, *Payload, error) {
	switch intent.Source {
	case SourceDocument:
		payload, err := ParseDocument(req.Document)
		if err != nil {
			return Route(req.Text, intent.Source, nil), nil, err
		}
		return Route(req.Text, intent.Source, payload), payload, nil

	case SourceUpload:
		rec, ok := FromUpload(req.Upload)
		if !ok {
			return Route(req.Text, intent.Source, nil), nil, nil
		}
		payload := SingleRecord(rec)
		table := Route(req.Text, intent.Source, payload)
		if rec, ok = reshape(table, rec, d.now()); !ok {
			return table, nil, nil
		}
		return table, SingleRecord(rec), nil

	case SourceText:
		table := Route(req.Text, intent.Source, nil)
		payload, err := FromText(intent.Operation, table, req.Text, d.now())
		return table, payload, err

	default:
		return Route(req.Text, intent.Source, nil), nil, nil
	}
}

func (d *Dispatcher) answer(ctx context.Context, req Request, resp *Response) *Response {
	grounding := Grounding{Upload: req.Upload, Document: req.Document}
	if d.contextRecords > 0 {
		recent, err := d.store.Select(ctx, models.TableBudgetItems, req.OwnerID, d.contextRecords)
		if err != nil {
			d.logger.Warn("Could not load budget context", zap.Error(err))
		}
		grounding.RecentBudget = recent
	}

	answer, err := d.completer.Complete(ctx, grounding.SystemInstruction(), req.Text)
	if err != nil {
		if !errors.Is(err, ErrUpstreamService) {
			err = fmt.Errorf("%w: %w", ErrUpstreamService, err)
		}
		return d.fail(resp, err)
	}

	resp.Reply = CleanMarkdown(answer)
	d.logger.Info("Answered as a question", zap.Int("reply_length", len(resp.Reply)))
	return resp
}

func (d *Dispatcher) fail(resp *Response, err error) *Response {
	resp.Err = err
	resp.Reply = FormatError(resp.Intent.Operation, err)
	d.logger.Warn("Dispatch failed",
		zap.String("operation", string(resp.Intent.Operation)),
		zap.String("source", string(resp.Intent.Source)),
		zap.String("table", string(resp.Table)),
		zap.String("kind", Kind(err)),
		zap.Error(err),
	)
	return resp
}
