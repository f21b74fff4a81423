package chat

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"newsagents/services/chat-api/internal/domain/conversation"
	"newsagents/services/chat-api/internal/domain/envelope"
	"newsagents/services/chat-api/internal/domain/status"
	"newsagents/services/chat-api/internal/domain/workflow"
	"newsagents/services/chat-api/internal/infrastructure/metrics"
	"newsagents/services/chat-api/internal/infrastructure/observability"
	"newsagents/services/chat-api/internal/utils/apperrors"
	"newsagents/services/chat-api/internal/webhook"
)

// Queue accepts background tasks for deferred execution.
type Queue interface {
	Enqueue(task func(ctx context.Context)) error
}

// EmitFunc delivers one envelope to a streaming client. A non-nil error
// means the client is gone and the stream should stop.
type EmitFunc func(env envelope.Envelope) error

// Service is the orchestrator. Every exit is an Envelope; no error crosses
// this boundary.
type Service interface {
	Execute(ctx context.Context, req Request) envelope.Envelope
	ExecuteStream(ctx context.Context, req Request, emit EmitFunc)
	Enqueue(ctx context.Context, req Request) envelope.Envelope
	Status(ctx context.Context, requestID string) envelope.Envelope
	GetConversation(ctx context.Context, conversationID string) envelope.Envelope
	DeleteConversation(ctx context.Context, conversationID string) envelope.Envelope
}

type service struct {
	router        *workflow.Router
	conversations conversation.Service
	tracker       status.Tracker
	queue         Queue
	notifier      webhook.Service
	log           zerolog.Logger
}

// NewService wires the orchestrator. The notifier may be nil when callback
// delivery is not configured.
func NewService(router *workflow.Router, conversations conversation.Service, tracker status.Tracker, queue Queue, notifier webhook.Service, log zerolog.Logger) Service {
	return &service{
		router:        router,
		conversations: conversations,
		tracker:       tracker,
		queue:         queue,
		notifier:      notifier,
		log:           log.With().Str("component", "chat-orchestrator").Logger(),
	}
}

// Execute runs a request synchronously and returns the final envelope.
func (s *service) Execute(ctx context.Context, req Request) envelope.Envelope {
	ctx, req = s.prepare(ctx, req)
	tracked := s.startTracking(ctx, req)
	return s.run(ctx, req, tracked, nil)
}

// ExecuteStream runs a chat request in streaming mode, emitting partial
// envelopes per finished section and one terminal envelope. A failed emit
// cancels upstream consumption; the job is then marked failed.
func (s *service) ExecuteStream(ctx context.Context, req Request, emit EmitFunc) {
	ctx, req = s.prepare(ctx, req)
	tracked := s.startTracking(ctx, req)

	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	req.Stream = true
	observer := &partialEmitter{
		service: s,
		req:     req,
		emit:    emit,
		cancel:  cancel,
	}

	final := s.run(streamCtx, req, tracked, observer)
	if err := emit(final); err != nil {
		s.log.Debug().Str("request_id", req.RequestID).Msg("client gone before final envelope")
	}
}

// Enqueue defers execution to the worker pool and returns a processing
// envelope immediately. Progress is observable via the status endpoint.
func (s *service) Enqueue(ctx context.Context, req Request) envelope.Envelope {
	ctx, req = s.prepare(ctx, req)
	tracked := s.startTracking(ctx, req)

	task := req
	if err := s.queue.Enqueue(func(taskCtx context.Context) {
		taskCtx = apperrors.ContextWithRequestID(taskCtx, task.RequestID)
		env := s.run(taskCtx, task, tracked, nil)
		outcome := "completed"
		if env.Error != nil {
			outcome = "failed"
		}
		metrics.RecordBackgroundTask(outcome)

		if s.notifier != nil && task.WebhookURL != "" {
			if err := s.notifier.NotifyResult(taskCtx, task.WebhookURL, env); err != nil {
				s.log.Warn().Err(err).Str("request_id", task.RequestID).Msg("result callback delivery failed")
			}
		}
	}); err != nil {
		wrapped := apperrors.Wrap(ctx, apperrors.LayerDomain, err, "background queue rejected request")
		if tracked {
			s.failTracking(ctx, req.RequestID, wrapped)
		}
		return envelope.Failure(wrapped, req.RequestID, s.conversationIDPtr(req), nil)
	}

	processing := status.StatusProcessing
	return envelope.Build("accepted", req.RequestID, s.conversationIDPtr(req), nil, &processing, nil)
}

// Status reports the tracked state of a request id.
func (s *service) Status(ctx context.Context, requestID string) envelope.Envelope {
	entry, err := s.tracker.Get(ctx, requestID)
	if err != nil {
		notFound := apperrors.New(ctx, apperrors.LayerDomain, apperrors.ErrorTypeNotFound, "request_id not found", err)
		return envelope.Failure(notFound, requestID, nil, nil)
	}
	state := entry.State
	return envelope.Build(entry, requestID, nil, nil, &state, nil)
}

// GetConversation wraps the ordered turn list in an envelope.
func (s *service) GetConversation(ctx context.Context, conversationID string) envelope.Envelope {
	conv, err := s.conversations.Get(ctx, conversationID)
	if err != nil {
		return envelope.Failure(err, uuid.NewString(), &conversationID, nil)
	}
	return envelope.Build(conv, uuid.NewString(), &conversationID, nil, nil, nil)
}

// DeleteConversation is idempotent: deleting an unknown id succeeds with a
// false deletion flag.
func (s *service) DeleteConversation(ctx context.Context, conversationID string) envelope.Envelope {
	deleted, err := s.conversations.Delete(ctx, conversationID)
	if err != nil {
		return envelope.Failure(err, uuid.NewString(), &conversationID, nil)
	}
	return envelope.Build(map[string]interface{}{"deleted": deleted}, uuid.NewString(), &conversationID, nil, nil, nil)
}

// prepare assigns the request id, allocates a conversation id for fresh
// chat sessions, and enriches the context with the request id.
func (s *service) prepare(ctx context.Context, req Request) (context.Context, Request) {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	if req.Conversational() && req.ConversationID == "" {
		req.ConversationID = uuid.NewString()
	}
	return apperrors.ContextWithRequestID(ctx, req.RequestID), req
}

func (s *service) startTracking(ctx context.Context, req Request) bool {
	if !req.Tracked() {
		return false
	}
	if err := s.tracker.Start(ctx, req.RequestID); err != nil {
		s.log.Warn().Err(err).Str("request_id", req.RequestID).Msg("job status registration failed")
		return false
	}
	return true
}

func (s *service) failTracking(ctx context.Context, requestID string, cause error) {
	if err := s.tracker.Fail(ctx, requestID, cause.Error()); err != nil {
		s.log.Warn().Err(err).Str("request_id", requestID).Msg("job status fail transition rejected")
	}
}

// run sequences one request end to end: conversation context, workflow
// execution, turn persistence, status transition, envelope construction.
func (s *service) run(ctx context.Context, req Request, tracked bool, observer workflow.StreamObserver) envelope.Envelope {
	started := time.Now()

	history, err := s.loadHistory(ctx, &req)
	if err != nil {
		if tracked {
			s.failTracking(ctx, req.RequestID, err)
		}
		return envelope.Failure(err, req.RequestID, s.conversationIDPtr(req), nil)
	}

	wfReq := workflow.Request{
		Kind:           req.Kind,
		Prompt:         req.Prompt,
		SessionID:      req.SessionID,
		UserID:         req.UserID,
		UserEmail:      req.UserEmail,
		ConversationID: req.ConversationID,
		History:        history,
		Feedback:       req.Feedback,
		Stream:         req.Stream,
		Observer:       observer,
	}

	wf, err := s.router.Resolve(ctx, wfReq)
	if err != nil {
		if tracked {
			s.failTracking(ctx, req.RequestID, err)
		}
		return envelope.Failure(err, req.RequestID, s.conversationIDPtr(req), nil)
	}
	name := wf.Name()

	wfCtx, span := observability.StartWorkflowSpan(ctx, name, req.RequestID)
	result, err := wf.Execute(wfCtx, wfReq)
	span.End()
	if err != nil {
		err = apperrors.Wrap(ctx, apperrors.LayerDomain, err, "workflow execution failed")
		metrics.RecordWorkflowExecution(name, "failed", time.Since(started))
		if tracked {
			s.failTracking(ctx, req.RequestID, err)
		}
		s.log.Error().Err(err).
			Str("request_id", req.RequestID).
			Str("workflow", name).
			Msg("workflow failed")
		return envelope.Failure(err, req.RequestID, s.conversationIDPtr(req), &name)
	}
	result.Workflow = name
	metrics.RecordWorkflowExecution(name, "completed", time.Since(started))

	if req.Conversational() {
		turn := conversation.NewTurn(req.Prompt, result, name, req.SessionID, req.UserID)
		if _, err := s.conversations.Append(ctx, req.ConversationID, []conversation.Turn{turn}); err != nil {
			err = apperrors.Wrap(ctx, apperrors.LayerDomain, err, "turn append failed")
			if tracked {
				s.failTracking(ctx, req.RequestID, err)
			}
			return envelope.Failure(err, req.RequestID, s.conversationIDPtr(req), &name)
		}
		metrics.RecordTurnAppend()
	}

	var trackedState *status.Status
	if tracked {
		if err := s.tracker.Complete(ctx, req.RequestID, result.Summary()); err != nil {
			s.log.Warn().Err(err).Str("request_id", req.RequestID).Msg("job status complete transition rejected")
		}
		if req.Conversational() || req.Stream || req.Background {
			completed := status.StatusCompleted
			trackedState = &completed
		}
	}

	return envelope.Build(result, req.RequestID, s.conversationIDPtr(req), &name, trackedState, nil)
}

// loadHistory resolves conversation context for conversational requests.
func (s *service) loadHistory(ctx context.Context, req *Request) ([]conversation.Turn, error) {
	if !req.Conversational() {
		return nil, nil
	}
	conv, err := s.conversations.EnsureExists(ctx, req.ConversationID, req.UserEmail)
	if err != nil {
		return nil, err
	}
	return conv.Turns, nil
}

func (s *service) conversationIDPtr(req Request) *string {
	if req.ConversationID == "" {
		return nil
	}
	id := req.ConversationID
	return &id
}

// partialEmitter forwards finished sections as processing envelopes. A
// failed emit cancels the request context so upstream consumption stops.
type partialEmitter struct {
	service *service
	req     Request
	emit    EmitFunc
	cancel  context.CancelFunc
	stopped bool
}

func (p *partialEmitter) OnPartial(section string, payload interface{}) {
	if p.stopped {
		return
	}
	processing := status.StatusProcessing
	env := envelope.Build(
		map[string]interface{}{section: payload},
		p.req.RequestID,
		p.service.conversationIDPtr(p.req),
		nil,
		&processing,
		nil,
	)
	if err := p.emit(env); err != nil {
		p.stopped = true
		p.cancel()
	}
}
