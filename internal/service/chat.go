package service

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/finassist/dashboard-bff-go/internal/domain"
	"github.com/finassist/dashboard-bff-go/internal/infra/observability"
	"github.com/finassist/dashboard-bff-go/internal/port"
)

// ChatService keeps one chat transcript per reporting month. The
// transcript is persisted on every mutation and reloaded on month
// switch, so a conversation survives navigating away and back.
//
// Only one question may be in flight at a time; a second Send while the
// first is unanswered gets ErrChatBusy rather than being queued.
type ChatService struct {
	mu       sync.Mutex
	month    string
	msgs     []domain.ChatMessage
	inFlight bool

	answers port.AnswerFetcher
	store   port.TranscriptStore
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewChatService creates the chat service with all dependencies injected.
func NewChatService(
	answers port.AnswerFetcher,
	store port.TranscriptStore,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		answers: answers,
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

// SelectMonth switches the chat to a month and loads its persisted
// transcript. A missing or unreadable transcript loads as empty.
func (c *ChatService) SelectMonth(month string) []domain.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	if month == c.month {
		return cloneMessages(c.msgs)
	}
	c.month = month
	c.msgs = c.store.Load(month)
	return cloneMessages(c.msgs)
}

// Transcript returns the current month's messages.
func (c *ChatService) Transcript() []domain.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneMessages(c.msgs)
}

// Clear wipes the current month's transcript, in memory and on disk.
func (c *ChatService) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.msgs = nil
	if c.month != "" {
		c.store.Delete(c.month)
	}
}

// Status reports the answering collaborator's mode.
func (c *ChatService) Status(ctx context.Context) (*domain.ChatStatus, error) {
	return c.answers.Status(ctx)
}

// Send asks one question about the current month's data. The user
// message is appended and persisted before the ask; the reply — or an
// "Error: ..." placeholder when the collaborator fails — is appended
// after. A failed ask is not an error to the caller: the placeholder
// carries it, and the next Send is immediately possible.
func (c *ChatService) Send(ctx context.Context, question string) (domain.ChatMessage, error) {
	ctx, span := tracer.Start(ctx, "ChatService.Send")
	defer span.End()

	question = strings.TrimSpace(question)
	if question == "" {
		return domain.ChatMessage{}, &domain.ErrValidation{Field: "question", Message: "must not be empty"}
	}

	c.mu.Lock()
	if c.month == "" {
		c.mu.Unlock()
		return domain.ChatMessage{}, &domain.ErrValidation{Field: "month", Message: "no month selected"}
	}
	if c.inFlight {
		c.mu.Unlock()
		return domain.ChatMessage{}, &domain.ErrChatBusy{}
	}
	c.inFlight = true
	month := c.month
	userMsg := domain.ChatMessage{
		ID:      uuid.NewString(),
		Role:    domain.RoleUser,
		Content: question,
	}
	c.msgs = append(c.msgs, userMsg)
	snapshot := cloneMessages(c.msgs)
	c.mu.Unlock()

	span.SetAttributes(attribute.String("report.month", month))

	c.store.Save(month, snapshot)
	c.metrics.IncrChatMessage("user")

	answer, err := c.answers.Ask(ctx, month, question)
	content := answer
	if err != nil {
		c.logger.Warn("chat answer failed",
			zap.String("month", month),
			zap.Error(err),
		)
		c.metrics.IncrExternalError("answer")
		content = "Error: " + err.Error()
	}
	reply := domain.ChatMessage{
		ID:      uuid.NewString(),
		Role:    domain.RoleAssistant,
		Content: content,
	}

	c.mu.Lock()
	c.inFlight = false
	if c.month == month {
		c.msgs = append(c.msgs, reply)
		snapshot = cloneMessages(c.msgs)
	} else {
		// The session moved to another month mid-flight; the reply still
		// belongs to the month it was asked about.
		snapshot = append(snapshot, reply)
	}
	c.mu.Unlock()

	c.store.Save(month, snapshot)
	c.metrics.IncrChatMessage("assistant")

	return reply, nil
}

func cloneMessages(msgs []domain.ChatMessage) []domain.ChatMessage {
	out := make([]domain.ChatMessage, len(msgs))
	copy(out, msgs)
	return out
}
