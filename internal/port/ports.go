// Package port defines the interfaces (ports) for external
// dependencies. Following hexagonal architecture, these ports decouple
// the service layer from concrete implementations.
package port

import (
	"context"
	"io"

	"github.com/finassist/dashboard-bff-go/internal/domain"
)

// ReportFetcher retrieves raw, loosely-shaped report sections from the
// upstream reporting service. Payloads are returned undecoded into
// generic JSON shapes; the normalize package owns field resolution.
type ReportFetcher interface {
	FetchSummary(ctx context.Context, month string) (map[string]any, error)
	FetchDaily(ctx context.Context, month string) ([]any, error)
	FetchVat(ctx context.Context, month string) ([]any, error)
	FetchReconciliation(ctx context.Context, month string) ([]any, error)
	FetchTopProducts(ctx context.Context, month string, limit int) ([]any, error)
	FetchTopCustomers(ctx context.Context, month string, limit int) ([]any, error)
	FetchAnomalies(ctx context.Context, month string) (map[string]any, error)
}

// AnswerFetcher asks the chat-answering collaborator a question about
// one month's data.
type AnswerFetcher interface {
	Ask(ctx context.Context, month, question string) (string, error)
	Status(ctx context.Context) (*domain.ChatStatus, error)
}

// Uploader forwards sales/bank documents to the ingestion collaborator.
type Uploader interface {
	Upload(ctx context.Context, month string, sales, bank NamedReader) (*domain.UploadResult, error)
}

// NamedReader pairs an upload stream with its original file name.
type NamedReader struct {
	Name   string
	Reader io.Reader
}

// Cache provides generic caching with TTL. DeletePrefix drops every
// key of a month's namespace after a re-ingestion.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
	DeletePrefix(prefix string)
}

// TranscriptStore persists per-month chat transcripts. All operations
// are best-effort: failures degrade to empty state, never errors.
type TranscriptStore interface {
	Load(month string) []domain.ChatMessage
	Save(month string, msgs []domain.ChatMessage)
	Delete(month string)
}
