package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"

	"github.com/finassist/dashboard-bff-go/internal/domain"
	"github.com/finassist/dashboard-bff-go/internal/infra/resilience"
)

// AnswerClient calls the chat-answering service (stub or hosted LLM)
// behind POST /chat/ask.
type AnswerClient struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
}

// NewAnswerClient creates a new AnswerClient.
func NewAnswerClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *AnswerClient {
	return &AnswerClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
		cfg:        cfg,
	}
}

type askRequest struct {
	Month    string `json:"month"`
	Question string `json:"question"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

// Ask sends one question about a month's data and returns the answer text.
func (c *AnswerClient) Ask(ctx context.Context, month, question string) (string, error) {
	ctx, span := tracer.Start(ctx, "AnswerClient.Ask")
	defer span.End()
	span.SetAttributes(attribute.String("report.month", month))

	var answer askResponse

	result, err := c.cb.Execute(func() (any, error) {
		innerErr := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			body, err := json.Marshal(askRequest{Month: month, Question: question})
			if err != nil {
				return err
			}

			req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/ask", bytes.NewReader(body))
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", "application/json")

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("answer API returned status %d", resp.StatusCode)
			}

			return json.NewDecoder(resp.Body).Decode(&answer)
		})
		if innerErr != nil {
			return nil, innerErr
		}
		return answer.Answer, nil
	})

	if err != nil {
		return "", &domain.ErrExternalService{Service: "answer", Err: err}
	}

	return result.(string), nil
}

// Status reports which answering mode the collaborator is running
// (deterministic stub vs hosted LLM) so the UI can label replies.
func (c *AnswerClient) Status(ctx context.Context) (*domain.ChatStatus, error) {
	ctx, span := tracer.Start(ctx, "AnswerClient.Status")
	defer span.End()

	var status domain.ChatStatus

	result, err := c.cb.Execute(func() (any, error) {
		innerErr := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/chat/status", nil)
			if err != nil {
				return err
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("answer API returned status %d", resp.StatusCode)
			}

			return json.NewDecoder(resp.Body).Decode(&status)
		})
		if innerErr != nil {
			return nil, innerErr
		}
		return &status, nil
	})

	if err != nil {
		return nil, &domain.ErrExternalService{Service: "answer", Err: err}
	}

	return result.(*domain.ChatStatus), nil
}
