package paygate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-clubmatch-backend/internal/domain"

	"github.com/shopspring/decimal"
)

// Client talks to the payment gateway's REST API. It implements
// domain.PaymentGateway so the core never sees gateway wire types.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

func NewClient(baseURL, secretKey string) *Client {
	return &Client{
		baseURL:   baseURL,
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// intentPayload mirrors the gateway's payment-intent resource.
type intentPayload struct {
	ID           string            `json:"id"`
	Amount       int64             `json:"amount"` // minor units
	Currency     string            `json:"currency"`
	Status       string            `json:"status"`
	ClientSecret string            `json:"client_secret,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	Created      int64             `json:"created"`
}

func (c *Client) CreateIntent(ctx context.Context, req domain.CreateIntentRequest) (*domain.PaymentIntent, error) {
	body, err := json.Marshal(map[string]interface{}{
		"amount":   req.AmountCents,
		"currency": req.Currency,
		"metadata": req.Metadata,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/payment_intents", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return c.do(httpReq)
}

func (c *Client) GetIntent(ctx context.Context, intentID string) (*domain.PaymentIntent, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/payment_intents/"+intentID, nil)
	if err != nil {
		return nil, err
	}
	return c.do(httpReq)
}

func (c *Client) do(req *http.Request) (*domain.PaymentIntent, error) {
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paygate: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var gwErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&gwErr)
		return nil, fmt.Errorf("paygate: gateway returned %d: %s", resp.StatusCode, gwErr.Error.Message)
	}

	var payload intentPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("paygate: decode response: %w", err)
	}
	return toDomainIntent(&payload), nil
}

func toDomainIntent(p *intentPayload) *domain.PaymentIntent {
	return &domain.PaymentIntent{
		ID:           p.ID,
		CandidateID:  p.Metadata["candidate_id"],
		Amount:       decimal.New(p.Amount, -2),
		Currency:     p.Currency,
		Status:       p.Status,
		ClientSecret: p.ClientSecret,
		Metadata:     p.Metadata,
		CreatedAt:    time.Unix(p.Created, 0),
	}
}
