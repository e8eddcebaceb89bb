package live

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// LiveInput описывает live-вход у видео-провайдера: ключ для RTMPS-инжеста
// и UID, по которому смотрят плеер и статус
type LiveInput struct {
	UID       string
	StreamKey string
	RTMPSURL  string
	Status    string
	Thumbnail string
}

func (i LiveInput) IsLive() bool {
	return i.Status == "live"
}

// Provider абстрагирует внешний видео-провайдер. Хендлеры зависят от интерфейса,
// чтобы в тестах подставлять фейк.
type Provider interface {
	CreateLiveInput(ctx context.Context, name string) (*LiveInput, error)
	ListLiveInputs(ctx context.Context) ([]LiveInput, error)
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	accountID  string
}

func NewClient(token, accountID string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    "https://api.cloudflare.com/client/v4",
		token:      token,
		accountID:  accountID,
	}
}

type rtmpsInfo struct {
	StreamKey string `json:"streamKey"`
	URL       string `json:"url"`
}

type liveInputResult struct {
	UID       string    `json:"uid"`
	Status    string    `json:"status"`
	Thumbnail string    `json:"thumbnail"`
	RTMPS     rtmpsInfo `json:"rtmps"`
}

type createResponse struct {
	Success bool            `json:"success"`
	Errors  json.RawMessage `json:"errors"`
	Result  liveInputResult `json:"result"`
}

type listResponse struct {
	Success bool              `json:"success"`
	Errors  json.RawMessage   `json:"errors"`
	Result  []liveInputResult `json:"result"`
}

// CreateLiveInput заводит live-вход с включенной записью
func (c *Client) CreateLiveInput(ctx context.Context, name string) (*LiveInput, error) {
	if c.token == "" || c.accountID == "" {
		return nil, errors.New("stream provider credentials are not configured")
	}

	body, err := json.Marshal(map[string]interface{}{
		"meta":      map[string]string{"name": name},
		"recording": map[string]string{"mode": "automatic"},
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/accounts/%s/stream/live_inputs", c.baseURL, c.accountID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("stream provider returned status %d", resp.StatusCode)
	}

	var parsed createResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	if !parsed.Success {
		return nil, fmt.Errorf("stream provider returned an error: %s", parsed.Errors)
	}

	result := parsed.Result
	if result.UID == "" || result.RTMPS.StreamKey == "" || result.RTMPS.URL == "" {
		return nil, errors.New("incomplete live input data in stream provider response")
	}

	return &LiveInput{
		UID:       result.UID,
		StreamKey: result.RTMPS.StreamKey,
		RTMPSURL:  result.RTMPS.URL,
		Status:    result.Status,
	}, nil
}

// ListLiveInputs возвращает все live-входы аккаунта со статусами
func (c *Client) ListLiveInputs(ctx context.Context) ([]LiveInput, error) {
	if c.token == "" || c.accountID == "" {
		return nil, errors.New("stream provider credentials are not configured")
	}

	url := fmt.Sprintf("%s/accounts/%s/stream/live_inputs", c.baseURL, c.accountID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stream provider returned status %d", resp.StatusCode)
	}

	var parsed listResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	if !parsed.Success {
		return nil, fmt.Errorf("stream provider returned an error: %s", parsed.Errors)
	}

	inputs := make([]LiveInput, 0, len(parsed.Result))
	for _, r := range parsed.Result {
		inputs = append(inputs, LiveInput{
			UID:       r.UID,
			Status:    r.Status,
			Thumbnail: r.Thumbnail,
		})
	}
	return inputs, nil
}
