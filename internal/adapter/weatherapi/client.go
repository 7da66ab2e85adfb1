package weatherapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/weather-view-service/internal/domain"
	"github.com/couchcryptid/weather-view-service/internal/observability"
)

// DefaultBaseURL is the public WeatherAPI.com v1 endpoint.
const DefaultBaseURL = "https://api.weatherapi.com/v1"

// maxErrorBody caps how much of a failed response is kept for logs.
const maxErrorBody = 4 << 10

// Client implements domain.ForecastProvider using the WeatherAPI.com forecast endpoint.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a WeatherAPI client. A zero timeout leaves the transport
// default in place.
func NewClient(apiKey, baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// FetchForecast issues exactly one forecast request for q. An invalid query
// is rejected with its validation error before any request is made; every
// failure of the request itself is a *domain.ProviderError. No partial
// document is returned.
func (c *Client) FetchForecast(ctx context.Context, q domain.LookupQuery) (domain.ForecastDocument, error) {
	if err := q.Validate(); err != nil {
		return domain.ForecastDocument{}, err
	}

	lang := q.Language
	if lang == "" {
		lang = domain.DefaultLanguage
	}
	params := url.Values{
		"key":    {c.apiKey},
		"q":      {q.Q()},
		"days":   {strconv.Itoa(domain.ForecastDays)},
		"aqi":    {"yes"},
		"alerts": {"yes"},
		"lang":   {string(lang)},
	}

	start := time.Now()
	doc, outcome, err := c.doRequest(ctx, c.baseURL+"/forecast.json?"+params.Encode())
	c.metrics.ProviderRequests.WithLabelValues(outcome).Inc()
	c.metrics.ProviderDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		c.logger.Debug("forecast request failed", "query", q.Q(), "lang", lang, "outcome", outcome, "error", err)
		return domain.ForecastDocument{}, err
	}
	c.logger.Debug("forecast request succeeded", "query", q.Q(), "lang", lang, "location", doc.Location.Name)
	return doc, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.ForecastDocument, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.ForecastDocument{}, "transport", &domain.ProviderError{Reason: domain.MsgProviderDown, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ForecastDocument{}, "transport", &domain.ProviderError{Reason: domain.MsgProviderDown, Err: redact(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return domain.ForecastDocument{}, statusOutcome(resp.StatusCode), &domain.ProviderError{
			StatusCode: resp.StatusCode,
			Reason:     domain.MsgCityNotFound,
			Err:        apiError(resp.StatusCode, body),
		}
	}

	var fr forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return domain.ForecastDocument{}, "malformed", &domain.ProviderError{
			StatusCode: resp.StatusCode,
			Reason:     domain.MsgProviderResponse,
			Err:        fmt.Errorf("decode response: %w", err),
		}
	}

	doc, err := fr.toDocument()
	if err != nil {
		return domain.ForecastDocument{}, "malformed", &domain.ProviderError{
			StatusCode: resp.StatusCode,
			Reason:     domain.MsgProviderResponse,
			Err:        err,
		}
	}
	return doc, "success", nil
}

// statusOutcome labels a non-2xx response for the request metrics. The
// provider answers an unknown location with 400.
func statusOutcome(status int) string {
	switch {
	case status == http.StatusBadRequest || status == http.StatusNotFound:
		return "not_found"
	case status < 500:
		return "http_4xx"
	default:
		return "http_5xx"
	}
}

// apiError turns a WeatherAPI error body into an error for logs.
func apiError(status int, body []byte) error {
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil && eb.Error.Message != "" {
		return fmt.Errorf("weatherapi error: status %d: code %d: %s", status, eb.Error.Code, eb.Error.Message)
	}
	return fmt.Errorf("weatherapi error: status %d: %s", status, body)
}

// redact strips the request URL (which carries the API key) from transport errors.
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("forecast request: %w", urlErr.Err)
	}
	return fmt.Errorf("forecast request: %w", err)
}
