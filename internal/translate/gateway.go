package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// HTTPGateway talks to a LibreTranslate-compatible POST /translate
// endpoint. Stateless: one outbound call per Translate, no retries.
type HTTPGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

func NewHTTPGateway(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *HTTPGateway {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error,omitempty"`
}

func (g *HTTPGateway) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}
	targetLang = NormalizeLang(targetLang)
	if targetLang == "" {
		return "", ErrEmptyTargetLang
	}
	sourceLang = NormalizeLang(sourceLang)
	if sourceLang == "" {
		sourceLang = DetectLang(text)
	}

	body, err := json.Marshal(translateRequest{
		Q:      text,
		Source: sourceLang,
		Target: targetLang,
		Format: "text",
		APIKey: g.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", ErrTranslateFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/translate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranslateFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranslateFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrTranslateFailed, err)
	}

	if resp.StatusCode >= 400 {
		g.logger.Warn("translate provider error",
			zap.Int("status", resp.StatusCode),
			zap.String("target", targetLang))
		return "", fmt.Errorf("%w: status=%d", ErrTranslateFailed, resp.StatusCode)
	}

	var tr translateResponse
	if err := json.Unmarshal(respBody, &tr); err != nil {
		return "", fmt.Errorf("%w: unmarshal response: %v", ErrTranslateFailed, err)
	}
	if tr.Error != "" {
		return "", fmt.Errorf("%w: %s", ErrTranslateFailed, tr.Error)
	}
	if tr.TranslatedText == "" {
		return "", fmt.Errorf("%w: empty translation", ErrTranslateFailed)
	}

	return tr.TranslatedText, nil
}
