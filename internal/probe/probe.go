// Package probe implements the provider connectivity tester: a bounded,
// side-effect-free request against a provider's model-listing endpoint used
// to validate credentials before anything is persisted.
package probe

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"polychat/internal/catalog"
	"polychat/internal/config"
	"polychat/internal/utils"
)

const maxModelsInSample = 5

var (
	// ErrMissingParams is returned when providerID, apiKey or baseURL is empty.
	ErrMissingParams = errors.New("providerId, apiKey and baseUrl are required")

	// ErrUnknownProvider is returned for provider ids outside the catalog.
	// The probe never reaches the network in that case.
	ErrUnknownProvider = errors.New("unsupported provider")
)

// Result is the outcome of a connectivity probe.
type Result struct {
	Success bool

	// AvailableModels is a comma-joined sample of up to five model ids,
	// or a generic connected message when the provider listed none.
	AvailableModels string

	// Error is the user-facing failure message, classified by cause.
	Error string
}

// Tester issues connectivity probes with a bounded timeout.
type Tester struct {
	client  *http.Client
	timeout time.Duration
	logger  *utils.Logger
}

// NewTester creates a connectivity tester.
func NewTester(cfg config.ProbeConfig, logger *utils.Logger) *Tester {
	return &Tester{
		// The timeout is enforced per probe through the request context
		// so an aborted probe is distinguishable from transport errors.
		client:  &http.Client{},
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

// Test probes the provider's model-listing endpoint. Validation problems
// are returned as errors and never reach the network; probe outcomes,
// including failures, are reported through the Result.
func (t *Tester) Test(ctx context.Context, providerID, apiKey, baseURL string) (*Result, error) {
	if providerID == "" || apiKey == "" || baseURL == "" {
		return nil, ErrMissingParams
	}

	entry, ok := catalog.Lookup(providerID)
	if !ok {
		return nil, ErrUnknownProvider
	}

	req, err := buildProbeRequest(ctx, entry, apiKey, baseURL)
	if err != nil {
		return nil, err
	}

	probeCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	req = req.WithContext(probeCtx)

	resp, err := t.client.Do(req)
	if err != nil {
		message := classifyTransportError(err)
		t.logger.Debug("probe failed", "provider", providerID, "error", err)
		return &Result{Success: false, Error: message}, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &Result{Success: false, Error: "failed to read provider response"}, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Result{Success: false, Error: extractErrorMessage(resp.StatusCode, body)}, nil
	}

	models := parseModelSample(entry.Shape, body)
	if len(models) == 0 {
		return &Result{Success: true, AvailableModels: "connection established"}, nil
	}
	return &Result{Success: true, AvailableModels: strings.Join(models, ", ")}, nil
}

// buildProbeRequest shapes the request per the catalog entry: Gemini-family
// providers take the key as a query parameter on a v1beta models path; all
// others use a bearer header on /v1/models.
func buildProbeRequest(ctx context.Context, entry *catalog.Entry, apiKey, baseURL string) (*http.Request, error) {
	base := strings.TrimSuffix(baseURL, "/")

	var probeURL string
	switch entry.Shape {
	case catalog.ShapeGemini:
		probeURL = fmt.Sprintf("%s/v1beta/models?key=%s", base, url.QueryEscape(apiKey))
	default:
		probeURL = base + "/v1/models"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, probeURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid probe URL: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if entry.Shape != catalog.ShapeGemini {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	return req, nil
}

// classifyTransportError maps a transport failure to a distinct
// user-facing message per cause: timeout, DNS, refused connection, TLS,
// generic network.
func classifyTransportError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "connection timed out; check the network and the API base URL"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "connection timed out; check the network and the API base URL"
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "could not resolve host; check the API base URL"
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return "connection refused; check the API base URL and port"
	}

	var certErr *tls.CertificateVerificationError
	var unknownAuthority x509.UnknownAuthorityError
	var hostnameErr x509.HostnameError
	var certInvalid x509.CertificateInvalidError
	if errors.As(err, &certErr) || errors.As(err, &unknownAuthority) ||
		errors.As(err, &hostnameErr) || errors.As(err, &certInvalid) {
		return "TLS certificate error"
	}

	return "network error: " + err.Error()
}

// extractErrorMessage prefers the provider-supplied error body over the
// bare HTTP status.
func extractErrorMessage(statusCode int, body []byte) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Error.Message != "" {
			return parsed.Error.Message
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	return fmt.Sprintf("HTTP %d: %s", statusCode, http.StatusText(statusCode))
}

// parseModelSample extracts up to five model identifiers using the shape's
// interpreter.
func parseModelSample(shape catalog.ProbeShape, body []byte) []string {
	switch shape {
	case catalog.ShapeGemini:
		return parseGeminiModels(body)
	default:
		return parseOpenAIModels(body)
	}
}

func parseOpenAIModels(body []byte) []string {
	var parsed struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil
	}

	models := make([]string, 0, maxModelsInSample)
	for _, m := range parsed.Data {
		if m.ID == "" {
			continue
		}
		models = append(models, m.ID)
		if len(models) == maxModelsInSample {
			break
		}
	}
	return models
}

func parseGeminiModels(body []byte) []string {
	var parsed struct {
		Models []struct {
			Name        string `json:"name"`
			DisplayName string `json:"displayName"`
		} `json:"models"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil
	}

	models := make([]string, 0, maxModelsInSample)
	for _, m := range parsed.Models {
		name := strings.TrimPrefix(m.Name, "models/")
		if name == "" {
			name = m.DisplayName
		}
		if name == "" {
			continue
		}
		models = append(models, name)
		if len(models) == maxModelsInSample {
			break
		}
	}
	return models
}
