// Package dart implements the OpenDART API client: the zip-compressed
// corp-code lookup table and the single-company full financial statement
// endpoint. All statement fetches share one rate limiter so the run as a
// whole stays under the OpenDART per-minute call ceiling.
package dart

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"

	"dartcli/internal/config"
	"dartcli/internal/errors"
	"dartcli/pkg/contracts/domain"
)

const (
	corpCodeEndpoint  = "/corpCode.xml"
	statementEndpoint = "/fnlttSinglAcntAll.json"

	// Envelope status codes.
	statusOK     = "000"
	statusNoData = "013"
)

// Client is the OpenDART HTTP client.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewClient creates a client from configuration. The fetch delay becomes
// the limiter interval: one statement request per delay, burst of one.
func NewClient(apiKey string, cfg config.DartConfig, logger *slog.Logger) *Client {
	limit := rate.Inf
	if cfg.FetchDelay > 0 {
		limit = rate.Every(cfg.FetchDelay)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

// statementEnvelope is the response wrapper of fnlttSinglAcntAll.json.
type statementEnvelope struct {
	Status  string               `json:"status"`
	Message string               `json:"message"`
	List    []domain.RawLineItem `json:"list"`
}

// FetchStatements retrieves all statement line items for one company,
// year, report period and consolidation division. A "no data" status
// yields an empty slice, not an error.
func (c *Client) FetchStatements(ctx context.Context, corpCode, year string, period domain.ReportPeriod, division domain.StatementDivision) ([]domain.RawLineItem, error) {
	reportCode, err := period.ReportCode()
	if err != nil {
		return nil, err
	}
	if !division.Valid() {
		return nil, fmt.Errorf("invalid statement division %q (valid: CFS, OFS)", string(division))
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	params := url.Values{
		"crtfc_key":  {c.apiKey},
		"corp_code":  {corpCode},
		"bsns_year":  {year},
		"reprt_code": {reportCode},
		"fs_div":     {string(division)},
	}

	body, err := c.get(ctx, statementEndpoint, params)
	if err != nil {
		return nil, err
	}

	var envelope statementEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode statement response: %w", err)
	}

	switch envelope.Status {
	case statusOK:
		return envelope.List, nil
	case statusNoData:
		c.logger.Debug("no statement data",
			slog.String("corp_code", corpCode),
			slog.String("year", year),
			slog.String("quarter", string(period)),
			slog.String("fs_div", string(division)))
		return nil, nil
	default:
		return nil, errors.NewAPIError(envelope.Status, envelope.Message)
	}
}

// DownloadCorpCodes fetches the zip-compressed corp-code table and
// writes the inner XML to outPath.
func (c *Client) DownloadCorpCodes(ctx context.Context, outPath string) error {
	params := url.Values{"crtfc_key": {c.apiKey}}
	data, err := c.get(ctx, corpCodeEndpoint, params)
	if err != nil {
		return err
	}

	// The endpoint answers a JSON envelope instead of a zip on failure
	// (bad key, rate limit). Detect that before unzipping.
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		var envelope statementEnvelope
		if err := json.Unmarshal(data, &envelope); err == nil && envelope.Status != statusOK {
			return errors.NewAPIError(envelope.Status, envelope.Message)
		}
	}

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("open corp code zip: %w", err)
	}
	if len(reader.File) == 0 {
		return fmt.Errorf("corp code zip is empty")
	}

	// OpenDART ships a single XML file in the archive.
	inner, err := reader.File[0].Open()
	if err != nil {
		return fmt.Errorf("open corp code xml in zip: %w", err)
	}
	defer inner.Close()

	xmlBytes, err := io.ReadAll(inner)
	if err != nil {
		return fmt.Errorf("read corp code xml: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fmt.Errorf("create corp code directory: %w", err)
	}
	if err := os.WriteFile(outPath, xmlBytes, 0644); err != nil {
		return fmt.Errorf("write corp code xml: %w", err)
	}

	c.logger.Info("downloaded corp code table",
		slog.String("path", outPath),
		slog.Int("size_bytes", len(xmlBytes)))
	return nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	fullURL := c.baseURL + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	c.logger.Debug("OpenDART request",
		slog.String("endpoint", endpoint),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)),
		slog.Int("body_bytes", len(body)))

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request %s: unexpected HTTP status %d", endpoint, resp.StatusCode)
	}
	return body, nil
}
