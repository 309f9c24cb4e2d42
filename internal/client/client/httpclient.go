package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPVaultClient talks JSON to the vault server.
type HTTPVaultClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPVaultClient(baseURL string, timeout time.Duration) *HTTPVaultClient {
	return &HTTPVaultClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type createVaultRequest struct {
	FileNames []string `json:"fileNames"`
	Duration  int      `json:"duration"`
	Password  string   `json:"password,omitempty"`
}

type confirmUploadRequest struct {
	VaultCode string `json:"vaultCode"`
}

type confirmUploadResponse struct {
	VaultCode string          `json:"vaultCode"`
	Results   []ConfirmResult `json:"results"`
}

type accessFilesRequest struct {
	VaultCode   string `json:"vaultCode"`
	Password    string `json:"password,omitempty"`
	AccessToken string `json:"accessToken,omitempty"`
}

type apiErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (c *HTTPVaultClient) CreateVault(ctx context.Context, fileNames []string, durationMinutes int, password string) (*CreatedVault, error) {
	res := &CreatedVault{}
	err := c.postJSON(ctx, "/gen-sas", createVaultRequest{
		FileNames: fileNames,
		Duration:  durationMinutes,
		Password:  password,
	}, res)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *HTTPVaultClient) ConfirmUpload(ctx context.Context, code string) ([]ConfirmResult, error) {
	res := &confirmUploadResponse{}
	err := c.postJSON(ctx, "/confirm-upload", confirmUploadRequest{VaultCode: code}, res)
	if err != nil {
		return nil, err
	}
	return res.Results, nil
}

func (c *HTTPVaultClient) AccessFiles(ctx context.Context, code, password, token string) (*VaultContents, error) {
	res := &VaultContents{}
	err := c.postJSON(ctx, "/files", accessFilesRequest{
		VaultCode:   code,
		Password:    password,
		AccessToken: token,
	}, res)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *HTTPVaultClient) Verify(ctx context.Context, code, password string) (*Verification, error) {
	path := "/verify/" + url.PathEscape(code)
	if password != "" {
		path += "?password=" + url.QueryEscape(password)
	}

	res := &Verification{}
	if err := c.getJSON(ctx, path, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *HTTPVaultClient) Ping(ctx context.Context) error {
	var res map[string]string
	return c.getJSON(ctx, "/healthz", &res)
}

func (c *HTTPVaultClient) postJSON(ctx context.Context, path string, body any, dst any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, dst)
}

func (c *HTTPVaultClient) getJSON(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, dst)
}

func (c *HTTPVaultClient) do(req *http.Request, dst any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr apiErrorResponse
		_ = json.Unmarshal(raw, &apiErr)
		return apiError(resp.StatusCode, apiErr.Code, apiErr.Error)
	}

	return json.Unmarshal(raw, dst)
}
