// Package goemonapi implements the service.Service interface using the
// GO-E-MON v1 HTTP API.
package goemonapi

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"goemon/internal/config"
	"goemon/internal/service"
)

const (
	// APIPrefix is the path of the v1 API below the endpoint.
	APIPrefix = "/api/v1"

	// APITimeout bounds a single API call.
	APITimeout = 30 * time.Second

	// TransferTimeout bounds a single file download or upload.
	TransferTimeout = 5 * time.Minute

	// uploadField is the multipart field carrying file content.
	uploadField = "content"

	// sniffLen is how much of an upload is inspected for its media type.
	sniffLen = 3072
)

// Client implements service.Service over HTTP.
type Client struct {
	api      *http.Client // adds the bearer header
	links    *http.Client // pre-signed file links, no credential
	endpoint string
	log      *slog.Logger
}

// New creates a client authenticated with the token in cfg.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	if err := cfg.RequireToken(); err != nil {
		return nil, err
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: cfg.Token,
		TokenType:   "Bearer",
	})
	return NewWithHTTPClient(cfg.Endpoint, oauth2.NewClient(ctx, ts), &http.Client{}, cfg.Logger()), nil
}

// NewWithHTTPClient creates a client with custom HTTP clients (for testing).
// api is used for task calls; links for file downloads and uploads.
func NewWithHTTPClient(endpoint string, api, links *http.Client, log *slog.Logger) *Client {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{api: api, links: links, endpoint: endpoint, log: log}
}

// GetTask returns the current state of a task.
func (c *Client) GetTask(ctx context.Context, ref service.TaskRef) (*service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	c.log.Debug("acquiring task", "ref", ref.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.taskURL(ref), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(c.api, req)
	if err != nil {
		return nil, wrapError(ref, err)
	}
	c.log.Debug("task acquired", "ref", ref.String(), "bytes", len(body))
	return decodeTask(body)
}

// PatchTask sends the patched attributes and returns the updated task.
func (c *Client) PatchTask(ctx context.Context, ref service.TaskRef, patch service.Patch) (*service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	payload, err := encodePatch(patch)
	if err != nil {
		return nil, err
	}
	c.log.Debug("patching task", "ref", ref.String(), "fields", patch.Fields)

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.taskURL(ref), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	body, err := c.do(c.api, req)
	if err != nil {
		return nil, wrapError(ref, err)
	}
	c.log.Debug("task patched", "ref", ref.String())
	return decodeTask(body)
}

// DownloadFile fetches the content behind a file's download link.
func (c *Client) DownloadFile(ctx context.Context, file service.File) ([]byte, error) {
	if file.DownloadURL == "" {
		return nil, fmt.Errorf("no download link for %s", file.Name)
	}
	ctx, cancel := context.WithTimeout(ctx, TransferTimeout)
	defer cancel()

	c.log.Debug("downloading file", "name", file.Name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.DownloadURL, nil)
	if err != nil {
		return nil, err
	}
	body, err := c.do(c.links, req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", file.Name, wrapTransportError(err))
	}
	return body, nil
}

// UploadFile sends content to a file's upload link as multipart form data.
func (c *Client) UploadFile(ctx context.Context, file service.File, content io.Reader) error {
	if file.UploadURL == "" {
		return fmt.Errorf("no upload link for %s", file.Name)
	}
	ctx, cancel := context.WithTimeout(ctx, TransferTimeout)
	defer cancel()

	br := bufio.NewReaderSize(content, sniffLen)
	head, _ := br.Peek(sniffLen)
	mtype := mimetype.Detect(head).String()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, uploadField, path.Base(file.Name)))
	h.Set("Content-Type", mtype)
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, br); err != nil {
		return fmt.Errorf("read %s: %w", file.Name, err)
	}
	if err := mw.Close(); err != nil {
		return err
	}

	c.log.Debug("uploading file", "name", file.Name, "type", mtype, "bytes", body.Len())
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, file.UploadURL, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	if _, err := c.do(c.links, req); err != nil {
		return fmt.Errorf("upload %s: %w", file.Name, wrapTransportError(err))
	}
	return nil
}

func (c *Client) taskURL(ref service.TaskRef) string {
	return c.endpoint + APIPrefix + "/" + ref.Collection() + "/" + url.PathEscape(ref.ID)
}

// do sends req and returns the body of a 2xx response. Other statuses
// surface as *googleapi.Error.
func (c *Client) do(hc *http.Client, req *http.Request) ([]byte, error) {
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := googleapi.CheckResponse(resp); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

// wrapError maps API failures for a task call to the service sentinels.
func wrapError(ref service.TaskRef, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w (HTTP %d)", service.ErrUnauthorized, gerr.Code)
		case http.StatusNotFound:
			return fmt.Errorf("task %s: %w", ref.ID, service.ErrNotFound)
		}
	}
	return wrapTransportError(err)
}

func wrapTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.New("request timed out")
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		if gerr.Message != "" {
			return fmt.Errorf("server returned HTTP %d: %s", gerr.Code, gerr.Message)
		}
		return fmt.Errorf("server returned HTTP %d", gerr.Code)
	}
	return err
}
