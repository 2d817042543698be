package processor

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/ds124wfegd/filterbench/internal/entity"
)

const genericFailure = "failed to process image"

// Client performs one request/response round trip against the processing
// service and returns the processed image bytes.
type Client interface {
	Process(ctx context.Context, req entity.EvaluationRequest) ([]byte, error)
}

type httpClient struct {
	url  string
	http *http.Client
}

func NewClient(url string, timeout time.Duration) Client {
	return &httpClient{
		url:  url,
		http: &http.Client{Timeout: timeout},
	}
}

func (c *httpClient) Process(ctx context.Context, req entity.EvaluationRequest) ([]byte, error) {
	body, contentType, err := encodeRequest(req)
	if err != nil {
		return nil, &entity.EvaluationError{ImageID: req.ImageID, Message: "failed to encode request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return nil, &entity.EvaluationError{ImageID: req.ImageID, Message: genericFailure, Err: err}
	}
	httpReq.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &entity.EvaluationError{ImageID: req.ImageID, Message: genericFailure, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, &entity.EvaluationError{
			ImageID: req.ImageID,
			Message: genericFailure,
			Err:     fmt.Errorf("status %d", resp.StatusCode),
		}
	}

	var payload entity.ProcessResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &entity.EvaluationError{ImageID: req.ImageID, Message: "malformed response", Err: err}
	}
	if payload.ProcessedImage == "" {
		return nil, &entity.EvaluationError{ImageID: req.ImageID, Message: "malformed response", Err: fmt.Errorf("processed_image is empty")}
	}

	data, err := base64.StdEncoding.DecodeString(payload.ProcessedImage)
	if err != nil {
		return nil, &entity.EvaluationError{ImageID: req.ImageID, Message: "malformed response", Err: err}
	}
	return data, nil
}

// encodeRequest builds the multipart form: the original bytes as "file" and
// the operation list as JSON in "operations". An empty list is never sent.
func encodeRequest(req entity.EvaluationRequest) (io.Reader, string, error) {
	ops := req.Operations
	if len(ops) == 0 {
		ops = []entity.Operation{{Kind: entity.KindOriginal}}
	}
	opsJSON, err := json.Marshal(entity.ToWire(ops))
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	name := req.Name
	if name == "" {
		name = req.ImageID
	}
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(req.Source); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("operations", string(opsJSON)); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
