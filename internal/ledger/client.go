// internal/ledger/client.go
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cantonapps/licensing-backend/internal/config"
)

// Client submits exercise commands over the JSON Ledger API. It is
// write-only; active-contract reads go through the PQS.
type Client struct {
	baseURL       string
	applicationID string
	httpClient    *http.Client
}

func NewClient(cfg config.LedgerConfig) *Client {
	return &Client{
		baseURL:       strings.TrimRight(cfg.APIBaseURL, "/"),
		applicationID: cfg.ApplicationID,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
		},
	}
}

type exerciseBody struct {
	TemplateID string       `json:"templateId"`
	ContractID string       `json:"contractId"`
	Choice     string       `json:"choice"`
	Argument   interface{}  `json:"argument"`
	Meta       exerciseMeta `json:"meta"`
}

type exerciseMeta struct {
	CommandID     string   `json:"commandId"`
	ActAs         []string `json:"actAs"`
	ApplicationID string   `json:"applicationId"`
}

type exerciseResponse struct {
	Status int             `json:"status"`
	Result *CommandResult  `json:"result"`
	Errors json.RawMessage `json:"errors"`
}

// Exercise submits one choice and waits for the ledger to accept or reject
// it. HTTP statuses are folded into the workflow error taxonomy; the caller
// never sees transport detail beyond TransportError.
func (c *Client) Exercise(ctx context.Context, req SubmitRequest) (*CommandResult, error) {
	body := exerciseBody{
		TemplateID: string(req.Kind),
		ContractID: req.ContractID,
		Choice:     string(req.Choice),
		Argument:   req.Argument,
		Meta: exerciseMeta{
			CommandID:     req.CommandID,
			ActAs:         []string{req.ActingParty},
			ApplicationID: c.applicationID,
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode exercise command: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/exercise", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build exercise request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	logrus.WithFields(logrus.Fields{
		"party":       req.ActingParty,
		"command_id":  req.CommandID,
		"template_id": req.Kind,
		"contract_id": req.ContractID,
		"choice":      req.Choice,
	}).Info("Submitting exercise command")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Op: "exercise " + string(req.Choice), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "exercise " + string(req.Choice), Err: err}
	}

	if err := classifyStatus(resp.StatusCode, raw, req); err != nil {
		logrus.WithFields(logrus.Fields{
			"command_id": req.CommandID,
			"choice":     req.Choice,
			"status":     resp.StatusCode,
		}).WithError(err).Error("Exercise command rejected")
		return nil, err
	}

	var decoded exerciseResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, &TransportError{Op: "decode exercise response", Err: err}
	}
	if decoded.Result == nil {
		return nil, &TransportError{Op: "exercise " + string(req.Choice), Err: fmt.Errorf("empty result in ledger response")}
	}

	logrus.WithFields(logrus.Fields{
		"command_id": req.CommandID,
		"choice":     req.Choice,
	}).Debug("Exercise command accepted")

	return decoded.Result, nil
}

func classifyStatus(status int, body []byte, req SubmitRequest) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusNotFound:
		return &NotFoundError{Kind: string(req.Kind), ContractID: req.ContractID}
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &AuthorizationError{Party: req.ActingParty, Choice: string(req.Choice)}
	case status == http.StatusConflict || status == http.StatusBadRequest:
		// The ledger rejects commands whose prerequisite contracts were
		// consumed concurrently; the JSON API reports those as 400/409.
		return &ConflictError{Reason: errorSummary(body)}
	default:
		return &TransportError{
			Op:  "exercise " + string(req.Choice),
			Err: fmt.Errorf("unexpected ledger status %d: %s", status, errorSummary(body)),
		}
	}
}

func errorSummary(body []byte) string {
	var decoded struct {
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal(body, &decoded); err == nil && len(decoded.Errors) > 0 {
		return strings.Join(decoded.Errors, "; ")
	}
	summary := strings.TrimSpace(string(body))
	if len(summary) > 200 {
		summary = summary[:200]
	}
	return summary
}
