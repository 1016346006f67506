package genie

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/datanauts/genie-chat/internal/config"
	"github.com/datanauts/genie-chat/internal/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ErrTimeout is returned when a question pipeline exceeds its configured bound.
var ErrTimeout = errors.New("query pipeline timed out")

// Client drives the Genie conversation API: ask a question, wait for the
// message to complete, then fetch the statement result when the answer is a
// query.
type Client struct {
	client  *http.Client
	cfg     *config.GenieConfig
	authMgr AuthManager
}

type ClientParams struct {
	fx.In

	Config      *config.GenieConfig
	AuthManager AuthManager
}

// NewClient creates a Genie client with default HTTP configuration.
func NewClient(params ClientParams) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		cfg:     params.Config,
		authMgr: params.AuthManager,
	}
}

// Ask runs one question through the conversation pipeline and returns the
// answer payload plus the conversation id to use for follow-ups. Pass an empty
// conversationID to start a new conversation. The whole pipeline is bounded by
// the configured timeout; on expiry the error wraps ErrTimeout.
func (c *Client) Ask(ctx context.Context, question, conversationID string) (*QueryResultPayload, string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	payload, convID, err := c.ask(ctx, question, conversationID)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return nil, convID, fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return payload, convID, err
}

func (c *Client) ask(ctx context.Context, question, conversationID string) (*QueryResultPayload, string, error) {
	var msg *genieMessage
	var err error

	if conversationID == "" {
		msg, err = c.startConversation(ctx, question)
	} else {
		msg, err = c.createMessage(ctx, conversationID, question)
	}
	if err != nil {
		return nil, conversationID, err
	}
	conversationID = msg.ConversationID

	logger.Info("question submitted",
		zap.String("conversation_id", conversationID),
		zap.String("message_id", msg.ID),
	)

	msg, err = c.waitForCompletion(ctx, conversationID, msg.ID)
	if err != nil {
		return nil, conversationID, err
	}

	if query := firstQueryAttachment(msg); query != nil {
		tabular, err := c.fetchTabularResult(ctx, conversationID, msg.ID, query)
		if err != nil {
			return nil, conversationID, err
		}
		return &QueryResultPayload{Tabular: tabular}, conversationID, nil
	}

	for _, att := range msg.Attachments {
		if att.Text != nil && att.Text.Content != "" {
			return &QueryResultPayload{Message: &MessageResult{Text: att.Text.Content}}, conversationID, nil
		}
	}

	return &QueryResultPayload{Message: &MessageResult{Text: msg.Content}}, conversationID, nil
}

func (c *Client) startConversation(ctx context.Context, question string) (*genieMessage, error) {
	path := fmt.Sprintf("/api/2.0/genie/spaces/%s/start-conversation", c.cfg.SpaceID)

	var resp startConversationResponse
	if err := c.do(ctx, http.MethodPost, path, map[string]string{"content": question}, &resp); err != nil {
		return nil, err
	}

	msg := resp.Message
	if msg.ConversationID == "" {
		msg.ConversationID = resp.ConversationID
	}
	return &msg, nil
}

func (c *Client) createMessage(ctx context.Context, conversationID, question string) (*genieMessage, error) {
	path := fmt.Sprintf("/api/2.0/genie/spaces/%s/conversations/%s/messages", c.cfg.SpaceID, conversationID)

	var msg genieMessage
	if err := c.do(ctx, http.MethodPost, path, map[string]string{"content": question}, &msg); err != nil {
		return nil, err
	}
	if msg.ConversationID == "" {
		msg.ConversationID = conversationID
	}
	return &msg, nil
}

// waitForCompletion polls the message until it reaches a terminal status. The
// loop is bounded by the pipeline context, not by an attempt count.
func (c *Client) waitForCompletion(ctx context.Context, conversationID, messageID string) (*genieMessage, error) {
	path := fmt.Sprintf("/api/2.0/genie/spaces/%s/conversations/%s/messages/%s", c.cfg.SpaceID, conversationID, messageID)

	for {
		var msg genieMessage
		if err := c.do(ctx, http.MethodGet, path, nil, &msg); err != nil {
			return nil, err
		}

		switch msg.Status {
		case statusCompleted:
			return &msg, nil
		case statusFailed, statusCancelled:
			return nil, fmt.Errorf("message %s ended with status %s", messageID, msg.Status)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.cfg.PollInterval):
		}
	}
}

func (c *Client) fetchTabularResult(ctx context.Context, conversationID, messageID string, query *genieQuery) (*TabularResult, error) {
	statementID := query.StatementID
	if statementID == "" {
		path := fmt.Sprintf("/api/2.0/genie/spaces/%s/conversations/%s/messages/%s/query-result",
			c.cfg.SpaceID, conversationID, messageID)

		var qr queryResultResponse
		if err := c.do(ctx, http.MethodGet, path, nil, &qr); err != nil {
			return nil, err
		}
		if qr.StatementResponse == nil {
			return nil, errors.New("query result carries no statement response")
		}
		statementID = qr.StatementResponse.StatementID
	}

	var stmt statementResponse
	if err := c.do(ctx, http.MethodGet, "/api/2.0/sql/statements/"+statementID, nil, &stmt); err != nil {
		return nil, err
	}

	tabular := &TabularResult{QueryDescription: query.Description}
	if stmt.Manifest != nil {
		tabular.Columns = stmt.Manifest.Schema.Columns
	}
	if stmt.Result != nil {
		tabular.Rows = stmt.Result.DataArray
	}
	return tabular, nil
}

func firstQueryAttachment(msg *genieMessage) *genieQuery {
	for _, att := range msg.Attachments {
		if att.Query != nil {
			return att.Query
		}
	}
	return nil
}

// do executes one authenticated API call and decodes the JSON response.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	url := strings.TrimRight(c.cfg.Host, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if err := c.authMgr.ApplyAuth(req); err != nil {
		return fmt.Errorf("failed to apply auth: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Error("genie API error",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("genie API returned status %d for %s", resp.StatusCode, path)
	}

	if out != nil {
		if err := json.Unmarshal(bodyBytes, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
