package client

import (
	"context"
	"fmt"
	"net/http"
)

// TextHistoryEntry is one stored text summarization.
type TextHistoryEntry struct {
	ID            int64  `json:"id"`
	Text          string `json:"text"`
	ShortSummary  string `json:"short_summary"`
	PointsSummary string `json:"points_summary"`
	Timestamp     string `json:"timestamp"`
}

// TextHistory lists past text summarizations, newest first.
func (c *Client) TextHistory(ctx context.Context) ([]TextHistoryEntry, error) {
	const op = "text history"
	data, err := c.do(ctx, op, http.MethodGet, "/get_text_summary_history", "", nil)
	if err != nil {
		return nil, err
	}
	var entries []TextHistoryEntry
	if err := decode(op, data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteTextSummary removes one history entry and returns the backend's
// confirmation message.
func (c *Client) DeleteTextSummary(ctx context.Context, id int64) (string, error) {
	const op = "delete text summary"
	data, err := c.do(ctx, op, http.MethodDelete, fmt.Sprintf("/delete_text_summary/%d", id), "", nil)
	if err != nil {
		return "", err
	}
	var resp struct {
		Message string `json:"message"`
	}
	if err := decode(op, data, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}
