// Package client calls a remote recall server over the Connect unary JSON protocol.
package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/at-ishikawa/recall/internal/config"
	"github.com/at-ishikawa/recall/internal/review"
	"github.com/at-ishikawa/recall/internal/schedule"
	"github.com/at-ishikawa/recall/internal/scheduler"
	"github.com/at-ishikawa/recall/internal/server"
)

// Client implements review.Reviewer against a recall server.
type Client struct {
	httpClient *resty.Client
}

var _ review.Reviewer = (*Client)(nil)

func New(cfg config.RemoteConfig) *Client {
	client := resty.New()
	client.SetBaseURL(strings.TrimSuffix(cfg.URL, "/"))
	client.SetHeader("Content-Type", "application/json")
	client.SetHeader("Connect-Protocol-Version", "1")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &Client{
		httpClient: client,
	}
}

func (c *Client) call(ctx context.Context, procedure string, request any, response any) error {
	res, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(request).
		SetResult(response).
		SetError(&wireError{}).
		Post(procedure)
	if err != nil {
		return fmt.Errorf("client.R().Post(%s) > %w", procedure, err)
	}
	if res.IsError() {
		body, _ := res.Error().(*wireError)
		return decodeError(res.StatusCode(), body)
	}
	return nil
}

func (c *Client) Review(ctx context.Context, req review.Request) (review.Result, error) {
	var res server.ReviewResponse
	if err := c.call(ctx, server.ReviewProcedure, &server.ReviewRequest{
		ItemID:        req.ItemID,
		WasSuccessful: req.WasSuccessful,
		Difficulty:    req.Difficulty.String(),
	}, &res); err != nil {
		return review.Result{}, err
	}
	return review.Result{
		Item:    res.Item,
		Log:     res.Log,
		Created: res.Created,
	}, nil
}

func (c *Client) Due(ctx context.Context, limit int) ([]scheduler.ScheduledItem, error) {
	var res server.ListDueResponse
	if err := c.call(ctx, server.ListDueProcedure, &server.ListDueRequest{Limit: limit}, &res); err != nil {
		return nil, err
	}
	return res.Items, nil
}

func (c *Client) Get(ctx context.Context, itemID string) (scheduler.ScheduledItem, error) {
	var res server.GetItemResponse
	if err := c.call(ctx, server.GetItemProcedure, &server.GetItemRequest{ItemID: itemID}, &res); err != nil {
		return scheduler.ScheduledItem{}, err
	}
	return res.Item, nil
}

func (c *Client) Reset(ctx context.Context, itemID string) error {
	return c.call(ctx, server.ResetItemProcedure, &server.ResetItemRequest{ItemID: itemID}, &server.ResetItemResponse{})
}

func (c *Client) History(ctx context.Context, itemID string) ([]schedule.ReviewLog, error) {
	var res server.GetHistoryResponse
	if err := c.call(ctx, server.GetHistoryProcedure, &server.GetHistoryRequest{ItemID: itemID}, &res); err != nil {
		return nil, err
	}
	return res.Logs, nil
}
