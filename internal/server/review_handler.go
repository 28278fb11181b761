// Package server provides Connect RPC handlers for the review service.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"
	"google.golang.org/genproto/googleapis/rpc/errdetails"

	"github.com/at-ishikawa/recall/internal/review"
	"github.com/at-ishikawa/recall/internal/schedule"
	"github.com/at-ishikawa/recall/internal/scheduler"
)

// ReviewHandler serves the review operations of a review.Reviewer.
type ReviewHandler struct {
	reviewer        review.Reviewer
	defaultDueLimit int
}

// NewReviewHandler creates a new ReviewHandler.
// defaultDueLimit applies to ListDue requests without a limit; zero means unlimited.
func NewReviewHandler(reviewer review.Reviewer, defaultDueLimit int) *ReviewHandler {
	return &ReviewHandler{
		reviewer:        reviewer,
		defaultDueLimit: defaultDueLimit,
	}
}

// NewReviewServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewReviewServiceHandler(h *ReviewHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSONCodec()}, opts...)

	reviewHandler := connect.NewUnaryHandler(ReviewProcedure, h.Review, opts...)
	getItemHandler := connect.NewUnaryHandler(GetItemProcedure, h.GetItem, opts...)
	listDueHandler := connect.NewUnaryHandler(ListDueProcedure, h.ListDue, opts...)
	resetItemHandler := connect.NewUnaryHandler(ResetItemProcedure, h.ResetItem, opts...)
	getHistoryHandler := connect.NewUnaryHandler(GetHistoryProcedure, h.GetHistory, opts...)

	return "/" + ServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ReviewProcedure:
			reviewHandler.ServeHTTP(w, r)
		case GetItemProcedure:
			getItemHandler.ServeHTTP(w, r)
		case ListDueProcedure:
			listDueHandler.ServeHTTP(w, r)
		case ResetItemProcedure:
			resetItemHandler.ServeHTTP(w, r)
		case GetHistoryProcedure:
			getHistoryHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// Review records the outcome of a review and returns the next schedule.
func (h *ReviewHandler) Review(
	ctx context.Context,
	req *connect.Request[ReviewRequest],
) (*connect.Response[ReviewResponse], error) {
	if req.Msg.ItemID == "" {
		return nil, toConnectError(scheduler.ErrEmptyItemID)
	}
	difficulty, err := scheduler.ParseDifficulty(req.Msg.Difficulty)
	if err != nil {
		return nil, toConnectError(err)
	}

	result, err := h.reviewer.Review(ctx, review.Request{
		ItemID:        req.Msg.ItemID,
		WasSuccessful: req.Msg.WasSuccessful,
		Difficulty:    difficulty,
	})
	if err != nil {
		return nil, toConnectError(fmt.Errorf("review %s: %w", req.Msg.ItemID, err))
	}

	return connect.NewResponse(&ReviewResponse{
		Item:    result.Item,
		Log:     result.Log,
		Created: result.Created,
	}), nil
}

// GetItem returns the schedule of one item.
func (h *ReviewHandler) GetItem(
	ctx context.Context,
	req *connect.Request[GetItemRequest],
) (*connect.Response[GetItemResponse], error) {
	if req.Msg.ItemID == "" {
		return nil, toConnectError(scheduler.ErrEmptyItemID)
	}

	item, err := h.reviewer.Get(ctx, req.Msg.ItemID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&GetItemResponse{Item: item}), nil
}

// ListDue returns the items due now, earliest first.
func (h *ReviewHandler) ListDue(
	ctx context.Context,
	req *connect.Request[ListDueRequest],
) (*connect.Response[ListDueResponse], error) {
	if req.Msg.Limit < 0 {
		return nil, invalidArgument("limit", fmt.Errorf("limit must not be negative: %d", req.Msg.Limit))
	}
	limit := req.Msg.Limit
	if limit == 0 {
		limit = h.defaultDueLimit
	}

	items, err := h.reviewer.Due(ctx, limit)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ListDueResponse{Items: items}), nil
}

// ResetItem removes an item and its history.
func (h *ReviewHandler) ResetItem(
	ctx context.Context,
	req *connect.Request[ResetItemRequest],
) (*connect.Response[ResetItemResponse], error) {
	if req.Msg.ItemID == "" {
		return nil, toConnectError(scheduler.ErrEmptyItemID)
	}

	if err := h.reviewer.Reset(ctx, req.Msg.ItemID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ResetItemResponse{}), nil
}

// GetHistory returns the review logs of an item, oldest first.
func (h *ReviewHandler) GetHistory(
	ctx context.Context,
	req *connect.Request[GetHistoryRequest],
) (*connect.Response[GetHistoryResponse], error) {
	if req.Msg.ItemID == "" {
		return nil, toConnectError(scheduler.ErrEmptyItemID)
	}

	logs, err := h.reviewer.History(ctx, req.Msg.ItemID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if logs == nil {
		logs = []schedule.ReviewLog{}
	}
	return connect.NewResponse(&GetHistoryResponse{Logs: logs}), nil
}

func toConnectError(err error) *connect.Error {
	switch {
	case errors.Is(err, scheduler.ErrEmptyItemID):
		return invalidArgument("item_id", err)
	case errors.Is(err, scheduler.ErrInvalidDifficulty):
		return invalidArgument("difficulty", err)
	case errors.Is(err, schedule.ErrStaleRecord):
		return connect.NewError(connect.CodeAborted, err)
	case errors.Is(err, schedule.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	}

	slog.Default().Error("review request failed", slog.Any("error", err))
	return connect.NewError(connect.CodeInternal, err)
}

func invalidArgument(field string, err error) *connect.Error {
	connectErr := connect.NewError(connect.CodeInvalidArgument, err)
	if detail, detailErr := connect.NewErrorDetail(&errdetails.BadRequest{
		FieldViolations: []*errdetails.BadRequest_FieldViolation{
			{
				Field:       field,
				Description: err.Error(),
			},
		},
	}); detailErr == nil {
		connectErr.AddDetail(detail)
	}
	return connectErr
}
