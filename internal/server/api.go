package server

import (
	"github.com/at-ishikawa/recall/internal/schedule"
	"github.com/at-ishikawa/recall/internal/scheduler"
)

const (
	// ServiceName is the fully-qualified name of the review service.
	ServiceName = "recall.v1.ReviewService"

	ReviewProcedure     = "/" + ServiceName + "/Review"
	GetItemProcedure    = "/" + ServiceName + "/GetItem"
	ListDueProcedure    = "/" + ServiceName + "/ListDue"
	ResetItemProcedure  = "/" + ServiceName + "/ResetItem"
	GetHistoryProcedure = "/" + ServiceName + "/GetHistory"
)

type ReviewRequest struct {
	ItemID        string `json:"item_id"`
	WasSuccessful bool   `json:"was_successful"`
	// Difficulty is one of again, hard, good or easy.
	Difficulty string `json:"difficulty"`
}

type ReviewResponse struct {
	Item    scheduler.ScheduledItem `json:"item"`
	Log     schedule.ReviewLog      `json:"log"`
	Created bool                    `json:"created"`
}

type GetItemRequest struct {
	ItemID string `json:"item_id"`
}

type GetItemResponse struct {
	Item scheduler.ScheduledItem `json:"item"`
}

type ListDueRequest struct {
	// Limit caps the number of items. Zero uses the server default.
	Limit int `json:"limit,omitempty"`
}

type ListDueResponse struct {
	Items []scheduler.ScheduledItem `json:"items"`
}

type ResetItemRequest struct {
	ItemID string `json:"item_id"`
}

type ResetItemResponse struct{}

type GetHistoryRequest struct {
	ItemID string `json:"item_id"`
}

type GetHistoryResponse struct {
	Logs []schedule.ReviewLog `json:"logs"`
}
