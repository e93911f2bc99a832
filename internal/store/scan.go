package store

import (
	"context"

	"github.com/nusatel/simfleet/internal/models"
	"github.com/nusatel/simfleet/pkg/types"
)

// ScanSimsRequest is the admin listing surface: generic filters plus offset
// pagination and single-column sorting.
type ScanSimsRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ScanSimsResult struct {
	Items []*models.SimCard `json:"items"`
	Total int64             `json:"total"`
}

// SimScanner is an optional capability of a Store. The SQL backend implements
// it by translating filters to WHERE clauses; backends without it fall back to
// unfiltered listing at the caller.
type SimScanner interface {
	ScanSims(ctx context.Context, req *ScanSimsRequest) (*ScanSimsResult, error)
}
