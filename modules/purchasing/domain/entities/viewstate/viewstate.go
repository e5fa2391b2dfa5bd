package viewstate

import (
	"context"
	"errors"
)

var ErrNoSession = errors.New("view state requires a session id")

// PanelState is the per-session UI state of one PO panel on the board.
type PanelState struct {
	Collapsed  bool `json:"collapsed"`
	Confirming bool `json:"confirming"`
	Editing    bool `json:"editing"`
}

// Board maps POIDs to panel state. A PO absent from the map renders expanded.
type Board map[int64]PanelState

type Repository interface {
	Load(ctx context.Context, sessionID string) (Board, error)
	Save(ctx context.Context, sessionID string, poid int64, state PanelState) error
	Clear(ctx context.Context, sessionID string) error
}
