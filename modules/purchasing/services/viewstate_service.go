package services

import (
	"context"

	"github.com/amas-erp/supplier-portal/modules/purchasing/domain/entities/viewstate"
	"github.com/amas-erp/supplier-portal/pkg/composables"
)

// ViewStateService remembers which PO panels the current session has
// collapsed, or left mid-confirmation or mid-edit.
type ViewStateService struct {
	repo viewstate.Repository
}

func NewViewStateService(repo viewstate.Repository) *ViewStateService {
	return &ViewStateService{repo: repo}
}

func (s *ViewStateService) Board(ctx context.Context) (viewstate.Board, error) {
	sid, err := composables.UseSessionID(ctx)
	if err != nil {
		return nil, viewstate.ErrNoSession
	}
	return s.repo.Load(ctx, sid)
}

func (s *ViewStateService) Set(ctx context.Context, poid int64, state viewstate.PanelState) error {
	sid, err := composables.UseSessionID(ctx)
	if err != nil {
		return viewstate.ErrNoSession
	}
	return s.repo.Save(ctx, sid, poid, state)
}

// Settle closes the confirm and edit forms of a panel once its action went
// through. The collapsed flag is kept.
func (s *ViewStateService) Settle(ctx context.Context, poid int64) error {
	board, err := s.Board(ctx)
	if err != nil {
		return err
	}
	state, ok := board[poid]
	if !ok || (!state.Confirming && !state.Editing) {
		return nil
	}
	state.Confirming, state.Editing = false, false
	return s.Set(ctx, poid, state)
}
