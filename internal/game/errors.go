package game

import "errors"

var (
	ErrGameEnded         = errors.New("game has ended")
	ErrNoPiece           = errors.New("no piece at source square")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrIllegalMove       = errors.New("illegal move")
	ErrPromotionRequired = errors.New("promotion piece required")
	ErrInvalidPromotion  = errors.New("invalid promotion piece")
	ErrNothingToUndo     = errors.New("nothing to undo")
	ErrNothingToRedo     = errors.New("nothing to redo")
	ErrInvalidFEN        = errors.New("invalid board notation")
	ErrKingCount         = errors.New("each side must have exactly one king")
	ErrInvalidPuzzle     = errors.New("invalid puzzle configuration")
)
