package errors

import "errors"

var (
	ErrGameNotFound     = errors.New("game not found")
	ErrGameClosed       = errors.New("game is closed")
	ErrCreateGameFailed = errors.New("create game failed")
	ErrInvalidMode      = errors.New("unknown game mode")
	ErrInvalidOption    = errors.New("invalid game option")
	ErrCorruptRecord    = errors.New("stored move record does not replay")
	ErrSnapshotMissing  = errors.New("snapshot not cached")
	ErrInternal         = errors.New("internal error")
)
