package board

import "errors"

// Move rejections. They are expected outcomes of user input and never change state.
var (
	ErrCellOccupied = errors.New("cell is occupied")
	ErrKoViolation  = errors.New("ko: immediate recapture is forbidden")
	ErrSelfCapture  = errors.New("move would capture own group")
	ErrOutOfBounds  = errors.New("point is outside the board")
)

// Setup errors.
var (
	ErrInvalidSize = errors.New("invalid board size")
	ErrGameStarted = errors.New("setup is only allowed before the first move")
	ErrNoPlayer    = errors.New("player must be black or white")
)

var rejectionCodes = map[error]string{
	ErrCellOccupied: "cell_occupied",
	ErrKoViolation:  "ko_violation",
	ErrSelfCapture:  "self_capture",
	ErrOutOfBounds:  "out_of_bounds",
}

// IsRejection reports whether err is one of the move rejections returned by AttemptMove.
func IsRejection(err error) bool {
	return RejectionCode(err) != ""
}

// RejectionCode returns a stable snake_case code for a move rejection, or "" for other errors.
func RejectionCode(err error) string {
	if err == nil {
		return ""
	}
	for target, code := range rejectionCodes {
		if errors.Is(err, target) {
			return code
		}
	}
	return ""
}
