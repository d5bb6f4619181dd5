package usecase

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/fantasy-roster/internal/domain/fantasy"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("resource not found")
)

func squadTxError(err error, squadID string) error {
	if errors.Is(err, fantasy.ErrSquadNotFound) {
		return fmt.Errorf("%w: squad=%s", ErrNotFound, squadID)
	}
	return err
}
