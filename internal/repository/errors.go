package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"dailyquiz/internal/model"
)

// storeErr classifies driver failures. Connectivity problems become
// ErrStoreUnavailable so every public operation can fail fast with a
// distinguishable result; anything else passes through with the original
// message preserved for diagnostics.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) ||
		errors.Is(err, mongo.ErrClientDisconnected) ||
		errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}
	return err
}
