// Package logger constructs the application's zap logger.
package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// New creates a zap logger appropriate for the environment: a human-readable
// development logger locally, JSON in production.
func New(environment string) (*zap.Logger, error) {
	var (
		log *zap.Logger
		err error
	)
	if environment == "production" {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return log, nil
}
