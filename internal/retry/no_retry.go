package retry

import (
	"context"
)

// NoRetryStrategy executes operations exactly once
type NoRetryStrategy struct{}

// NewNoRetryStrategy creates a new NoRetryStrategy
func NewNoRetryStrategy() *NoRetryStrategy {
	return &NoRetryStrategy{}
}

// Execute runs the operation once
func (s *NoRetryStrategy) Execute(ctx context.Context, _ OperationInfo, operation Operation) error {
	return operation(ctx)
}

// Name returns the strategy name
func (s *NoRetryStrategy) Name() string {
	return "NoRetry"
}
