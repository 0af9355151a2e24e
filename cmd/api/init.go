package main

import (
	"context"

	"learnmint-calculator/internal/calculator"
	"learnmint-calculator/internal/observability"
)

// initMetrics initialises the meter provider and the calculator's metric
// instruments.
func initMetrics(ctx context.Context) (func(context.Context) error, *calculator.Metrics, error) {
	shutdown, err := observability.InitMetrics(ctx)
	if err != nil {
		return nil, nil, err
	}

	m, err := calculator.NewMetrics()
	if err != nil {
		return nil, nil, err
	}

	return shutdown, m, nil
}
