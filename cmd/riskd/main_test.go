package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubCheck struct{ err error }

func (s stubCheck) CheckReadiness(context.Context) error { return s.err }

func TestReadiness(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, readiness(nil).CheckReadiness(ctx))
	assert.NoError(t, readiness{stubCheck{}, stubCheck{}}.CheckReadiness(ctx))

	down := errors.New("store closed")
	assert.ErrorIs(t, readiness{stubCheck{}, stubCheck{err: down}}.CheckReadiness(ctx), down)
}
