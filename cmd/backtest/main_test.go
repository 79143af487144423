package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"GoldenCross/internal/model"
	"GoldenCross/internal/recorder"
)

type failingRunner struct{ err error }

func (f failingRunner) Run(context.Context) (*model.Report, error) { return nil, f.err }

type closeCounter struct {
	recorder.NoopRecorder
	closed int
}

func (c *closeCounter) Close() error {
	c.closed++
	return nil
}

func TestRunOnce_ClosesRecorder(t *testing.T) {
	boom := errors.New("boom")
	rec := &closeCounter{}

	err := runOnce(context.Background(), failingRunner{err: boom}, rec)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, rec.closed)

	assert.NoError(t, runOnce(context.Background(), failingRunner{}, rec))
	assert.Equal(t, 2, rec.closed)
}
