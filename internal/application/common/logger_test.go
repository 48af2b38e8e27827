package common_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/pr0game-go/internal/application/common"
	"github.com/andrescamacho/pr0game-go/test/helpers"
)

func TestLoggerFromContext_ReturnsLoggerSetWithLogger(t *testing.T) {
	// Arrange
	logger := helpers.NewMockLogger()
	ctx := common.WithLogger(context.Background(), logger)

	// Act
	common.LoggerFromContext(ctx).Log(common.LevelInfo, "hello", nil)

	// Assert
	assert.Same(t, logger, common.LoggerFromContext(ctx))
	assert.True(t, logger.HasLevel(common.LevelInfo))
}

func TestLoggerFromContext_FallsBackToNoOp(t *testing.T) {
	logger := common.LoggerFromContext(context.Background())

	assert.NotNil(t, logger)
	assert.NotPanics(t, func() { logger.Log(common.LevelError, "dropped", nil) })
}
