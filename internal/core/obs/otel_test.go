package obs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracer_Disabled(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), "", "fruito-api", "test")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
