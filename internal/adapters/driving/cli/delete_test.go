package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteCmd_Use(t *testing.T) {
	assert.Equal(t, "delete [document-id]", deleteCmd.Use)
}

func TestDeleteCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := executeCommand("delete")
	assert.Error(t, err)
}

func TestDeleteCmd_ReportsDeletion(t *testing.T) {
	cleanup := setupTestServices(&stubPipeline{deleted: true})
	defer cleanup()

	out, err := executeCommand("delete", "doc-1")

	require.NoError(t, err)
	assert.Contains(t, out, "Deleted document doc-1")
}

func TestDeleteCmd_ReportsMissingDocument(t *testing.T) {
	cleanup := setupTestServices(&stubPipeline{deleted: false})
	defer cleanup()

	out, err := executeCommand("delete", "doc-unknown")

	require.NoError(t, err)
	assert.Contains(t, out, "No document found")
}

func TestDeleteCmd_PropagatesError(t *testing.T) {
	cleanup := setupTestServices(&stubPipeline{deleteErr: errors.New("index locked")})
	defer cleanup()

	_, err := executeCommand("delete", "doc-1")
	assert.Error(t, err)
}
