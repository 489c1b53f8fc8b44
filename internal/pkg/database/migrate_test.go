package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles_Ordered(t *testing.T) {
	files, err := migrationFiles(migrationFS)
	require.NoError(t, err)
	require.NotEmpty(t, files)

	assert.Equal(t, "0001_init.sql", files[0])
	for i := 1; i < len(files); i++ {
		assert.Less(t, files[i-1], files[i])
	}
}
