package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	data, err := Load()
	require.NoError(t, err)
	require.NotEmpty(t, data.Sectors)
	require.NotEmpty(t, data.Projects)

	sectors := make(map[int]string, len(data.Sectors))
	for _, s := range data.Sectors {
		assert.NotEmpty(t, s.Name)
		sectors[s.ID] = s.Name
	}
	for _, p := range data.Projects {
		assert.NotEmpty(t, p.Title)
		_, ok := sectors[p.SectorID]
		assert.True(t, ok, "project %d references unknown sector %d", p.ID, p.SectorID)
	}
}
