package tz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	for _, name := range []string{"", "Local"} {
		loc, err := Load(name)
		require.NoError(t, err)
		assert.Equal(t, time.Local, loc)
	}

	loc, err := Load("UTC")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	paris, err := Load("Europe/Paris")
	require.NoError(t, err)
	_, offset := time.Date(2026, 7, 1, 12, 0, 0, 0, paris).Zone()
	assert.Equal(t, 2*3600, offset, "summer time")

	_, err = Load("Mars/Olympus_Mons")
	assert.Error(t, err)
}
