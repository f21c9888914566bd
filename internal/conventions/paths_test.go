package conventions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dicedefense/dice/internal/conventions"
)

func TestPaths(t *testing.T) {
	dataDir := conventions.DataDir("/home/dice")

	assert.Equal(t, "/home/dice/.dice", dataDir)
	assert.Equal(t, "/home/dice/.dice/dice.db", conventions.DBPath(dataDir))
}
