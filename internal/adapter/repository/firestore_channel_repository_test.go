package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChannelKeyIsOrderIndependent(t *testing.T) {
	a := channelKey("L1", []string{"B1", "S1"})
	b := channelKey("L1", []string{"S1", "B1"})

	assert.Equal(t, a, b)
	assert.Equal(t, "L1_B1_S1", a)
}

func TestChannelKeyVariesByListing(t *testing.T) {
	assert.NotEqual(t,
		channelKey("L1", []string{"B1", "S1"}),
		channelKey("L2", []string{"B1", "S1"}),
	)
}

func TestChannelKeyDoesNotMutateInput(t *testing.T) {
	participants := []string{"S1", "B1"}
	channelKey("L1", participants)

	assert.Equal(t, []string{"S1", "B1"}, participants)
}
