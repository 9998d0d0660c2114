package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressTitle(t *testing.T) {
	assert.Equal(t, "remapcheck [0/3]", ProgressTitle("remapcheck", 0, 3, ""))
	assert.Equal(t, "remapcheck [1/3] overload.t", ProgressTitle("remapcheck", 1, 3, "overload.t"))
}
