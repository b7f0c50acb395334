package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskCardNumber(t *testing.T) {
	assert.Equal(t, "************0001", MaskCardNumber("4000000000000001"))
	assert.Equal(t, "****", MaskCardNumber("1234"))
	assert.Equal(t, "**", MaskCardNumber("12"))
	assert.Equal(t, "", MaskCardNumber(""))
}
