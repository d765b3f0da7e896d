package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+5511999998888", NormalizePhone(" +55 (11) 99999-8888 "))
	assert.Equal(t, "5550001", NormalizePhone("555-0001"))
	assert.Empty(t, NormalizePhone("call me"))
	assert.Empty(t, NormalizePhone("12"))
}
