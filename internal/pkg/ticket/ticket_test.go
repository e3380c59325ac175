package ticket

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCode(t *testing.T) {
	format := regexp.MustCompile(`^TKT-[0-9A-F]{12}$`)
	seen := make(map[string]struct{})

	for i := 0; i < 1000; i++ {
		code := NewCode()
		assert.Regexp(t, format, code)
		seen[code] = struct{}{}
	}

	assert.Len(t, seen, 1000)
}
