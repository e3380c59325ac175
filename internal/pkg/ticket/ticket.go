package ticket

import (
	"strings"

	"github.com/google/uuid"
)

const Prefix = "TKT-"

const codeLength = 12

// NewCode returns a human shareable ticket code such as TKT-3F2A9C1B07DE.
// The twelve characters come from the random part of a v4 UUID.
func NewCode() string {
	return Prefix + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:codeLength])
}
