package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewTableID menghasilkan identifier meja yang opaque dan collision-free:
// timestamp milidetik + suffix acak dari UUID.
func NewTableID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("T%d-%s", time.Now().UnixMilli(), suffix)
}
