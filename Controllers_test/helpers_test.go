package Controllers_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func timeAt(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02 15:04", value, time.Local)
	assert.NoError(t, err)
	return parsed
}
