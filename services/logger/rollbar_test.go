package logsvc

import (
	"bytes"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/schooldash/core/user"
	"github.com/trezcool/schooldash/testutil"
)

func TestRollbarLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewRollbarLogger(log.New(&buf, "", 0), testutil.NewConfig(t))

	ident := user.Identity{UserID: 7, Name: "Jane", Email: "jane@example.com", Role: user.RoleTeacher}
	err := errors.New("boom")
	args := logger.prepare("failed", []interface{}{err, ident, map[string]interface{}{"row": 3}, ident})
	assert.Equal(t, []interface{}{"failed", err, map[string]interface{}{"row": 3}}, args)

	logger.Error("failed", err, ident)
	out := buf.String()
	assert.Contains(t, out, "[ERROR] failed")
	assert.Contains(t, out, "boom")
	assert.NotContains(t, out, "jane@example.com")
}
