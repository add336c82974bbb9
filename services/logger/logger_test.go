package logsvc

import (
	"bytes"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/hometuition/portal/core"
	"github.com/hometuition/portal/core/user"
)

func TestStdLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStdLogger(log.New(&buf, "", 0))

	logger.Info("inquiry saved")
	logger.Error("notification not sent", "timeout")
	assert.Equal(t, "INFO inquiry saved\nERROR notification not sent\ntimeout\n", buf.String())
}

func TestRecorderLogger(t *testing.T) {
	logger := NewRecorderLogger()
	err := errors.New("timeout")

	logger.Info("sent on email")
	logger.Warn("breaker open")
	logger.Error("not sent on whatsapp", err)

	assert.Len(t, logger.Entries(), 3)
	assert.Equal(t, []Entry{{Level: "ERROR", Msg: "not sent on whatsapp", Args: []interface{}{err}}}, logger.Entries("ERROR"))
	assert.Empty(t, logger.Entries("FATAL"))
}

func TestSplitUser(t *testing.T) {
	anon := user.User{}
	asha := user.User{ID: 1, Name: "Asha Rao", Email: "asha@mail.com"}
	ravi := user.User{ID: 2, Name: "Ravi Kumar", Email: "ravi@mail.com"}
	extras := map[string]interface{}{"route": "/v1/inquiries"}

	rest, usr := splitUser([]interface{}{"timeout", anon, asha, extras, ravi})
	assert.Equal(t, []interface{}{"timeout", extras}, rest)
	if assert.NotNil(t, usr) {
		assert.Equal(t, asha, *usr)
	}

	rest, usr = splitUser([]interface{}{anon})
	assert.Empty(t, rest)
	assert.Nil(t, usr)
}

func TestRollbarLogger_local(t *testing.T) {
	var buf bytes.Buffer
	logger := NewRollbarLogger(log.New(&buf, "", 0), core.NewTestConfig())
	logger.Enable(false)

	logger.Warn("breaker open", "whatsapp", user.User{ID: 1, Name: "Asha Rao"})
	assert.Equal(t, "breaker open\nwhatsapp\n", buf.String())
}
