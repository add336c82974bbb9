package logsvc

import (
	"log"
	"strconv"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/hometuition/portal/core"
	"github.com/hometuition/portal/core/user"
)

// RollbarLogger reports every entry to Rollbar and mirrors it on a local logger.
// Args may hold an error, a map[string]interface{} of extras, and the user.User behind the request.
type RollbarLogger struct {
	local *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(local *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{local: local}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// splitUser pulls the first identified user out of args.
func splitUser(args []interface{}) (rest []interface{}, usr *user.User) {
	rest = make([]interface{}, 0, len(args))
	for _, arg := range args {
		u, ok := arg.(user.User)
		if !ok {
			rest = append(rest, arg)
			continue
		}
		if usr == nil && u.ID != 0 {
			usr = &u
		}
	}
	return rest, usr
}

func (l RollbarLogger) report(level, msg string, args []interface{}) {
	rest, usr := splitUser(args)
	if usr != nil {
		rollbar.SetPerson(strconv.Itoa(usr.ID), usr.Name, usr.Email)
	} else {
		rollbar.ClearPerson()
	}
	// the last string wins in rollbar.Log, so msg goes last
	rollbar.Log(level, append(rest[:len(rest):len(rest)], msg)...)

	l.local.Println(msg)
	for _, arg := range rest {
		l.local.Printf("%+v\n", arg)
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) { l.report(rollbar.DEBUG, msg, args) }
func (l RollbarLogger) Info(msg string, args ...interface{})  { l.report(rollbar.INFO, msg, args) }
func (l RollbarLogger) Warn(msg string, args ...interface{})  { l.report(rollbar.WARN, msg, args) }
func (l RollbarLogger) Error(msg string, args ...interface{}) { l.report(rollbar.ERR, msg, args) }

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	l.report(rollbar.CRIT, msg, args)
	rollbar.Wait()
	l.local.Fatal(msg)
}
