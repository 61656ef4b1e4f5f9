package logsvc

import (
	"log"
	"os"
	"strconv"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/trezcool/schooldash/core"
	"github.com/trezcool/schooldash/core/user"
)

// RollbarLogger prints every entry to std and reports it to Rollbar when reporting is enabled.
type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	host, _ := os.Hostname()
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetEnabled(conf.RollbarToken != "" && !conf.Debug && !conf.TestMode)
	return &RollbarLogger{std: std}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// Close waits for queued reports to be sent.
func (l RollbarLogger) Close() {
	rollbar.Close()
}

// expected fmt: msg | error, map[string]interface{}, user.Identity
func (l RollbarLogger) prepare(msg string, args []interface{}) []interface{} {
	var identSet bool
	newArgs := make([]interface{}, 0, len(args)+1)
	newArgs = append(newArgs, msg)
	for _, arg := range args {
		// set the acting user
		if ident, ok := arg.(user.Identity); ok {
			if !identSet { // only set one person
				rollbar.SetPerson(strconv.FormatInt(ident.UserID, 10), ident.Name, ident.Email)
				identSet = true
			}
		} else {
			newArgs = append(newArgs, arg)
		}
	}
	if !identSet {
		rollbar.ClearPerson()
	}
	return newArgs
}

func (l RollbarLogger) print(level, msg string, args []interface{}) {
	l.std.Printf("[%s] %s", level, msg)
	for _, arg := range args {
		if _, ok := arg.(user.Identity); ok {
			continue
		}
		l.std.Printf("%+v\n", arg)
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	rollbar.Debug(l.prepare(msg, args)...)
	l.print("DEBUG", msg, args)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	rollbar.Info(l.prepare(msg, args)...)
	l.print("INFO", msg, args)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	rollbar.Warning(l.prepare(msg, args)...)
	l.print("WARN", msg, args)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	rollbar.Error(l.prepare(msg, args)...)
	l.print("ERROR", msg, args)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	rollbar.Critical(l.prepare(msg, args)...)
	l.print("FATAL", msg, args)
	rollbar.Close()
	l.std.Fatal(msg)
}
