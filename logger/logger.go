package logger

import (
	"go.uber.org/zap"
)

// Log is replaced by Init in main; the nop default keeps library code
// safe to call before that.
var Log = zap.NewNop().Sugar()

// Init sets up the global sugared logger. Debug switches to the
// development encoder so poll-tick output stays readable while testing
// against a local room service.
func Init(debug bool) {
	var (
		l   *zap.Logger
		err error
	)
	if debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	Log = l.Sugar()
}
