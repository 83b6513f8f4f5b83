// Package goroutine запускает фоновые задачи с перехватом panic.
package goroutine

import (
	"context"
	"runtime/debug"

	"github.com/sirupsen/logrus"

	"github.com/edumatch/edumatch-backend/internal/logger"
)

// RecoveryHandler перехватывает panic в горутинах и пишет их в лог.
type RecoveryHandler struct {
	log func() *logrus.Logger
}

// NewRecoveryHandler создаёт обработчик. log вызывается при каждой panic,
// поэтому подхватывает логгер, переинициализированный после запуска.
func NewRecoveryHandler(log func() *logrus.Logger) *RecoveryHandler {
	return &RecoveryHandler{log: log}
}

func (rh *RecoveryHandler) recover(name string) {
	if r := recover(); r != nil {
		rh.log().WithFields(logrus.Fields{
			"goroutine": name,
			"panic":     r,
			"stack":     string(debug.Stack()),
		}).Error("panic recovered")
	}
}

// SafeGo запускает горутину с обработкой panic.
func (rh *RecoveryHandler) SafeGo(name string, fn func()) {
	go func() {
		defer rh.recover(name)
		fn()
	}()
}

// SafeGoWithContext запускает горутину с контекстом и обработкой panic.
func (rh *RecoveryHandler) SafeGoWithContext(ctx context.Context, name string, fn func(context.Context)) {
	go func() {
		defer rh.recover(name)
		fn(ctx)
	}()
}

// DefaultRecoveryHandler пишет в глобальный логгер.
var DefaultRecoveryHandler = NewRecoveryHandler(func() *logrus.Logger { return logger.Log })

func SafeGo(name string, fn func()) {
	DefaultRecoveryHandler.SafeGo(name, fn)
}

func SafeGoWithContext(ctx context.Context, name string, fn func(context.Context)) {
	DefaultRecoveryHandler.SafeGoWithContext(ctx, name, fn)
}
