package logrus

import (
	"github.com/sirupsen/logrus"
	"github.com/unkn0wn-root/latestcell"
)

type LogrusLogger struct{ E *logrus.Entry }

func (l LogrusLogger) Debug(msg string, f latestcell.Fields) {
	l.E.WithFields(logrus.Fields(f)).Debug(msg)
}
func (l LogrusLogger) Info(msg string, f latestcell.Fields) {
	l.E.WithFields(logrus.Fields(f)).Info(msg)
}
func (l LogrusLogger) Warn(msg string, f latestcell.Fields) {
	l.E.WithFields(logrus.Fields(f)).Warn(msg)
}
func (l LogrusLogger) Error(msg string, f latestcell.Fields) {
	l.E.WithFields(logrus.Fields(f)).Error(msg)
}
