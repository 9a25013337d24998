package pulsarproducer

import (
	"fmt"
	"sort"

	"github.com/apache/pulsar-client-go/pulsar/log"
	"github.com/hashicorp/go-hclog"
)

// pulsarLogger routes Pulsar client logs into the plugin logger.
type pulsarLogger struct {
	logger hclog.Logger
}

func newPulsarLogger(logger hclog.Logger) *pulsarLogger {
	return &pulsarLogger{logger: logger.Named("pulsar")}
}

func (l *pulsarLogger) SubLogger(fields log.Fields) log.Logger {
	return &pulsarLogger{logger: l.logger.With(fieldArgs(fields)...)}
}

func (l *pulsarLogger) WithFields(fields log.Fields) log.Entry {
	return l.SubLogger(fields)
}

func (l *pulsarLogger) WithField(name string, value interface{}) log.Entry {
	return &pulsarLogger{logger: l.logger.With(name, value)}
}

func (l *pulsarLogger) WithError(err error) log.Entry {
	return &pulsarLogger{logger: l.logger.With("error", err)}
}

func (l *pulsarLogger) Debug(args ...interface{}) { l.logger.Debug(fmt.Sprint(args...)) }
func (l *pulsarLogger) Info(args ...interface{})  { l.logger.Info(fmt.Sprint(args...)) }
func (l *pulsarLogger) Warn(args ...interface{})  { l.logger.Warn(fmt.Sprint(args...)) }
func (l *pulsarLogger) Error(args ...interface{}) { l.logger.Error(fmt.Sprint(args...)) }

func (l *pulsarLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *pulsarLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *pulsarLogger) Warnf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *pulsarLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

// fieldArgs flattens fields into sorted key/value pairs.
func fieldArgs(fields log.Fields) []interface{} {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]interface{}, 0, 2*len(keys))
	for _, k := range keys {
		args = append(args, k, fields[k])
	}
	return args
}
