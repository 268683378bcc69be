package http

import (
	"github.com/apex/log"
)

// Logger is the logging interface used by the client. It is out of the box
// compatible with log.Log in github.com/apex/log.
type Logger interface {
	Debugf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
}

// DefaultLogger is the apex/log package logger
var DefaultLogger Logger = log.Log

type discardLogger struct{}

func (discardLogger) Debugf(format string, v ...interface{}) {}
func (discardLogger) Infof(format string, v ...interface{})  {}
func (discardLogger) Warnf(format string, v ...interface{})  {}

// DiscardLogger drops everything
var DiscardLogger Logger = discardLogger{}
