// Package logger configures the global logrus logger.
package logger

import (
	log "github.com/sirupsen/logrus"
)

type formatter struct {
	format log.Formatter
	fields log.Fields
}

func (f formatter) Format(entry *log.Entry) ([]byte, error) {
	for k, v := range f.fields {
		if _, exists := entry.Data[k]; !exists {
			entry.Data[k] = v
		}
	}
	return f.format.Format(entry)
}

// Init logs JSON with caller info in production and text otherwise. fields
// are added to every entry.
func Init(production bool, fields log.Fields) {
	var (
		format log.Formatter
		caller bool
	)

	if production {
		format = new(log.JSONFormatter)
		caller = true
	} else {
		format = &log.TextFormatter{FullTimestamp: true}
	}

	log.SetFormatter(formatter{
		format: format,
		fields: fields,
	})
	log.SetLevel(log.InfoLevel)
	log.SetReportCaller(caller)
}
