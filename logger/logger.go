// Package logger configures the process-wide logrus logger.
package logger

import (
	"io"
	"strings"

	nested "github.com/antonfisher/nested-logrus-formatter"
	log "github.com/sirupsen/logrus"
)

// Setup installs the nested formatter and the requested level on the
// standard logger. Unknown levels fall back to info.
func Setup(level string, out io.Writer) {
	log.SetFormatter(&nested.Formatter{
		HideKeys:        false,
		FieldsOrder:     []string{"module", "method", "command", "guildID"},
		TimestampFormat: "2006-01-02 15:04:05",
		NoColors:        true,
	})
	if out != nil {
		log.SetOutput(out)
	}
	log.SetLevel(ParseLevel(level))
}

func ParseLevel(level string) log.Level {
	parsed, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return log.InfoLevel
	}
	return parsed
}
