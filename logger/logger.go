// Package logger concentra o logrus usado pelo servidor, serviços e workers.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Log é o logger compartilhado. Antes de Setup ele escreve texto em stderr.
var Log = logrus.New()

// Setup configura nível, formato JSON e saída (stdout + arquivo em path).
// O arquivo retornado deve ser fechado no shutdown; é nil quando path está vazio.
func Setup(level, path string) (io.Closer, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)
	Log.SetFormatter(&logrus.JSONFormatter{})

	if path == "" {
		Log.SetOutput(os.Stdout)
		return nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	Log.SetOutput(io.MultiWriter(os.Stdout, f))
	return f, nil
}

// With é um atalho para Log.WithFields.
func With(fields logrus.Fields) *logrus.Entry {
	return Log.WithFields(fields)
}
