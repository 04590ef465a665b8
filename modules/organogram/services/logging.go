package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/organogram/pkg/logging"
)

func loggerFromContext(ctx context.Context) *logrus.Entry {
	return logging.FromContext(ctx)
}

func logWithFields(ctx context.Context, level logrus.Level, msg string, fields logrus.Fields) {
	logger := loggerFromContext(ctx)
	if logger == nil {
		return
	}
	logger.WithFields(fields).Log(level, msg)
}
