package obs

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Configure sets up the process logger. level is any logrus level name;
// format is "json" or "text".
func Configure(level, format string) (*logrus.Logger, error) {
	return configure(logrus.StandardLogger(), os.Stdout, level, format)
}

func configure(logger *logrus.Logger, out io.Writer, level, format string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("configure logger: %w", err)
	}
	logger.SetLevel(lvl)
	logger.SetOutput(out)

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	default:
		return nil, fmt.Errorf("configure logger: unknown log format %q", format)
	}
	return logger, nil
}
