// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

const appDirName = "battcheck"

// Setup parses the level and installs a terminal-aware text formatter.
func Setup(level string) error {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to parse log level %q", level)
	}
	logrus.SetLevel(parsed)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}
	return nil
}

// Dir returns the per-user directory for battcheck state, creating it
// if needed.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", pkgerrors.Wrap(err, "failed to resolve user config dir")
	}
	dir := filepath.Join(base, appDirName, "logs")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", pkgerrors.Wrapf(err, "failed to create log dir %s", dir)
	}
	return dir, nil
}

// EnableDailyFile mirrors log output into a per-day file under the
// user's application-data directory and returns its path. Rotation is
// by filename: each day gets its own file.
func EnableDailyFile() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return enableFileIn(dir, time.Now())
}

func enableFileIn(dir string, now time.Time) (string, error) {
	path := filepath.Join(dir, "battcheck-"+now.Format("20060102")+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to open log file %s", path)
	}
	logrus.SetOutput(io.MultiWriter(os.Stderr, f))
	return path, nil
}
