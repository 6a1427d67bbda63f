package storage

import "github.com/sirupsen/logrus"

// OrDefault runs load and returns its value, or def when load fails.
// Failures are logged at debug level and never returned.
func OrDefault[T any](log *logrus.Entry, what string, def T, load func() (T, error)) T {
	v, err := load()
	if err != nil {
		if log != nil {
			log.WithError(err).WithField("resource", what).Debug("best-effort load failed, using default")
		}
		return def
	}
	return v
}
