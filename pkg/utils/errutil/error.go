// Package errutil terminates the process on unrecoverable CLI errors.
package errutil

import (
	log "github.com/sirupsen/logrus"
)

// Check logs the full error chain at debug level and exits when err is
// not nil.
func Check(err error) {
	if err == nil {
		return
	}

	log.Debugf("%+v", err)
	log.Fatalf("%v", err)
}

// CheckWithContext behaves like Check with a context prefix on the logs.
func CheckWithContext(err error, context string) {
	if err == nil {
		return
	}

	log.Debugf("%s: %+v", context, err)
	log.Fatalf("%s: %v", context, err)
}
