// Copyright 2026 The ContentStore Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package contentstore

import (
	"fmt"
	"log"
	"os"
)

// Logger is the diagnostic sink a Store writes to. Grounded on pebble's
// base.Logger (internal/base/logger.go), which keeps the same two-method
// shape so callers can plug in their own structured logger.
type Logger interface {
	Infof(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
}

// DefaultLogger writes to the standard library's log package, matching
// pebble's base.DefaultLogger.
type DefaultLogger struct{}

var _ Logger = DefaultLogger{}

// Infof implements Logger.
func (DefaultLogger) Infof(format string, args ...interface{}) {
	_ = log.Output(2, fmt.Sprintf(format, args...))
}

// Fatalf implements Logger.
func (DefaultLogger) Fatalf(format string, args ...interface{}) {
	_ = log.Output(2, fmt.Sprintf(format, args...))
	os.Exit(1)
}
