/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package logging_test

import (
	"testing"

	"github.com/trustbloc/didwebvh-go/internal/logging"
)

func TestNew_NilBaseIsNoop(t *testing.T) {
	l := logging.New("test", nil)
	l.Infof("hello %s", "world")
	l.Debugf("debug")
	l.Warnf("warn")
	l.Errorf("error")
}

func TestNewProduction(t *testing.T) {
	l, err := logging.NewProduction("test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	l.Infof("hello")

	if err := l.Sync(); err != nil {
		t.Logf("sync: %v", err)
	}
}
