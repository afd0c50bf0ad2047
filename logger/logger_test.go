package logger_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	loglib "github.com/nabbar/bolt/logger"
)

func newTestLogger(buf *bytes.Buffer) loglib.Logger {
	back := logrus.New()
	back.SetOutput(buf)
	back.SetFormatter(&logrus.JSONFormatter{})
	return loglib.NewFrom(back)
}

func TestLevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	l := newTestLogger(buf)
	l.SetLevel(loglib.WarnLevel)

	l.Debug("should not appear")
	if buf.Len() != 0 {
		t.Fatalf("expected debug message to be filtered, got: %s", buf.String())
	}

	l.Warning("should appear")
	if !strings.Contains(buf.String(), "should appear") {
		t.Fatalf("expected warning message in output, got: %s", buf.String())
	}
}

func TestFieldsDoNotShareStorage(t *testing.T) {
	base := loglib.NewFields().Add("k", "v")
	masked := base.Add("secret", "********")
	unmasked := base.Add("secret", "plain-text")

	if masked["secret"] == unmasked["secret"] {
		t.Fatalf("masked and unmasked fields must not observe each other's writes")
	}
	if _, ok := base["secret"]; ok {
		t.Fatalf("base fields must remain untouched by derived Add calls")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	buf := &bytes.Buffer{}
	l := newTestLogger(buf)
	l.SetFields(loglib.NewFields().Add("conn", "1"))

	clone := l.Clone()
	clone.SetFields(loglib.NewFields().Add("conn", "2"))

	if l.GetFields()["conn"] != "1" {
		t.Fatalf("mutating the clone must not affect the original logger's fields")
	}
}
