package fieldkit

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestShortBufferIsLogged(t *testing.T) {
	l, hook := test.NewNullLogger()
	l.SetLevel(logrus.DebugLevel)
	SetLogger(l)
	defer SetLogger(nil)

	f := Must(IntField("cookie", 0))
	f.Decode([]byte{1, 2}, nil)

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("no entry was logged")
	}
	if entry.Level != logrus.DebugLevel || entry.Data["field"] != "cookie" || entry.Data["need"] != 4 || entry.Data["have"] != 2 {
		t.Errorf("unexpected entry %v %v", entry.Level, entry.Data)
	}
}

func TestDefaultLogger(t *testing.T) {
	SetLogger(nil)
	entry, ok := Logger().(*logrus.Entry)
	if !ok {
		t.Fatalf("Logger() = %T", Logger())
	}
	if entry.Data["component"] != "fieldkit" {
		t.Errorf("component = %v", entry.Data["component"])
	}
}

func TestShortBufferSkippedAboveDebug(t *testing.T) {
	l, hook := test.NewNullLogger()
	l.SetLevel(logrus.InfoLevel)
	SetLogger(l.WithField("component", "test"))
	defer SetLogger(nil)

	if DebugEnabled() {
		t.Fatal("DebugEnabled() = true at info level")
	}
	f := Must(IntField("cookie", 0))
	f.Decode([]byte{1, 2}, nil)
	if n := len(hook.AllEntries()); n != 0 {
		t.Errorf("%d entries logged at info level", n)
	}

	l.SetLevel(logrus.DebugLevel)
	if !DebugEnabled() {
		t.Error("DebugEnabled() = false at debug level")
	}
}
