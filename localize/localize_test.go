package localize

import (
	"testing"

	"gones/neserr"
)

var allKinds = []neserr.Kind{
	neserr.CartridgeAlreadyInserted,
	neserr.MalformedFileFormat,
	neserr.InvalidInstruction,
	neserr.InvalidPpuRegisterAccess,
	neserr.MapperNotSupported,
	neserr.MirroringUnavailable,
}

func TestEveryKindHasAMessageInEnglish(t *testing.T) {
	tbl := New("en")
	for _, k := range allKinds {
		if msg := tbl.Message(k); msg == "" {
			t.Errorf("%s: empty message", k)
		}
	}
}

func TestEveryKindHasAMessageInFrench(t *testing.T) {
	tbl := New("fr")
	for _, k := range allKinds {
		if msg := tbl.Message(k); msg == "" {
			t.Errorf("%s: empty message", k)
		}
	}
}

func TestUnsupportedLocaleFallsBackToEnglish(t *testing.T) {
	tbl := New("xx-Zzzz-QQ")
	msg := tbl.Message(neserr.MalformedFileFormat)
	if msg == "" {
		t.Errorf("expected a fallback message, got empty string")
	}
}
