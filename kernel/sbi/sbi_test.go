package sbi

import "testing"

func TestPutChar(t *testing.T) {
	defer func() {
		legacyCallFn = legacyCall
	}()

	var gotEID, gotArg uintptr
	var callRet uintptr
	legacyCallFn = func(eid, arg0 uintptr) uintptr {
		gotEID, gotArg = eid, arg0
		return callRet
	}

	t.Run("success", func(t *testing.T) {
		callRet = 0
		if err := PutChar('x'); err != nil {
			t.Fatalf("expected PutChar to succeed; got %v", err)
		}

		if gotEID != eidConsolePutChar || gotArg != 'x' {
			t.Fatalf("expected call (eid=%d, arg=%d); got (eid=%d, arg=%d)", eidConsolePutChar, 'x', gotEID, gotArg)
		}
	})

	t.Run("firmware error", func(t *testing.T) {
		callRet = 1
		if err := PutChar('x'); err != ErrCallFailed {
			t.Fatalf("expected ErrCallFailed; got %v", err)
		}
	})
}

func TestGetChar(t *testing.T) {
	defer func() {
		legacyCallFn = legacyCall
	}()

	t.Run("pending byte", func(t *testing.T) {
		legacyCallFn = func(eid, arg0 uintptr) uintptr {
			if eid != eidConsoleGetChar {
				t.Fatalf("expected eid %d; got %d", eidConsoleGetChar, eid)
			}
			return 'k'
		}

		ch, err := GetChar()
		if err != nil {
			t.Fatalf("expected GetChar to succeed; got %v", err)
		}

		if ch != 'k' {
			t.Fatalf("expected to read 'k'; got %q", ch)
		}
	})

	t.Run("no data", func(t *testing.T) {
		legacyCallFn = func(_, _ uintptr) uintptr {
			return ^uintptr(0)
		}

		if _, err := GetChar(); err != ErrNoData {
			t.Fatalf("expected ErrNoData; got %v", err)
		}
	})
}

func TestSetTimer(t *testing.T) {
	defer func() {
		legacyCallFn = legacyCall
	}()

	var gotEID, gotArg uintptr
	legacyCallFn = func(eid, arg0 uintptr) uintptr {
		gotEID, gotArg = eid, arg0
		return 0
	}

	if err := SetTimer(12345); err != nil {
		t.Fatalf("expected SetTimer to succeed; got %v", err)
	}

	if gotEID != eidSetTimer || gotArg != 12345 {
		t.Fatalf("expected call (eid=%d, arg=12345); got (eid=%d, arg=%d)", eidSetTimer, gotEID, gotArg)
	}
}
