package uart

import (
	"testing"

	"github.com/tews-code/beyond-os1k/kernel/errors"
	"github.com/tews-code/beyond-os1k/kernel/sbi"
)

func TestDeviceWrite(t *testing.T) {
	defer func() {
		putCharFn = sbi.PutChar
	}()

	var emitted []byte
	putCharFn = func(b byte) error {
		emitted = append(emitted, b)
		return nil
	}

	t.Run("uninitialized device", func(t *testing.T) {
		var dev Device

		if err := dev.WriteByte('x'); err != errors.ErrDeviceNotReady {
			t.Fatalf("expected ErrDeviceNotReady; got %v", err)
		}

		if n, err := dev.Write([]byte("abc")); n != 0 || err != errors.ErrDeviceNotReady {
			t.Fatalf("expected (0, ErrDeviceNotReady); got (%d, %v)", n, err)
		}
	})

	t.Run("initialized device", func(t *testing.T) {
		var dev Device
		dev.Init()

		emitted = emitted[:0]
		n, err := dev.Write([]byte("hello"))
		if n != 5 || err != nil {
			t.Fatalf("expected (5, nil); got (%d, %v)", n, err)
		}

		if got := string(emitted); got != "hello" {
			t.Fatalf("expected device to emit %q; got %q", "hello", got)
		}
	})

	t.Run("transport error", func(t *testing.T) {
		var dev Device
		dev.Init()

		count := 0
		putCharFn = func(b byte) error {
			if count++; count > 2 {
				return sbi.ErrCallFailed
			}
			return nil
		}

		n, err := dev.Write([]byte("hello"))
		if n != 2 || err != sbi.ErrCallFailed {
			t.Fatalf("expected (2, ErrCallFailed); got (%d, %v)", n, err)
		}
	})
}

func TestDeviceReadByte(t *testing.T) {
	defer func() {
		getCharFn = sbi.GetChar
	}()

	getCharFn = func() (byte, error) {
		return 'k', nil
	}

	var dev Device
	if _, err := dev.ReadByte(); err != errors.ErrDeviceNotReady {
		t.Fatalf("expected ErrDeviceNotReady; got %v", err)
	}

	dev.Init()
	b, err := dev.ReadByte()
	if err != nil || b != 'k' {
		t.Fatalf("expected ('k', nil); got (%q, %v)", b, err)
	}
}
