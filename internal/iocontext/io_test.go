package iocontext

import (
	"bytes"
	"context"
	"os"
	"testing"
)

func TestGetIODefaults(t *testing.T) {
	io := GetIO(context.Background())
	if io.Out != os.Stdout || io.ErrOut != os.Stderr || io.In != os.Stdin {
		t.Error("GetIO without WithIO should return the standard streams")
	}
}

func TestWithIORoundTrip(t *testing.T) {
	var out, errOut bytes.Buffer
	custom := &IO{Out: &out, ErrOut: &errOut, In: os.Stdin}
	ctx := WithIO(context.Background(), custom)
	if got := GetIO(ctx); got != custom {
		t.Errorf("GetIO = %+v, want the injected IO", got)
	}
}

func TestWithIONilFallsBack(t *testing.T) {
	ctx := WithIO(context.Background(), nil)
	if io := GetIO(ctx); io == nil || io.Out != os.Stdout {
		t.Error("nil IO in context should fall back to defaults")
	}
}
