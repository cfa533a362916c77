package envutil

import (
	"testing"
	"time"
)

func TestDuration(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want time.Duration
	}{
		{name: "empty uses default", raw: "", want: time.Hour},
		{name: "go duration", raw: "90m", want: 90 * time.Minute},
		{name: "seconds", raw: "3600", want: time.Hour},
		{name: "days", raw: "30d", want: 30 * 24 * time.Hour},
		{name: "garbage uses default", raw: "soon", want: time.Hour},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tc.raw)
			if got := Duration("TEST_DURATION", time.Hour); got != tc.want {
				t.Fatalf("Duration(%q): want=%s got=%s", tc.raw, tc.want, got)
			}
		})
	}
}

func TestList(t *testing.T) {
	t.Setenv("TEST_LIST", " http://a.test , ,http://b.test")
	got := List("TEST_LIST")
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Fatalf("List: unexpected %v", got)
	}
}

func TestBool(t *testing.T) {
	t.Setenv("TEST_BOOL", "off")
	if Bool("TEST_BOOL", true) {
		t.Fatalf("Bool(off): want false")
	}
	t.Setenv("TEST_BOOL", "")
	if !Bool("TEST_BOOL", true) {
		t.Fatalf("Bool(empty): want default true")
	}
}

func TestFloat(t *testing.T) {
	t.Setenv("TEST_FLOAT", "0.25")
	if got := Float("TEST_FLOAT", 1); got != 0.25 {
		t.Fatalf("Float: want=0.25 got=%v", got)
	}
	t.Setenv("TEST_FLOAT", "half")
	if got := Float("TEST_FLOAT", 1); got != 1 {
		t.Fatalf("Float(invalid): want default got=%v", got)
	}
}
