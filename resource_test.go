package framegraph

import (
	"errors"
	"testing"

	"github.com/phanxgames/framegraph/gpu"
)

func TestParseResourceID(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"engine:ssao", true},
		{"engine:prog.ssaoBlur", true},
		{"mod:x", true},
		{"", false},
		{"ssao", false},
		{":ssao", false},
		{"engine:", false},
		{"engine:ssao:blur", false},
		{" engine:ssao", false},
	}
	for _, tt := range tests {
		id, err := ParseResourceID(tt.in)
		if tt.ok {
			if err != nil {
				t.Errorf("ParseResourceID(%q) error: %v", tt.in, err)
			} else if string(id) != tt.in {
				t.Errorf("ParseResourceID(%q) = %q", tt.in, id)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidResourceID) {
			t.Errorf("ParseResourceID(%q) err = %v, want ErrInvalidResourceID", tt.in, err)
		}
	}
}

func TestResourceIDParts(t *testing.T) {
	id := MustResourceID("engine:ssaoBlurred")
	if id.Domain() != "engine" {
		t.Errorf("Domain() = %q, want engine", id.Domain())
	}
	if id.Name() != "ssaoBlurred" {
		t.Errorf("Name() = %q, want ssaoBlurred", id.Name())
	}
}

func TestMustResourceIDPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for invalid id")
		}
	}()
	MustResourceID("nocolon")
}

func TestScalingPolicySize(t *testing.T) {
	tests := []struct {
		policy ScalingPolicy
		res    Resolution
		w, h   int
	}{
		{FullScale, Resolution{800, 600}, 800, 600},
		{HalfScale, Resolution{800, 600}, 400, 300},
		{QuarterScale, Resolution{800, 600}, 200, 150},
		{OneEighthScale, Resolution{800, 600}, 100, 75},
		{OneSixteenthScale, Resolution{800, 600}, 50, 37},
		{OneThirtySecondScale, Resolution{800, 600}, 25, 18},
		{HalfScale, Resolution{1601, 901}, 800, 450},
		{OneThirtySecondScale, Resolution{10, 10}, 1, 1},
		{FullScale, Resolution{1600, 900}, 1600, 900},
	}
	for _, tt := range tests {
		w, h := tt.policy.Size(tt.res)
		if w != tt.w || h != tt.h {
			t.Errorf("%s.Size(%s) = %dx%d, want %dx%d", tt.policy, tt.res, w, h, tt.w, tt.h)
		}
	}
}

func TestResolutionValid(t *testing.T) {
	if !(Resolution{1, 1}).Valid() {
		t.Error("1x1 should be valid")
	}
	for _, r := range []Resolution{{0, 600}, {800, 0}, {-1, 5}} {
		if r.Valid() {
			t.Errorf("%s should be invalid", r)
		}
	}
}

func TestResourceSpecString(t *testing.T) {
	s := ResourceSpec{ID: "engine:ssao", Scale: HalfScale, Format: gpu.FormatHDR, Depth: true}
	want := "engine:ssao[x0.5 " + gpu.FormatHDR.String() + "+depth]"
	if s.String() != want {
		t.Errorf("String() = %q, want %q", s.String(), want)
	}
}

func TestAccess(t *testing.T) {
	if !Read.Reads() || Read.Writes() {
		t.Error("Read should only read")
	}
	if Write.Reads() || !Write.Writes() {
		t.Error("Write should only write")
	}
	if !ReadWrite.Reads() || !ReadWrite.Writes() {
		t.Error("ReadWrite should read and write")
	}
	if ReadWrite.String() != "read-write" {
		t.Errorf("ReadWrite.String() = %q", ReadWrite.String())
	}
	u := Reads(ResourceSpec{ID: "a:b"})
	if u.Access != Read {
		t.Errorf("Reads().Access = %s, want read", u.Access)
	}
}
