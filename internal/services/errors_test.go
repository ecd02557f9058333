package services_test

import (
	"errors"
	"testing"

	"musicgenie/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("dial tcp: timeout")
	err := services.Wrap(services.ErrExternalService, "registry", "lookup", "musicbrainz unreachable", base)
	if !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected ErrExternalService, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped base error, got %v", err)
	}
}

func TestWrapNilMarkerDefaultsToExternal(t *testing.T) {
	err := services.Wrap(nil, "identify", "lookup", "", nil)
	if !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected default marker, got %v", err)
	}
}

func TestAborted(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{services.Wrap(services.ErrNoResults, "acquire", "search", "", nil), true},
		{services.Wrap(services.ErrCancelled, "acquire", "pick", "", nil), true},
		{services.Wrap(services.ErrCapture, "capture", "record", "", nil), false},
		{nil, false},
	}
	for _, tc := range cases {
		if got := services.Aborted(tc.err); got != tc.want {
			t.Fatalf("Aborted(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
