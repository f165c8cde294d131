package compose

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestErrorPredicates_SeeThroughWrapping(t *testing.T) {
	cases := []struct {
		err  error
		pred func(error) bool
	}{
		{ErrInvalidSelector("cuda:x", "bad"), IsInvalidSelector},
		{ErrImageNotFound("m"), IsImageNotFound},
		{ErrNameCollision("n", "a", "b"), IsNameCollision},
		{ErrInvalidModel(""), IsInvalidModel},
		{ErrPortExhausted(8100), IsPortExhausted},
		{ErrIOFailure("read", "/x", os.ErrNotExist), IsIOFailure},
	}
	for i, c := range cases {
		if !c.pred(c.err) {
			t.Fatalf("case %d: predicate false for %v", i, c.err)
		}
		if !c.pred(fmt.Errorf("host h: %w", c.err)) {
			t.Fatalf("case %d: predicate false for wrapped %v", i, c.err)
		}
	}
	if IsInvalidSelector(ErrImageNotFound("m")) {
		t.Fatalf("predicates must not cross types")
	}
}

func TestIOFailure_Unwraps(t *testing.T) {
	err := ErrIOFailure("write", "/out/x.yml", os.ErrPermission)
	if !errors.Is(err, os.ErrPermission) {
		t.Fatalf("expected errors.Is to reach the cause: %v", err)
	}
	if err.Error() != "write /out/x.yml: "+os.ErrPermission.Error() {
		t.Fatalf("message=%q", err.Error())
	}
}

func TestNameCollision_Message(t *testing.T) {
	if got := ErrNameCollision("m-gpu0", "m", "m").Error(); got != `service name "m-gpu0" assigned twice (model m)` {
		t.Fatalf("same-model message=%q", got)
	}
	if got := ErrNameCollision("x-y-gpu0", "a/x.y", "b/x-y").Error(); got != `service name "x-y-gpu0" for model a/x.y collides with model b/x-y` {
		t.Fatalf("cross-model message=%q", got)
	}
}

func TestHostError(t *testing.T) {
	err := error(&HostError{Host: "h", Selector: "cuda:x", Model: "m", Err: ErrInvalidSelector("cuda:x", "bad")})
	if !IsInvalidSelector(err) {
		t.Fatalf("HostError must unwrap to its cause")
	}
	var he *HostError
	if !errors.As(fmt.Errorf("run: %w", err), &he) || he.Host != "h" || he.Model != "m" {
		t.Fatalf("errors.As failed: %+v", he)
	}
	if got := err.Error(); got != `host h selector cuda:x (model m): invalid selector "cuda:x": bad` {
		t.Fatalf("message=%q", got)
	}
}
