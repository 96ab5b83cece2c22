package domain

import (
	"errors"
	"fmt"
	"testing"
)

type taggedErr struct{ retryable bool }

func (e *taggedErr) Error() string   { return "tagged" }
func (e *taggedErr) Retryable() bool { return e.retryable }

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"record locked", ErrRecordLocked, true},
		{"wrapped record locked", fmt.Errorf("job: %w", ErrRecordLocked), true},
		{"not found", fmt.Errorf("product 42: %w", ErrNotFound), true},
		{"shop not found", fmt.Errorf("shop %q: %w", "x", ErrShopNotFound), false},
		{"retryable kind", &taggedErr{retryable: true}, true},
		{"fatal kind", &taggedErr{retryable: false}, false},
		{"wrapped retryable kind", fmt.Errorf("sync: %w", &taggedErr{retryable: true}), true},
		{"plain error", errors.New("boom"), false},
	}
	for _, tc := range cases {
		if got := IsRetryable(tc.err); got != tc.want {
			t.Fatalf("%s: IsRetryable = %v, expected %v", tc.name, got, tc.want)
		}
	}
}
