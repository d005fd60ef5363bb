package transport

import (
	"testing"
	"time"

	"github.com/abelbrown/glossia/internal/apperr"
)

func newTestBreaker(now *time.Time) *Breaker {
	b := NewBreaker(2, time.Minute, 2)
	b.now = func() time.Time { return *now }
	return b
}

func TestBreakerOpensOnAuthFailures(t *testing.T) {
	now := time.Now()
	b := newTestBreaker(&now)

	b.RecordFailure(apperr.HTTP(401, "unauthorized"))
	if b.State() != StateClosed {
		t.Fatal("one failure should not open the breaker")
	}
	b.RecordFailure(apperr.Authentication("bad key", 403, "", ""))
	if b.State() != StateOpen {
		t.Fatal("threshold failures should open the breaker")
	}

	err := b.Allow()
	if err == nil {
		t.Fatal("open breaker should reject")
	}
	if apperr.KindOf(err) != apperr.KindAPI {
		t.Errorf("rejection kind = %v, want api", apperr.KindOf(err))
	}
}

func TestBreakerIgnoresNonAuthErrors(t *testing.T) {
	now := time.Now()
	b := newTestBreaker(&now)

	for i := 0; i < 10; i++ {
		b.RecordFailure(apperr.HTTP(500, "internal"))
		b.RecordFailure(apperr.Network("refused"))
		b.RecordFailure(apperr.RateLimit("slow down", 0))
	}
	if b.State() != StateClosed {
		t.Error("non-auth errors must not open the breaker")
	}
}

func TestBreakerRecovery(t *testing.T) {
	now := time.Now()
	b := newTestBreaker(&now)

	b.RecordFailure(apperr.HTTP(401, "no"))
	b.RecordFailure(apperr.HTTP(401, "no"))
	if b.State() != StateOpen {
		t.Fatal("breaker should be open")
	}

	// Before the recovery timeout it stays shut.
	now = now.Add(30 * time.Second)
	if b.Allow() == nil {
		t.Fatal("breaker should still reject before the recovery timeout")
	}

	now = now.Add(31 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("breaker should admit a probe after the timeout: %v", err)
	}
	if b.State() != StateHalfOpen {
		t.Fatalf("state = %v, want half_open", b.State())
	}

	b.RecordSuccess()
	if b.State() != StateHalfOpen {
		t.Fatal("one success should not close the breaker")
	}
	b.RecordSuccess()
	if b.State() != StateClosed {
		t.Fatal("two successes should close the breaker")
	}
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	now := time.Now()
	b := newTestBreaker(&now)

	b.RecordFailure(apperr.HTTP(403, "no"))
	b.RecordFailure(apperr.HTTP(403, "no"))
	now = now.Add(2 * time.Minute)
	if err := b.Allow(); err != nil {
		t.Fatalf("probe should be admitted: %v", err)
	}

	b.RecordSuccess()
	b.RecordFailure(apperr.HTTP(401, "still no"))
	if b.State() != StateOpen {
		t.Fatal("a half-open auth failure should reopen the breaker")
	}

	// The success counter resets: after recovery it takes the full
	// success threshold again.
	now = now.Add(2 * time.Minute)
	if err := b.Allow(); err != nil {
		t.Fatalf("probe should be admitted: %v", err)
	}
	b.RecordSuccess()
	if b.State() == StateClosed {
		t.Fatal("success count must reset after reopening")
	}
}

func TestBreakerClosedSuccessResetsFailures(t *testing.T) {
	now := time.Now()
	b := newTestBreaker(&now)

	b.RecordFailure(apperr.HTTP(401, "no"))
	b.RecordSuccess()
	b.RecordFailure(apperr.HTTP(401, "no"))
	if b.State() != StateClosed {
		t.Error("failures are consecutive; a success in between resets the count")
	}
}
