package domain

import (
	"testing"
	"time"
)

func TestAfter_TimestampOrdering(t *testing.T) {
	t0 := time.Unix(1000, 0)
	older := Build{Number: 1, Time: t0}
	newer := Build{Number: 2, Time: t0.Add(time.Minute)}

	if !newer.After(older) {
		t.Errorf("later timestamp should be after")
	}
	if older.After(newer) {
		t.Errorf("earlier timestamp must not be after")
	}
}

func TestAfter_SameBuildIsNotAfterItself(t *testing.T) {
	b := Build{Number: 7, Time: time.Unix(1000, 0)}
	if b.After(b) {
		t.Errorf("a build must not be after itself")
	}
}

func TestAfter_NumberBreaksTimestampTie(t *testing.T) {
	t0 := time.Unix(1000, 0)
	five := Build{Number: 5, Time: t0}
	six := Build{Number: 6, Time: t0}

	if !six.After(five) {
		t.Errorf("same timestamp, higher number should be after")
	}
	if five.After(six) {
		t.Errorf("same timestamp, lower number must not be after")
	}
}
