package util

import (
	"testing"
	"time"
)

func TestParseDateISO(t *testing.T) {
	got, ok := ParseDate("2013-02-08")
	if !ok {
		t.Fatalf("expected ok")
	}
	if !got.Equal(time.Date(2013, 2, 8, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date %v", got)
	}
}

func TestParseDateTruncatesTime(t *testing.T) {
	got, ok := ParseDate("2013-02-08T15:04:05Z")
	if !ok {
		t.Fatalf("expected ok")
	}
	if FormatDate(got) != "2013-02-08" || got.Hour() != 0 {
		t.Fatalf("expected calendar day, got %v", got)
	}
}

func TestParseDateUSLayout(t *testing.T) {
	got, ok := ParseDate(" 02/08/2013 ")
	if !ok {
		t.Fatalf("expected ok")
	}
	if FormatDate(got) != "2013-02-08" {
		t.Fatalf("unexpected date %v", got)
	}
}

func TestParseDateInvalid(t *testing.T) {
	for _, s := range []string{"", "yesterday", "2013-13-45", "08.02.2013"} {
		if _, ok := ParseDate(s); ok {
			t.Fatalf("expected %q to fail", s)
		}
	}
}

func TestParseFloat(t *testing.T) {
	v, ok := ParseFloat(" 1234.5 ")
	if !ok || v != 1234.5 {
		t.Fatalf("unexpected %v %v", v, ok)
	}
	if _, ok := ParseFloat("1,234.5"); ok {
		t.Fatalf("expected failure")
	}
}
