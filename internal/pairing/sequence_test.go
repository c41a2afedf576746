package pairing

import (
	"testing"
)

func TestJoinPrefix(t *testing.T) {
	cases := []struct {
		prefix, path, want string
	}{
		{"", "v1/a/clip.mp4", "v1/a/clip.mp4"},
		{"video", "v1/a/clip.mp4", "video/v1/a/clip.mp4"},
		{"video/", "v1/a/clip.mp4", "video/v1/a/clip.mp4"},
		{"video//", "//v1/a/clip.mp4", "video/v1/a/clip.mp4"},
		{"/srv/videos", "/v1/a/clip.mp4", "/srv/videos/v1/a/clip.mp4"},
	}
	for _, tc := range cases {
		if got := JoinPrefix(tc.prefix, tc.path); got != tc.want {
			t.Fatalf("JoinPrefix(%q, %q) = %q, want %q", tc.prefix, tc.path, got, tc.want)
		}
	}
}

func TestFormatPairID(t *testing.T) {
	cases := []struct {
		n, width int
		want     string
	}{
		{1, 6, "000001"},
		{42, 3, "042"},
		{1234, 2, "1234"},
		{7, 1, "7"},
	}
	for _, tc := range cases {
		if got := FormatPairID(tc.n, tc.width); got != tc.want {
			t.Fatalf("FormatPairID(%d, %d) = %q, want %q", tc.n, tc.width, got, tc.want)
		}
	}
}

func TestCanonicalizeOrdersByKey(t *testing.T) {
	a := clip("s", "v1", "b", 2, 1)
	b := clip("s", "v1", "b", 10, 1)
	left, right := Canonicalize(Candidate{A: b, B: a})
	if left.RouteID != 2 || right.RouteID != 10 {
		t.Fatalf("expected numeric route ordering, got %d then %d", left.RouteID, right.RouteID)
	}

	x := clip("s", "v2", "a", 1, 1)
	y := clip("s", "v1", "z", 1, 1)
	left, _ = Canonicalize(Candidate{A: x, B: y})
	if left.Variant != "v1" {
		t.Fatalf("expected variant to dominate agent, got left %s/%s", left.Variant, left.Agent)
	}

	p := clip("s", "v1", "a", 1, 1)
	q := p
	q.RelPath = "aaa.mp4"
	left, _ = Canonicalize(Candidate{A: p, B: q})
	if left.RelPath != "aaa.mp4" {
		t.Fatalf("expected rel_path tie-break, got %q", left.RelPath)
	}
}

func TestSequencerDedupesAndNumbers(t *testing.T) {
	a := clip("s", "v1", "a", 1, 1)
	b := clip("s", "v1", "b", 1, 1)
	c := clip("s", "v1", "c", 1, 1)

	seq := NewSequencer("video", 0)
	if _, ok := seq.Accept(Candidate{A: b, B: a}); !ok {
		t.Fatal("expected first candidate to be accepted")
	}
	if _, ok := seq.Accept(Candidate{A: a, B: b}); ok {
		t.Fatal("expected reversed duplicate to be dropped")
	}
	rec, ok := seq.Accept(Candidate{A: c, B: a})
	if !ok {
		t.Fatal("expected distinct candidate to be accepted")
	}
	if rec.PairID != "000002" {
		t.Fatalf("expected dense ids, got %q", rec.PairID)
	}
	if rec.LeftClip != "video/s/v1/a/1/clip_001.mp4" || rec.RightClip != "video/s/v1/c/1/clip_001.mp4" {
		t.Fatalf("unexpected paths: %#v", rec)
	}
	if rec.Description != "s" {
		t.Fatalf("expected scenario description, got %q", rec.Description)
	}
	if seq.Duplicates() != 1 || len(seq.Records()) != 2 {
		t.Fatalf("unexpected counts: duplicates=%d records=%d", seq.Duplicates(), len(seq.Records()))
	}
}

func TestSequenceEmptyIsNotNil(t *testing.T) {
	records := Sequence(nil, "", 6)
	if records == nil || len(records) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", records)
	}
}
