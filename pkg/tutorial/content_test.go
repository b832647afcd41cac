package tutorial

import "testing"

func TestParseContentType(t *testing.T) {
	cases := []struct {
		in   any
		want ContentType
		err  bool
	}{
		{in: nil, want: ContentCompleted},
		{in: ContentBefore, want: ContentBefore},
		{in: "completed", want: ContentCompleted},
		{in: "TaskContentType.ALL", want: ContentAll},
		{in: 1, want: ContentBefore},
		{in: "", want: ContentCompleted},
		{in: "later", err: true},
		{in: 9, err: true},
		{in: 1.5, err: true},
	}

	for _, tc := range cases {
		got, err := ParseContentType(tc.in)
		if tc.err {
			if err == nil {
				t.Fatalf("ParseContentType(%v): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseContentType(%v): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseContentType(%v) = %s, want %s", tc.in, got, tc.want)
		}
	}
}
