package urlpattern

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewErrors(t *testing.T) {
	tt := []struct {
		name    string
		pattern string
		wantErr error
	}{
		{"no scheme", "/users/:id", ErrRelativePattern},
		{"host without scheme", "example.com/users", ErrRelativePattern},
		{"unbalanced open", "http://h/{a", ErrSyntax},
		{"unbalanced close", "http://h/a}", ErrSyntax},
		{"nested group", "http://h/{{a}}", ErrSyntax},
		{"unterminated regexp", "http://h/(", ErrSyntax},
		{"empty regexp", "http://h/()", ErrSyntax},
		{"capturing group in regexp", "http://h/(a(b))", ErrSyntax},
		{"regexp starting with modifier", "http://h/(?:a)", ErrSyntax},
		{"duplicate name", "http://h/:id/:id", ErrSyntax},
		{"invalid name", "http://h/:-x", ErrSyntax},
		{"trailing escape", `http://h/x\`, ErrSyntax},
		{"bad repeat", "http://h/(a{2,1})", ErrSyntax},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			p, err := New(tc.pattern, nil)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("want error %v, got %v", tc.wantErr, err)
			}
			if p != nil {
				t.Fatalf("expected nil pattern on error, got %v", p)
			}
		})
	}
}

func TestMatch(t *testing.T) {
	tt := []struct {
		name    string
		pattern string
		opts    *Options
		input   string
		want    bool
	}{
		{"literal", "http://h/x", nil, "http://h/x", true},
		{"literal other path", "http://h/x", nil, "http://h/y", false},
		{"literal with query wildcard", "http://h/x", nil, "http://h/x?a=1", true},
		{"literal is not a prefix", "http://h/x", nil, "http://h/x/y", false},
		{"literal scheme differs", "http://h/x", nil, "https://h/x", false},
		{"optional scheme http", "http{s}?://h/x", nil, "http://h/x", true},
		{"optional scheme https", "http{s}?://h/x", nil, "https://h/x", true},
		{"optional scheme ftp", "http{s}?://h/x", nil, "ftp://h/x", false},
		{"empty path is slash", "http://h", nil, "http://h/", true},
		{"empty input path", "http://h/", nil, "http://h", true},
		{"default port dropped", "http://h/x", nil, "http://h:80/x", true},
		{"explicit port required", "http://h:8080/x", nil, "http://h:8080/x", true},
		{"explicit port missing", "http://h:8080/x", nil, "http://h/x", false},
		{"other port rejected", "http://h/x", nil, "http://h:8080/x", false},
		{"written default port", "http://h:80/x", nil, "http://h:80/x", true},
		{"written default port without port", "http://h:80/x", nil, "http://h/x", true},
		{"written https default port", "https://h:443/x", nil, "https://h/x", true},
		{"default port of another scheme", "http://h:443/x", nil, "http://h/x", false},
		{"non-ascii path literal", "http://h/café", nil, "http://h/caf%C3%A9", true},
		{"non-ascii path raw input", "http://h/café", nil, "http://h/café", true},
		{"escaped path literal", "http://h/caf%C3%A9", nil, "http://h/café", true},
		{"space in path literal", "http://h/a b", nil, "http://h/a%20b", true},
		{"non-ascii search literal", "http://h/x?q=é", nil, "http://h/x?q=%C3%A9", true},
		{"non-ascii search raw input", "http://h/x?q=é", nil, "http://h/x?q=é", true},
		{"hostname ignores case", "http://API.example.com/x", nil, "http://api.example.com/x", true},
		{"path is case sensitive", "http://h/Users", nil, "http://h/users", false},
		{"ignore case option", "http://h/Users", &Options{IgnoreCase: true}, "http://h/users", true},
		{"segment does not cross slash", "http://h/users/:id", nil, "http://h/users/7/posts", false},
		{"required segment", "http://h/users/:id", nil, "http://h/users", false},
		{"optional segment absent", "http://h/users/:id?", nil, "http://h/users", true},
		{"optional segment present", "http://h/users/:id?", nil, "http://h/users/7", true},
		{"one or more", "http://h/files/:path+", nil, "http://h/files/a/b", true},
		{"one or more needs one", "http://h/files/:path+", nil, "http://h/files", false},
		{"zero or more", "http://h/files/:path*", nil, "http://h/files", true},
		{"regexp group", `http://h/v(\d+)`, nil, "http://h/v2", true},
		{"regexp group mismatch", `http://h/v(\d+)`, nil, "http://h/vx", false},
		{"search exact", "http://h/x?a=1", nil, "http://h/x?a=1", true},
		{"search exact mismatch", "http://h/x?a=1", nil, "http://h/x?a=2", false},
		{"hash implies empty search", "http://h/x#top", nil, "http://h/x?a=1#top", false},
		{"hash exact", "http://h/x#top", nil, "http://h/x#top", true},
		{"relative input", "http://h/x", nil, "/x", false},
		{"unparseable input", "http://h/x", nil, "::", false},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			p, err := New(tc.pattern, tc.opts)
			if err != nil {
				t.Fatalf("New(%q) returned error: %v", tc.pattern, err)
			}
			if got := p.Test(tc.input); got != tc.want {
				t.Fatalf("Test(%q) against %q: want %v, got %v", tc.input, tc.pattern, tc.want, got)
			}
		})
	}
}

func TestExecGroups(t *testing.T) {
	tt := []struct {
		name    string
		pattern string
		input   string
		pick    func(*Result) Component
		want    map[string]string
	}{
		{
			name:    "named path segment",
			pattern: "http{s}?://h/users/:id",
			input:   "https://h/users/7",
			pick:    func(r *Result) Component { return r.Pathname },
			want:    map[string]string{"id": "7"},
		},
		{
			name:    "name with regexp",
			pattern: `http://h/v:version(\d+)/items/:item`,
			input:   "http://h/v3/items/abc",
			pick:    func(r *Result) Component { return r.Pathname },
			want:    map[string]string{"version": "3", "item": "abc"},
		},
		{
			name:    "optional group not taken",
			pattern: "http://h/users/:id?",
			input:   "http://h/users",
			pick:    func(r *Result) Component { return r.Pathname },
			want:    map[string]string{"id": ""},
		},
		{
			name:    "repeated segments",
			pattern: "http://h/files/:path+",
			input:   "http://h/files/a/b/c.txt",
			pick:    func(r *Result) Component { return r.Pathname },
			want:    map[string]string{"path": "a/b/c.txt"},
		},
		{
			name:    "wildcards are numbered",
			pattern: "https://h/*/raw/*",
			input:   "https://h/repo/raw/main/README",
			pick:    func(r *Result) Component { return r.Pathname },
			want:    map[string]string{"0": "repo", "1": "main/README"},
		},
		{
			name:    "hostname wildcard",
			pattern: "https://*.example.com/",
			input:   "https://cdn.example.com/",
			pick:    func(r *Result) Component { return r.Hostname },
			want:    map[string]string{"0": "cdn"},
		},
		{
			name:    "hostname segment",
			pattern: "https://:tenant.example.com/",
			input:   "https://acme.example.com/",
			pick:    func(r *Result) Component { return r.Hostname },
			want:    map[string]string{"tenant": "acme"},
		},
		{
			name:    "search capture",
			pattern: "http://h/search?q=:term",
			input:   "http://h/search?q=gophers",
			pick:    func(r *Result) Component { return r.Search },
			want:    map[string]string{"term": "gophers"},
		},
		{
			name:    "unspecified search is a wildcard",
			pattern: "http://h/search",
			input:   "http://h/search?q=gophers",
			pick:    func(r *Result) Component { return r.Search },
			want:    map[string]string{"0": "q=gophers"},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			p := MustNew(tc.pattern, nil)
			r := p.Exec(tc.input)
			if r == nil {
				t.Fatalf("Exec(%q) against %q returned nil", tc.input, tc.pattern)
			}
			if diff := cmp.Diff(tc.want, tc.pick(r).Groups); diff != "" {
				t.Fatalf("unexpected groups (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExecInputs(t *testing.T) {
	p := MustNew("http{s}?://h/users/:id", nil)
	r := p.Exec("https://h:443/users/42?expand=true#bio")
	if r == nil {
		t.Fatal("expected a match")
	}

	got := map[string]string{
		"input":    r.Input,
		"protocol": r.Protocol.Input,
		"hostname": r.Hostname.Input,
		"port":     r.Port.Input,
		"pathname": r.Pathname.Input,
		"search":   r.Search.Input,
		"hash":     r.Hash.Input,
	}
	want := map[string]string{
		"input":    "https://h:443/users/42?expand=true#bio",
		"protocol": "https",
		"hostname": "h",
		"port":     "",
		"pathname": "/users/42",
		"search":   "expand=true",
		"hash":     "bio",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected component inputs (-want +got):\n%s", diff)
	}
}

func TestString(t *testing.T) {
	const src = "http{s}?://h/users/:id"
	if got := MustNew(src, nil).String(); got != src {
		t.Fatalf("want %q, got %q", src, got)
	}
}

func TestMustNewPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected MustNew to panic")
		}
	}()
	MustNew("/relative", nil)
}

func TestPercentEncode(t *testing.T) {
	tt := []struct {
		in   string
		want string
	}{
		{"/users/7", "/users/7"},
		{"/a b", "/a%20b"},
		{"/café", "/caf%C3%A9"},
		{"/caf%C3%A9", "/caf%C3%A9"},
		{"q=\t", "q=%09"},
	}

	for _, tc := range tt {
		t.Run(tc.in, func(t *testing.T) {
			if got := percentEncode(tc.in); got != tc.want {
				t.Fatalf("want %q, got %q", tc.want, got)
			}
		})
	}
}
