package registry

import (
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/tarmac-project/mockfetch/response"
	"github.com/tarmac-project/mockfetch/urlpattern"
)

var ok = response.Static(response.Simple{Body: response.Text("ok")})

func TestRegister(t *testing.T) {
	negative := -time.Second
	zero := time.Duration(0)

	tt := []struct {
		name       string
		handler    Handler
		wantErr    error
		wantMethod string
	}{
		{"string template", Handler{URL: "http://h/x", Response: ok}, nil, http.MethodGet},
		{"lowercase method", Handler{URL: "http://h/x", Method: "post", Response: ok}, nil, http.MethodPost},
		{"url value", Handler{URL: &url.URL{Scheme: "https", Host: "h", Path: "/x"}, Response: ok}, nil, http.MethodGet},
		{"compiled pattern", Handler{URL: urlpattern.MustNew("http://h/:id", nil), Response: ok}, nil, http.MethodGet},
		{"zero delay", Handler{URL: "http://h/x", Delay: &zero, Response: ok}, nil, http.MethodGet},
		{"missing url", Handler{Response: ok}, ErrMissingURL, ""},
		{"empty url", Handler{URL: "", Response: ok}, ErrMissingURL, ""},
		{"missing response", Handler{URL: "http://h/x"}, ErrMissingResponse, ""},
		{"nil prebuilt response", Handler{URL: "http://h/x", Response: response.Prebuilt(nil)}, ErrMissingResponse, ""},
		{"negative delay", Handler{URL: "http://h/x", Delay: &negative, Response: ok}, ErrInvalidDelay, ""},
		{"bad pattern", Handler{URL: "http://h/{x", Response: ok}, urlpattern.ErrSyntax, ""},
		{"relative pattern", Handler{URL: "/x", Response: ok}, urlpattern.ErrRelativePattern, ""},
		{"unsupported url type", Handler{URL: 42, Response: ok}, ErrUnsupportedURL, ""},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			r := New()
			h, err := r.Register(tc.handler)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("want error %v, got %v", tc.wantErr, err)
			}
			if err != nil {
				if r.Len() != 0 {
					t.Fatalf("failed registration must not be stored, have %d", r.Len())
				}
				return
			}
			if h.Method != tc.wantMethod {
				t.Fatalf("want method %q, got %q", tc.wantMethod, h.Method)
			}
			if h.Pattern() == nil {
				t.Fatal("expected compiled pattern")
			}
			if r.Len() != 1 {
				t.Fatalf("want 1 handler, got %d", r.Len())
			}
		})
	}
}

func TestRegisterCopiesDelay(t *testing.T) {
	d := time.Second
	r := New()
	h, err := r.Register(Handler{URL: "http://h/x", Delay: &d, Response: ok})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	d = time.Hour
	if *h.Delay != time.Second {
		t.Fatalf("stored delay changed with caller value: %s", *h.Delay)
	}
}

func TestReturnedHandlersAreCopies(t *testing.T) {
	d := time.Second
	r := New()
	h, err := r.Register(Handler{URL: "http://h/x", Delay: &d, Response: ok})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	h.Method = http.MethodPost
	*h.Delay = time.Hour
	listed := r.Handlers()
	listed[0].Method = http.MethodDelete
	*listed[0].Delay = time.Minute

	got, _ := r.FindFirstMatch("http://h/x", "GET")
	if got == nil {
		t.Fatal("changing a returned handler altered the stored one")
	}
	if *got.Delay != time.Second {
		t.Fatalf("stored delay changed to %s", *got.Delay)
	}
	if listed[0].Pattern() != got.Pattern() {
		t.Fatal("copies should share the compiled pattern")
	}
}

func TestFindFirstMatchOrder(t *testing.T) {
	r := New()
	first, _ := r.Register(Handler{URL: "http://h/users/:id", Response: ok})
	second, _ := r.Register(Handler{URL: "http://h/users/42", Response: ok})
	post, _ := r.Register(Handler{URL: "http://h/users/42", Method: "POST", Response: ok})

	tt := []struct {
		name   string
		url    string
		method string
		want   *Handler
	}{
		{"earliest wins over more specific", "http://h/users/42", "GET", first},
		{"default method", "http://h/users/42", "", first},
		{"method is case insensitive", "http://h/users/42", "post", post},
		{"method mismatch", "http://h/users/42", "DELETE", nil},
		{"url mismatch", "http://h/teams/1", "GET", nil},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			h, res := r.FindFirstMatch(tc.url, tc.method)
			if h != tc.want {
				t.Fatalf("unexpected handler %+v", h)
			}
			if (res == nil) != (tc.want == nil) {
				t.Fatalf("result and handler disagree: %v", res)
			}
		})
	}

	if !r.Remove("http://h/users/:id", "GET") {
		t.Fatal("expected removal")
	}
	if h, _ := r.FindFirstMatch("http://h/users/42", "GET"); h != second {
		t.Fatalf("expected later duplicate to be reachable, got %+v", h)
	}
}

func TestFindFirstMatchCaptures(t *testing.T) {
	r := New()
	if _, err := r.Register(Handler{URL: "http://h/users/:id", Response: ok}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	_, res := r.FindFirstMatch("http://h/users/7", "GET")
	if res == nil {
		t.Fatal("expected a match")
	}
	if diff := cmp.Diff(map[string]string{"id": "7"}, res.Pathname.Groups); diff != "" {
		t.Fatalf("unexpected groups (-want +got):\n%s", diff)
	}
}

func TestIdentity(t *testing.T) {
	pattern := urlpattern.MustNew("http://h/p", nil)
	u := &url.URL{Scheme: "http", Host: "h", Path: "/u"}

	r := New()
	for _, h := range []Handler{
		{URL: "http://h/s", Response: ok},
		{URL: u, Response: ok},
		{URL: pattern, Response: ok},
	} {
		if _, err := r.Register(h); err != nil {
			t.Fatalf("Register returned error: %v", err)
		}
	}

	tt := []struct {
		name   string
		url    any
		method string
		want   bool
	}{
		{"same string", "http://h/s", "", true},
		{"same string lower method", "http://h/s", "get", true},
		{"same string other method", "http://h/s", "POST", false},
		{"different string", "http://h/s/", "GET", false},
		{"equal url value", &url.URL{Scheme: "http", Host: "h", Path: "/u"}, "GET", true},
		{"url string form is not a url", "http://h/u", "GET", false},
		{"same pattern pointer", pattern, "GET", true},
		{"equal pattern other pointer", urlpattern.MustNew("http://h/p", nil), "GET", false},
		{"pattern source string", "http://h/p", "GET", false},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got, err := r.Exists(tc.url, tc.method)
			if err != nil {
				t.Fatalf("Exists returned error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("want %v, got %v", tc.want, got)
			}
		})
	}
}

func TestExistsMissingURL(t *testing.T) {
	r := New()
	if _, err := r.Exists(nil, "GET"); !errors.Is(err, ErrMissingURL) {
		t.Fatalf("want ErrMissingURL, got %v", err)
	}
	if _, err := r.Exists("", "GET"); !errors.Is(err, ErrMissingURL) {
		t.Fatalf("want ErrMissingURL, got %v", err)
	}
}

func TestRemoveAndClear(t *testing.T) {
	r := New()
	for i := 0; i < 2; i++ {
		if _, err := r.Register(Handler{URL: "http://h/dup", Response: ok}); err != nil {
			t.Fatalf("Register returned error: %v", err)
		}
	}
	if _, err := r.Register(Handler{URL: "http://h/other", Response: ok}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if !r.Remove("http://h/dup", "GET") {
		t.Fatal("expected removal")
	}
	if r.Len() != 2 {
		t.Fatalf("removal must be single, have %d", r.Len())
	}
	if r.Remove("http://h/missing", "GET") {
		t.Fatal("unexpected removal of missing handler")
	}
	if r.Remove(nil, "GET") {
		t.Fatal("unexpected removal with nil url")
	}

	hs := r.Handlers()
	if hs[0].URL != "http://h/dup" || hs[1].URL != "http://h/other" {
		t.Fatalf("unexpected order %v, %v", hs[0].URL, hs[1].URL)
	}

	r.Clear()
	if r.Len() != 0 {
		t.Fatalf("want empty registry, got %d", r.Len())
	}
	if len(hs) != 2 {
		t.Fatal("Handlers must return a copy")
	}
}
