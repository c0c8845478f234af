package forge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClientWithBaseURL(srv.URL, "", zerolog.Nop())
}

func TestRepo(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/huggingface/transformers":
			w.Write([]byte(`{"full_name": "huggingface/transformers", "stargazers_count": 130000, "default_branch": "main"}`))
		case "/repos/huggingface/transformers/contributors":
			w.Write([]byte(`[{"login": "a"}, {"login": "b"}, {"login": "c"}]`))
		case "/repos/huggingface/transformers/git/trees/main":
			w.Write([]byte(`{"tree": [{"path": "tests"}, {"path": ".github"}, {"path": "setup.py"}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	info, err := c.Repo(context.Background(), "huggingface", "transformers")
	if err != nil {
		t.Fatalf("Repo: %v", err)
	}

	if info.FullName != "huggingface/transformers" {
		t.Errorf("FullName = %s", info.FullName)
	}
	if info.Stars != 130000 {
		t.Errorf("Stars = %d", info.Stars)
	}
	if info.Contributors != 3 {
		t.Errorf("Contributors = %d", info.Contributors)
	}
	if len(info.TopLevel) != 3 {
		t.Errorf("TopLevel = %v", info.TopLevel)
	}
	if !info.HasTestsDir() {
		t.Error("expected HasTestsDir")
	}
	if !info.HasCIConfig() {
		t.Error("expected HasCIConfig")
	}
}

func TestRepoNotFound(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	if _, err := c.Repo(context.Background(), "nobody", "nothing"); err == nil {
		t.Fatal("expected error on 404")
	}
}

func TestContributorsTooLarge(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/torvalds/linux":
			w.Write([]byte(`{"full_name": "torvalds/linux", "default_branch": "master"}`))
		case "/repos/torvalds/linux/contributors":
			// GitHub refuses to list contributors for very large repos.
			w.WriteHeader(http.StatusForbidden)
		case "/repos/torvalds/linux/git/trees/master":
			w.Write([]byte(`{"tree": []}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	info, err := c.Repo(context.Background(), "torvalds", "linux")
	if err != nil {
		t.Fatalf("Repo: %v", err)
	}
	if info.Contributors != contributorsPageSize {
		t.Errorf("Contributors = %d, want cap %d", info.Contributors, contributorsPageSize)
	}
}

func TestTokenHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		switch {
		case r.URL.Path == "/repos/o/r":
			w.Write([]byte(`{"full_name": "o/r", "default_branch": "main"}`))
		case r.URL.Path == "/repos/o/r/contributors":
			w.Write([]byte(`[]`))
		default:
			w.Write([]byte(`{"tree": []}`))
		}
	}))
	t.Cleanup(srv.Close)

	c := NewClientWithBaseURL(srv.URL, "ghp_token1234567890abcdefghij", zerolog.Nop())
	if _, err := c.Repo(context.Background(), "o", "r"); err != nil {
		t.Fatalf("Repo: %v", err)
	}
	if gotAuth != "Bearer ghp_token1234567890abcdefghij" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}
