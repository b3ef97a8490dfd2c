package hostheaders

import "testing"

func TestForKnownHost(t *testing.T) {
	headers := For("https://streamtape.com/v/abc123/movie.mp4")
	if headers["Referer"] != "https://streamtape.com/" {
		t.Fatalf("unexpected referer: %q", headers["Referer"])
	}
	if headers["Origin"] != "https://streamtape.com" {
		t.Fatalf("unexpected origin: %q", headers["Origin"])
	}
	if headers["User-Agent"] == "" {
		t.Fatalf("expected a user agent")
	}
}

func TestForSubdomainMatches(t *testing.T) {
	headers := For("https://cdn77.streamtape.com/get/xyz/file.mp4")
	if headers["Referer"] != "https://streamtape.com/" {
		t.Fatalf("subdomain should inherit overrides, got %q", headers["Referer"])
	}
}

func TestForSuffixLookalikeDoesNotMatch(t *testing.T) {
	headers := For("https://notstreamtape.com/file.mp4")
	if _, ok := headers["Referer"]; ok {
		t.Fatalf("lookalike host must not inherit overrides")
	}
}

func TestForUnknownHost(t *testing.T) {
	headers := For("https://example.com/video.mp4")
	if len(headers) != 1 {
		t.Fatalf("unknown host should get user agent only, got %v", headers)
	}
	if headers["User-Agent"] == "" {
		t.Fatalf("expected a user agent")
	}
}

func TestForUnparseableURL(t *testing.T) {
	headers := For("::::not a url")
	if headers["User-Agent"] == "" {
		t.Fatalf("even bad input gets a user agent")
	}
	if len(headers) != 1 {
		t.Fatalf("bad input should not pick up overrides: %v", headers)
	}
}
