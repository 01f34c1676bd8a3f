package resolver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/sony/gobreaker"

	"github.com/example/anistream/internal/platform/analytics"
	"github.com/example/anistream/services/site/internal/consumet"
)

type stubProvider struct {
	info     *consumet.Response
	infoErr  error
	watch    *consumet.Response
	watchErr error

	watchedID string
}

func (s *stubProvider) Info(_ context.Context, _ string) (*consumet.Response, error) {
	return s.info, s.infoErr
}

func (s *stubProvider) Watch(_ context.Context, id string) (*consumet.Response, error) {
	s.watchedID = id
	return s.watch, s.watchErr
}

func jsonResp(status int, body string) *consumet.Response {
	return &consumet.Response{Status: status, ContentType: "application/json; charset=utf-8", Body: []byte(body)}
}

const sixEpisodes = `{"episodes":[
	{"id":"e1","number":1},{"id":"e2","number":2},{"id":"e3","number":3},
	{"id":"e4","number":4},{"id":"e5","number":5},{"id":"e6","number":6}]}`

func TestResolve_InfoHTTP500(t *testing.T) {
	p := &stubProvider{info: jsonResp(http.StatusInternalServerError, `{"message":"boom"}`)}
	res := New(p).Resolve(context.Background(), "21", 1)

	if res.Err == nil || res.Err.Kind != KindHTTPStatus {
		t.Fatalf("expected http status error, got %+v", res.Err)
	}
	if res.Err.Message != "Failed to fetch anime info: 500" {
		t.Fatalf("unexpected message %q", res.Err.Message)
	}
	if res.Sources != nil || len(res.Episodes) != 0 || res.CurrentEpisode != nil {
		t.Fatalf("expected empty result, got %+v", res)
	}
}

func TestResolve_InfoHTML(t *testing.T) {
	p := &stubProvider{info: &consumet.Response{
		Status:      http.StatusOK,
		ContentType: "text/html",
		Body:        []byte(`<!DOCTYPE html><html><head><title>Under maintenance</title></head></html>`),
	}}
	res := New(p).Resolve(context.Background(), "21", 1)

	if res.Err == nil || res.Err.Kind != KindUnavailable {
		t.Fatalf("expected unavailable, got %+v", res.Err)
	}
	if !strings.Contains(res.Err.Message, "unavailable") || !strings.Contains(res.Err.Message, "maintenance") {
		t.Fatalf("unexpected message %q", res.Err.Message)
	}
	if res.Sources != nil || len(res.Episodes) != 0 {
		t.Fatalf("expected empty result, got %+v", res)
	}
}

func TestResolve_HTMLCheckedBeforeStatus(t *testing.T) {
	p := &stubProvider{info: &consumet.Response{Status: http.StatusBadGateway, ContentType: "text/html"}}
	res := New(p).Resolve(context.Background(), "21", 1)
	if res.Err == nil || res.Err.Kind != KindUnavailable || res.Err.Status != http.StatusBadGateway {
		t.Fatalf("expected unavailable with status, got %+v", res.Err)
	}
}

func TestResolve_NoEpisodesField(t *testing.T) {
	p := &stubProvider{info: jsonResp(http.StatusOK, `{"id":"21"}`)}
	res := New(p).Resolve(context.Background(), "21", 1)
	if res.Err == nil || res.Err.Kind != KindNoEpisodes || res.Err.Message != "No episodes available" {
		t.Fatalf("expected no episodes, got %+v", res.Err)
	}
}

func TestResolve_EpisodeNotFound(t *testing.T) {
	p := &stubProvider{info: jsonResp(http.StatusOK, sixEpisodes)}
	res := New(p).Resolve(context.Background(), "21", 7)

	if res.Err == nil || res.Err.Message != "Episode 7 not found" {
		t.Fatalf("unexpected error %+v", res.Err)
	}
	if len(res.Episodes) != 6 {
		t.Fatalf("expected 6 episodes, got %d", len(res.Episodes))
	}
	if res.CurrentEpisode != nil || res.Sources != nil {
		t.Fatalf("expected no current episode or sources, got %+v", res)
	}
	if p.watchedID != "" {
		t.Fatal("watch must not be called")
	}
}

func TestResolve_EpisodeWithoutID(t *testing.T) {
	p := &stubProvider{info: jsonResp(http.StatusOK, `{"episodes":[{"id":"","number":1}]}`)}
	res := New(p).Resolve(context.Background(), "21", 1)
	if res.Err == nil || res.Err.Kind != KindEpisodeNotFound {
		t.Fatalf("expected episode not found, got %+v", res.Err)
	}
}

func TestResolve_OK(t *testing.T) {
	p := &stubProvider{
		info:  jsonResp(http.StatusOK, sixEpisodes),
		watch: jsonResp(http.StatusOK, `{"headers":{"Referer":"https://cdn.example"},"sources":[{"url":"https://cdn.example/720.m3u8","quality":"720p","isM3U8":true},{"url":"https://cdn.example/master.m3u8","quality":"default","isM3U8":true}]}`),
	}
	res := New(p).Resolve(context.Background(), "21", 3)

	if res.Err != nil {
		t.Fatalf("unexpected error %+v", res.Err)
	}
	if !res.Usable() {
		t.Fatal("expected usable result")
	}
	if p.watchedID != "e3" {
		t.Fatalf("watched %q, want e3", p.watchedID)
	}
	if res.CurrentEpisode == nil || res.CurrentEpisode.Number != 3 {
		t.Fatalf("unexpected current episode %+v", res.CurrentEpisode)
	}
	if len(res.Sources) != 2 || res.Headers["Referer"] != "https://cdn.example" {
		t.Fatalf("unexpected sources %+v headers %+v", res.Sources, res.Headers)
	}
}

func TestResolve_WatchHTML(t *testing.T) {
	p := &stubProvider{
		info:  jsonResp(http.StatusOK, sixEpisodes),
		watch: &consumet.Response{Status: http.StatusOK, ContentType: "text/html; charset=utf-8", Body: []byte("<html></html>")},
	}
	res := New(p).Resolve(context.Background(), "21", 2)

	if res.Err == nil || res.Err.Kind != KindUnavailable || res.Err.Stage != StageWatch {
		t.Fatalf("expected watch unavailable, got %+v", res.Err)
	}
	if !strings.HasPrefix(res.Err.Message, "Streaming links unavailable") {
		t.Fatalf("unexpected message %q", res.Err.Message)
	}
	if len(res.Episodes) != 6 || res.CurrentEpisode == nil || res.Sources != nil {
		t.Fatalf("expected episodes and current episode kept, got %+v", res)
	}
}

func TestResolve_WatchStatus(t *testing.T) {
	p := &stubProvider{
		info:  jsonResp(http.StatusOK, sixEpisodes),
		watch: jsonResp(http.StatusNotFound, `{}`),
	}
	res := New(p).Resolve(context.Background(), "21", 2)
	if res.Err == nil || res.Err.Message != "Failed to fetch streaming links: 404" {
		t.Fatalf("unexpected error %+v", res.Err)
	}
	if res.CurrentEpisode == nil || res.CurrentEpisode.ID != "e2" {
		t.Fatalf("expected current episode kept, got %+v", res.CurrentEpisode)
	}
}

func TestResolve_MalformedJSONIsOutage(t *testing.T) {
	p := &stubProvider{info: jsonResp(http.StatusOK, `<!DOCTYPE html>`)}
	res := New(p).Resolve(context.Background(), "21", 1)
	if res.Err == nil || res.Err.Kind != KindOutage {
		t.Fatalf("expected outage, got %+v", res.Err)
	}
	if len(res.Episodes) != 0 || res.CurrentEpisode != nil {
		t.Fatalf("expected empty result, got %+v", res)
	}
}

func TestResolve_BreakerOpenIsOutage(t *testing.T) {
	p := &stubProvider{infoErr: gobreaker.ErrOpenState}
	res := New(p).Resolve(context.Background(), "21", 1)
	if res.Err == nil || res.Err.Kind != KindOutage {
		t.Fatalf("expected outage, got %+v", res.Err)
	}
}

func TestResolve_NetworkError(t *testing.T) {
	p := &stubProvider{infoErr: &url.Error{Op: "Get", URL: "https://api.consumet.org", Err: &net.OpError{Op: "dial", Err: errors.New("connection refused")}}}
	res := New(p).Resolve(context.Background(), "21", 1)
	if res.Err == nil || res.Err.Kind != KindNetwork {
		t.Fatalf("expected network, got %+v", res.Err)
	}
	if !strings.HasPrefix(res.Err.Message, "Network error") {
		t.Fatalf("unexpected message %q", res.Err.Message)
	}
}

func TestResolve_WatchTransportErrorClearsResult(t *testing.T) {
	p := &stubProvider{info: jsonResp(http.StatusOK, sixEpisodes), watchErr: context.DeadlineExceeded}
	res := New(p).Resolve(context.Background(), "21", 1)
	if res.Err == nil || res.Err.Kind != KindNetwork {
		t.Fatalf("expected network, got %+v", res.Err)
	}
	if len(res.Episodes) != 0 || res.CurrentEpisode != nil {
		t.Fatalf("expected empty result, got %+v", res)
	}
}

func TestResolve_UnknownErrorKeepsText(t *testing.T) {
	p := &stubProvider{infoErr: errors.New("something odd")}
	res := New(p).Resolve(context.Background(), "21", 1)
	if res.Err == nil || res.Err.Kind != KindUnknown || res.Err.Message != "something odd" {
		t.Fatalf("unexpected error %+v", res.Err)
	}
}

type recordingConn struct {
	subjects []string
}

func (c *recordingConn) Publish(subject string, _ []byte) error {
	c.subjects = append(c.subjects, subject)
	return nil
}

func TestResolve_PublishesOutcome(t *testing.T) {
	conn := &recordingConn{}
	pub := analytics.New(conn, nil)

	ok := &stubProvider{info: jsonResp(http.StatusOK, sixEpisodes), watch: jsonResp(http.StatusOK, `{"sources":[{"url":"u","quality":"default"}]}`)}
	New(ok, WithAnalytics(pub)).Resolve(context.Background(), "21", 1)

	bad := &stubProvider{info: jsonResp(http.StatusOK, sixEpisodes)}
	New(bad, WithAnalytics(pub)).Resolve(context.Background(), "21", 9)

	if len(conn.subjects) != 2 ||
		conn.subjects[0] != analytics.SubjectStreamingResolved ||
		conn.subjects[1] != analytics.SubjectStreamingFailed {
		t.Fatalf("unexpected subjects %v", conn.subjects)
	}
}
