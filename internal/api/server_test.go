package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pfrederiksen/coursecal/internal/course"
	"github.com/pfrederiksen/coursecal/internal/search"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeResolver struct {
	mu      sync.Mutex
	calls   [][4]string
	courses []*course.Course
	err     error
}

func (f *fakeResolver) ResolveCourseInfo(ctx context.Context, year, semester, subject, number string) ([]*course.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, [4]string{year, semester, subject, number})
	return f.courses, f.err
}

func sampleCourses() []*course.Course {
	crs := course.NewCourse("CS", "124")
	crs.Label = "Introduction to Computer Science I"
	crs.CreditHours = 3

	section := course.NewSection("12345")
	section.SectionCode = "AL1"
	section.EnrollmentStatus = "Open"

	meeting := course.NewMeeting()
	meeting.Start = "11:00 AM"
	meeting.End = "11:50 AM"
	meeting.DaysOfWeek = "MWF"
	meeting.RoomNumber = "1002"
	meeting.BuildingName = "Lincoln Hall"
	section.Meetings = append(section.Meetings, meeting)

	crs.Sections = append(crs.Sections, section)
	return []*course.Course{crs}
}

func newTestServer(t *testing.T, resolver CourseResolver) *Server {
	t.Helper()
	s, err := New("127.0.0.1:0", resolver)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func postGraphQL(t *testing.T, s *Server, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestIndex(t *testing.T) {
	s := newTestServer(t, &fakeResolver{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "Hello World" {
		t.Errorf("GET / = %d %q", rec.Code, rec.Body.String())
	}
}

func TestPlayground(t *testing.T) {
	s := newTestServer(t, &fakeResolver{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/graphql", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /graphql status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "GraphQL Playground") {
		t.Error("playground page missing title")
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html") {
		t.Errorf("Content-Type = %s", rec.Header().Get("Content-Type"))
	}
}

func TestGraphQL_CourseInfo(t *testing.T) {
	resolver := &fakeResolver{courses: sampleCourses()}
	s := newTestServer(t, resolver)

	body, err := search.BuildRequest(search.Criteria{Semester: "fall", Year: "23", Subject: "cs", Number: "1xx"})
	if err != nil {
		t.Fatal(err)
	}

	rec := postGraphQL(t, s, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	if len(resolver.calls) != 1 || resolver.calls[0] != [4]string{"2023", "fall", "CS", "1xx"} {
		t.Errorf("resolver calls = %v", resolver.calls)
	}

	var resp search.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Errors) != 0 {
		t.Fatalf("errors = %v", resp.Errors)
	}
	if len(resp.Data.CourseInfo) != 1 {
		t.Fatalf("courseInfo = %+v", resp.Data.CourseInfo)
	}

	got := resp.Data.CourseInfo[0]
	if got.Label != "Introduction to Computer Science I" {
		t.Errorf("label = %q", got.Label)
	}
	// Only the selected fields come back
	if got.CreditHours != 0 || got.ID != "" {
		t.Errorf("unselected fields returned: %+v", got)
	}
	m := got.Sections[0].Meetings[0]
	if m.DaysOfWeek != "MWF" || m.BuildingName != "Lincoln Hall" || m.Start != "11:00 AM" {
		t.Errorf("meeting = %+v", m)
	}
	if got.Sections[0].SectionNumber != "12345" || got.Sections[0].EnrollmentStatus != "Open" {
		t.Errorf("section = %+v", got.Sections[0])
	}
}

func TestGraphQL_MissingVariable(t *testing.T) {
	s := newTestServer(t, &fakeResolver{})

	body := []byte(`{"query":` + mustJSON(t, search.CourseInfoQuery) + `,"variables":{"semester":"fall","subjectCode":"CS","courseNumber":"1xx"}}`)
	rec := postGraphQL(t, s, body)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "year") {
		t.Errorf("body = %s, want error about $year", rec.Body.String())
	}
}

func TestGraphQL_MalformedBody(t *testing.T) {
	s := newTestServer(t, &fakeResolver{})

	rec := postGraphQL(t, s, []byte(`{"query":`))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("error body is not JSON: %v", err)
	}
	if _, ok := resp["errors"]; !ok {
		t.Errorf("body = %v, want errors key", resp)
	}
}

func TestGraphQL_ResolverError(t *testing.T) {
	s := newTestServer(t, &fakeResolver{err: errors.New("course explorer unavailable")})

	body, _ := search.BuildRequest(search.DefaultCriteria())
	rec := postGraphQL(t, s, body)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "course explorer unavailable") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, &fakeResolver{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var snapshot map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &snapshot); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"counters", "gauges", "timings"} {
		if _, ok := snapshot[key]; !ok {
			t.Errorf("snapshot missing %s", key)
		}
	}
}

func TestSearchClientAgainstServer(t *testing.T) {
	s := newTestServer(t, &fakeResolver{courses: sampleCourses()})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	client := search.NewClient(ts.URL + "/graphql")
	courses, err := client.Search(context.Background(), search.Criteria{Semester: "fall", Year: "2023", Subject: "cs", Number: "1xx"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(courses) != 1 || courses[0].Sections[0].Meetings[0].RoomNumber != "1002" {
		t.Errorf("courses = %+v", courses)
	}

	var raw map[string]interface{}
	err = client.Submit(context.Background(), search.DefaultCriteria(), func(body map[string]interface{}) {
		raw = body
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if _, ok := raw["data"]; !ok {
		t.Errorf("handler body = %v", raw)
	}
}

func TestServe_Shutdown(t *testing.T) {
	s := newTestServer(t, &fakeResolver{})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	if err != nil {
		t.Fatalf("GET / error = %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}
