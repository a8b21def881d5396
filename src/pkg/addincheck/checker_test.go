package addincheck

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gh-ovd/addin-manifestchk/src/pkg/models"
	"github.com/gh-ovd/addin-manifestchk/src/pkg/report"
	"github.com/gh-ovd/addin-manifestchk/src/pkg/service"
)

const passedEnvelope = `{"checkReport":{"validationReport":{"result":"Passed","errors":[],"warnings":[],"infos":[]},"details":{"supportedProducts":[{"title":"Excel"},{"title":"Word"},{"title":"Excel"}]}}}`

func writeManifest(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.xml")
	if err := os.WriteFile(path, []byte("<OfficeApp/>"), 0644); err != nil {
		t.Fatalf("failed to write manifest fixture: %v", err)
	}
	return path
}

func newChecker(endpoint string, sink *bytes.Buffer) *Checker {
	client := service.NewClient(service.Config{Endpoint: endpoint})
	return NewChecker(client, report.NewRenderer(sink))
}

func TestValidate_PassedEndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(passedEnvelope))
	}))
	defer server.Close()

	var sink bytes.Buffer
	result := newChecker(server.URL, &sink).Validate(context.Background(), writeManifest(t))

	if result.Outcome != models.OutcomePassed {
		t.Fatalf("outcome = %s, want Passed", result.Outcome)
	}
	out := sink.String()
	if !strings.Contains(out, report.BannerPassed) {
		t.Errorf("passed banner missing:\n%s", out)
	}
	// The duplicate Excel entry collapses; first-seen order holds.
	if strings.Count(out, "  - Excel") != 1 || strings.Count(out, "  - Word") != 1 {
		t.Errorf("platform list must hold each unique title exactly once:\n%s", out)
	}
	if strings.Index(out, "  - Excel") > strings.Index(out, "  - Word") {
		t.Errorf("platform order must follow first appearance:\n%s", out)
	}
}

func TestValidate_Status415EndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusUnsupportedMediaType)
	}))
	defer server.Close()

	var sink bytes.Buffer
	result := newChecker(server.URL, &sink).Validate(context.Background(), writeManifest(t))

	if result.Outcome != models.OutcomeError {
		t.Fatalf("outcome = %s, want Error", result.Outcome)
	}
	if result.Failure == nil || result.Failure.StatusCode != 415 {
		t.Fatalf("failure = %+v, want status failure 415", result.Failure)
	}
	if !strings.Contains(sink.String(), "Content-Type") {
		t.Errorf("explanation must reference Content-Type:\n%s", sink.String())
	}
}

func TestValidate_UnreachableServiceEndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {}))
	endpoint := server.URL
	server.Close()

	var sink bytes.Buffer
	result := newChecker(endpoint, &sink).Validate(context.Background(), writeManifest(t))

	if result.Outcome != models.OutcomeError {
		t.Fatalf("outcome = %s, want Error", result.Outcome)
	}
	if result.Failure == nil || result.Failure.Kind != models.FailureTransport {
		t.Fatalf("failure = %+v, want transport failure", result.Failure)
	}
	if !strings.Contains(sink.String(), report.ExplainTransport) {
		t.Errorf("transport explanation missing:\n%s", sink.String())
	}
}

func TestValidate_MalformedBodyEndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html>oops</html>"))
	}))
	defer server.Close()

	var sink bytes.Buffer
	result := newChecker(server.URL, &sink).Validate(context.Background(), writeManifest(t))

	if result.Outcome != models.OutcomeError {
		t.Fatalf("outcome = %s, want Error", result.Outcome)
	}
	if result.Failure == nil || result.Failure.Kind != models.FailureParse {
		t.Fatalf("failure = %+v, want parse failure", result.Failure)
	}
	if !strings.Contains(sink.String(), report.BannerError) {
		t.Errorf("failure banner missing:\n%s", sink.String())
	}
}

func TestValidate_UnknownLabelRendersNothing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"checkReport":{"validationReport":{"result":"Inconclusive","errors":[],"warnings":[],"infos":[]}}}`))
	}))
	defer server.Close()

	var sink bytes.Buffer
	result := newChecker(server.URL, &sink).Validate(context.Background(), writeManifest(t))

	if result.Outcome != models.ValidationOutcome("Inconclusive") {
		t.Errorf("outcome = %s, want the raw label carried upward", result.Outcome)
	}
	if sink.Len() != 0 {
		t.Errorf("nothing should render for an unknown label, got:\n%s", sink.String())
	}
}
