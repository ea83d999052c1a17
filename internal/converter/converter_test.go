package converter

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDocConverter_Convert_PlainText(t *testing.T) {
	c := NewDocConverter("")

	got, err := c.Convert(context.Background(), "notes.txt", strings.NewReader("raw text stays as is"))
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if got != "raw text stays as is" {
		t.Errorf("Convert() = %q", got)
	}
}

func TestDocConverter_Convert_Markdown(t *testing.T) {
	c := NewDocConverter("")

	md := "# Heading\n\nSome *emphasised* body text.\n\n- first item\n- second item\n"
	got, err := c.Convert(context.Background(), "doc.md", strings.NewReader(md))
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	for _, want := range []string{"Heading", "emphasised", "first item", "second item"} {
		if !strings.Contains(got, want) {
			t.Errorf("Convert() output missing %q: %q", want, got)
		}
	}
	for _, artifact := range []string{"#", "*", "- "} {
		if strings.Contains(got, artifact) {
			t.Errorf("Convert() output contains markdown artifact %q: %q", artifact, got)
		}
	}
}

func TestDocConverter_Convert_PDF(t *testing.T) {
	const pdfBytes = "%PDF-1.4 fake body"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/v1/convert" {
			t.Errorf("expected /v1/convert, got %s", r.URL.Path)
		}

		var req ConvertRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if req.FileName != "report.pdf" {
			t.Errorf("request file_name = %q, want report.pdf", req.FileName)
		}
		raw, err := base64.StdEncoding.DecodeString(req.Content)
		if err != nil {
			t.Errorf("content is not valid base64: %v", err)
		}
		if string(raw) != pdfBytes {
			t.Errorf("request content = %q", string(raw))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ConvertResponse{
			Markdown: "# Quarterly Report\n\nRevenue grew in every region.",
		})
	}))
	defer server.Close()

	c := NewDocConverter(server.URL)
	got, err := c.Convert(context.Background(), "report.pdf", strings.NewReader(pdfBytes))
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !strings.Contains(got, "Quarterly Report") || !strings.Contains(got, "Revenue grew") {
		t.Errorf("Convert() = %q", got)
	}
	if strings.Contains(got, "#") {
		t.Errorf("Convert() did not flatten markdown: %q", got)
	}
}

func TestDocConverter_Convert_PDFServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "parse failure", http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	c := NewDocConverter(server.URL)
	if _, err := c.Convert(context.Background(), "broken.pdf", strings.NewReader("%PDF")); err == nil {
		t.Error("Convert() expected error from failing service")
	}
}

func TestDocConverter_Convert_PDFWithoutService(t *testing.T) {
	c := NewDocConverter("")
	if _, err := c.Convert(context.Background(), "doc.pdf", strings.NewReader("%PDF")); err == nil {
		t.Error("Convert() expected error when no parsing service is configured")
	}
}

func TestDocConverter_Convert_UnsupportedExtension(t *testing.T) {
	c := NewDocConverter("")
	if _, err := c.Convert(context.Background(), "image.png", strings.NewReader("bytes")); err == nil {
		t.Error("Convert() expected error for unsupported extension")
	}
}

func TestMarkdownToPlain_Table(t *testing.T) {
	md := "| Name | Value |\n| --- | --- |\n| alpha | 1 |\n| beta | 2 |\n"

	got := markdownToPlain([]byte(md))
	for _, want := range []string{"Name", "Value", "alpha", "beta"} {
		if !strings.Contains(got, want) {
			t.Errorf("markdownToPlain() missing %q: %q", want, got)
		}
	}
	if strings.Contains(got, "|") || strings.Contains(got, "---") {
		t.Errorf("markdownToPlain() contains table markup: %q", got)
	}
}

func TestMarkdownToPlain_CodeBlock(t *testing.T) {
	md := "Intro.\n\n```go\nfmt.Println(\"hi\")\n```\n\nOutro.\n"

	got := markdownToPlain([]byte(md))
	for _, want := range []string{"Intro.", "fmt.Println", "Outro."} {
		if !strings.Contains(got, want) {
			t.Errorf("markdownToPlain() missing %q: %q", want, got)
		}
	}
	if strings.Contains(got, "```") {
		t.Errorf("markdownToPlain() contains fence markers: %q", got)
	}
}

func TestMarkdownToPlain_Empty(t *testing.T) {
	if got := markdownToPlain(nil); got != "" {
		t.Errorf("markdownToPlain(nil) = %q, want empty", got)
	}
}
