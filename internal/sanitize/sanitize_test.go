package sanitize_test

import (
	"strings"
	"testing"

	"roofboard/jobs-service/internal/sanitize"
)

// ── Markdown conversion ────────────────────────────────────────────────────

func TestDescription_ConvertsMarkdown(t *testing.T) {
	out := sanitize.Description("**Roofing** crew lead\n\n- tear-off\n- install")

	if !strings.Contains(out, "<strong>Roofing</strong>") {
		t.Errorf("bold markdown not converted: %q", out)
	}
	if !strings.Contains(out, "<li>tear-off</li>") {
		t.Errorf("list markdown not converted: %q", out)
	}
}

func TestDescription_NewlineBecomesBreak(t *testing.T) {
	out := sanitize.Description("line one\nline two")
	if !strings.Contains(out, "<br") {
		t.Errorf("single newline should render a line break: %q", out)
	}
}

func TestDescription_UnescapesSourceArtifacts(t *testing.T) {
	out := sanitize.Description(`Roofing \- tear\.off \& install`)
	if strings.Contains(out, `\-`) || strings.Contains(out, `\.`) || strings.Contains(out, `\&`) {
		t.Errorf("backslash escapes should be removed: %q", out)
	}
}

// ── Allow-list closure ─────────────────────────────────────────────────────

func TestDescription_StripsScriptAndContent(t *testing.T) {
	out := sanitize.Description(`Apply now <script>alert("xss")</script> today`)

	if strings.Contains(out, "script") || strings.Contains(out, "alert") {
		t.Errorf("script tag or its content survived: %q", out)
	}
	if !strings.Contains(out, "Apply now") || !strings.Contains(out, "today") {
		t.Errorf("surrounding text should survive: %q", out)
	}
}

func TestDescription_StripsDisallowedAttributes(t *testing.T) {
	out := sanitize.Description(`<p onclick="steal()">Safe text</p>`)
	if strings.Contains(out, "onclick") || strings.Contains(out, "steal") {
		t.Errorf("event handler attribute survived: %q", out)
	}
	if !strings.Contains(out, "Safe text") {
		t.Errorf("paragraph content should survive: %q", out)
	}
}

func TestDescription_KeepsLinkAttributes(t *testing.T) {
	out := sanitize.Description(`<a href="https://example.com/apply" target="_blank" rel="noopener">Apply</a>`)
	for _, want := range []string{`href="https://example.com/apply"`, `target="_blank"`, `rel="noopener"`} {
		if !strings.Contains(out, want) {
			t.Errorf("allowed link attribute %s missing: %q", want, out)
		}
	}
}

func TestDescription_KeepsClassOnContainers(t *testing.T) {
	out := sanitize.Description(`<div class="benefits"><span class="pay">$30/hr</span></div>`)
	if !strings.Contains(out, `class="benefits"`) || !strings.Contains(out, `class="pay"`) {
		t.Errorf("class attribute on containers should survive: %q", out)
	}
}

// ── Idempotence ────────────────────────────────────────────────────────────

func TestDescription_Idempotent(t *testing.T) {
	inputs := []string{
		"# Foreman\n\nLead a crew of **six**.\n\n- schedule\n- safety",
		"Plain text with\nline breaks and [a link](https://example.com).",
		`Mixed <em>inline html</em> and <script>bad()</script> markdown`,
	}
	for _, in := range inputs {
		once := sanitize.Description(in)
		twice := sanitize.Description(once)
		if once != twice {
			t.Errorf("sanitizing twice changed output:\n in: %q\nonce: %q\ntwice: %q", in, once, twice)
		}
	}
}
