package llm

import (
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/net/html"
)

// Sentinel markers delimiting generated content inside a free-text model
// response. These are a wire contract with the model and must stay bit-exact.
const (
	startHTMLSentinel  = "[START_HTML]"
	endHTMLSentinel    = "[END_HTML]"
	altEndHTMLSentinel = "[/END_HTML]"
	startJSSentinel    = "[START_JS]"
	endJSSentinel      = "[END_JS]"
)

// ErrExtraction indicates the model answered but its response did not contain
// usable delimited content. Distinct from upstream transport failures so
// callers can tell the two apart.
var ErrExtraction = eris.New("failed to extract valid content from model response")

var (
	// The end sentinel tolerates the [/END_HTML] spelling some models drift into.
	htmlBlockPattern    = regexp.MustCompile(`(?s)\[START_HTML\](.*?)\[/?END_HTML\]`)
	fullDocumentPattern = regexp.MustCompile(`(?is)<html[^>]*>.*</html>`)
	jsBlockPattern      = regexp.MustCompile(`(?s)\[START_JS\](.*?)\[END_JS\]`)
)

// ExtractHTML pulls the sentinel-delimited HTML block out of a raw model
// response, falling back to a bare <html>...</html> document when no sentinel
// pair is present.
func ExtractHTML(raw string) (string, error) {
	if match := htmlBlockPattern.FindStringSubmatch(raw); match != nil {
		if content := strings.TrimSpace(match[1]); content != "" {
			return content, nil
		}
	}

	if match := fullDocumentPattern.FindString(raw); match != "" {
		return strings.TrimSpace(match), nil
	}

	return "", eris.Wrap(ErrExtraction, "no html block found in response")
}

// ExtractJavaScript pulls the sentinel-delimited JavaScript block out of a raw
// model response.
func ExtractJavaScript(raw string) (string, error) {
	if match := jsBlockPattern.FindStringSubmatch(raw); match != nil {
		if content := strings.TrimSpace(match[1]); content != "" {
			return content, nil
		}
	}

	return "", eris.Wrap(ErrExtraction, "no javascript block found in response")
}

// SeparateScripts removes every inline <script> block from the markup,
// returning the cleaned HTML and the script bodies concatenated in document
// order. The tokenizer passes non-script tokens through as raw bytes, so the
// surviving markup is untouched.
func SeparateScripts(doc string) (markup string, javascript string) {
	tokenizer := html.NewTokenizer(strings.NewReader(doc))

	var builder strings.Builder
	var scripts []string
	inScript := false

	for {
		tokenType := tokenizer.Next()
		if tokenType == html.ErrorToken {
			break
		}

		raw := string(tokenizer.Raw())

		switch tokenType {
		case html.StartTagToken:
			if name, _ := tokenizer.TagName(); string(name) == "script" {
				inScript = true
				continue
			}
		case html.EndTagToken:
			if name, _ := tokenizer.TagName(); string(name) == "script" {
				inScript = false
				continue
			}
		case html.SelfClosingTagToken:
			if name, _ := tokenizer.TagName(); string(name) == "script" {
				continue
			}
		case html.TextToken:
			if inScript {
				scripts = append(scripts, raw)
				continue
			}
		}

		if inScript {
			continue
		}

		builder.WriteString(raw)
	}

	return strings.TrimSpace(builder.String()), strings.TrimSpace(strings.Join(scripts, "\n"))
}

// endSentinelIndex reports the end of the earliest end-of-HTML sentinel in the
// buffer, including the sentinel itself.
func endSentinelIndex(buffer string) (int, bool) {
	best := -1
	length := 0

	for _, marker := range []string{endHTMLSentinel, altEndHTMLSentinel} {
		if idx := strings.Index(buffer, marker); idx >= 0 && (best == -1 || idx < best) {
			best = idx
			length = len(marker)
		}
	}

	if best == -1 {
		return 0, false
	}

	return best + length, true
}
