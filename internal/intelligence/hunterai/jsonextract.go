// Package hunterai integrates the generative-language collaborator: the REST
// client, prompt construction, best-effort JSON recovery from chatty model
// output, and the acquisition-intelligence analysis service.
package hunterai

// ExtractJSONObject locates the first balanced {...} span within arbitrary
// surrounding text (chatty preamble, markdown code fences, trailing prose)
// and returns it.  The scan is string-aware so braces inside JSON string
// values do not unbalance the depth count.  Returns ok=false when no balanced
// object exists.
//
// This is deliberately best-effort: generative providers enforce no schema,
// so every consumer treats the returned span as untrusted JSON.
func ExtractJSONObject(text string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		ch := text[i]

		if start >= 0 && inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		case '"':
			if start >= 0 {
				inString = true
			}
		}
	}
	return "", false
}
