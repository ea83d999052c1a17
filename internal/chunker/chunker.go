package chunker

import (
	"strings"
	"unicode/utf8"
)

// MinChunkChars is the minimum trimmed length a passage must exceed to be
// emitted. Anything at or below this is treated as noise (table artifacts,
// whitespace-only fragments) and dropped.
const MinChunkChars = 20

// Split cuts text into an ordered sequence of overlapping passages.
//
// Each window is at most maxChars bytes wide. When a window edge falls inside
// the text, it is pulled back to the nearest preceding space so words are not
// cut in half; a window with no whitespace keeps the hard cut. Consecutive
// passages share roughly overlap characters of context. The result is
// deterministic for a given input and parameters.
func Split(text string, maxChars, overlap int) []string {
	if len(text) <= maxChars {
		trimmed := strings.TrimSpace(text)
		if len(trimmed) > MinChunkChars {
			return []string{trimmed}
		}
		return nil
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + maxChars
		if end < len(text) {
			if i := strings.LastIndex(text[start:end], " "); i != -1 {
				end = start + i
			} else {
				// Hard cut: back off to a rune boundary so we never
				// emit a torn UTF-8 sequence.
				for end > start+1 && !utf8.RuneStart(text[end]) {
					end--
				}
			}
		}

		sliceEnd := end
		if sliceEnd > len(text) {
			sliceEnd = len(text)
		}
		chunk := strings.TrimSpace(text[start:sliceEnd])
		if len(chunk) > MinChunkChars {
			chunks = append(chunks, chunk)
		}

		// Step back by the overlap so neighbouring chunks share context.
		// If that would not move the window forward (overlap >= maxChars,
		// or a deep word-snap), skip past the window instead; the scan must
		// always advance.
		next := end - overlap
		if next <= start {
			next = end + 1
		}
		// The overlap step lands on an arbitrary byte; advance to the next
		// rune start so no chunk begins inside a multi-byte sequence.
		for next < len(text) && !utf8.RuneStart(text[next]) {
			next++
		}
		start = next
	}

	return chunks
}
