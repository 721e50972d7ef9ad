package utils

import "strings"

const lineTerminator = "\n"

// lineEndingNormalizer rewrites CRLF and lone CR line endings to LF.
var lineEndingNormalizer = strings.NewReplacer("\r\n", lineTerminator, "\r", lineTerminator)

// DecodeText converts raw bytes to a string, dropping byte sequences that are not valid UTF-8
// and normalizing every line ending to "\n".
func DecodeText(data []byte) string {
	return lineEndingNormalizer.Replace(strings.ToValidUTF8(string(data), ""))
}

// CountLines reports how many lines the text holds when split after every line terminator.
// A trailing segment without a terminator counts as a line; empty text has zero lines.
// Text is expected to come from DecodeText.
func CountLines(text string) int {
	if text == "" {
		return 0
	}
	lineCount := strings.Count(text, lineTerminator)
	if !strings.HasSuffix(text, lineTerminator) {
		lineCount++
	}
	return lineCount
}
