package llm

import (
	"strings"
)

// BuildSystemPrompt composes the fixed extraction instruction. Nothing in it
// is user-tunable: the rules (full capture, original wording, heading/detail
// pairing, nuance into comments) are the contract the record schema assumes.
func BuildSystemPrompt() string {
	parts := []string{
		"You are a specialized data extraction AI. Your goal is to transform unstructured PDF text into a structured, spreadsheet-ready format.",
		"Return ONLY JSON that matches the provided JSON Schema.",
		"Capture EVERY piece of information in the text. Do not omit anything.",
		"Retain the exact wording of the source for the 'value' field. Do not paraphrase or summarize unless absolutely necessary for format.",
		"Identify logical key:value pairings. If a text is a heading followed by a paragraph, the heading is the key. If it is a label followed by a detail, the label is the key.",
		"If surrounding text provides important nuance but is not the direct value, place it in 'comments'.",
		"Never output null. If there are no comments for an entry, omit the field.",
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt wraps the document text as the user message.
func BuildUserPrompt(text string) string {
	var b strings.Builder
	b.WriteString("Here is the document content:\n\n")
	b.WriteString(text)
	return b.String()
}
