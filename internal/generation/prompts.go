// Package generation builds the fixed prompts for the two text-generation calls
// of a cycle and sends them through an llm.Client.
package generation

import (
	"fmt"

	"github.com/fleveque/quote-service/internal/llm"
)

const (
	quoteSystemPrompt = "You are a knowledgeable assistant that generates meaningful quotes. " +
		"Never repeat a previously generated quote. " +
		"Each quote should be unique and original for the given theme and era."

	quoteUserTemplate = `Generate a %s from the %s era. The quote must be different from these previous quotes: %s
Format the response as:
Quote: [The quote]
Author: [Author's name]
Context: [2-3 sentences of context]`

	imageQuerySystemPrompt = "You are an assistant that generates image search queries based on quotes."

	imageQueryUserTemplate = "Create a specific image search query for a %s quote. " +
		"The query should be descriptive but avoid names. Format: only return the search query."
)

// QuoteMessages returns the two-message prompt asking for a labeled three-line quote.
// priorQuotes is embedded unmodified, however long it is.
func QuoteMessages(themeDescription, era, priorQuotes string) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: quoteSystemPrompt},
		{Role: llm.RoleUser, Content: fmt.Sprintf(quoteUserTemplate, themeDescription, era, priorQuotes)},
	}
}

// ImageQueryMessages returns the prompt asking for a terse, name-free search phrase.
func ImageQueryMessages(themeDescription string) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: imageQuerySystemPrompt},
		{Role: llm.RoleUser, Content: fmt.Sprintf(imageQueryUserTemplate, themeDescription)},
	}
}
