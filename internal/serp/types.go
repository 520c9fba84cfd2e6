package serp

import "encoding/json"

// AIOverview is Google's AI-generated overview panel. A partial overview
// carries a page token plus the provider link used to resolve the full
// content; resolved payloads returned by this package never expose either.
type AIOverview struct {
	TextBlocks []TextBlock `json:"text_blocks,omitempty"`
	Thumbnail  string      `json:"thumbnail,omitempty"`
	References []Reference `json:"references,omitempty"`
	Error      string      `json:"error,omitempty"`

	PageToken   string `json:"page_token,omitempty"`
	SerpapiLink string `json:"serpapi_link,omitempty"`
}

// TextBlock is one ordered content block of an AI overview. Type is one of
// "paragraph", "heading", or "list".
type TextBlock struct {
	Type                    string     `json:"type"`
	Snippet                 string     `json:"snippet,omitempty"`
	SnippetHighlightedWords []string   `json:"snippet_highlighted_words,omitempty"`
	List                    []ListItem `json:"list,omitempty"`
}

// ListItem is an entry of a list-type text block.
type ListItem struct {
	Title            string `json:"title,omitempty"`
	Snippet          string `json:"snippet,omitempty"`
	ReferenceIndexes []int  `json:"reference_indexes,omitempty"`
}

// Reference is a cited source of an AI overview.
type Reference struct {
	Title   string `json:"title,omitempty"`
	Link    string `json:"link,omitempty"`
	Snippet string `json:"snippet,omitempty"`
	Source  string `json:"source,omitempty"`
	Index   int    `json:"index"`
}

// AnswerBox is the provider's directly-extracted factual answer panel.
type AnswerBox struct {
	Result      string      `json:"result,omitempty"`
	Description string      `json:"description,omitempty"`
	Type        string      `json:"type,omitempty"`
	HoursLists  []HoursList `json:"hours_list,omitempty"`
}

// HoursList groups opening hours under a title.
type HoursList struct {
	Title string      `json:"title,omitempty"`
	Items []HoursItem `json:"items,omitempty"`
}

// HoursItem is a single day's opening hours.
type HoursItem struct {
	Day   string `json:"day,omitempty"`
	Hours string `json:"hours,omitempty"`
}

// Metadata echoes search statistics back to the caller.
type Metadata struct {
	TotalResults json.Number `json:"total_results,omitempty"`
	TimeTaken    json.Number `json:"time_taken,omitempty"`
	Query        string      `json:"query,omitempty"`
}

// Result is the normalized payload for one search query. AIOverview and
// AnswerBox are both optional; their absence is a valid empty result.
type Result struct {
	AIOverview *AIOverview `json:"ai_overview"`
	AnswerBox  *AnswerBox  `json:"answer_box"`
	Metadata   *Metadata   `json:"search_metadata,omitempty"`
}

// searchResponse is the provider wire shape this package consumes.
type searchResponse struct {
	AIOverview        *AIOverview `json:"ai_overview"`
	AnswerBox         *AnswerBox  `json:"answer_box"`
	SearchInformation *struct {
		TotalResults       json.Number `json:"total_results"`
		TimeTakenDisplayed json.Number `json:"time_taken_displayed"`
	} `json:"search_information"`
	SearchParameters *struct {
		Q string `json:"q"`
	} `json:"search_parameters"`
	Error string `json:"error"`
}
