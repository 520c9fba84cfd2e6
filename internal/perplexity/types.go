package perplexity

import (
	"encoding/json"

	"github.com/geolens/geolens/internal/llm"
)

// Citation is one cited source of an answer. The provider emits either a bare
// URL string or a structured object, so decoding accepts both shapes.
type Citation struct {
	Text  string `json:"text,omitempty"`
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// UnmarshalJSON accepts both a bare URL string and a {text, url, title} object.
func (c *Citation) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		c.URL = raw
		return nil
	}

	type plain Citation
	var obj plain
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*c = Citation(obj)
	return nil
}

// Metadata echoes the query and the moment the answer was assembled.
type Metadata struct {
	Query     string `json:"query"`
	Timestamp string `json:"timestamp"`
}

// Answer is the normalized payload for one query.
type Answer struct {
	Query     string     `json:"query,omitempty"`
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
	Model     string     `json:"model,omitempty"`
	Usage     *llm.Usage `json:"usage,omitempty"`
	Metadata  Metadata   `json:"search_metadata"`
}

// Outcome is the settled result for one query in a batch: either a normalized
// answer or an error placeholder, never both.
type Outcome struct {
	Answer *Answer
	Err    string
}

// MarshalJSON renders a success as the answer payload and a failure as an
// error placeholder object.
func (o Outcome) MarshalJSON() ([]byte, error) {
	if o.Err != "" {
		return json.Marshal(map[string]string{"error": o.Err})
	}
	return json.Marshal(o.Answer)
}

// chatResponse is the provider wire shape this package consumes.
type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Citations []Citation `json:"citations"`
	Usage     *llm.Usage `json:"usage"`
}
