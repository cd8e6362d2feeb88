package classification

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// TopicMapping holds the mapping between numeric topic ids and product
// category labels. The mapping is not injective: several topic ids may
// carry the same label.
type TopicMapping struct {
	TopicToLabel map[string]string `json:"topic_to_label"`
}

// LoadTopicMapping loads the topic mapping from a JSON file. Keys must be
// stringified integers; anything else marks the artifact as corrupt.
func LoadTopicMapping(path string) (*TopicMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read topic mapping file: %w", err)
	}

	var mapping TopicMapping
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("failed to parse topic mapping JSON: %w", err)
	}

	for key := range mapping.TopicToLabel {
		if _, err := strconv.Atoi(key); err != nil {
			return nil, fmt.Errorf("topic mapping key %q is not an integer", key)
		}
	}

	return &mapping, nil
}

// TopicFor returns the topic id whose label equals the given label. When
// several ids share the label the smallest id wins, so repeated lookups
// stay stable regardless of map iteration order. The second return value
// is false when no id carries the label.
func (tm *TopicMapping) TopicFor(label string) (int, bool) {
	found := false
	best := 0
	for idStr, l := range tm.TopicToLabel {
		if l != label {
			continue
		}
		id, err := strconv.Atoi(idStr)
		if err != nil {
			continue
		}
		if !found || id < best {
			best = id
			found = true
		}
	}
	return best, found
}

// TopicCount returns the number of topic ids in the mapping.
func (tm *TopicMapping) TopicCount() int {
	return len(tm.TopicToLabel)
}

// KeywordTable holds per-label keyword lists used to explain review type
// predictions. Labels are matched case-insensitively; keywords keep the
// order and spelling they have in the artifact.
type KeywordTable struct {
	LabelToKeywords map[string][]string `json:"label_to_keywords"`
}

// LoadKeywordTable loads the keyword table from a JSON file. Label keys
// are lowercased on load so lookups are case-insensitive.
func LoadKeywordTable(path string) (*KeywordTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keyword table file: %w", err)
	}

	var table KeywordTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse keyword table JSON: %w", err)
	}

	normalized := make(map[string][]string, len(table.LabelToKeywords))
	for label, keywords := range table.LabelToKeywords {
		normalized[strings.ToLower(label)] = keywords
	}
	table.LabelToKeywords = normalized

	return &table, nil
}

// KeywordsFor returns the keyword list for a label, or nil when the label
// has no entry.
func (kt *KeywordTable) KeywordsFor(label string) []string {
	return kt.LabelToKeywords[strings.ToLower(label)]
}

// Match returns the keywords from the label's list that occur verbatim as
// substrings of the lowercased text, preserving keyword-list order. Only
// the text is case-folded: a keyword carrying an uppercase letter never
// matches, and an empty keyword matches any text. An unknown label yields
// nil, never an error.
func (kt *KeywordTable) Match(text, label string) []string {
	keywords := kt.KeywordsFor(label)
	if len(keywords) == 0 {
		return nil
	}

	lower := strings.ToLower(text)
	var matched []string
	for _, keyword := range keywords {
		if strings.Contains(lower, keyword) {
			matched = append(matched, keyword)
		}
	}
	return matched
}

// LabelCount returns the number of labels in the table.
func (kt *KeywordTable) LabelCount() int {
	return len(kt.LabelToKeywords)
}
