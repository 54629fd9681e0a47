package nlp

import "strings"

// maxTopics is how many topics one utterance can carry (enough for a comparison).
const maxTopics = 2

// TopicSeparator joins the topics of a multi-topic spec.
const TopicSeparator = "|"

// Extraction is the raw result of running the keyword tables over one utterance.
type Extraction struct {
	Intent Intent
	// Topics holds up to two topic ids in table order.
	Topics []string
}

// Spec renders the topics as a topic spec: "unknown" or ids joined by "|".
func (p Extraction) Spec() string {
	if len(p.Topics) == 0 {
		return Unknown
	}
	return strings.Join(p.Topics, TopicSeparator)
}

// HasTopic reports whether at least one topic was found.
func (p Extraction) HasTopic() bool {
	return len(p.Topics) > 0
}

// Extract walks the intent table and the topic table over an already
// normalised utterance. Matching is plain substring containment, so
// "binary search tree" also triggers the phrases "binary search" and "tree";
// table order alone decides which label wins.
func (l *Lexicon) Extract(utterance string) Extraction {
	p := Extraction{Intent: IntentUnknown}

	for _, e := range l.Intents {
		if containsAny(utterance, e.Phrases) {
			p.Intent = Intent(e.Label)
			break
		}
	}

	for _, e := range l.Topics {
		if len(p.Topics) >= maxTopics {
			break
		}
		if containsAny(utterance, e.Phrases) && !contains(p.Topics, e.Label) {
			p.Topics = append(p.Topics, e.Label)
		}
	}

	// A bare topic name is a request for its definition.
	if p.Intent == IntentUnknown && len(p.Topics) > 0 {
		p.Intent = IntentDefinition
	}
	return p
}

// Classification is a fully resolved utterance.
type Classification struct {
	Extraction
	// Normalized is the utterance the tables were run against.
	Normalized string
	// Topic is the single topic chosen by Disambiguate, or Unknown.
	Topic string
}

// Classify normalises a raw line, extracts intent and topics, and collapses
// the topics to one.
func (l *Lexicon) Classify(raw string) Classification {
	norm := Normalize(raw)
	p := l.Extract(norm)
	return Classification{
		Extraction: p,
		Normalized: norm,
		Topic:      Disambiguate(p.Spec(), norm),
	}
}

func containsAny(s string, phrases []string) bool {
	for _, ph := range phrases {
		if strings.Contains(s, ph) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
