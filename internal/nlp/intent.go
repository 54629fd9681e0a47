// Package nlp classifies study-assistant utterances into an intent and up to
// two topics using ordered keyword tables.
package nlp

// Intent is what the user wants done with a topic.
type Intent string

const (
	IntentLearn      Intent = "learn"
	IntentDefinition Intent = "definition"
	IntentDetail     Intent = "detail"
	IntentExample    Intent = "example"
	IntentPseudocode Intent = "pseudocode"
	IntentQuiz       Intent = "quiz"
	IntentDifference Intent = "difference"
	IntentProgress   Intent = "progress"
	IntentExit       Intent = "exit"
	IntentUnknown    Intent = "unknown"
)

// Unknown is the sentinel topic id used when no topic was recognised.
const Unknown = "unknown"

// Valid reports whether i is one of the known intents.
func (i Intent) Valid() bool {
	switch i {
	case IntentLearn, IntentDefinition, IntentDetail, IntentExample, IntentPseudocode,
		IntentQuiz, IntentDifference, IntentProgress, IntentExit, IntentUnknown:
		return true
	default:
		return false
	}
}

func (i Intent) String() string {
	return string(i)
}
