package curriculum

// Placeholder is returned for a topic with no content file.
const Placeholder = "[No content available for this topic yet.]"

// sectionFallbacks are tried, in order, when the requested heading is absent.
var sectionFallbacks = []string{"definition", "introduction", "intro", "representation", "types", "overview"}

const (
	topicsDir      = "topics"
	topicExt       = ".txt"
	quizBankSuffix = "_quiz.txt"
)

// Topic is one study topic loaded from <root>/topics/<id>.txt.
type Topic struct {
	ID      string
	Path    string
	Content string
}

// QuizBank is the raw question bank for a topic, <root>/topics/<id>_quiz.txt.
type QuizBank struct {
	TopicID string
	Path    string
	Text    string
}
