package dialogue

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/p-n-ai/studybot/internal/chat"
	"github.com/p-n-ai/studybot/internal/faq"
	"github.com/p-n-ai/studybot/internal/history"
	"github.com/p-n-ai/studybot/internal/nlp"
)

// Route names the branch that answered a turn.
type Route string

const (
	RouteExit       Route = "exit"
	RouteProgress   Route = "progress"
	RouteHelp       Route = "help"
	RouteClarify    Route = "clarify"
	RouteDefinition Route = "definition"
	RouteDetail     Route = "detail"
	RouteQuiz       Route = "quiz"
	RouteSection    Route = "section"
	RouteDifference Route = "difference"
	RouteFAQ        Route = "faq"
	RouteFallback   Route = "fallback"
)

// Fixed replies.
const (
	greeting       = "Hi! I'm your DSA study assistant."
	studyPrompt    = "What do you want to study today? (e.g., bst, queue, linked_list, graphs, binary_tree, sorting...)"
	farewell       = "Bye! Keep practicing."
	followUp       = "Do you want more detail, pseudocode, example, or a quiz?"
	noSection      = "I couldn't find a specific section. Here's a summary:"
	noDefinition   = "(no short definition)"
	shortDiff      = "Short difference:"
	needTwoTopics  = "Please mention two topics to compare (e.g., 'array and linked list')."
	fallback       = "Sorry, I couldn't handle that request yet. Try 'explain <topic>' or 'quiz <topic>'."
	saveSessionAsk = "Would you like to save your session progress? (yes/no): "
	usernameAsk    = "Enter your username: "
	progressAsk    = "Enter your username to view progress: "
	sessionSaved   = "Session progress saved!"
)

var helpLines = []string{
	"Hmm... I didn't quite understand. Try something like:",
	"  teach me bst",
	"  quiz me on queues",
	"  give example of stack",
	"  difference between array and linked list",
}

var clarifications = map[nlp.Intent]string{
	nlp.IntentLearn:      "Sure, which topic? (bst, queue, linked_list, array, binary_tree, sorting...)",
	nlp.IntentDefinition: "Sure, which topic? (bst, queue, linked_list, array, binary_tree, sorting...)",
	nlp.IntentDetail:     "Which topic would you like more detail on?",
	nlp.IntentQuiz:       "Which topic should I quiz you on?",
	nlp.IntentExample:    "Which topic are you asking about?",
	nlp.IntentPseudocode: "Which topic are you asking about?",
	nlp.IntentDifference: "Which two topics do you want to compare? e.g. 'difference between array and linked list'",
}

// exitWords end the conversation when they make up the whole line.
var exitWords = []string{"exit", "quit", "bye", "stop", "end", "end session"}

// ContentStore serves topic text.
type ContentStore interface {
	// Content returns a topic's full text or a placeholder.
	Content(id string) string
	// Section returns a labelled section of a topic, or "".
	Section(id, label string) string
}

// QuizRunner runs quizzes and shows stored progress.
type QuizRunner interface {
	RunQuiz(ctx context.Context, topic string, in chat.Input, out chat.Presenter) error
	DisplayProgress(ctx context.Context, username string, out chat.Presenter) error
}

// Config holds the collaborators of a Dispatcher.
type Config struct {
	Lexicon *nlp.Lexicon
	Content ContentStore
	Quiz    QuizRunner
	History history.Store
	// Events receives one event per turn. Nil disables event logging.
	Events EventLogger
	Logger *slog.Logger
}

// Dispatcher routes conversation turns. It holds no per-session state, so
// one Dispatcher can serve many sessions at once.
type Dispatcher struct {
	lex     *nlp.Lexicon
	content ContentStore
	quiz    QuizRunner
	history history.Store
	events  EventLogger
	logger  *slog.Logger
}

// New creates a dispatcher. A nil Lexicon uses nlp.Default and a nil Logger
// uses slog.Default.
func New(cfg Config) (*Dispatcher, error) {
	if cfg.Content == nil {
		return nil, fmt.Errorf("content store is required")
	}
	if cfg.Quiz == nil {
		return nil, fmt.Errorf("quiz runner is required")
	}
	if cfg.History == nil {
		return nil, fmt.Errorf("history store is required")
	}
	if cfg.Lexicon == nil {
		cfg.Lexicon = nlp.Default()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Events == nil {
		cfg.Events = NopEventLogger{}
	}
	return &Dispatcher{
		lex:     cfg.Lexicon,
		content: cfg.Content,
		quiz:    cfg.Quiz,
		history: cfg.History,
		events:  cfg.Events,
		logger:  cfg.Logger,
	}, nil
}

// Conversation binds a session to its input and output.
type Conversation struct {
	Session *Session
	In      chat.Input
	Out     chat.Presenter
}

// Outcome describes how a turn was handled.
type Outcome struct {
	Intent nlp.Intent
	Topic  string
	Route  Route
	// Done is set when the conversation has ended.
	Done bool
}

// Run greets the user and handles turns until the user exits, the input is
// exhausted, or ctx is cancelled. Exhausted input ends the conversation
// without prompting.
func (d *Dispatcher) Run(ctx context.Context, conv Conversation) error {
	log := d.logger.With("session_id", conv.Session.ID())
	log.Info("session started")

	if err := d.Greet(ctx, conv); err != nil {
		return err
	}

	for {
		line, err := conv.In.ReadLine(ctx)
		if errors.Is(err, io.EOF) {
			log.Info("input closed")
			return d.Shutdown(ctx, conv, false)
		}
		if err != nil {
			if ctx.Err() == nil {
				if serr := d.Shutdown(ctx, conv, false); serr != nil {
					log.Warn("shutdown after read failure failed", "error", serr)
				}
			}
			return fmt.Errorf("reading input: %w", err)
		}

		out, err := d.Turn(ctx, conv, line)
		if errors.Is(err, io.EOF) {
			log.Info("input closed mid-turn")
			return d.Shutdown(ctx, conv, false)
		}
		if err != nil {
			return err
		}
		if out.Done {
			log.Info("session ended", "topics", len(conv.Session.Topics()))
			return nil
		}
	}
}

// Greet writes the opening lines.
func (d *Dispatcher) Greet(ctx context.Context, conv Conversation) error {
	return say(ctx, conv.Out, greeting, studyPrompt)
}

// Turn handles one input line.
func (d *Dispatcher) Turn(ctx context.Context, conv Conversation, line string) (Outcome, error) {
	out, err := d.turn(ctx, conv, line)
	d.record(ctx, conv.Session, out)
	return out, err
}

func (d *Dispatcher) turn(ctx context.Context, conv Conversation, line string) (Outcome, error) {
	sess := conv.Session
	c := d.lex.Classify(line)
	out := Outcome{Intent: c.Intent, Topic: c.Topic}

	d.logger.Debug("turn classified",
		"session_id", sess.ID(),
		"intent", string(c.Intent),
		"topics", c.Spec(),
		"topic", c.Topic,
	)

	if c.Intent == nlp.IntentExit || isExitLine(c.Normalized) {
		out.Intent, out.Route, out.Done = nlp.IntentExit, RouteExit, true
		return out, d.Shutdown(ctx, conv, true)
	}

	if raw := strings.ToLower(line); strings.Contains(raw, "progress") || strings.Contains(raw, "show progress") {
		out.Route = RouteProgress
		return out, d.showProgress(ctx, conv)
	}

	// Context merge: a turn without a topic continues the current one.
	if out.Topic == nlp.Unknown && sess.Depth() > 0 {
		out.Topic = sess.Current()
		if out.Intent == nlp.IntentUnknown || out.Intent == nlp.IntentDetail {
			out.Intent = nlp.IntentDetail
		}
	}

	if out.Intent == nlp.IntentUnknown && out.Topic == nlp.Unknown {
		out.Route = RouteHelp
		return out, say(ctx, conv.Out, helpLines...)
	}

	sess.PushIfNew(out.Topic)

	var err error
	out.Route, err = d.route(ctx, conv, c, out.Intent, out.Topic)
	d.logger.Debug("turn routed",
		"session_id", sess.ID(),
		"intent", string(out.Intent),
		"topic", out.Topic,
		"route", string(out.Route),
	)
	return out, err
}

// record logs the turn event. Failures are logged and otherwise ignored.
func (d *Dispatcher) record(ctx context.Context, sess *Session, out Outcome) {
	ev := Event{
		SessionID: sess.ID(),
		Intent:    string(out.Intent),
		Topic:     out.Topic,
		Route:     out.Route,
		Data:      map[string]any{"depth": sess.Depth(), "done": out.Done},
	}
	if err := d.events.LogEvent(ctx, ev); err != nil {
		d.logger.Warn("logging turn event failed", "session_id", sess.ID(), "error", err)
	}
}

func (d *Dispatcher) route(ctx context.Context, conv Conversation, c nlp.Classification, intent nlp.Intent, topic string) (Route, error) {
	if q, ok := clarifications[intent]; ok && topic == nlp.Unknown {
		return RouteClarify, say(ctx, conv.Out, q)
	}

	switch intent {
	case nlp.IntentLearn, nlp.IntentDefinition:
		return RouteDefinition, d.define(ctx, conv.Out, topic)
	case nlp.IntentDetail:
		return RouteDetail, conv.Out.Say(ctx, d.content.Content(topic))
	case nlp.IntentQuiz:
		return RouteQuiz, d.quiz.RunQuiz(ctx, topic, conv.In, conv.Out)
	case nlp.IntentExample, nlp.IntentPseudocode:
		return RouteSection, d.section(ctx, conv.Out, intent, topic, c.Normalized)
	case nlp.IntentDifference:
		return RouteDifference, d.difference(ctx, conv.Out, c)
	}

	if topic != nlp.Unknown {
		if block := d.content.Section(topic, "FAQ"); block != "" {
			if answer, ok := faq.Match(block, c.Normalized); ok {
				return RouteFAQ, conv.Out.Say(ctx, answer)
			}
		}
	}
	return RouteFallback, conv.Out.Say(ctx, fallback)
}

// define shows the first line of a topic's definition and offers follow-ups.
func (d *Dispatcher) define(ctx context.Context, out chat.Presenter, topic string) error {
	def := d.summary(topic)
	first := firstLine(def)
	if first == "" {
		first = def
	}
	return say(ctx, out, first, followUp)
}

func (d *Dispatcher) section(ctx context.Context, out chat.Presenter, intent nlp.Intent, topic, utterance string) error {
	label := "example"
	if intent == nlp.IntentPseudocode {
		label = "pseudocode"
	}

	sec := d.content.Section(topic, label)
	if sec == "" {
		return say(ctx, out, noSection, d.summary(topic))
	}

	if intent == nlp.IntentPseudocode {
		if key := pseudocodeKey(utterance); key != "" {
			if block, ok := findPseudocode(d.content.Content(topic), key); ok {
				return out.Say(ctx, block)
			}
		}
	}
	return out.Say(ctx, sec)
}

func (d *Dispatcher) difference(ctx context.Context, out chat.Presenter, c nlp.Classification) error {
	t1, t2, ok := d.comparePair(c)
	if !ok {
		return out.Say(ctx, needTwoTopics)
	}

	lines := make([]string, 0, 4)
	for _, t := range []string{t1, t2} {
		first := firstLine(d.summary(t))
		if first == "" {
			first = noDefinition
		}
		lines = append(lines, t+": "+first)
	}
	lines = append(lines, shortDiff)
	if text, ok := Compare(t1, t2); ok {
		lines = append(lines, text)
	} else {
		lines = append(lines, noComparison)
	}
	return say(ctx, out, lines...)
}

// comparePair finds the two topics of a comparison. The utterance is split
// on " and " (or else " vs ") and each half classified on its own; failing
// that, the two topics found in the whole utterance are used.
func (d *Dispatcher) comparePair(c nlp.Classification) (string, string, bool) {
	sep := " and "
	if !strings.Contains(c.Normalized, sep) {
		sep = " vs "
	}
	if left, right, ok := strings.Cut(c.Normalized, sep); ok {
		l := d.lex.Classify(left)
		r := d.lex.Classify(right)
		if l.Topic != nlp.Unknown && r.Topic != nlp.Unknown {
			return l.Topic, r.Topic, true
		}
	}

	if len(c.Topics) == 2 {
		return c.Topics[0], c.Topics[1], true
	}
	return "", "", false
}

// summary is the definition section of a topic, or its full content.
func (d *Dispatcher) summary(topic string) string {
	if def := d.content.Section(topic, "definition"); def != "" {
		return def
	}
	return d.content.Content(topic)
}

func (d *Dispatcher) showProgress(ctx context.Context, conv Conversation) error {
	username, err := chat.Ask(ctx, conv.In, conv.Out, progressAsk)
	if err != nil {
		return err
	}
	return d.quiz.DisplayProgress(ctx, username, conv.Out)
}

// Shutdown ends a conversation: it offers to save the session topics when
// interactive, says goodbye, and clears the session.
func (d *Dispatcher) Shutdown(ctx context.Context, conv Conversation, interactive bool) error {
	sess := conv.Session
	defer sess.Clear()

	if interactive && len(sess.Topics()) > 0 {
		err := d.offerSave(ctx, conv)
		if errors.Is(err, io.EOF) {
			d.logger.Info("input closed during save prompt", "session_id", sess.ID())
		} else if err != nil {
			return err
		}
	}
	return conv.Out.Say(ctx, farewell)
}

func (d *Dispatcher) offerSave(ctx context.Context, conv Conversation) error {
	reply, err := chat.Ask(ctx, conv.In, conv.Out, saveSessionAsk)
	if err != nil {
		return err
	}
	if !chat.Affirmative(reply) {
		return nil
	}

	username, err := chat.Ask(ctx, conv.In, conv.Out, usernameAsk)
	if err != nil {
		return err
	}

	rec := history.SessionRecord{Username: username, Topics: conv.Session.Topics()}
	if err := d.history.AppendSession(ctx, rec); err != nil {
		d.logger.Warn("saving session failed", "session_id", conv.Session.ID(), "error", err)
		return conv.Out.Say(ctx, "Unable to save session progress: "+err.Error())
	}
	d.logger.Info("session saved", "session_id", conv.Session.ID(), "topics", len(rec.Topics))
	return conv.Out.Say(ctx, sessionSaved)
}

func isExitLine(normalized string) bool {
	for _, w := range exitWords {
		if normalized == w {
			return true
		}
	}
	return false
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSuffix(line, "\r"); line != "" {
			return line
		}
	}
	return ""
}

func say(ctx context.Context, out chat.Presenter, lines ...string) error {
	for _, l := range lines {
		if err := out.Say(ctx, l); err != nil {
			return err
		}
	}
	return nil
}
