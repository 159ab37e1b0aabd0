// Package flow drives the post submission conversation: a per-chat state
// machine that collects draft fields, asks the author to check them and
// waits for an admin to confirm.
//
// Commands the flow does not accept in the current state make the
// handler return false so the caller can answer them itself.
package flow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"post-bot/internal/draft"
	"post-bot/internal/roster"
	"strings"
	"sync"
	"time"
)

type Message struct {
	ChatID    int64
	MessageID int
	UserID    int64
	FirstName string
	Text      string
}

// Reply is an outgoing text. ReplyTo of 0 sends a plain chat message.
type Reply struct {
	ChatID  int64
	ReplyTo int
	Text    string
}

type Sender interface {
	Send(ctx context.Context, reply Reply) error
}

// Publisher persists a post once an admin has confirmed it.
type Publisher interface {
	SavePost(ctx context.Context, post *draft.Post) error
}

type Localizer interface {
	Format(lang, key string, args ...any) string
}

type Options struct {
	Language         string
	DeveloperContact string
	Now              func() time.Time
}

type session struct {
	state    State
	authorID int64
}

type Flow struct {
	buffer    draft.Buffer
	roster    roster.Roster
	publisher Publisher
	sender    Sender
	localizer Localizer
	opts      Options

	sessions   map[int64]*session
	stateMutex sync.Mutex
}

func New(buffer draft.Buffer, admins roster.Roster, publisher Publisher, sender Sender, localizer Localizer, opts Options) *Flow {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Flow{
		buffer:    buffer,
		roster:    admins,
		publisher: publisher,
		sender:    sender,
		localizer: localizer,
		opts:      opts,
		sessions:  make(map[int64]*session),
	}
}

// Start opens a new draft for the chat. It declines when the chat already
// has one in progress.
func (f *Flow) Start(ctx context.Context, m Message) (bool, error) {
	if _, ok := f.getSession(m.ChatID); ok {
		return false, nil
	}
	if err := f.buffer.Clear(m.ChatID); err != nil {
		return true, f.failSave(ctx, m, fmt.Errorf("could not clear draft before new post: %w", err))
	}
	f.setSession(m.ChatID, &session{state: StatePostName, authorID: m.UserID})
	log.Printf("%s is creating a new post in chat %d...", m.FirstName, m.ChatID)
	return true, f.reply(ctx, m, "new_post_started")
}

// HandleText feeds a non-command message into the chat's session. Text in
// a chat without a session, or while an admin confirmation is pending, is
// not handled.
func (f *Flow) HandleText(ctx context.Context, m Message) (bool, error) {
	text := strings.TrimSpace(m.Text)
	if text == "" {
		return false, nil
	}
	sess, ok := f.getSession(m.ChatID)
	if !ok {
		return false, nil
	}

	if step, ok := fieldSteps[sess.state]; ok {
		if err := f.buffer.Append(m.ChatID, text); err != nil {
			return true, f.failAppend(ctx, m, fmt.Errorf("could not store %s: %w", sess.state, err))
		}
		log.Printf("Chat %d: accepted %s %q", m.ChatID, sess.state, preview(text))
		f.setState(m.ChatID, step.next)
		if step.echoesInput {
			return true, f.reply(ctx, m, step.replyKey, text)
		}
		return true, f.reply(ctx, m, step.replyKey)
	}

	switch sess.state {
	case StateAddressAdd:
		return true, f.handleAddress(ctx, m, text)
	case StateConfirm:
		return true, f.handleConfirmation(ctx, m, text)
	}
	return false, nil
}

func (f *Flow) handleAddress(ctx context.Context, m Message, address string) error {
	if !isOneOf(address, stopWords) {
		if err := f.buffer.Append(m.ChatID, address); err != nil {
			return f.failAppend(ctx, m, fmt.Errorf("could not store address: %w", err))
		}
		log.Printf("Chat %d: added new address %q", m.ChatID, address)
		return f.reply(ctx, m, "address_accepted", address)
	}

	log.Printf("Chat %d: stopped adding addresses", m.ChatID)
	contents, err := f.buffer.ReadAll(m.ChatID)
	if err != nil {
		return f.failSave(ctx, m, fmt.Errorf("could not read draft: %w", err))
	}
	if contents != "" {
		if err := f.sender.Send(ctx, Reply{ChatID: m.ChatID, Text: contents}); err != nil {
			return fmt.Errorf("could not send draft read-back: %w", err)
		}
	}
	f.setState(m.ChatID, StateConfirm)
	return f.reply(ctx, m, "confirm_prompt")
}

func (f *Flow) handleConfirmation(ctx context.Context, m Message, answer string) error {
	switch {
	case isOneOf(answer, yesWords):
		log.Printf("Chat %d: author confirmed new post", m.ChatID)
		f.setState(m.ChatID, StateWaitingForConfirm)
		return f.reply(ctx, m, "awaiting_admin")
	case isOneOf(answer, noWords):
		log.Printf("Chat %d: author rejected the draft", m.ChatID)
		f.endSession(m.ChatID)
		return f.reply(ctx, m, "editing_unsupported")
	default:
		return f.reply(ctx, m, "confirm_retry")
	}
}

// Cancel drops the chat's session and its draft from any state.
func (f *Flow) Cancel(ctx context.Context, m Message) (bool, error) {
	if _, ok := f.getSession(m.ChatID); !ok {
		return false, nil
	}
	log.Printf("User %s canceled the conversation in chat %d.", m.FirstName, m.ChatID)
	f.endSession(m.ChatID)
	return true, f.reply(ctx, m, "post_cancelled")
}

// Confirm finalizes a draft that is waiting for an admin. Non-admins are
// turned away and the draft keeps waiting.
func (f *Flow) Confirm(ctx context.Context, m Message) (bool, error) {
	sess, ok := f.getSession(m.ChatID)
	if !ok || sess.state != StateWaitingForConfirm {
		return false, nil
	}
	if !f.roster.IsAdmin(m.UserID) {
		log.Printf("User id %d not in admin list", m.UserID)
		return true, f.reply(ctx, m, "not_admin", m.FirstName, f.opts.DeveloperContact)
	}

	fields, err := f.buffer.Fields(m.ChatID)
	if err != nil {
		return true, f.failSave(ctx, m, fmt.Errorf("could not read draft: %w", err))
	}
	post, err := draft.NewPost(m.ChatID, fields)
	if err != nil {
		return true, f.failSave(ctx, m, err)
	}
	post.AuthorID = sess.authorID
	post.ConfirmedBy = m.UserID
	post.ConfirmedAt = f.opts.Now()
	if err := f.publisher.SavePost(ctx, post); err != nil {
		return true, f.failSave(ctx, m, fmt.Errorf("could not save post: %w", err))
	}

	log.Printf("Post %s confirmed by %d in chat %d", post.ID, m.UserID, m.ChatID)
	f.endSession(m.ChatID)
	return true, f.reply(ctx, m, "admin_confirmed", m.FirstName)
}

// State reports the chat's current state, if it has a session.
func (f *Flow) State(chatID int64) (State, bool) {
	sess, ok := f.getSession(chatID)
	if !ok {
		return 0, false
	}
	return sess.state, true
}

func (f *Flow) ActiveSessions() int {
	f.stateMutex.Lock()
	defer f.stateMutex.Unlock()
	return len(f.sessions)
}

func (f *Flow) SessionsByState() map[State]int {
	f.stateMutex.Lock()
	defer f.stateMutex.Unlock()
	counts := make(map[State]int)
	for _, sess := range f.sessions {
		counts[sess.state]++
	}
	return counts
}

func (f *Flow) getSession(chatID int64) (session, bool) {
	f.stateMutex.Lock()
	defer f.stateMutex.Unlock()
	sess, ok := f.sessions[chatID]
	if !ok {
		return session{}, false
	}
	return *sess, true
}

func (f *Flow) setSession(chatID int64, sess *session) {
	f.stateMutex.Lock()
	defer f.stateMutex.Unlock()
	f.sessions[chatID] = sess
}

func (f *Flow) setState(chatID int64, state State) {
	f.stateMutex.Lock()
	defer f.stateMutex.Unlock()
	if sess, ok := f.sessions[chatID]; ok {
		sess.state = state
	}
}

// endSession removes the session and clears its draft.
func (f *Flow) endSession(chatID int64) {
	f.stateMutex.Lock()
	delete(f.sessions, chatID)
	f.stateMutex.Unlock()
	if err := f.buffer.Clear(chatID); err != nil {
		log.Printf("Failed to clear draft for chat %d: %v", chatID, err)
	}
}

func (f *Flow) reply(ctx context.Context, m Message, key string, args ...any) error {
	text := f.localizer.Format(f.opts.Language, key, args...)
	return f.sender.Send(ctx, Reply{ChatID: m.ChatID, ReplyTo: m.MessageID, Text: text})
}

// failSave tells the user the step did not go through and returns cause.
func (f *Flow) failSave(ctx context.Context, m Message, cause error) error {
	if err := f.reply(ctx, m, "save_failed"); err != nil {
		log.Printf("Failed to send save failure notice to chat %d: %v", m.ChatID, err)
	}
	return cause
}

// failAppend asks for the field again when its text cannot be stored as is.
func (f *Flow) failAppend(ctx context.Context, m Message, cause error) error {
	if errors.Is(cause, draft.ErrSeparatorInField) {
		log.Printf("Chat %d: rejected input holding the separator line", m.ChatID)
		return f.reply(ctx, m, "separator_in_field")
	}
	return f.failSave(ctx, m, cause)
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) > 10 {
		return string(runes[:10]) + "..."
	}
	return text
}
