package enforcer

import (
	"sync"

	"github.com/kaptinlin/go-i18n"
)

// Message is a single error or warning attached to the Exception tree at a
// specific path. It carries enough structure (Code/Params) to be localized
// independently of its default English rendering.
type Message struct {
	Keyword string         `json:"keyword"`
	Code    string         `json:"code"`
	Text    string         `json:"message"`
	Params  map[string]any `json:"params,omitempty"`
}

func newMessage(keyword, code, text string, params map[string]any) *Message {
	return &Message{Keyword: keyword, Code: code, Text: text, Params: params}
}

func (m *Message) Error() string {
	return replaceTemplate(m.Text, m.Params)
}

// Localize renders the message through an i18n localizer keyed by Code,
// falling back to the default English rendering when localizer is nil. With
// a non-nil localizer every Code is passed to it as-is; a Code missing from
// the bundle does not fall back to the English rendering.
func (m *Message) Localize(localizer *i18n.Localizer) string {
	if localizer == nil {
		return m.Error()
	}
	return localizer.Get(m.Code, i18n.Vars(m.Params))
}

// Exception is the hierarchical error/warning collector described in §4.1.
// At(key) allocates the child collector and registers it under its parent
// on first use, whether or not a message is ever recorded there; children
// that carry no message are skipped by HasException and Report.
type Exception struct {
	mu       sync.Mutex
	key      string
	parent   *Exception
	messages []*Message
	children map[string]*Exception
}

// newException creates a root collector (no parent, empty key).
func newException() *Exception {
	return &Exception{}
}

// At returns the child collector scoped under key, creating and registering
// it on the first call for that key.
func (e *Exception) At(key string) *Exception {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.children == nil {
		e.children = make(map[string]*Exception)
	}
	child, ok := e.children[key]
	if !ok {
		child = &Exception{key: key, parent: e}
		e.children[key] = child
	}
	return child
}

// Message appends a pre-built Message at this level.
func (e *Exception) Message(msg *Message) {
	e.mu.Lock()
	e.messages = append(e.messages, msg)
	e.mu.Unlock()
}

// Add is a convenience that builds and appends a Message in one call.
func (e *Exception) Add(keyword, code, text string, params map[string]any) {
	e.Message(newMessage(keyword, code, text, params))
}

// Push attaches an already-built subtree as a child, merging its messages in
// if a collector already exists at that key.
func (e *Exception) Push(key string, child *Exception) {
	if child == nil {
		return
	}
	target := e.At(key)
	target.mu.Lock()
	target.messages = append(target.messages, child.messages...)
	target.mu.Unlock()
	for k, c := range child.children {
		target.Push(k, c)
	}
}

// HasException reports whether this collector or any descendant carries a message.
func (e *Exception) HasException() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.messages) > 0 {
		return true
	}
	for _, c := range e.children {
		if c.HasException() {
			return true
		}
	}
	return false
}

// Path reconstructs the fully qualified path from the chain of At calls, e.g.
// "/paths/users/get/responses/200/schema/properties/name".
func (e *Exception) Path() string {
	if e.parent == nil {
		return ""
	}
	return e.parent.Path() + "/" + e.key
}

// Report flattens the tree into path -> default-English-message-list, for
// callers that want a simple view without walking the tree themselves.
func (e *Exception) Report() map[string][]string {
	out := make(map[string][]string)
	e.collect(out, nil)
	return out
}

// ReportLocalized is Report, with every message rendered through localizer.
func (e *Exception) ReportLocalized(localizer *i18n.Localizer) map[string][]string {
	out := make(map[string][]string)
	e.collect(out, localizer)
	return out
}

func (e *Exception) collect(out map[string][]string, localizer *i18n.Localizer) {
	e.mu.Lock()
	msgs := make([]*Message, len(e.messages))
	copy(msgs, e.messages)
	children := make(map[string]*Exception, len(e.children))
	for k, v := range e.children {
		children[k] = v
	}
	e.mu.Unlock()

	if len(msgs) > 0 {
		path := e.Path()
		if path == "" {
			path = "/"
		}
		texts := make([]string, len(msgs))
		for i, m := range msgs {
			if localizer != nil {
				texts[i] = m.Localize(localizer)
			} else {
				texts[i] = m.Error()
			}
		}
		out[path] = append(out[path], texts...)
	}
	for _, c := range children {
		c.collect(out, localizer)
	}
}

// Result is the (value, exception, warning) triple every public Schema
// method returns, per §4.3 and §7.
type Result struct {
	Value     interface{}
	Exception *Exception
	Warning   *Exception
}

func newResult(value interface{}, exc, warn *Exception) *Result {
	return &Result{Value: value, Exception: exc, Warning: warn}
}

// Valid reports whether the result carries no exception.
func (r *Result) Valid() bool {
	return r.Exception == nil || !r.Exception.HasException()
}

// replaceTemplate substitutes "{name}" placeholders with fmt.Sprint(value);
// unresolved placeholders are left verbatim. Grounded on the teacher's
// utils.go "replace" helper, generalized to the Message.Params shape used
// throughout the Exception tree.
func replaceTemplate(template string, params map[string]any) string {
	return replaceBraces(template, params)
}
