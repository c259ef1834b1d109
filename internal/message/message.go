// Package message records the parsed fields of a host command for tracing.
package message

import (
	"fmt"
	"strings"
)

// Field is one parsed request field. Secret values are never rendered.
type Field struct {
	Name   string
	Value  string
	Secret bool
}

// Message holds the fields of one command in parse order.
type Message struct {
	cmdCode string
	fields  []Field
}

// New returns an empty message for cmdCode.
func New(cmdCode string) *Message {
	return &Message{cmdCode: cmdCode}
}

// Set records a field value.
func (m *Message) Set(name, value string) {
	m.fields = append(m.fields, Field{Name: name, Value: value})
}

// SetSecret records that a secret field was present and its length.
func (m *Message) SetSecret(name string, length int) {
	m.fields = append(m.fields, Field{Name: name, Value: fmt.Sprintf("<%d>", length), Secret: true})
}

// Get returns the first value recorded for name.
func (m *Message) Get(name string) (string, bool) {
	for _, f := range m.fields {
		if f.Name == name {
			return f.Value, true
		}
	}

	return "", false
}

// Fields returns a copy of the recorded fields.
func (m *Message) Fields() []Field {
	return append([]Field(nil), m.fields...)
}

// CommandCode returns the command code.
func (m *Message) CommandCode() string {
	return m.cmdCode
}

// Trace renders the message on one line: "BU algorithm=T digits=06 key=<16>".
func (m *Message) Trace() string {
	var b strings.Builder
	b.WriteString(m.cmdCode)
	for _, f := range m.fields {
		fmt.Fprintf(&b, " %s=%s", strings.ReplaceAll(f.Name, " ", "_"), f.Value)
	}

	return b.String()
}
