package dispatch

import (
	"fmt"
	"regexp"
	"strings"
)

type Operation string

const (
	OpNone   Operation = ""
	OpSelect Operation = "select"
	OpInsert Operation = "insert"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

func ParseOperation(s string) (Operation, error) {
	switch op := Operation(strings.ToLower(strings.TrimSpace(s))); op {
	case OpSelect, OpInsert, OpUpdate, OpDelete:
		return op, nil
	}
	return OpNone, fmt.Errorf("%w: %q", ErrUnknownOperation, s)
}

// Source says where an operation's records come from.
type Source string

const (
	SourceNone     Source = "none"
	SourceDocument Source = "json-document"
	SourceUpload   Source = "uploaded-file"
	SourceText     Source = "free-text-extraction"
)

type Intent struct {
	Operation Operation
	Source    Source
	// Rule is the name of the rule that matched, for logs.
	Rule string
}

// Actionable reports whether the message asked for a data operation.
func (i Intent) Actionable() bool {
	return i.Operation != OpNone
}

// ClassifyContext is the session state classification depends on.
type ClassifyContext struct {
	HasTabularUpload bool
}

type rule struct {
	name   string
	match  func(lower string) bool
	op     Operation
	source func(lower string, cc ClassifyContext) Source
}

var (
	useJSONPattern    = regexp.MustCompile(`\b(?:use|insert|create|add|store|save)\s+(?:json|data|records|items|the data|this data)\b`)
	updateJSONPattern = regexp.MustCompile(`\b(?:update|modify|change)\s+(?:from|using)\s+(?:json|data)\b`)
	deleteJSONPattern = regexp.MustCompile(`\b(?:delete|remove)\s+(?:from|using)\s+(?:json|data)\b`)

	storePattern    = regexp.MustCompile(`\b(?:store|save|add|insert|create|put)\b\s*\S`)
	retrievePattern = regexp.MustCompile(`\b(?:retrieve|get|show|fetch|display|find)\b\s*\S`)
	deletePattern   = regexp.MustCompile(`\b(?:delete|remove|drop|erase)\b\s*\S`)
	updatePattern   = regexp.MustCompile(`\b(?:update|modify|change|edit)\b\s*\S`)
	createPattern   = regexp.MustCompile(`\bcreate\b`)
)

// rules is evaluated top to bottom and the first match wins.
var rules = []rule{
	{
		name: "json-insert",
		match: func(s string) bool {
			return useJSONPattern.MatchString(s) || containsAny(s,
				"insert the json", "create from json", "add the data", "store the json")
		},
		op:     OpInsert,
		source: fixedSource(SourceDocument),
	},
	{
		name: "json-update",
		match: func(s string) bool {
			return updateJSONPattern.MatchString(s) || containsAny(s, "update from json", "modify using data")
		},
		op:     OpUpdate,
		source: fixedSource(SourceDocument),
	},
	{
		name: "json-delete",
		match: func(s string) bool {
			return deleteJSONPattern.MatchString(s) || containsAny(s, "delete from json", "remove using data")
		},
		op:     OpDelete,
		source: fixedSource(SourceDocument),
	},
	{
		name: "store",
		match: func(s string) bool {
			return storePattern.MatchString(s) || createPattern.MatchString(s) ||
				containsAny(s, "new invoice", "create invoice")
		},
		op:     OpInsert,
		source: storeSource,
	},
	{
		name: "retrieve",
		match: func(s string) bool {
			return retrievePattern.MatchString(s) || containsAny(s, "show me", "get my", "display my")
		},
		op:     OpSelect,
		source: fixedSource(SourceNone),
	},
	{
		name: "delete",
		match: func(s string) bool {
			return deletePattern.MatchString(s) || containsAny(s, "delete this", "remove this")
		},
		op:     OpDelete,
		source: fixedSource(SourceText),
	},
	{
		name: "update",
		match: func(s string) bool {
			return updatePattern.MatchString(s) || containsAny(s, "update this", "modify this")
		},
		op:     OpUpdate,
		source: fixedSource(SourceText),
	},
}

// Classify decides which operation a chat message asks for and where its
// payload comes from. A message matching no rule is a plain question.
func Classify(text string, cc ClassifyContext) Intent {
	lower := strings.ToLower(text)
	for _, r := range rules {
		if r.match(lower) {
			return Intent{Operation: r.op, Source: r.source(lower, cc), Rule: r.name}
		}
	}
	return Intent{Operation: OpNone, Source: SourceNone}
}

// storeSource prefers the uploaded table unless the message itself carries
// something to extract.
func storeSource(lower string, cc ClassifyContext) Source {
	if cc.HasTabularUpload && !hasExtractionCues(lower) {
		return SourceUpload
	}
	return SourceText
}

func fixedSource(s Source) func(string, ClassifyContext) Source {
	return func(string, ClassifyContext) Source { return s }
}

func hasExtractionCues(lower string) bool {
	if invoiceKeyword.MatchString(lower) {
		return true
	}
	_, ok := matchCategory(lower)
	return ok
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
