package domain

import "strings"

// Kind names one of the six record kinds
type Kind string

const (
	KindLead        Kind = "lead"
	KindApplication Kind = "application"
	KindInterview   Kind = "interview"
	KindContact     Kind = "contact"
	KindTask        Kind = "task"
	KindOffer       Kind = "offer"
)

// Kinds lists every record kind in document order
var Kinds = []Kind{KindLead, KindApplication, KindInterview, KindContact, KindTask, KindOffer}

// Prefix is the id prefix for records of kind k
func (k Kind) Prefix() string {
	if k == KindApplication {
		return "app"
	}
	return string(k)
}

// Collection is the document field holding records of kind k
func (k Kind) Collection() string {
	return string(k) + "s"
}

// ParseKind accepts a kind, its id prefix or its collection name
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if s == string(k) || s == k.Prefix() || s == k.Collection() {
			return k, true
		}
	}
	return "", false
}

// Ref is a weak reference to a record: an id plus the kind it is expected
// to have. It is resolved by lookup, never dereferenced automatically, and
// a missing target is not an error.
type Ref struct {
	Kind Kind   `json:"kind"`
	ID   string `json:"id"`
}

// ParseRef infers the kind of id from its prefix
func ParseRef(id string) (Ref, bool) {
	prefix, _, ok := strings.Cut(id, "-")
	if !ok {
		return Ref{}, false
	}
	for _, k := range Kinds {
		if k.Prefix() == prefix {
			return Ref{Kind: k, ID: id}, true
		}
	}
	return Ref{}, false
}
