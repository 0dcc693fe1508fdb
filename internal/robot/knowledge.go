package robot

// Topic is one subject with its facts in learning order.
type Topic struct {
	Topic string   `json:"topic"`
	Facts []string `json:"facts"`
}

// KnowledgeBase maps subject names to facts, preserving the order in which
// subjects were first learned. Duplicate facts are kept.
type KnowledgeBase struct {
	order []string
	facts map[string][]string
}

// Add appends a fact to a subject, creating the subject if needed.
func (kb *KnowledgeBase) Add(subject, fact string) {
	if kb.facts == nil {
		kb.facts = make(map[string][]string)
	}
	if _, ok := kb.facts[subject]; !ok {
		kb.order = append(kb.order, subject)
	}
	kb.facts[subject] = append(kb.facts[subject], fact)
}

// Contains reports whether the exact fact is recorded for the subject.
func (kb *KnowledgeBase) Contains(subject, fact string) bool {
	for _, f := range kb.facts[subject] {
		if f == fact {
			return true
		}
	}
	return false
}

// Len returns the number of subjects.
func (kb *KnowledgeBase) Len() int {
	return len(kb.order)
}

// Topics returns a snapshot of the knowledge base in subject order.
func (kb *KnowledgeBase) Topics() []Topic {
	out := make([]Topic, 0, len(kb.order))
	for _, s := range kb.order {
		facts := make([]string, len(kb.facts[s]))
		copy(facts, kb.facts[s])
		out = append(out, Topic{Topic: s, Facts: facts})
	}
	return out
}
