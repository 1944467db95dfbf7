package domain

// Comment is an append-only sub-record of a task. It carries no assigned id:
// its identity for deduplication is the (user, text, time) tuple, so two
// genuinely distinct comments with an identical triple are conflated. Clients
// compute the same key, which is why no surrogate id is introduced here.
type Comment struct {
	User string      `json:"user"`
	Text string      `json:"text"`
	Time string      `json:"time"`
	File *Attachment `json:"file,omitempty"`
}

type commentKey struct {
	user string
	text string
	time string
}

// DedupeComments collapses duplicate comments, keeping the first occurrence
// and preserving order. Nil or empty input yields an empty slice.
func DedupeComments(comments []Comment) []Comment {
	out := make([]Comment, 0, len(comments))
	seen := make(map[commentKey]struct{}, len(comments))
	for _, c := range comments {
		key := commentKey{user: c.User, text: c.Text, time: c.Time}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}
