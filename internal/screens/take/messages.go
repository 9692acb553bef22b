package take

import "time"

// tickMsg drives the per-question countdown.
type tickMsg time.Time

// advanceMsg fires once the post-answer delay of question index has passed.
type advanceMsg struct {
	index int
}
