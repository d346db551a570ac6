// Package joke defines the joke record shared by the fetcher, the favorites
// store and the manager.
package joke

// Joke mirrors one record returned by the joke API. The remote payload calls
// the category "type".
type Joke struct {
	ID        int     `json:"id"`
	Category  string  `json:"type"`
	Setup     *string `json:"setup,omitempty"`
	Punchline *string `json:"punchline,omitempty"`
}

// CombinedText joins setup and punchline with a blank line. It returns an
// empty string unless both parts are present.
func (j Joke) CombinedText() string {
	if j.Setup == nil || j.Punchline == nil {
		return ""
	}
	return *j.Setup + "\n\n" + *j.Punchline
}

// SetupText returns the setup or an empty string.
func (j Joke) SetupText() string {
	if j.Setup == nil {
		return ""
	}
	return *j.Setup
}

// PunchlineText returns the punchline or an empty string.
func (j Joke) PunchlineText() string {
	if j.Punchline == nil {
		return ""
	}
	return *j.Punchline
}

// Clone returns a copy that shares no pointers with j.
func (j Joke) Clone() Joke {
	dup := j
	if j.Setup != nil {
		dup.Setup = String(*j.Setup)
	}
	if j.Punchline != nil {
		dup.Punchline = String(*j.Punchline)
	}
	return dup
}

// String returns a pointer to s.
func String(s string) *string {
	return &s
}

// Example returns the pirate joke used for previews and seeding.
func Example() Joke {
	return Joke{
		ID:        310,
		Category:  "general",
		Setup:     String("Why couldn't the kid go to see the pirate movie?"),
		Punchline: String("Because it was rated arrrrr!"),
	}
}
