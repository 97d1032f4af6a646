package push

import "encoding/json"

// Payload is the notification content shown by the browser. It is built per
// triggering event, serialized as JSON for the push service, and never
// persisted.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
	Icon  string `json:"icon,omitempty"`
}

func (p Payload) Marshal() ([]byte, error) {
	return json.Marshal(p)
}
