package mentor

import "encoding/json"

// Structured shapes the model is instructed to emit, one per operation.
// Parsing is lenient about missing fields (each gets a safe default) but a
// syntactically invalid response fails wholesale with MalformedOutputError;
// the operation then substitutes its full fallback payload.

type introPayload struct {
	Greeting           string   `json:"greeting"`
	Topics             []string `json:"topics"`
	ConcludingQuestion string   `json:"concluding_question"`
	Suggestions        []string `json:"suggestions"`
}

type chatPayload struct {
	Reply       string   `json:"reply"`
	Suggestions []string `json:"suggestions"`
}

func parseIntro(raw string) (introPayload, error) {
	var payload introPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return introPayload{}, &MalformedOutputError{Raw: raw, Err: err}
	}
	if payload.Greeting == "" {
		payload.Greeting = "Hello!"
	}
	if payload.ConcludingQuestion == "" {
		payload.ConcludingQuestion = "Shall we start?"
	}
	if payload.Topics == nil {
		payload.Topics = []string{}
	}
	if payload.Suggestions == nil {
		payload.Suggestions = []string{}
	}
	return payload, nil
}

func parseChatTurn(raw string) (chatPayload, error) {
	var payload chatPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return chatPayload{}, &MalformedOutputError{Raw: raw, Err: err}
	}
	if payload.Reply == "" {
		payload.Reply = "I'm sorry, I couldn't form a proper reply."
	}
	if payload.Suggestions == nil {
		payload.Suggestions = []string{}
	}
	return payload, nil
}

func parseTopicPrompts(raw string) ([]string, error) {
	var prompts []string
	if err := json.Unmarshal([]byte(raw), &prompts); err != nil {
		return nil, &MalformedOutputError{Raw: raw, Err: err}
	}
	return prompts, nil
}
