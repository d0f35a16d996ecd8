package promptstore

import "encoding/json"

func marshalPrompt(p Prompt) ([]byte, error) {
	return json.Marshal(p)
}

func unmarshalPrompt(data []byte) (Prompt, error) {
	var p Prompt
	if err := json.Unmarshal(data, &p); err != nil {
		return Prompt{}, err
	}
	return p, nil
}
