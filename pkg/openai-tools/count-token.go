package openai_tools

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// CountToken reports how many tokens the text encodes to under the given
// model's tokenizer, falling back to cl100k_base for models tiktoken
// does not know.
func CountToken(text string, model string) (int, error) {
	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		encoding, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return 0, fmt.Errorf("failed to get encoding: %w", err)
		}
	}
	return len(encoding.Encode(text, nil, nil)), nil
}
