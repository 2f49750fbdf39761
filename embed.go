package impostor

import (
	_ "embed"
)

// Embed the word catalog used to seed rounds
//
//go:embed words.yaml
var WordsYAML []byte
