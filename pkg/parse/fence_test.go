package parse_test

import (
	"testing"

	"github.com/aretw0/studykit/pkg/parse"
	"github.com/stretchr/testify/assert"
)

func TestStripFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `  [{"front":"a"}]  `, `[{"front":"a"}]`},
		{"json tag", "```json\n[1,2]\n```", "[1,2]"},
		{"upper case tag", "```JSON\n[1,2]\n```", "[1,2]"},
		{"other tag", "```javascript\n{\"nodes\":[]}\n```", `{"nodes":[]}`},
		{"bare fence", "```\n[1]\n```", "[1]"},
		{"single line", "```json[1]```", "[1]"},
		{"missing closing fence", "```json\n[1]", "[1]"},
		{"surrounding whitespace", "\n\n  ```json\n[1]\n```  \n", "[1]"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parse.StripFence(tt.in))
		})
	}
}
