package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		found bool
	}{
		{
			name:  "bare object",
			input: `{"a": 1}`,
			want:  `{"a": 1}`,
			found: true,
		},
		{
			name:  "leading commentary",
			input: "Here is the profile you asked for:\n```json\n{\"industry\": \"Robotics\"}\n```",
			want:  `{"industry": "Robotics"}`,
			found: true,
		},
		{
			name:  "trailing commentary",
			input: `{"a": 1} Let me know if you need anything else.`,
			want:  `{"a": 1}`,
			found: true,
		},
		{
			name:  "nested objects",
			input: `x {"a": {"b": 2}} y`,
			want:  `{"a": {"b": 2}}`,
			found: true,
		},
		{
			name:  "brace inside string",
			input: `{"note": "uses {braces} and \"quotes\""}`,
			want:  `{"note": "uses {braces} and \"quotes\""}`,
			found: true,
		},
		{
			name:  "no object",
			input: "I could not produce a profile.",
			found: false,
		},
		{
			name:  "unbalanced",
			input: `{"a": 1`,
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := extractJSONObject(tt.input)
			assert.Equal(t, tt.found, found)
			if tt.found {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseAIProfile(t *testing.T) {
	text := "Sure! " + `{"company_overview": "Builds robots.", "services": ["Assembly"], "industry": "Robotics"}`

	profile, err := parseAIProfile(text)
	require.NoError(t, err)
	assert.Equal(t, "Builds robots.", profile.CompanyOverview)
	assert.Equal(t, "Robotics", profile.Industry)
	assert.Equal(t, []string{"Assembly"}, profile.Services)
}

func TestParseAIProfile_Malformed(t *testing.T) {
	_, err := parseAIProfile(`{"industry": }`)
	require.Error(t, err)

	_, err = parseAIProfile("no json here")
	require.ErrorIs(t, err, errNoJSONObject)
}
