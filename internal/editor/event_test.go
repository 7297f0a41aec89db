package editor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvent_JSON(t *testing.T) {
	ev, err := ParseEvent([]byte(`{"contents": {"x": 3, "y": 1, "text": ["hello", "world"]}}` + "\n"))
	require.NoError(t, err)
	require.NotNil(t, ev.Contents)
	assert.Equal(t, 3, ev.Contents.X)
	assert.Equal(t, 1, ev.Contents.Y)
	assert.Equal(t, []string{"hello", "world"}, ev.Contents.Text)
	assert.Nil(t, ev.Prompt)
	assert.False(t, ev.Finish)
}

func TestParseEvent_PythonLiteral(t *testing.T) {
	ev, err := ParseEvent([]byte(`{'prompt': 'File Name to Write', 'response': 'yes'}`))
	require.NoError(t, err)
	require.NotNil(t, ev.Prompt)
	require.NotNil(t, ev.Response)
	assert.Equal(t, FilenamePrompt, *ev.Prompt)
	assert.Equal(t, "yes", *ev.Response)
}

func TestParseEvent_SavedAndFinish(t *testing.T) {
	ev, err := ParseEvent([]byte(`{"saved": true, "filename": "note", "finish": null}`))
	require.NoError(t, err)
	assert.True(t, ev.Saved)
	assert.Equal(t, "note", ev.Filename)
	assert.True(t, ev.Finish)
}

func TestParseEvent_Blank(t *testing.T) {
	ev, err := ParseEvent([]byte("   \n"))
	require.NoError(t, err)
	assert.Equal(t, Event{}, ev)
}

func TestParseEvent_Malformed(t *testing.T) {
	for _, line := range []string{
		"not an event",
		`{"contents": "oops"}`,
		`{"prompt": ["a", "b"]}`,
		`{"contents": {`,
	} {
		_, err := ParseEvent([]byte(line))
		var malformed *MalformedEventError
		assert.True(t, errors.As(err, &malformed), "line %q: err = %v", line, err)
	}
}

func TestParseEvent_PythonEscapes(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"tab", `{'contents': {'x': 0, 'y': 0, 'text': ['a\tb']}}`, "a\tb"},
		{"backslash", `{'contents': {'x': 0, 'y': 0, 'text': ['back\\slash']}}`, `back\slash`},
		{"both quotes", `{'contents': {'x': 0, 'y': 0, 'text': ['say "hi" don\'t']}}`, `say "hi" don't`},
		{"double quoted", `{'contents': {'x': 0, 'y': 0, 'text': ["it's"]}}`, "it's"},
		{"hex", `{'contents': {'x': 0, 'y': 0, 'text': ['caf\xe9']}}`, "café"},
		{"unicode", `{'contents': {'x': 0, 'y': 0, 'text': [u'☃ snow']}}`, "☃ snow"},
		{"newline", `{'contents': {'x': 0, 'y': 0, 'text': ['one\ntwo']}}`, "one\ntwo"},
		{"unknown escape kept", `{'contents': {'x': 0, 'y': 0, 'text': ['a\qb']}}`, `a\qb`},
		{"raw string", `{'contents': {'x': 0, 'y': 0, 'text': [r'a\tb']}}`, `a\tb`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := ParseEvent([]byte(tt.line))
			require.NoError(t, err)
			require.NotNil(t, ev.Contents)
			require.Len(t, ev.Contents.Text, 1)
			assert.Equal(t, tt.want, ev.Contents.Text[0])
		})
	}
}

func TestParseEvent_PythonPrefixesAndConstants(t *testing.T) {
	ev, err := ParseEvent([]byte(`{u'prompt': u'File Name to Write'}`))
	require.NoError(t, err)
	require.NotNil(t, ev.Prompt)
	assert.Equal(t, FilenamePrompt, *ev.Prompt)

	ev, err = ParseEvent([]byte(`{'saved': True, 'filename': b'shopping-list', 'finish': None}`))
	require.NoError(t, err)
	assert.True(t, ev.Saved)
	assert.Equal(t, "shopping-list", ev.Filename)
	assert.True(t, ev.Finish)

	ev, err = ParseEvent([]byte(`{'contents': {'x': 4, 'y': 2, 'text': ('a', 'b')}}`))
	require.NoError(t, err)
	require.NotNil(t, ev.Contents)
	assert.Equal(t, 4, ev.Contents.X)
	assert.Equal(t, []string{"a", "b"}, ev.Contents.Text)
}

func TestParseEvent_PythonMalformed(t *testing.T) {
	for _, line := range []string{
		`{'prompt': 'unterminated}`,
		`{'prompt' 'missing colon'}`,
		`{1: 'numeric key'}`,
		`{'prompt': 'x'} trailing`,
		`['not', 'a', 'dict']`,
		`{'contents': {'x': 0, 'y': 0, 'text': ['\x4']}}`,
	} {
		_, err := ParseEvent([]byte(line))
		var malformed *MalformedEventError
		assert.True(t, errors.As(err, &malformed), "line %q: err = %v", line, err)
	}
}
