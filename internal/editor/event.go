package editor

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Contents is a full snapshot of the editor buffer.
type Contents struct {
	X    int      `yaml:"x"`
	Y    int      `yaml:"y"`
	Text []string `yaml:"text"`
}

// Event is one line of the editor's event stream. Any combination of the
// payloads may be present.
type Event struct {
	Contents  *Contents
	Statusbar *string
	Response  *string
	Prompt    *string

	// Saved is set when the editor wrote the buffer to Filename.
	Saved    bool
	Filename string

	// Finish marks the editor process exiting.
	Finish bool
}

// MalformedEventError reports a stream line that could not be parsed.
type MalformedEventError struct {
	Line string
	Err  error
}

func (e *MalformedEventError) Error() string {
	return fmt.Sprintf("malformed editor event %q: %v", e.Line, e.Err)
}

func (e *MalformedEventError) Unwrap() error { return e.Err }

// ParseEvent decodes a single stream line. The instrumented editor writes
// either JSON or Python dict literals (repr output). JSON is read as YAML;
// anything else goes through the Python literal decoder so its escapes and
// string prefixes keep their meaning.
func ParseEvent(line []byte) (Event, error) {
	var ev Event

	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return ev, nil
	}

	raw, err := decodeMapping(trimmed)
	if err != nil {
		return ev, &MalformedEventError{Line: string(trimmed), Err: err}
	}
	if raw == nil {
		return ev, &MalformedEventError{Line: string(trimmed), Err: fmt.Errorf("not a mapping")}
	}

	fail := func(key string, err error) (Event, error) {
		return Event{}, &MalformedEventError{
			Line: string(trimmed),
			Err:  fmt.Errorf("decoding %s: %w", key, err),
		}
	}

	if node, ok := raw["contents"]; ok {
		var c Contents
		if err := node.Decode(&c); err != nil {
			return fail("contents", err)
		}
		ev.Contents = &c
	}

	for key, dst := range map[string]**string{
		"statusbar": &ev.Statusbar,
		"response":  &ev.Response,
		"prompt":    &ev.Prompt,
	} {
		node, ok := raw[key]
		if !ok {
			continue
		}
		var s string
		if err := node.Decode(&s); err != nil {
			return fail(key, err)
		}
		*dst = &s
	}

	if _, ok := raw["saved"]; ok {
		ev.Saved = true
		if node, ok := raw["filename"]; ok {
			if err := node.Decode(&ev.Filename); err != nil {
				return fail("filename", err)
			}
		}
	}

	_, ev.Finish = raw["finish"]

	return ev, nil
}

func decodeMapping(line []byte) (map[string]yaml.Node, error) {
	var raw map[string]yaml.Node
	if json.Valid(line) {
		if err := yaml.Unmarshal(line, &raw); err != nil {
			return nil, err
		}
		return raw, nil
	}

	v, err := parsePyLiteral(line)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("not a mapping")
	}
	raw = make(map[string]yaml.Node, len(m))
	for k, val := range m {
		var n yaml.Node
		if err := n.Encode(val); err != nil {
			return nil, fmt.Errorf("re-encoding %s: %w", k, err)
		}
		raw[k] = n
	}
	return raw, nil
}
