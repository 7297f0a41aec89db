package story

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed content/*.yaml
var contentFS embed.FS

// Commands accepts either a single command string or a list of them.
type Commands []string

func (c *Commands) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*c = Commands{s}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*c = list
		return nil
	default:
		return fmt.Errorf("line %d: commands must be a string or a list", node.Line)
	}
}

type contentFile struct {
	Challenges []contentChallenge `yaml:"challenges"`
}

type contentChallenge struct {
	Number   int               `yaml:"number"`
	Title    string            `yaml:"title"`
	Terminal []string          `yaml:"terminal"`
	Dirs     []string          `yaml:"dirs"`
	Files    map[string]string `yaml:"files"`
	Steps    []contentStep     `yaml:"steps"`
}

type contentStep struct {
	Story    []string     `yaml:"story"`
	StartDir string       `yaml:"start_dir"`
	EndDir   string       `yaml:"end_dir"`
	Commands Commands     `yaml:"commands"`
	Hints    string       `yaml:"hints"`
	LastStep bool         `yaml:"last_step"`
	Editor   *contentGoal `yaml:"editor"`
}

type contentGoal struct {
	Text string `yaml:"text"`
	File string `yaml:"file"`
}

// ParseContent decodes a content document into challenges.
func ParseContent(data []byte) ([]*Challenge, error) {
	var doc contentFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing content: %w", err)
	}

	result := make([]*Challenge, 0, len(doc.Challenges))
	for _, cc := range doc.Challenges {
		c := &Challenge{
			Number:   cc.Number,
			Title:    cc.Title,
			Terminal: cc.Terminal,
			Dirs:     cc.Dirs,
			Files:    cc.Files,
		}
		for _, cs := range cc.Steps {
			def := Definition{
				Challenge: cc.Number,
				Story:     cs.Story,
				StartDir:  cs.StartDir,
				EndDir:    cs.EndDir,
				Commands:  []string(cs.Commands),
				Hints:     cs.Hints,
				LastStep:  cs.LastStep,
			}
			if cs.Editor != nil {
				def.Editor = &EditorGoal{Text: cs.Editor.Text, File: cs.Editor.File}
			}
			c.Steps = append(c.Steps, def)
		}
		result = append(result, c)
	}
	return result, nil
}

// LoadRegistry parses data and registers every challenge in it.
func LoadRegistry(data []byte) (*Registry, error) {
	challenges, err := ParseContent(data)
	if err != nil {
		return nil, err
	}
	reg := NewRegistry()
	for _, c := range challenges {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// DefaultRegistry loads the bundled challenges.
func DefaultRegistry() (*Registry, error) {
	entries, err := contentFS.ReadDir("content")
	if err != nil {
		return nil, fmt.Errorf("reading bundled content: %w", err)
	}

	reg := NewRegistry()
	for _, e := range entries {
		data, err := contentFS.ReadFile("content/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", e.Name(), err)
		}
		challenges, err := ParseContent(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		for _, c := range challenges {
			if err := reg.Register(c); err != nil {
				return nil, fmt.Errorf("%s: %w", e.Name(), err)
			}
		}
	}
	return reg, nil
}
