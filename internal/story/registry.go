package story

import (
	"fmt"
	"slices"

	"github.com/druarnfield/linuxstory/internal/exec"
	"github.com/druarnfield/linuxstory/internal/gate"
)

// Challenge is an ordered chain of steps sharing one terminal.
type Challenge struct {
	Number int
	Title  string

	// Terminal is the allow-list of command names for every step.
	Terminal []string
	Steps    []Definition

	// Dirs and Files seed the sandbox before the challenge starts.
	Dirs  []string
	Files map[string]string
}

// Registry holds challenges by number and builds their steps.
type Registry struct {
	challenges map[int]*Challenge
	numbers    []int // ascending
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{challenges: make(map[int]*Challenge)}
}

// Register validates c and adds it, replacing any challenge with the same
// number.
func (r *Registry) Register(c *Challenge) error {
	if len(c.Steps) == 0 {
		return fmt.Errorf("challenge %d has no steps", c.Number)
	}
	for i := range c.Steps {
		def := &c.Steps[i]
		def.Challenge = c.Number
		last := i == len(c.Steps)-1
		if def.LastStep != last {
			return fmt.Errorf("challenge %d step %d: last_step must be set on the final step only", c.Number, i+1)
		}
		if len(def.Commands) == 0 {
			return fmt.Errorf("challenge %d step %d has no commands", c.Number, i+1)
		}
		for _, cmd := range def.Commands {
			// A command off the terminal could never be accepted.
			if name, _ := exec.Split(cmd); !slices.Contains(c.Terminal, name) {
				return fmt.Errorf("challenge %d step %d: %q is not on the terminal", c.Number, i+1, cmd)
			}
		}
	}

	if _, exists := r.challenges[c.Number]; !exists {
		r.numbers = append(r.numbers, c.Number)
		slices.Sort(r.numbers)
	}
	r.challenges[c.Number] = c
	return nil
}

// Get returns the challenge with the given number, or nil.
func (r *Registry) Get(n int) *Challenge {
	return r.challenges[n]
}

// All returns every challenge in ascending order.
func (r *Registry) All() []*Challenge {
	result := make([]*Challenge, 0, len(r.numbers))
	for _, n := range r.numbers {
		result = append(result, r.challenges[n])
	}
	return result
}

// First returns the lowest challenge number.
func (r *Registry) First() (int, bool) {
	if len(r.numbers) == 0 {
		return 0, false
	}
	return r.numbers[0], true
}

// NextChallenge returns the lowest registered number above n.
func (r *Registry) NextChallenge(n int) (int, bool) {
	for _, m := range r.numbers {
		if m > n {
			return m, true
		}
	}
	return 0, false
}

// Entry builds the first step of challenge n.
func (r *Registry) Entry(n int, xp XP) (Step, error) {
	return r.Step(n, 0, xp)
}

// Step builds step i (zero-based) of challenge n.
func (r *Registry) Step(n, i int, xp XP) (Step, error) {
	c := r.challenges[n]
	if c == nil {
		return nil, fmt.Errorf("challenge %d not found", n)
	}
	if i < 0 || i >= len(c.Steps) {
		return nil, fmt.Errorf("challenge %d has no step %d", n, i+1)
	}

	base := ScriptedStep{
		def:   c.Steps[i],
		index: i,
		gate:  gate.New(c.Terminal),
		reg:   r,
		xp:    xp,
	}
	if base.def.Editor != nil {
		return &EditorStep{ScriptedStep: base}, nil
	}
	return &base, nil
}

// Seeder creates the files a challenge expects to find.
type Seeder interface {
	Seed(dirs []string, files map[string]string) error
}

// Seed lays out every challenge's directories and files.
func (r *Registry) Seed(s Seeder) error {
	for _, c := range r.All() {
		if err := s.Seed(c.Dirs, c.Files); err != nil {
			return fmt.Errorf("seeding challenge %d: %w", c.Number, err)
		}
	}
	return nil
}
