package story

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContent_CommandForms(t *testing.T) {
	challenges, err := ParseContent([]byte(`
challenges:
  - number: 1
    terminal: [ls, cat]
    steps:
      - commands: [ls shelves, ls shelves/]
      - commands: cat note
        last_step: true
        editor:
          text: hi
`))
	require.NoError(t, err)
	require.Len(t, challenges, 1)

	steps := challenges[0].Steps
	assert.Equal(t, []string{"ls shelves", "ls shelves/"}, steps[0].Commands)
	assert.Equal(t, []string{"cat note"}, steps[1].Commands)
	assert.True(t, steps[1].LastStep)
	assert.Equal(t, 1, steps[1].Challenge)
	require.NotNil(t, steps[1].Editor)
	assert.Equal(t, "hi", steps[1].Editor.Text)
}

func TestParseContent_BadCommands(t *testing.T) {
	_, err := ParseContent([]byte(`
challenges:
  - number: 1
    steps:
      - commands: {ls: true}
`))
	assert.Error(t, err)
}

func TestDefaultRegistry(t *testing.T) {
	reg, err := DefaultRegistry()
	require.NoError(t, err)

	c3 := reg.Get(3)
	require.NotNil(t, c3)
	assert.Len(t, c3.Steps, 3)
	assert.Equal(t, []string{"ls shelves", "ls shelves/"}, c3.Steps[0].Commands)
	assert.Equal(t, "~/my-house/my-room", c3.Steps[0].StartDir)
	assert.True(t, c3.Steps[2].LastStep)

	c4 := reg.Get(4)
	require.NotNil(t, c4)
	last := c4.Steps[len(c4.Steps)-1]
	require.NotNil(t, last.Editor)
	assert.Equal(t, "eggs\nmilk\nbread\n", last.Editor.Text)

	next, ok := reg.NextChallenge(3)
	require.True(t, ok)
	assert.Equal(t, 4, next)
}

type recordingSeeder struct {
	dirs  []string
	files map[string]string
}

func (r *recordingSeeder) Seed(dirs []string, files map[string]string) error {
	r.dirs = append(r.dirs, dirs...)
	for k, v := range files {
		r.files[k] = v
	}
	return nil
}

func TestRegistry_SeedCoversEveryChallenge(t *testing.T) {
	reg, err := DefaultRegistry()
	require.NoError(t, err)

	s := &recordingSeeder{files: map[string]string{}}
	require.NoError(t, reg.Seed(s))

	assert.Contains(t, s.dirs, "~/my-house/my-room/shelves")
	assert.Contains(t, s.dirs, "~/my-house/kitchen")
	assert.Equal(t, "eggs\nmilk\n", s.files["~/my-house/kitchen/shopping-list"])
}
