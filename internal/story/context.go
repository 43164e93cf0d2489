package story

import (
	"fmt"
	"strings"
)

// Context is the evolving story state threaded through analysis. It is
// owned by the analyzer goroutine and not safe for concurrent mutation.
type Context struct {
	DocumentID string
	Title      string

	characters []*Character
	scenes     []*Scene

	currentSceneID string
	panelCount     int
	nextCharacter  int
	nextScene      int
}

// NewContext creates an empty context for a document.
func NewContext(documentID, title string) *Context {
	return &Context{DocumentID: documentID, Title: title}
}

// Characters returns all tracked characters in introduction order.
func (c *Context) Characters() []*Character {
	return c.characters
}

// Scenes returns all tracked scenes in introduction order.
func (c *Context) Scenes() []*Scene {
	return c.scenes
}

// CurrentScene returns the scene of the most recent panel, or nil.
func (c *Context) CurrentScene() *Scene {
	return c.SceneByID(c.currentSceneID)
}

// PanelCount returns how many panels have been folded in.
func (c *Context) PanelCount() int {
	return c.panelCount
}

// CharacterByID returns the tracked character with the given ID, or nil.
func (c *Context) CharacterByID(id string) *Character {
	for _, ch := range c.characters {
		if ch.ID == id {
			return ch
		}
	}
	return nil
}

// SceneByID returns the tracked scene with the given ID, or nil.
func (c *Context) SceneByID(id string) *Scene {
	for _, s := range c.scenes {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// AddCharacter registers a new character and assigns its ID.
func (c *Context) AddCharacter(ch *Character) *Character {
	c.nextCharacter++
	ch.ID = fmt.Sprintf("char-%03d", c.nextCharacter)
	c.characters = append(c.characters, ch)
	return ch
}

// AddScene registers a new scene and assigns its ID.
func (c *Context) AddScene(s *Scene) *Scene {
	c.nextScene++
	s.ID = fmt.Sprintf("scene-%03d", c.nextScene)
	c.scenes = append(c.scenes, s)
	return s
}

// SetCurrentScene records which scene the latest panel takes place in.
func (c *Context) SetCurrentScene(id string) {
	c.currentSceneID = id
}

// AdvancePanel marks one more panel as folded into the context.
func (c *Context) AdvancePanel() {
	c.panelCount++
}

// Summary renders the context as prompt text for the vision service so
// its analysis of the next panel can reuse established identities.
func (c *Context) Summary() string {
	var b strings.Builder
	if len(c.characters) > 0 {
		b.WriteString("Known characters:\n")
		for _, ch := range c.characters {
			fmt.Fprintf(&b, "- %s (%s): %s\n", ch.ID, ch.DisplayName(), ch.Description)
		}
	}
	if scene := c.CurrentScene(); scene != nil {
		fmt.Fprintf(&b, "Current location: %s. %s\n", scene.Location, scene.Description)
	}
	if b.Len() == 0 {
		return "This is the first panel of the story."
	}
	return strings.TrimSpace(b.String())
}
