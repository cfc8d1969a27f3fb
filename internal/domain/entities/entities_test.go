package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCategories(t *testing.T) {
	categories := Categories()
	assert.Len(t, categories, 14)
	assert.Equal(t, "Code Generation", categories[0])
	assert.Equal(t, "Other", categories[13])

	// Mutating the returned slice must not touch the registry.
	categories[0] = "Astrology"
	assert.Equal(t, "Code Generation", Categories()[0])
}

func TestIsCategory(t *testing.T) {
	assert.True(t, IsCategory("Testing"))
	assert.True(t, IsCategory("Machine Learning"))
	assert.False(t, IsCategory("testing"))
	assert.False(t, IsCategory(""))
	assert.False(t, IsCategory("Astrology"))
}

func TestHasNonEmptyTag(t *testing.T) {
	assert.True(t, HasNonEmptyTag([]string{"go"}))
	assert.True(t, HasNonEmptyTag([]string{"", "  ", "go"}))
	assert.False(t, HasNonEmptyTag([]string{"", "  "}))
	assert.False(t, HasNonEmptyTag(nil))
}

func TestAgentPatch_Apply(t *testing.T) {
	agent := NewAgent("Bot", "A very small test agent for checks", []string{"be helpful"}, "Testing", []string{"go"}, []string{"git"}, true)
	agent.UpdatedAt = agent.UpdatedAt.Add(-time.Hour)
	before := agent.UpdatedAt

	name := "Renamed Bot"
	isPublic := false
	patch := AgentPatch{Name: &name, IsPublic: &isPublic, Tags: []string{"go", "ci"}}
	patch.Apply(agent)

	assert.Equal(t, "Renamed Bot", agent.Name)
	assert.False(t, agent.IsPublic)
	assert.Equal(t, []string{"go", "ci"}, agent.Tags)
	// Absent fields stay untouched.
	assert.Equal(t, "A very small test agent for checks", agent.Description)
	assert.Equal(t, []string{"be helpful"}, agent.Rules)
	assert.Equal(t, []string{"git"}, agent.Tools)
	assert.Equal(t, "Testing", agent.Category)
	assert.True(t, agent.UpdatedAt.After(before))
}

func TestPaginationOpts_Limit(t *testing.T) {
	assert.Equal(t, int64(20), PaginationOpts{}.Limit())
	assert.Equal(t, int64(20), PaginationOpts{NumItems: -5}.Limit())
	assert.Equal(t, int64(7), PaginationOpts{NumItems: 7}.Limit())
	assert.Equal(t, int64(100), PaginationOpts{NumItems: 500}.Limit())
}

func TestNewUser(t *testing.T) {
	user := NewUser(&Identity{Subject: "subject-1", Name: "Dana", Email: "dana@example.com"})
	assert.Equal(t, "subject-1", user.SubjectID)
	assert.Equal(t, "Dana", user.Name)
	assert.Equal(t, "dana@example.com", user.Email)
	assert.Zero(t, user.AgentCount)

	bare := NewUser(&Identity{Subject: "subject-2"})
	assert.Equal(t, "Anonymous", bare.Name)
}

func TestEmptyAgentPage(t *testing.T) {
	page := EmptyAgentPage()
	assert.Empty(t, page.Agents)
	assert.True(t, page.IsDone)
	assert.Empty(t, page.ContinueCursor)
}
