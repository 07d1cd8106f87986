package world

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// TargetKind enumerates where a dialog response leads.
type TargetKind int

const (
	// TargetEnd marks an absent response. It is the zero value.
	TargetEnd TargetKind = iota
	// TargetNode continues the conversation at a concrete node index.
	TargetNode
	// TargetQuestCheck defers to the NPC's quest resolver. The cursor
	// advances by one on failure and by two on success.
	TargetQuestCheck
)

func (k TargetKind) String() string {
	switch k {
	case TargetEnd:
		return "end"
	case TargetNode:
		return "node"
	case TargetQuestCheck:
		return "quest"
	default:
		return "unknown"
	}
}

// Content files written for the badge firmware used -1 for "no response"
// and -2 for "check quest". Both are still accepted when loading.
const (
	legacyEnd        = -1
	legacyQuestCheck = -2
)

// Target is the destination of one dialog response.
type Target struct {
	kind TargetKind
	node int
}

// End returns the absent target.
func End() Target { return Target{kind: TargetEnd} }

// Node returns a target that moves the cursor to index i.
func Node(i int) Target { return Target{kind: TargetNode, node: i} }

// QuestCheck returns the quest-check target.
func QuestCheck() Target { return Target{kind: TargetQuestCheck} }

func (t Target) Kind() TargetKind { return t.kind }

// Index is only meaningful for TargetNode.
func (t Target) Index() int { return t.node }

func (t Target) IsEnd() bool { return t.kind == TargetEnd }

// IsZero lets omitempty drop absent targets while keeping Node(0).
func (t Target) IsZero() bool { return t.IsEnd() }

func (t Target) String() string {
	if t.kind == TargetNode {
		return strconv.Itoa(t.node)
	}
	return t.kind.String()
}

// UnmarshalYAML accepts a node index, "end", "quest", or the legacy -1/-2 values.
func (t *Target) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: dialog target must be a scalar", value.Line)
	}

	raw := strings.TrimSpace(value.Value)
	switch strings.ToLower(raw) {
	case "", "end", "none", "~", "null":
		*t = End()
		return nil
	case "quest", "check", "quest_check":
		*t = QuestCheck()
		return nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("line %d: invalid dialog target %q", value.Line, raw)
	}

	switch {
	case n == legacyEnd:
		*t = End()
	case n == legacyQuestCheck:
		*t = QuestCheck()
	case n < 0:
		return fmt.Errorf("line %d: invalid dialog target %d", value.Line, n)
	default:
		*t = Node(n)
	}
	return nil
}

// MarshalYAML writes the canonical form.
func (t Target) MarshalYAML() (interface{}, error) {
	switch t.kind {
	case TargetNode:
		return t.node, nil
	case TargetQuestCheck:
		return "quest", nil
	default:
		return "end", nil
	}
}
